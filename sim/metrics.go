// Computes and prints the simulated clock rate of a finished run.

package sim

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// Hertz returns the simulated clock rate for ticks advanced over elapsed
// wall time, or 0 when no time elapsed.
func Hertz(ticks int64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(ticks) / elapsed.Seconds()
}

// Speed prints the simulated clock rate achieved over elapsed wall time.
func (r *Reporter) Speed(ticks int64, elapsed time.Duration) {
	hz := Hertz(ticks, elapsed)
	line := fmt.Sprintf("%s Hz (%s ticks in %s milliseconds)",
		FormatHertz(hz), humanize.Comma(ticks), humanize.Comma(elapsed.Milliseconds()))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.println(line)
}

// FormatHertz renders a clock rate with a precision that shrinks as the
// rate grows: whole numbers from 100 Hz, then one, two, four and finally
// seven decimals. The rate is truncated, not rounded, and an integral
// result prints without a fractional part.
func FormatHertz(hz float64) string {
	if math.IsNaN(hz) || math.IsInf(hz, 0) || hz <= 0 {
		return "0"
	}
	var decimals int
	switch {
	case hz >= 100:
		decimals = 0
	case hz >= 10:
		decimals = 1
	case hz >= 1:
		decimals = 2
	case hz >= 0.01:
		decimals = 4
	default:
		decimals = 7
	}
	scale := math.Pow10(decimals)
	t := math.Trunc(hz*scale) / scale
	if t == math.Trunc(t) {
		return strconv.FormatInt(int64(t), 10)
	}
	return strconv.FormatFloat(t, 'f', -1, 64)
}
