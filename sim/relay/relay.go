// Package relay drains a live input stream into ordered chunks on a
// background goroutine and hands them to a synchronous consumer through a
// single non-blocking poll.
//
// The package has no dependency on sim; a chunk is a plain []rune.
package relay

import (
	"context"
	"io"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// BufferSize bounds the number of bytes captured by a single read, and
// therefore the size of a chunk.
const BufferSize = 32

// joinGrace bounds how long Stop waits for a listener blocked in a read that
// cannot be cancelled.
const joinGrace = 100 * time.Millisecond

// Chunk is an immutable batch of characters captured by one read. A
// multi-byte character split across reads is delivered whole with the
// later read. Bytes that are not valid UTF-8, including a sequence left
// incomplete when the stream ends, are delivered as U+FFFD, one per byte.
type Chunk []rune

// canceler is implemented by readers whose blocking Read can be interrupted,
// such as github.com/muesli/cancelreader.
type canceler interface {
	Cancel() bool
}

// Relay owns exclusive read access to one input stream for its lifetime.
type Relay struct {
	r   io.Reader
	log *logrus.Entry

	mu    sync.Mutex
	queue []Chunk

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
	err       error // terminal read error, nil on EOF or cancellation
}

// New returns a relay reading from r. The listener does not run until
// Start is called.
func New(r io.Reader, log *logrus.Entry) *Relay {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Relay{
		r:    r,
		log:  log,
		done: make(chan struct{}),
	}
}

// Start launches the listener goroutine. It is a no-op after the first
// call. Cancelling ctx stops the listener like Stop does.
func (rl *Relay) Start(ctx context.Context) {
	rl.startOnce.Do(func() {
		ctx, rl.cancel = context.WithCancel(ctx)
		go rl.listen(ctx)
		go func() {
			select {
			case <-ctx.Done():
				rl.interrupt()
			case <-rl.done:
			}
		}()
	})
}

// Poll removes and returns the oldest pending chunk. It never blocks; ok is
// false when no chunk is pending.
func (rl *Relay) Poll() (chunk Chunk, ok bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if len(rl.queue) == 0 {
		return nil, false
	}
	chunk = rl.queue[0]
	rl.queue[0] = nil
	rl.queue = rl.queue[1:]
	return chunk, true
}

// Pending returns the number of chunks waiting to be polled.
func (rl *Relay) Pending() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.queue)
}

// Stop signals the listener to terminate and waits for it to exit. If the
// listener is blocked in a read that cannot be interrupted, Stop gives up
// after a short grace period and the goroutine exits on its next wake-up.
// Chunks already queued remain available to Poll.
func (rl *Relay) Stop() {
	rl.stopOnce.Do(func() {
		if rl.cancel == nil {
			return
		}
		rl.cancel()
		rl.interrupt()
		select {
		case <-rl.done:
		case <-time.After(joinGrace):
			rl.log.Debug("input listener still blocked in read; not waiting for it")
		}
	})
}

// Done is closed once the listener has exited.
func (rl *Relay) Done() <-chan struct{} { return rl.done }

// Err returns the read error that terminated the listener, if any. It is
// only meaningful after Done is closed.
func (rl *Relay) Err() error {
	select {
	case <-rl.done:
		return rl.err
	default:
		return nil
	}
}

func (rl *Relay) interrupt() {
	if c, ok := rl.r.(canceler); ok {
		c.Cancel()
	}
}

func (rl *Relay) listen(ctx context.Context) {
	defer close(rl.done)
	buf := make([]byte, BufferSize)
	var partial []byte // incomplete UTF-8 sequence carried to the next read
	for {
		if ctx.Err() != nil {
			rl.log.Debug("input listener cancelled")
			return
		}
		n, err := rl.r.Read(buf)
		if n > 0 && ctx.Err() == nil {
			var text []byte
			text, partial = splitComplete(append(partial, buf[:n]...))
			if len(text) > 0 {
				rl.enqueue(Chunk([]rune(string(text))))
			}
		}
		if err != nil {
			if len(partial) > 0 && ctx.Err() == nil {
				rl.enqueue(Chunk([]rune(string(partial))))
			}
			if err != io.EOF && ctx.Err() == nil {
				rl.err = err
				rl.log.WithError(err).Debug("input listener stopped on read error")
			} else {
				rl.log.Debug("input listener reached end of stream")
			}
			return
		}
	}
}

func (rl *Relay) enqueue(c Chunk) {
	rl.mu.Lock()
	rl.queue = append(rl.queue, c)
	rl.mu.Unlock()
}

// splitComplete splits b into a prefix of complete UTF-8 sequences and a
// trailing incomplete sequence of at most utf8.UTFMax-1 bytes.
func splitComplete(b []byte) (complete, rest []byte) {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		c := b[len(b)-i]
		if !utf8.RuneStart(c) {
			continue
		}
		if !utf8.FullRune(b[len(b)-i:]) {
			return b[:len(b)-i], append([]byte(nil), b[len(b)-i:]...)
		}
		break
	}
	return b, nil
}
