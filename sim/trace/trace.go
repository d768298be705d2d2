package trace

// TraceLevel controls the verbosity of run tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelTicks records every sampled row and every delivered chunk.
	TraceLevelTicks TraceLevel = "ticks"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:  true,
	TraceLevelTicks: true,
	"":              true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// RunTrace collects per-tick records during one headless run.
type RunTrace struct {
	Level      TraceLevel
	Rows       []RowRecord
	Deliveries []DeliveryRecord
	Outcome    OutcomeRecord
}

// NewRunTrace creates a RunTrace ready for recording.
func NewRunTrace(level TraceLevel) *RunTrace {
	return &RunTrace{
		Level:      level,
		Rows:       make([]RowRecord, 0),
		Deliveries: make([]DeliveryRecord, 0),
	}
}

// RecordRow appends a sampled-row record.
func (rt *RunTrace) RecordRow(record RowRecord) {
	rt.Rows = append(rt.Rows, record)
}

// RecordDelivery appends a chunk-delivery record.
func (rt *RunTrace) RecordDelivery(record DeliveryRecord) {
	rt.Deliveries = append(rt.Deliveries, record)
}

// SetOutcome records how the run ended.
func (rt *RunTrace) SetOutcome(record OutcomeRecord) {
	rt.Outcome = record
}
