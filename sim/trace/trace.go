package trace

// TraceLevel controls the verbosity of lifecycle tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelLifecycle captures every arrival and counter grant.
	TraceLevelLifecycle TraceLevel = "lifecycle"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelLifecycle: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// Enabled reports whether level records anything.
func (level TraceLevel) Enabled() bool {
	return level == TraceLevelLifecycle
}

// SimulationTrace collects lifecycle records during a checkout simulation.
type SimulationTrace struct {
	Level    TraceLevel
	Arrivals []ArrivalRecord
	Grants   []GrantRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(level TraceLevel) *SimulationTrace {
	return &SimulationTrace{
		Level:    level,
		Arrivals: make([]ArrivalRecord, 0),
		Grants:   make([]GrantRecord, 0),
	}
}

// RecordArrival appends an arrival record.
func (st *SimulationTrace) RecordArrival(record ArrivalRecord) {
	st.Arrivals = append(st.Arrivals, record)
}

// RecordGrant appends a grant record.
func (st *SimulationTrace) RecordGrant(record GrantRecord) {
	st.Grants = append(st.Grants, record)
}
