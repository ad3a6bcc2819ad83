package trace

import "github.com/google/uuid"

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every lottery round and ticket adjustment.
	TraceLevelDecisions TraceLevel = "decisions"
)

var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects decision records during a run. RunID tells
// traces of side-by-side runs apart.
type SimulationTrace struct {
	RunID     string
	Config    TraceConfig
	Lotteries []LotteryRecord
	Tickets   []TicketRecord
	Failures  []FailureRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		RunID:     uuid.NewString(),
		Config:    config,
		Lotteries: make([]LotteryRecord, 0),
		Tickets:   make([]TicketRecord, 0),
		Failures:  make([]FailureRecord, 0),
	}
}

// Enabled reports whether records should be collected.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && st.Config.Level == TraceLevelDecisions
}

// RecordLottery appends a lottery record, numbering the round.
func (st *SimulationTrace) RecordLottery(record LotteryRecord) {
	record.Round = len(st.Lotteries) + 1
	st.Lotteries = append(st.Lotteries, record)
}

// RecordTicket appends a ticket adjustment record.
func (st *SimulationTrace) RecordTicket(record TicketRecord) {
	st.Tickets = append(st.Tickets, record)
}

// RecordFailure appends a failure record.
func (st *SimulationTrace) RecordFailure(record FailureRecord) {
	st.Failures = append(st.Failures, record)
}
