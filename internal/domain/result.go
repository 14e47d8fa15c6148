package domain

// Status classifies the outcome of a single transfer.
type Status string

const (
	StatusCopied  Status = "copied"
	StatusMoved   Status = "moved"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Outcome records what happened to one planned entry. DestPath is the final
// destination, which differs from dest/basename when a conflict was renamed.
type Outcome struct {
	SourcePath string
	DestPath   string
	Status     Status
	Renamed    bool
	Reason     string
}

// Summary aggregates a whole run. Outcomes preserve plan order.
type Summary struct {
	RunID     string
	Copy      bool
	Succeeded int
	Failed    int
	Skipped   int
	Bytes     int64
	NoMatches bool
	Outcomes  []Outcome
}

// OK reports whether the run finished without per-file failures.
func (s Summary) OK() bool {
	return s.Failed == 0
}

// Record appends an outcome and updates the counters.
func (s *Summary) Record(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
	switch o.Status {
	case StatusFailed:
		s.Failed++
	case StatusSkipped:
		s.Skipped++
	default:
		s.Succeeded++
	}
}
