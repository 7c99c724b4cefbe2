package domain

type OutcomeStatus int

const (
	OutcomeSuccess OutcomeStatus = iota
	OutcomeSkipped
	OutcomeFailed
)

func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeSuccess:
		return "success"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome records what happened to a single input file.
type Outcome struct {
	Path       string
	Status     OutcomeStatus
	OutputPath string
	Reason     string
	Err        error
	// BackupPath is set when a failed input was copied into the error directory.
	BackupPath string
	BackupErr  error
}

type Summary struct {
	JobID     string
	Total     int
	Processed int
	Succeeded int
	Failed    int
	Skipped   int
	Cancelled bool
	OutputDir string
	ErrorDir  string
	OriginDir string
	Outcomes  []Outcome
}

func (s *Summary) Record(o Outcome) {
	s.Processed++
	switch o.Status {
	case OutcomeSuccess:
		s.Succeeded++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	}
	s.Outcomes = append(s.Outcomes, o)
}
