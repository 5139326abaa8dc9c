package types

// Outcome is the terminal state of a run.
type Outcome int

const (
	// OutcomeSuccess means every row was written.
	OutcomeSuccess Outcome = iota
	// OutcomePartial means the batch finished but some rows failed.
	OutcomePartial
	// OutcomeFatal means loading failed and nothing was processed.
	OutcomeFatal
	// OutcomeInterrupted means the operator cancelled the run between rows.
	OutcomeInterrupted
)

// String returns the log label of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomePartial:
		return "partial"
	case OutcomeFatal:
		return "load_failure"
	case OutcomeInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// ExitCode maps an outcome to the process exit status.
func (o Outcome) ExitCode() int {
	switch o {
	case OutcomeSuccess:
		return 0
	case OutcomePartial:
		return 2
	case OutcomeInterrupted:
		return 130
	default:
		return 1
	}
}
