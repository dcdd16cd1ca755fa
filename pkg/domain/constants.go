package domain

// Outcome describes what happened to a single document during a batch run.
type Outcome string

const (
	OutcomeWritten Outcome = "written"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Operation names used in DocumentError.
const (
	OpList      = "list"
	OpLoad      = "load"
	OpSelect    = "select"
	OpFormat    = "format"
	OpWrite     = "write"
	OpTransform = "transform"
)
