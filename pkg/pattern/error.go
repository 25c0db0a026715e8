package pattern

// Error carries a failed run's user-facing message.
type Error struct {
	Source  string // where the failure happened, e.g. "download"
	Message string
}

func (e *Error) Type() PatternType { return PatternTypeError }
