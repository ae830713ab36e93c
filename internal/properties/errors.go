package properties

// Error is a configuration failure reported to the user. Kind is the
// sentinel identifying the condition so callers can match it with errors.Is.
type Error struct {
	Kind    error
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the sentinel kind.
func (e *Error) Unwrap() error {
	return e.Kind
}

// NewError builds an Error of the given kind.
func NewError(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}
