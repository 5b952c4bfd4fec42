package hub

// Error codes reported by the hub.
const (
	CodeNilArgument       = "NIL_ARGUMENT"
	CodeAlreadySubscribed = "ALREADY_SUBSCRIBED"
)

// Error represents a hub error
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches errors by code, so errors.Is(err, ErrAlreadySubscribed) works
// regardless of the message text.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// ErrAlreadySubscribed is returned by Subscribe when the subscriber already
// holds an active subscription for the same topic. The existing subscription
// is left untouched.
var ErrAlreadySubscribed = &Error{
	Code:    CodeAlreadySubscribed,
	Message: "subscriber already has an active subscription for this topic",
}

func nilArgument(what string) error {
	return &Error{Code: CodeNilArgument, Message: what + " cannot be nil"}
}

func emptyArgument(what string) error {
	return &Error{Code: CodeNilArgument, Message: what + " cannot be empty"}
}
