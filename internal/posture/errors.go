package posture

import "fmt"

// Kind classifies a fatal error.
type Kind int

const (
	// KindUsage covers missing or malformed command-line arguments.
	KindUsage Kind = iota + 1
	// KindInputFormat covers an unreadable template or rules document.
	KindInputFormat
	// KindValidation covers a bad level, rule or component reference.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "usage"
	case KindInputFormat:
		return "input format"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is a classified fatal error. Every Error ends the run.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return e.Msg
	case e.Msg == "":
		return e.Err.Error()
	default:
		return e.Msg + ": " + e.Err.Error()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the kind sentinels below, so errors.Is(err, ErrValidation)
// holds for every validation Error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Msg != "" || t.Err != nil {
		return false
	}
	return t.Kind == e.Kind
}

// Kind sentinels for errors.Is.
var (
	ErrUsage       = &Error{Kind: KindUsage}
	ErrInputFormat = &Error{Kind: KindInputFormat}
	ErrValidation  = &Error{Kind: KindValidation}
)

// Usagef returns a usage error.
func Usagef(format string, args ...any) error {
	return &Error{Kind: KindUsage, Msg: fmt.Sprintf(format, args...)}
}

// InputFormat wraps err as an input format error with a short context.
func InputFormat(msg string, err error) error {
	return &Error{Kind: KindInputFormat, Msg: msg, Err: err}
}

// Validationf returns a validation error.
func Validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}
