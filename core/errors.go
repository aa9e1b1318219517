package core

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// General error codes
const (
	NOERROR    int = 0
	EMISSING   int = 122 // patch data for a required URI has not been supplied
	EINVALID   int = 123 // validation failed / API misuse
	EINTERNAL  int = 125 // internal error
	EMALFORMED int = 126 // structural violation in font data
	EENCODING  int = 127 // unrecognized patch encoding
	EEMPTY     int = 128 // nothing left to apply
	EPATCH     int = 129 // an external patch applier failed
	ENOTIMPL   int = 130 // data format not implemented
)

var codeText = map[int]string{
	NOERROR:    "OK",
	EMISSING:   "missing patches",
	EINVALID:   "invalid",
	EINTERNAL:  "internal error",
	EMALFORMED: "malformed data",
	EENCODING:  "unrecognized encoding",
	EEMPTY:     "empty patch list",
	EPATCH:     "patch application failed",
	ENOTIMPL:   "not implemented",
}

func errorText(code int) string {
	if text, ok := codeText[code]; ok {
		return text
	}
	return "undefined error"
}

// AppError is an error carrying a code and a message meant for users.
type AppError interface {
	error
	ErrorCode() int
	UserMessage() string
}

// coreError wraps a cause. Without a cause of its own, the cause is the
// text of the code.
type coreError struct {
	error
	code int
	msg  string
}

var _ AppError = coreError{}

func (e coreError) Unwrap() error       { return e.error }
func (e coreError) ErrorCode() int      { return e.code }
func (e coreError) UserMessage() string { return e.msg }

func (e coreError) Error() string {
	if e.msg == "" || e.msg == e.error.Error() {
		return fmt.Sprintf("[%d] %v", e.code, e.error)
	}
	return fmt.Sprintf("[%d] %s: %v", e.code, e.msg, e.error)
}

// Error creates an error with a code and a user message.
func Error(code int, format string, v ...any) error {
	return WrapError(nil, code, format, v...)
}

// WrapError attaches a code and a user message to err. A nil err is
// replaced by an error stating the code's text.
func WrapError(err error, code int, format string, v ...any) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	return coreError{error: err, code: code, msg: fmt.Sprintf(format, v...)}
}

// Code returns the code of err. The outermost code in err's chain wins.
// Errors without a code are EINTERNAL, and nil is NOERROR.
func Code(err error) (code int) {
	if err == nil {
		return NOERROR
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.ErrorCode()
	}
	return EINTERNAL
}

// HasCode reports whether any error in err's chain carries code.
func HasCode(err error, code int) bool {
	for err != nil {
		if e, ok := err.(AppError); ok && e.ErrorCode() == code {
			return true
		}
		switch x := err.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range x.Unwrap() {
				if HasCode(inner, code) {
					return true
				}
			}
			return false
		case interface{ Unwrap() error }:
			err = x.Unwrap()
		default:
			return false
		}
	}
	return false
}

// Retryable is a predicate: may a patch round failing with err be repeated
// after the caller has fetched fresh patch data?
func Retryable(err error) bool {
	switch Code(err) {
	case EMISSING, EPATCH:
		return true
	}
	return false
}

// UserMessage returns the user message of err, or the text of its code if
// there is none. nil has an empty message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.UserMessage()
	}
	return errorText(Code(err))
}

// UserError prints an error to stderr, with its code if it has one.
func UserError(err error) {
	fprintUserError(os.Stderr, err)
}

func fprintUserError(w io.Writer, err error) {
	if e := AppError(nil); errors.As(err, &e) {
		fmt.Fprintf(w, "[%d] %s\n", e.ErrorCode(), e.UserMessage())
		return
	}
	fmt.Fprintf(w, "Error: %s\n", err.Error())
}
