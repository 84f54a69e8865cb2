/*
Package core holds the error conventions shared by the packages of otengine.

Errors carry a numeric code and a message suitable for users of a tool. Codes
follow the small set below; packages wrap their sentinel errors with a code,
so callers may either test for a sentinel with errors.Is or switch on Code.

	_, err := ot.Parse(data)
	if core.Code(err) == core.EINVALID { … }

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package core

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Error codes
const (
	NOERROR   int = 0
	EMISSING  int = 122 // resource (font, table, glyph) does not exist
	EINVALID  int = 123 // malformed data or illegal argument
	EINTERNAL int = 125 // internal error
	ENOMEM    int = 126 // arena or scratch capacity exhausted
)

var codeText = map[int]string{
	NOERROR:   "OK",
	EMISSING:  "not found",
	EINVALID:  "invalid",
	EINTERNAL: "internal error",
	ENOMEM:    "out of memory",
}

func errorText(code int) string {
	if t, ok := codeText[code]; ok {
		return t
	}
	return "undefined error"
}

// CodedError is an error with an error code and a message for users.
type CodedError interface {
	error
	ErrorCode() int
	UserMessage() string
}

type codedError struct {
	cause error
	code  int
	msg   string
}

var _ CodedError = codedError{}

func (e codedError) Unwrap() error       { return e.cause }
func (e codedError) ErrorCode() int      { return e.code }
func (e codedError) UserMessage() string { return e.msg }

func (e codedError) Error() string {
	if e.msg == "" || e.msg == e.cause.Error() {
		return fmt.Sprintf("[%d] %v", e.code, e.cause)
	}
	return fmt.Sprintf("[%d] %v: %s", e.code, e.cause, e.msg)
}

// WrapError wraps err together with an error code and a user message.
// A nil err is replaced by an error carrying the code's default text, so
// WrapError never returns nil.
//
// Sentinel errors stay reachable through the chain:
//
//	err := core.WrapError(ErrInvalidVersion, core.EINVALID, "GSUB version %d", v)
//	errors.Is(err, ErrInvalidVersion)   // => true
func WrapError(err error, code int, format string, v ...interface{}) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	return codedError{cause: err, code: code, msg: fmt.Sprintf(format, v...)}
}

// Error creates an error with an error code and a user message.
func Error(code int, format string, v ...interface{}) error {
	return WrapError(nil, code, format, v...)
}

// Code returns the error code of the first coded error in err's chain.
// Errors without a code report EINTERNAL, a nil error reports NOERROR.
func Code(err error) int {
	if err == nil {
		return NOERROR
	}
	var e CodedError
	if errors.As(err, &e) {
		return e.ErrorCode()
	}
	return EINTERNAL
}

// UserMessage returns the user message of err, or the default text for
// err's code. For nil it returns "".
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e CodedError
	if errors.As(err, &e) && e.UserMessage() != "" {
		return e.UserMessage()
	}
	return errorText(Code(err))
}

// UserError prints an error to stderr, preferring the user message of
// coded errors.
func UserError(err error) {
	reportError(os.Stderr, err)
}

func reportError(w io.Writer, err error) {
	if err == nil {
		return
	}
	var e CodedError
	if errors.As(err, &e) {
		fmt.Fprintf(w, "[%d] %s\n", e.ErrorCode(), UserMessage(err))
		return
	}
	fmt.Fprintf(w, "Error: %s\n", err.Error())
}
