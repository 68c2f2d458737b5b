package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind membedakan jenis kegagalan supaya handler bisa memetakan status HTTP
// tanpa membongkar pesan error.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindPolicy
	KindOperation
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Policy(message string) *Error {
	return &Error{Kind: KindPolicy, Message: message}
}

// Operation membungkus kegagalan dependensi (database atau penyimpanan remote).
func Operation(message string, err error) *Error {
	return &Error{Kind: KindOperation, Message: message, Err: err}
}

// KindOf mengembalikan Kind dari err, atau KindOperation jika err bukan *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindOperation
}

// UserMessage mengembalikan pesan yang aman ditampilkan ke pengguna. Error di
// luar *Error tidak boleh bocor ke respons.
func UserMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Terjadi kesalahan pada server."
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindPolicy:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
