package apperr

import "github.com/go-faster/errors"

// Kind 错误分类，决定 HTTP 状态码
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindValidation   Kind = "validation_failed"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindInternal     Kind = "internal"
)

// Error 业务错误：分类 + 业务码 + 面向用户的提示
type Error struct {
	Kind    Kind
	Code    int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New 创建业务错误
func New(kind Kind, code int, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func NotFound(code int, msg string) *Error {
	return New(KindNotFound, code, msg)
}

func Validation(code int, msg string) *Error {
	return New(KindValidation, code, msg)
}

func Unauthorized(code int, msg string) *Error {
	return New(KindUnauthorized, code, msg)
}

func Forbidden(code int, msg string) *Error {
	return New(KindForbidden, code, msg)
}

// Wrap 给底层错误附加业务分类，原始错误仍可通过 errors.Is 匹配
func Wrap(err error, kind Kind, code int, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, cause: err}
}

// As 提取错误链中的业务错误
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf 返回错误分类，非业务错误一律视为 internal
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

// IsKind 判断错误是否属于指定分类
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
