package httpd

import (
	"errors"
	"fmt"
)

// ErrOutsideRoot は解決したパスがドキュメントルートの外を指す場合のエラー
var ErrOutsideRoot = errors.New("path escapes document root")

// RequestErrorKind はリクエストライン解析エラーの種類
type RequestErrorKind int

const (
	EmptyRequestLine RequestErrorKind = iota
	MalformedRequestLine
	InvalidEncoding
)

func (k RequestErrorKind) String() string {
	switch k {
	case EmptyRequestLine:
		return "empty request line"
	case MalformedRequestLine:
		return "malformed request line"
	case InvalidEncoding:
		return "request is not valid UTF-8"
	default:
		return fmt.Sprintf("unknown request error: %d", int(k))
	}
}

// RequestError はクライアントから受け取ったリクエストが解釈できない場合のエラー
type RequestError struct {
	Kind RequestErrorKind
	Line string
}

func (e *RequestError) Error() string {
	if e.Line == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %q", e.Kind, e.Line)
}
