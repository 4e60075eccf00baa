package httpd

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Serve の戻り値のうち、HTTPステータスコード以外のもの
const (
	StatusAbandoned  = 0  // レスポンスを送らずに接続を閉じた
	StatusSendFailed = -1 // レスポンスの書き込みに失敗した
)

const errorContentType = "text/html"

// 固定のエラーレスポンス本文
var (
	bodyNotFound         = []byte("<h1>404 Not Found</h1>")
	bodyMethodNotAllowed = []byte("<h1>405 Method Not Allowed</h1>")
	bodyInternalError    = []byte("<h1>500 Internal Error</h1>")
)

// Response は1リクエストに対する応答
// ContentType が空の場合は Content-Type ヘッダーを出力しない
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// StatusText はステータスコードに対応する理由句を返す
// 200/404/405 以外はすべて "Internal Error"
func StatusText(code int) string {
	switch code {
	case http.StatusOK:
		return "OK"
	case http.StatusNotFound:
		return "Not Found"
	case http.StatusMethodNotAllowed:
		return "Method Not Allowed"
	default:
		return "Internal Error"
	}
}

func notFound() *Response {
	return &Response{Status: http.StatusNotFound, ContentType: errorContentType, Body: bodyNotFound}
}

func methodNotAllowed() *Response {
	return &Response{Status: http.StatusMethodNotAllowed, ContentType: errorContentType, Body: bodyMethodNotAllowed}
}

func internalError() *Response {
	return &Response{Status: http.StatusInternalServerError, ContentType: errorContentType, Body: bodyInternalError}
}

// ContentLength は本文のバイト数
func (r *Response) ContentLength() int {
	return len(r.Body)
}

// Encode はステータスライン、ヘッダー、空行、本文を連結したバイト列を返す
func (r *Response) Encode(now time.Time, banner string) []byte {
	var buf bytes.Buffer
	buf.Grow(256 + len(r.Body))

	fmt.Fprintf(&buf, "HTTP/1.1 %d %s\r\n", r.Status, StatusText(r.Status))
	buf.WriteString("Date: " + now.UTC().Format(http.TimeFormat) + "\r\n")
	buf.WriteString("Server: " + banner + "\r\n")
	if r.ContentType != "" {
		buf.WriteString("Content-Type: " + r.ContentType + "\r\n")
	}
	buf.WriteString("Content-Length: " + strconv.Itoa(r.ContentLength()) + "\r\n")
	buf.WriteString("\r\n")
	buf.Write(r.Body)

	return buf.Bytes()
}

// Send はレスポンス全体を1回の Write で送信する
func (r *Response) Send(w io.Writer, now time.Time, banner string) error {
	_, err := w.Write(r.Encode(now, banner))
	return err
}
