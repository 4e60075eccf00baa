package httpd

import (
	"strings"
	"unicode/utf8"
)

// Request はリクエストラインから得た情報
type Request struct {
	Method  string
	Path    string
	Version string
}

// ParseRequest は受信したバイト列の1行目を METHOD PATH VERSION に分解する
// 2行目以降 (ヘッダーや本文) は読み捨てる
func ParseRequest(data []byte) (*Request, error) {
	if !utf8.Valid(data) {
		return nil, &RequestError{Kind: InvalidEncoding}
	}

	line := string(data)
	if i := strings.IndexFunc(line, isLineBreak); i >= 0 {
		line = line[:i]
	}

	fields := strings.Fields(line)
	switch len(fields) {
	case 0:
		return nil, &RequestError{Kind: EmptyRequestLine}
	case 3:
		return &Request{
			Method:  fields[0],
			Path:    fields[1],
			Version: fields[2],
		}, nil
	default:
		return nil, &RequestError{Kind: MalformedRequestLine, Line: line}
	}
}

// isLineBreak は行の区切りとして扱う文字かを判定する
// CR 単独や FF、Unicode の行区切り文字も改行とみなす
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
