// Package mimetypes はファイル拡張子からContent-Typeを引く静的テーブルを提供します。
//
// テーブルはプロセス起動時に一度だけ構築され、以後は読み取り専用です。
package mimetypes

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var byExtension = map[string]string{
	".html":  "text/html",
	".htm":   "text/html",
	".css":   "text/css",
	".js":    "text/javascript",
	".mjs":   "text/javascript",
	".json":  "application/json",
	".txt":   "text/plain",
	".text":  "text/plain",
	".md":    "text/markdown",
	".csv":   "text/csv",
	".xml":   "text/xml",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".svg":   "image/svg+xml",
	".ico":   "image/vnd.microsoft.icon",
	".webp":  "image/webp",
	".bmp":   "image/bmp",
	".pdf":   "application/pdf",
	".zip":   "application/zip",
	".tar":   "application/x-tar",
	".wasm":  "application/wasm",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".mp3":   "audio/mpeg",
	".wav":   "audio/x-wav",
	".mp4":   "video/mp4",
	".webm":  "video/webm",
}

// ByExtension はパスの拡張子に対応するContent-Typeを返す
// 拡張子が不明な場合は ok=false
func ByExtension(path string) (contentType string, ok bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "", false
	}
	contentType, ok = byExtension[ext]
	return contentType, ok
}

// Detect はファイル内容からContent-Typeを推定する
func Detect(body []byte) string {
	return mimetype.Detect(body).String()
}

// Lookup はまず拡張子で引き、sniff が有効なら内容からの推定にフォールバックする
// どちらでも決まらなければ空文字を返す
func Lookup(path string, body []byte, sniff bool) string {
	if ct, ok := ByExtension(path); ok {
		return ct
	}
	if sniff {
		return Detect(body)
	}
	return ""
}
