package mimetypes

import (
	"strings"
	"testing"
)

func TestByExtension(t *testing.T) {
	testCases := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"www/index.html", "text/html", true},
		{"www/INDEX.HTML", "text/html", true},
		{"style.css", "text/css", true},
		{"app.js", "text/javascript", true},
		{"photo.JPG", "image/jpeg", true},
		{"photo.jpeg", "image/jpeg", true},
		{"notes.txt", "text/plain", true},
		{"archive.unknownext", "", false},
		{"Makefile", "", false},
		{"dir.d/noext", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			got, ok := ByExtension(tc.path)
			if got != tc.want || ok != tc.wantOK {
				t.Errorf("ByExtension(%q) = (%q, %v), want (%q, %v)", tc.path, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	if got := Lookup("index.html", png, true); got != "text/html" {
		t.Errorf("拡張子が優先されるべきです: got %q", got)
	}
	if got := Lookup("blob", png, false); got != "" {
		t.Errorf("sniff無効なら空であるべきです: got %q", got)
	}
	if got := Lookup("blob", png, true); got != "image/png" {
		t.Errorf("内容から推定されるべきです: got %q", got)
	}
	if got := Lookup("blob", []byte("hello world\n"), true); !strings.HasPrefix(got, "text/plain") {
		t.Errorf("テキストとして推定されるべきです: got %q", got)
	}
}
