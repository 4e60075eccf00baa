package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"staticd/internal/config"
)

// TestNewJSON はJSON形式の出力をテストする
func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.LogConfig{Level: "info", Format: "json"}, &buf)

	log.Info().Str("conn", "abc").Msg("接続を受け付けました")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("JSONとして解析できません: %v (%q)", err, buf.String())
	}
	if entry["level"] != "info" {
		t.Errorf("レベルが一致しません: got %v", entry["level"])
	}
	if entry["conn"] != "abc" {
		t.Errorf("フィールドが出力されていません: got %v", entry["conn"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("タイムスタンプが出力されていません")
	}
}

// TestNewLevel はレベルによる抑制をテストする
func TestNewLevel(t *testing.T) {
	testCases := []struct {
		name    string
		level   string
		debug   bool
		written bool
	}{
		{"infoでdebugは出ない", "info", true, false},
		{"debugでdebugが出る", "debug", true, true},
		{"errorでinfoは出ない", "error", false, false},
		{"不明なレベルはinfo扱い", "verbose", false, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(config.LogConfig{Level: tc.level, Format: "json"}, &buf)
			if tc.debug {
				log.Debug().Msg("debug")
			} else {
				log.Info().Msg("info")
			}
			if got := buf.Len() > 0; got != tc.written {
				t.Errorf("出力有無が一致しません: got %v, want %v", got, tc.written)
			}
		})
	}
}

// TestNewConsole はコンソール形式の出力をテストする
func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.LogConfig{Level: "info", Format: "console"}, &buf)

	log.Warn().Str("remote", "127.0.0.1:5555").Msg("テスト")

	out := buf.String()
	if !strings.Contains(out, "WRN") || !strings.Contains(out, "remote=127.0.0.1:5555") {
		t.Errorf("コンソール出力が想定と異なります: %q", out)
	}
}
