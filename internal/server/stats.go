package server

import (
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"staticd/internal/httpd"
)

// Stats は接続とレスポンスの集計値
// 各接続のゴルーチンから同時に更新される
type Stats struct {
	accepted  atomic.Int64
	active    atomic.Int64
	abandoned atomic.Int64
	failed    atomic.Int64
	panics    atomic.Int64

	mu        sync.Mutex
	responses map[int]int64
}

// StatsSnapshot はある時点の集計値
type StatsSnapshot struct {
	Accepted   int64            `json:"accepted"`
	Active     int64            `json:"active"`
	Abandoned  int64            `json:"abandoned"`
	SendFailed int64            `json:"send_failed"`
	Panics     int64            `json:"panics"`
	Responses  map[string]int64 `json:"responses"` // 送信できた応答のみ
}

// NewStats は空の集計を作成する
func NewStats() *Stats {
	return &Stats{responses: make(map[int]int64)}
}

func (s *Stats) connOpened() {
	s.accepted.Add(1)
	s.active.Add(1)
}

func (s *Stats) connClosed() {
	s.active.Add(-1)
}

func (s *Stats) panicked() {
	s.panics.Add(1)
}

// record はハンドラの処理結果を集計する
func (s *Stats) record(status int) {
	switch status {
	case httpd.StatusAbandoned:
		s.abandoned.Add(1)
		return
	case httpd.StatusSendFailed:
		s.failed.Add(1)
		return
	}
	s.mu.Lock()
	s.responses[status]++
	s.mu.Unlock()
}

// Snapshot は現在の集計値のコピーを返す
func (s *Stats) Snapshot() StatsSnapshot {
	snap := StatsSnapshot{
		Accepted:   s.accepted.Load(),
		Active:     s.active.Load(),
		Abandoned:  s.abandoned.Load(),
		SendFailed: s.failed.Load(),
		Panics:     s.panics.Load(),
		Responses:  make(map[string]int64),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for code, n := range s.responses {
		snap.Responses[strconv.Itoa(code)] = n
	}
	return snap
}

// Statuses は記録されたステータスコードを昇順で返す
func (s StatsSnapshot) Statuses() []string {
	codes := make([]string, 0, len(s.Responses))
	for code := range s.Responses {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
