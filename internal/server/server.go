package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/netutil"

	"staticd/internal/config"
	"staticd/internal/httpd"
)

// 一時的な受け付けエラーの再試行間隔
const (
	minAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff = time.Second
)

// ConnHandler は受け付けた1接続を処理し、送信したステータスコードを返す
// 接続のクローズは ConnHandler の責任で、panicした場合も閉じること
type ConnHandler interface {
	Serve(conn net.Conn) int
}

// Server は待ち受けソケットと受け付けループを管理する構造体
type Server struct {
	config   *config.Config
	handler  ConnHandler
	log      zerolog.Logger
	stats    *Stats
	admin    *AdminServer
	listener net.Listener

	closeOnce sync.Once
}

// New は新しいServerインスタンスを作成する
func New(cfg *config.Config, log zerolog.Logger) *Server {
	s := &Server{
		config:  cfg,
		handler: httpd.NewHandler(cfg.Server, log),
		log:     log,
		stats:   NewStats(),
	}
	if cfg.Admin.Enabled {
		s.admin = NewAdminServer(cfg, s.stats, log)
	}
	return s
}

// Stats は集計値を返す
func (s *Server) Stats() *Stats {
	return s.stats
}

// Addr はバインドしたアドレスを返す (Listen 前は nil)
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Listen は待ち受けソケットを作成する
// 同時接続数の上限が設定されていれば LimitListener で包む
func (s *Server) Listen() error {
	lc := net.ListenConfig{Control: reuseAddr}
	ln, err := lc.Listen(context.Background(), "tcp", s.config.ServerAddress())
	if err != nil {
		return fmt.Errorf("ソケットのバインドに失敗 (%s): %w", s.config.ServerAddress(), err)
	}

	if n := s.config.Server.MaxConns; n > 0 {
		ln = netutil.LimitListener(ln, n)
	}
	s.listener = ln
	return nil
}

// Serve は接続を受け付け、接続ごとにゴルーチンを起動する
// ctx がキャンセルされると待ち受けソケットを閉じて nil を返す
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		return errors.New("サーバーがListenしていません")
	}

	stop := context.AfterFunc(ctx, func() {
		s.closeListener()
	})
	defer stop()

	var backoff time.Duration
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			if backoff == 0 {
				backoff = minAcceptBackoff
			} else {
				backoff = min(backoff*2, maxAcceptBackoff)
			}
			s.log.Error().Err(err).Dur("retry_in", backoff).Msg("接続の受け付けに失敗しました")
			time.Sleep(backoff)
			continue
		}
		backoff = 0

		s.stats.connOpened()
		go s.handle(conn)
	}
}

// handle は1接続を処理する
// panicはここで回復して記録し、受け付けループには伝播させない
func (s *Server) handle(conn net.Conn) {
	defer s.stats.connClosed()
	defer func() {
		if r := recover(); r != nil {
			s.stats.panicked()
			s.log.Error().
				Interface("panic", r).
				Str("remote", conn.RemoteAddr().String()).
				Msg("接続の処理中にpanicが発生しました")
		}
	}()

	s.stats.record(s.handler.Serve(conn))
}

// Start はサーバーを起動し、コンテキストのキャンセルかシグナルまで待つ
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// 受け付けループと管理エンドポイントを別ゴルーチンで起動
	errCh := make(chan error, 2)
	go func() {
		s.log.Info().
			Str("addr", s.Addr().String()).
			Str("root", s.config.Server.Root).
			Int("max_conns", s.config.Server.MaxConns).
			Msg("静的ファイルサーバーを起動しました")
		if err := s.Serve(ctx); err != nil {
			errCh <- err
		}
	}()
	if s.admin != nil {
		go func() {
			if err := s.admin.Start(); err != nil {
				errCh <- err
			}
		}()
	}

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// コンテキストかシグナルを待つ
	var runErr error
	select {
	case <-ctx.Done():
		s.log.Info().Msg("コンテキストがキャンセルされました")
	case sig := <-sigCh:
		s.log.Info().Str("signal", sig.String()).Msg("シグナルを受信しました")
	case runErr = <-errCh:
	}

	if err := s.Shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// Shutdown は待ち受けソケットと管理エンドポイントを閉じる
// 処理中の接続は待たない
func (s *Server) Shutdown() error {
	s.log.Info().Msg("サーバーを停止しています...")
	s.closeListener()

	if s.admin != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.admin.Shutdown(ctx); err != nil {
			return fmt.Errorf("管理エンドポイントの停止に失敗: %w", err)
		}
	}

	snap := s.stats.Snapshot()
	ev := s.log.Info().
		Int64("accepted", snap.Accepted).
		Int64("abandoned", snap.Abandoned).
		Int64("send_failed", snap.SendFailed)
	for _, code := range snap.Statuses() {
		ev = ev.Int64("status_"+code, snap.Responses[code])
	}
	ev.Msg("サーバーを停止しました")
	return nil
}

func (s *Server) closeListener() {
	s.closeOnce.Do(func() {
		if s.listener != nil {
			if err := s.listener.Close(); err != nil {
				s.log.Error().Err(err).Msg("待ち受けソケットのクローズに失敗しました")
			}
		}
	})
}
