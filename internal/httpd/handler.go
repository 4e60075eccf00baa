package httpd

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"staticd/internal/config"
	"staticd/internal/mimetypes"
)

// RequestBufferSize は1リクエストとして読み取る最大バイト数
const RequestBufferSize = 1024

// Handler は受け付けた接続ごとにリクエストを処理する
// 保持する値はすべて読み取り専用なので、複数のゴルーチンから同時に使える
type Handler struct {
	root         string
	banner       string
	readTimeout  time.Duration
	writeTimeout time.Duration
	sniff        bool
	log          zerolog.Logger
	now          func() time.Time // Date ヘッダー用
	readFile     func(name string) ([]byte, error)
}

// NewHandler は新しいHandlerを作成する
func NewHandler(cfg config.ServerConfig, log zerolog.Logger) *Handler {
	return &Handler{
		root:         cfg.Root,
		banner:       cfg.Banner,
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
		sniff:        cfg.SniffContentType,
		log:          log,
		now:          time.Now,
		readFile:     os.ReadFile,
	}
}

// Serve は1つの接続に対して読み取りから応答、クローズまでを実行する
// 戻り値は送信したステータスコード、応答しなかった場合は StatusAbandoned、
// 送信に失敗した場合は StatusSendFailed
func (h *Handler) Serve(conn net.Conn) int {
	defer conn.Close()

	log := h.log.With().
		Str("conn", uuid.NewString()).
		Str("remote", conn.RemoteAddr().String()).
		Logger()
	log.Debug().Msg("クライアントが接続しました")

	data, err := h.read(conn)
	if len(data) == 0 {
		if err == nil || isQuiet(err) {
			log.Debug().Err(err).Msg("データを受信せずに接続を閉じます")
			return StatusAbandoned
		}
		log.Error().Err(err).Msg("リクエストの読み込みに失敗しました")
		return h.send(conn, internalError(), log)
	}

	res := h.respondRecovered(data, log)
	return h.send(conn, res, log)
}

// respondRecovered はレスポンス組み立て中のpanicを 500 に変換する
func (h *Handler) respondRecovered(data []byte, log zerolog.Logger) (res *Response) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("リクエストの処理中にpanicが発生しました")
			res = internalError()
		}
	}()
	return h.respond(data, log)
}

// read は接続から最大 RequestBufferSize バイトを1回だけ読み取る
func (h *Handler) read(conn net.Conn) ([]byte, error) {
	if h.readTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(h.readTimeout)); err != nil {
			return nil, fmt.Errorf("読み込み期限の設定に失敗: %w", err)
		}
	}

	buf := make([]byte, RequestBufferSize)
	n, err := conn.Read(buf)
	return buf[:n], err
}

// respond は受信データからレスポンスを組み立てる
func (h *Handler) respond(data []byte, log zerolog.Logger) *Response {
	req, err := ParseRequest(data)
	if err != nil {
		log.Error().Err(err).Msg("リクエストラインを解析できません")
		return internalError()
	}
	log = log.With().Str("method", req.Method).Str("path", req.Path).Logger()

	if req.Method != http.MethodGet {
		return methodNotAllowed()
	}

	target, err := Resolve(h.root, req.Path)
	if err != nil {
		log.Warn().Err(err).Msg("ドキュメントルート外へのアクセスを拒否しました")
		return notFound()
	}

	info, err := os.Stat(target)
	if err != nil || !info.Mode().IsRegular() {
		return notFound()
	}

	body, err := h.readFile(target)
	if err != nil {
		log.Error().Err(err).Str("file", target).Msg("ファイルの読み込みに失敗しました")
		return internalError()
	}

	return &Response{
		Status:      http.StatusOK,
		ContentType: mimetypes.Lookup(target, body, h.sniff),
		Body:        body,
	}
}

// send はレスポンスを書き込み、ステータスコードを返す
// 書き込みに失敗した場合は StatusSendFailed
func (h *Handler) send(conn net.Conn, res *Response, log zerolog.Logger) int {
	if h.writeTimeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(h.writeTimeout)); err != nil {
			log.Error().Err(err).Msg("書き込み期限の設定に失敗しました")
		}
	}

	if err := res.Send(conn, h.now(), h.banner); err != nil {
		log.Error().Err(err).Int("status", res.Status).Msg("レスポンスの送信に失敗しました")
		return StatusSendFailed
	}

	log.Info().
		Int("status", res.Status).
		Int("bytes", res.ContentLength()).
		Msg("レスポンスを送信しました")
	return res.Status
}

// isQuiet はデータを受け取れなかった理由が切断またはタイムアウトかを判定する
func isQuiet(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
