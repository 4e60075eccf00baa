package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// デフォルト値
const (
	DefaultHost         = "localhost"
	DefaultPort         = 1010
	DefaultRoot         = "./www"
	DefaultBanner       = "BobsDiscountServer/1.0"
	DefaultMaxConns     = 256
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 10 * time.Second
)

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server ServerConfig `yaml:"server"`
	Admin  AdminConfig  `yaml:"admin"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig は静的ファイルサーバーの設定
type ServerConfig struct {
	Host   string `yaml:"host" validate:"required"`              // リッスンするホスト
	Port   int    `yaml:"port" validate:"min=1,max=65535"`       // リッスンするポート番号
	Root   string `yaml:"root" validate:"required"`              // ドキュメントルート
	Banner string `yaml:"banner" validate:"required,printascii"` // Server ヘッダーの値

	// 同時接続数の上限 (0 は無制限)
	MaxConns int `yaml:"max_conns" validate:"gte=0"`

	// タイムアウト設定 (0 は無効)
	ReadTimeout  time.Duration `yaml:"read_timeout" validate:"gte=0"`  // 読み込みタイムアウト
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"gte=0"` // 書き込みタイムアウト

	// 拡張子から判定できないファイルの内容からContent-Typeを推定する
	SniffContentType bool `yaml:"sniff_content_type"`
}

// AdminConfig は管理用HTTPエンドポイントの設定
type AdminConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port" validate:"required_if=Enabled true,gte=0,lte=65535"`
}

// LogConfig はログ出力の設定
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

var validate = validator.New()

// Default はデフォルト値で埋めた設定を返す
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         DefaultHost,
			Port:         DefaultPort,
			Root:         DefaultRoot,
			Banner:       DefaultBanner,
			MaxConns:     DefaultMaxConns,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
		},
		Admin: AdminConfig{
			Host: DefaultHost,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load は設定を読み込んで検証する
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// Read は設定を読み込むが検証はしない
// デフォルト値、YAMLファイル (path が空でなければ)、環境変数の順に適用する
// 呼び出し側で値を上書きしてから Validate を呼ぶ場合に使う
func Read(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Server.Host = getEnvOrDefault("STATICD_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvAsIntOrDefault("STATICD_PORT", cfg.Server.Port)
	cfg.Server.Root = getEnvOrDefault("STATICD_ROOT", cfg.Server.Root)
	cfg.Log.Level = getEnvOrDefault("STATICD_LOG_LEVEL", cfg.Log.Level)

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("設定ファイルの解析に失敗 (%s): %w", path, err)
	}
	return nil
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("無効な設定値 %s=%v (%s)", fe.Namespace(), fe.Value(), fe.Tag())
		}
		return err
	}

	// 管理エンドポイントはファイル配信と同じアドレスを使えない
	if c.Admin.Enabled && c.Admin.Host == c.Server.Host && c.Admin.Port == c.Server.Port {
		return fmt.Errorf("管理エンドポイントのアドレスがサーバーと重複しています: %s", c.AdminAddress())
	}
	return nil
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// AdminAddress は管理エンドポイントのリッスンアドレスを返す
func (c *Config) AdminAddress() string {
	return fmt.Sprintf("%s:%d", c.Admin.Host, c.Admin.Port)
}

// getEnvOrDefault は環境変数を取得し、設定されていない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は環境変数を整数として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
