// Package main は静的ファイルサーバー staticd のエントリーポイントです
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"staticd/internal/config"
	"staticd/internal/logger"
	"staticd/internal/server"
)

func main() {
	// コマンドラインオプション
	var (
		port       = flag.Int("port", config.DefaultPort, "待ち受けるポート番号")
		root       = flag.String("root", config.DefaultRoot, "配信するドキュメントルート")
		configPath = flag.String("config", "", "YAML設定ファイルのパス")
		adminPort  = flag.Int("admin-port", 0, "管理エンドポイントのポート (指定すると有効化)")
		help       = flag.Bool("help", false, "ヘルプを表示")
	)

	flag.Parse()

	// ヘルプ表示
	if *help {
		fmt.Println("staticd")
		fmt.Println()
		fmt.Println("使用方法:")
		fmt.Println("  staticd [オプション]")
		fmt.Println()
		fmt.Println("オプション:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	// 設定を読み込む (検証はオプションを反映してから行う)
	cfg, err := config.Read(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定の読み込みに失敗しました: %v\n", err)
		os.Exit(1)
	}

	// 明示的に指定されたオプションで設定を上書き
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Server.Port = *port
		case "root":
			cfg.Server.Root = *root
		case "admin-port":
			cfg.Admin.Enabled = true
			cfg.Admin.Port = *adminPort
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "設定の検証に失敗しました: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log, os.Stderr)

	if info, err := os.Stat(cfg.Server.Root); err != nil || !info.IsDir() {
		log.Warn().Str("root", cfg.Server.Root).Msg("ドキュメントルートがディレクトリではありません")
	}

	// サーバーを作成して起動
	srv := server.New(cfg, log)
	if err := srv.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("サーバーの起動に失敗しました")
	}
}
