// Package server は、待ち受けソケットと接続の受け付けを管理します。
//
// このパッケージは、TCPソケットのバインド、接続の受け付けループ、
// 接続ごとのゴルーチンへの振り分け、管理用エンドポイントを担当します。
//
// 責務:
//   - SO_REUSEADDR を有効にした待ち受けソケットの作成
//   - 受け付けた接続を httpd.Handler に渡す (完了は待たない)
//   - 同時接続数の上限によるバックプレッシャー
//   - 接続数とステータス別応答数の集計
//   - 管理用HTTPエンドポイント (/health, /api/status) の提供
//
// 仕様:
//   - 接続の処理はそれぞれ独立したゴルーチンで行う
//   - ハンドラ内のpanicは回復して記録し、他の接続には影響させない
//   - バインドの失敗のみが呼び出し元に返る致命的なエラー
package server
