// Package httpd は1接続1リクエストの静的ファイル配信プロトコルを実装します。
//
// 責務:
//   - 接続から最大1024バイトを読み取り、リクエストラインを解析する
//   - パスをドキュメントルート配下のファイルに解決する
//   - ステータスラインとヘッダーを組み立て、本文とともに1回で書き込む
//   - 処理結果にかかわらず接続を必ずクローズする
//
// 仕様:
//   - GET 以外のメソッドは 405 を返し、ファイルにはアクセスしない
//   - "/" は "/index.html" として扱う
//   - ドキュメントルートの外を指すパスは 404 とする
//   - 最初の読み取りが0バイトの場合は何も返さずにクローズする
package httpd
