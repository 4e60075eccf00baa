package httpd

import (
	"path/filepath"
	"strings"
)

// IndexPath は "/" へのリクエストで返すファイル
const IndexPath = "/index.html"

// Resolve はリクエストパスをドキュメントルート配下のファイルシステムパスに変換する
// 前後の "/" を取り除いてルートと結合し、結果がルートの外に出る場合は ErrOutsideRoot を返す
func Resolve(root, reqPath string) (string, error) {
	if reqPath == "/" {
		reqPath = IndexPath
	}

	rel := strings.Trim(reqPath, "/")
	target := filepath.Join(root, filepath.FromSlash(rel))

	within, err := filepath.Rel(root, target)
	if err != nil {
		return "", ErrOutsideRoot
	}
	if within == ".." || strings.HasPrefix(within, ".."+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}
	return target, nil
}
