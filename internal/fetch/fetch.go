// Package fetch implements the outbound HTTP clients for mcp-notes.
// 各クライアントは1リクエスト発行してレスポンスボディをそのまま返す
// 「dumb pipe」方針のため、リトライ・ステータスコード分岐・パースは行わない
package fetch

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout はHTTPクライアントのデフォルトタイムアウト
const DefaultTimeout = 15 * time.Second

// ErrAPIKeyRequired はAPIキー未設定エラー
var ErrAPIKeyRequired = errors.New("API key is not configured")

// ErrUpstreamUnavailable は外部APIへの到達失敗エラー（タイムアウト・接続拒否など）
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// newHTTPClient はタイムアウト付きのHTTPクライアントを生成
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// doRaw はリクエストを発行してボディを文字列で返す
// ステータスコードに関わらずボディをそのまま返す（プロバイダエラーもボディとして伝搬）
func doRaw(client *http.Client, req *http.Request) (string, error) {
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	return string(body), nil
}

// requireKey はAPIキーが設定されていることを確認する
// ツールごとに独立して初回呼び出し時に検出する（起動時ではない）
func requireKey(apiKey *string) (string, error) {
	if apiKey == nil || *apiKey == "" {
		return "", ErrAPIKeyRequired
	}
	return *apiKey, nil
}
