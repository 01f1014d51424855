// Package telemetry implements the session tracking integration for mcp-notes.
// 外部サービスへのfire-and-forget通知のみを行い、失敗してもサーバー動作に影響しない
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kfurue/notes_mcp/internal/model"
)

// DefaultTimeout はテレメトリ送信のタイムアウト
// 本処理をブロックしないよう短めに設定
const DefaultTimeout = 5 * time.Second

// セッション終了ステータス
const (
	EndStateSuccess = "Success"
	EndStateFail    = "Fail"
)

// Client はセッショントラッキングのクライアント
// APIキー未設定の場合は全操作がno-opになる
type Client struct {
	endpoint  string
	apiKey    string
	sessionID string
	client    *http.Client
	log       *logrus.Logger
}

// sessionEvent はセッション開始/終了の通知ボディ
type sessionEvent struct {
	SessionID string `json:"session_id"`
	Event     string `json:"event"`
	EndState  string `json:"end_state,omitempty"`
}

// Option はクライアントオプション
type Option func(*Client)

// WithLogger はロガーを設定
func WithLogger(log *logrus.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithHTTPClient はHTTPクライアントを設定（テスト用）
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient は新しいClientを生成
// セッションIDはプロセスごとに一度だけ採番する
func NewClient(cfg *model.TelemetryConfig, opts ...Option) *Client {
	c := &Client{
		endpoint:  cfg.Endpoint,
		sessionID: uuid.New().String(),
		client:    &http.Client{Timeout: DefaultTimeout},
		log:       logrus.StandardLogger(),
	}
	if cfg.APIKey != nil {
		c.apiKey = *cfg.APIKey
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled はテレメトリが有効かどうかを返す
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// SessionID は現在のセッションIDを返す
func (c *Client) SessionID() string {
	return c.sessionID
}

// StartSession はセッション開始を通知する（fire-and-forget）
func (c *Client) StartSession(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	c.post(ctx, sessionEvent{SessionID: c.sessionID, Event: "session_start"})
}

// EndSession はセッション終了を通知する（fire-and-forget）
func (c *Client) EndSession(ctx context.Context, endState string) {
	if !c.Enabled() {
		return
	}
	c.post(ctx, sessionEvent{SessionID: c.sessionID, Event: "session_end", EndState: endState})
}

// post はイベントを送信する
// 失敗はログに残すのみで呼び出し元には伝搬しない
func (c *Client) post(ctx context.Context, event sessionEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		c.log.WithError(err).Warn("failed to marshal telemetry event")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v2/sessions", bytes.NewReader(payload))
	if err != nil {
		c.log.WithError(err).Warn("failed to build telemetry request")
		return
	}
	req.Header.Set("X-Agentops-Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.WithError(err).Warn("failed to send telemetry event")
		return
	}
	resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"session": c.sessionID,
		"event":   event.Event,
		"status":  resp.StatusCode,
	}).Debug("telemetry event sent")
}
