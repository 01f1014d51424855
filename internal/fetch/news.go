package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kfurue/notes_mcp/internal/model"
)

// ErrQueryRequired は検索クエリ未指定エラー
var ErrQueryRequired = errors.New("query is required")

// NewsClient はニュース検索API（Serper）の薄いクライアント
type NewsClient struct {
	baseURL  string
	apiKey   *string
	pageSize int
	client   *http.Client
}

// newsRequest はニュース検索のリクエストボディ
type newsRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

// NewNewsClient は新しいNewsClientを生成
func NewNewsClient(cfg *model.NewsConfig, timeout time.Duration) *NewsClient {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	return &NewsClient{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		pageSize: pageSize,
		client:   newHTTPClient(timeout),
	}
}

// Search はクエリでニュースを検索し、レスポンスボディをそのまま返す
func (c *NewsClient) Search(ctx context.Context, query string) (string, error) {
	if query == "" {
		return "", ErrQueryRequired
	}

	key, err := requireKey(c.apiKey)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(newsRequest{Q: query, Num: c.pageSize})
	if err != nil {
		return "", fmt.Errorf("failed to marshal news request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/news", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build news request: %w", err)
	}
	req.Header.Set("X-API-KEY", key)
	req.Header.Set("Content-Type", "application/json")

	return doRaw(c.client, req)
}
