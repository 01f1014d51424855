package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kfurue/notes_mcp/internal/model"
)

// ErrCityRequired は都市名未指定エラー
var ErrCityRequired = errors.New("city is required")

// WeatherClient は天気APIの薄いクライアント
type WeatherClient struct {
	baseURL string
	apiKey  *string
	client  *http.Client
}

// NewWeatherClient は新しいWeatherClientを生成
func NewWeatherClient(cfg *model.WeatherConfig, timeout time.Duration) *WeatherClient {
	return &WeatherClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  newHTTPClient(timeout),
	}
}

// Fetch は指定都市の現在の天気を取得し、レスポンスボディをそのまま返す
func (c *WeatherClient) Fetch(ctx context.Context, city string) (string, error) {
	if city == "" {
		return "", ErrCityRequired
	}

	key, err := requireKey(c.apiKey)
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("key", key)
	q.Set("q", city)
	q.Set("aqi", "no")
	endpoint := fmt.Sprintf("%s/current.json?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build weather request: %w", err)
	}

	return doRaw(c.client, req)
}
