//go:build e2e

package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/kfurue/notes_mcp/internal/fetch"
	"github.com/kfurue/notes_mcp/internal/jsonrpc"
	"github.com/kfurue/notes_mcp/internal/model"
	"github.com/kfurue/notes_mcp/internal/notes"
	"github.com/kfurue/notes_mcp/internal/registry"
)

// testEnv はテスト用のフルスタック一式
type testEnv struct {
	handler *jsonrpc.Handler
	store   *notes.Store

	// 上流サーバーが受け取った最後のリクエスト
	weatherQuery string
	newsQuery    string
}

// setupTestEnv は実ファイルのStoreとhttptest上流を使ってHandlerを構築
func setupTestEnv(t *testing.T, weatherBody, newsBody string, weatherStatus, newsStatus int) *testEnv {
	t.Helper()

	env := &testEnv{}

	weatherSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.weatherQuery = r.URL.Query().Get("q")
		w.WriteHeader(weatherStatus)
		w.Write([]byte(weatherBody))
	}))
	t.Cleanup(weatherSrv.Close)

	newsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Q string `json:"q"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		env.newsQuery = body.Q
		w.WriteHeader(newsStatus)
		w.Write([]byte(newsBody))
	}))
	t.Cleanup(newsSrv.Close)

	weatherKey := "weather-key"
	newsKey := "news-key"

	env.store = notes.NewStore(filepath.Join(t.TempDir(), "notes.txt"))
	weather := fetch.NewWeatherClient(&model.WeatherConfig{
		BaseURL: weatherSrv.URL,
		APIKey:  &weatherKey,
	}, fetch.DefaultTimeout)
	news := fetch.NewNewsClient(&model.NewsConfig{
		BaseURL:  newsSrv.URL,
		APIKey:   &newsKey,
		PageSize: 10,
	}, fetch.DefaultTimeout)

	reg, err := registry.Build(env.store, weather, news)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}

	env.handler = jsonrpc.New(reg)
	return env
}

// RawResponse はアサーション用の生レスポンス
type RawResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *model.RPCError `json:"error,omitempty"`
}

// call はJSON-RPCリクエストを送ってレスポンスを返す
func call(t *testing.T, h *jsonrpc.Handler, method string, params any) *RawResponse {
	t.Helper()

	reqBytes, err := json.Marshal(model.Request{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	respBytes := h.Handle(context.Background(), reqBytes)

	var resp RawResponse
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return &resp
}

// callOK はエラーが無いことを確認した上でresultをoutにデコードする
func callOK(t *testing.T, h *jsonrpc.Handler, method string, params any, out any) {
	t.Helper()

	resp := call(t, h, method, params)
	if resp.Error != nil {
		t.Fatalf("%s failed: %v", method, resp.Error)
	}
	if out != nil {
		if err := json.Unmarshal(resp.Result, out); err != nil {
			t.Fatalf("failed to unmarshal result: %v", err)
		}
	}
}

// callToolsCall はtools/callを呼んでテキストコンテンツとisErrorを返す
func callToolsCall(t *testing.T, h *jsonrpc.Handler, name string, args map[string]any) (string, bool) {
	t.Helper()

	var result model.ToolsCallResult
	callOK(t, h, "tools/call", map[string]any{
		"name":      name,
		"arguments": args,
	}, &result)

	if len(result.Content) == 0 {
		t.Fatalf("tools/call %s returned no content", name)
	}
	return result.Content[0].Text, result.IsError
}
