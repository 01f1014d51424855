// Package jsonrpc implements JSON-RPC 2.0 handlers for mcp-notes.
package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/kfurue/notes_mcp/internal/fetch"
	"github.com/kfurue/notes_mcp/internal/model"
	"github.com/kfurue/notes_mcp/internal/notes"
	"github.com/kfurue/notes_mcp/internal/registry"
)

// ServerName はinitializeで返すサーバー名
const ServerName = "mcp-notes"

// ServerVersion はサーバーのバージョン（ビルド時に設定可能）
var ServerVersion = "0.1.0"

// Handler はJSON-RPCリクエストを処理する
type Handler struct {
	registry *registry.Registry
}

// New は新しいHandlerを生成
func New(reg *registry.Registry) *Handler {
	return &Handler{registry: reg}
}

// Handle はJSON-RPCリクエストをパースしてディスパッチ
// 戻り値は *model.Response または *model.ErrorResponse のJSON bytes
func (h *Handler) Handle(ctx context.Context, requestBytes []byte) []byte {
	// 1. パース
	var req model.Request
	if err := json.Unmarshal(requestBytes, &req); err != nil {
		return h.encodeError(model.NewParseError(err.Error()))
	}

	// 2. バージョン確認
	if req.JSONRPC != "2.0" {
		return h.encodeError(model.NewInvalidRequest(req.ID, "jsonrpc must be 2.0"))
	}

	// 3. method確認
	if req.Method == "" {
		return h.encodeError(model.NewInvalidRequest(req.ID, "method is required"))
	}

	// 4. ディスパッチ
	result, err := h.dispatch(ctx, req.Method, req.Params)
	if err != nil {
		return h.encodeError(h.mapError(req.ID, err))
	}

	// 5. 成功レスポンス
	return h.encodeResponse(model.NewResponse(req.ID, result))
}

// dispatch はメソッドに応じて適切なハンドラーを呼び出す
func (h *Handler) dispatch(ctx context.Context, method string, params any) (any, error) {
	switch method {
	case "initialize":
		return h.handleInitialize(ctx, params)
	case "ping":
		return h.handlePing(ctx)
	case "tools/list":
		return h.handleToolsList(ctx)
	case "tools/call":
		return h.handleToolsCall(ctx, params)
	case "resources/list":
		return h.handleResourcesList(ctx)
	case "resources/read":
		return h.handleResourcesRead(ctx, params)
	case "prompts/list":
		return h.handlePromptsList(ctx)
	case "prompts/get":
		return h.handlePromptsGet(ctx, params)
	case "notes.add_note":
		return h.handleAddNote(ctx, params)
	case "notes.read_notes":
		return h.handleReadNotes(ctx, params)
	case "notes.read_latest":
		return h.handleReadLatest(ctx)
	case "weather.fetch":
		return h.handleFetchWeather(ctx, params)
	case "news.search":
		return h.handleSearchNews(ctx, params)
	default:
		return nil, &methodNotFoundError{method: method}
	}
}

// mapError は内部エラーをJSON-RPCエラーに変換
func (h *Handler) mapError(id any, err error) *model.ErrorResponse {
	// method not found
	var mnfErr *methodNotFoundError
	if errors.As(err, &mnfErr) {
		return model.NewMethodNotFound(id, mnfErr.method)
	}

	// invalid params
	var invalidErr *registry.InvalidArgumentError
	if errors.As(err, &invalidErr) ||
		errors.Is(err, notes.ErrEmptyMessage) ||
		errors.Is(err, fetch.ErrCityRequired) ||
		errors.Is(err, fetch.ErrQueryRequired) ||
		errors.Is(err, errURIRequired) ||
		errors.Is(err, errNameRequired) {
		return model.NewInvalidParams(id, err.Error())
	}

	// capability not found（未知のリソースURI・プロンプト名）
	if errors.Is(err, registry.ErrCapabilityNotFound) {
		return model.NewErrorResponse(id, model.ErrCodeCapabilityNotFound, err.Error(), nil)
	}

	// API key missing
	if errors.Is(err, fetch.ErrAPIKeyRequired) {
		return model.NewErrorResponse(id, model.ErrCodeAPIKeyMissing, err.Error(), nil)
	}

	// note log I/O failure
	if errors.Is(err, notes.ErrStorageUnavailable) {
		return model.NewErrorResponse(id, model.ErrCodeStorageUnavailable, err.Error(), nil)
	}

	// outbound HTTP failure
	if errors.Is(err, fetch.ErrUpstreamUnavailable) {
		return model.NewErrorResponse(id, model.ErrCodeUpstreamUnavailable, err.Error(), nil)
	}

	// internal error
	return model.NewInternalError(id, err.Error())
}

func (h *Handler) encodeResponse(resp *model.Response) []byte {
	b, _ := json.Marshal(resp)
	return b
}

func (h *Handler) encodeError(resp *model.ErrorResponse) []byte {
	b, _ := json.Marshal(resp)
	return b
}

// methodNotFoundError はメソッド未検出エラー
type methodNotFoundError struct {
	method string
}

func (e *methodNotFoundError) Error() string {
	return "method not found: " + e.method
}

// errURIRequired はuri必須エラー
var errURIRequired = errors.New("uri is required")

// errNameRequired はname必須エラー
var errNameRequired = errors.New("name is required")

// mapParams はanyをターゲット構造体にマッピング
func mapParams(params any, target any) error {
	if params == nil {
		return nil
	}

	// anyをJSONに変換してから構造体にアンマーシャル
	b, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, target)
}
