package jsonrpc

import (
	"context"

	"github.com/kfurue/notes_mcp/internal/registry"
)

// 直接呼び出し用メソッド（MCPを介さないクライアント向け）
// tools/call と同じcapabilityを共有するが、エラーはJSON-RPCエラーとして返す

// handleAddNote は notes.add_note を処理
func (h *Handler) handleAddNote(ctx context.Context, params any) (any, error) {
	return h.invokeTool(ctx, registry.ToolAddNote, params)
}

// handleReadNotes は notes.read_notes を処理
func (h *Handler) handleReadNotes(ctx context.Context, params any) (any, error) {
	return h.invokeTool(ctx, registry.ToolReadNotes, params)
}

// handleReadLatest は notes.read_latest を処理
// notes://latest リソースと同じハンドラーを使用する
func (h *Handler) handleReadLatest(ctx context.Context) (any, error) {
	d, err := h.registry.Lookup(registry.KindResource, registry.ResourceLatestNote)
	if err != nil {
		return nil, err
	}

	text, err := d.Handler(ctx, nil)
	if err != nil {
		return nil, err
	}

	return map[string]any{"text": text}, nil
}

// handleFetchWeather は weather.fetch を処理
func (h *Handler) handleFetchWeather(ctx context.Context, params any) (any, error) {
	return h.invokeTool(ctx, registry.ToolFetchWeather, params)
}

// handleSearchNews は news.search を処理
func (h *Handler) handleSearchNews(ctx context.Context, params any) (any, error) {
	return h.invokeTool(ctx, registry.ToolSearchNews, params)
}

// invokeTool はツールcapabilityを直接呼び出す
// スキーマ検証・実行エラーはそのまま返し、mapErrorでJSON-RPCエラーに変換される
func (h *Handler) invokeTool(ctx context.Context, name string, params any) (any, error) {
	var args map[string]any
	if err := mapParams(params, &args); err != nil {
		return nil, err
	}

	d, err := h.registry.Lookup(registry.KindTool, name)
	if err != nil {
		return nil, err
	}

	if _, err := d.ValidateArgs(args); err != nil {
		return nil, err
	}

	text, err := d.Handler(ctx, args)
	if err != nil {
		return nil, err
	}

	return map[string]any{"text": text}, nil
}
