package jsonrpc

import (
	"context"
	"fmt"

	"github.com/kfurue/notes_mcp/internal/model"
	"github.com/kfurue/notes_mcp/internal/registry"
)

// handleInitialize は initialize メソッドを処理
func (h *Handler) handleInitialize(ctx context.Context, params any) (any, error) {
	// パラメータをパース（検証は最小限）
	var p model.InitializeParams
	if err := mapParams(params, &p); err != nil {
		return nil, err
	}

	return &model.InitializeResult{
		ProtocolVersion: "2024-11-05",
		ServerInfo: model.ServerInfo{
			Name:    ServerName,
			Version: ServerVersion,
		},
		Capabilities: model.Capabilities{
			Tools:     &model.ToolsCapability{},
			Resources: &model.ResourcesCapability{},
			Prompts:   &model.PromptsCapability{},
		},
	}, nil
}

// handlePing は ping メソッドを処理
func (h *Handler) handlePing(ctx context.Context) (any, error) {
	return map[string]any{}, nil
}

// handleToolsList は tools/list メソッドを処理
// RegistryのDescriptorからMCPツール定義を組み立てる
func (h *Handler) handleToolsList(ctx context.Context) (any, error) {
	descriptors := h.registry.List(registry.KindTool)

	tools := make([]model.Tool, 0, len(descriptors))
	for _, d := range descriptors {
		properties := make(map[string]model.JSONSchema, len(d.Args))
		var required []string
		for _, arg := range d.Args {
			properties[arg.Name] = model.JSONSchema{
				Type:        arg.Type,
				Description: arg.Description,
			}
			if arg.Required {
				required = append(required, arg.Name)
			}
		}

		tools = append(tools, model.Tool{
			Name:        d.Name,
			Description: d.Description,
			InputSchema: model.JSONSchema{
				Type:       "object",
				Properties: properties,
				Required:   required,
			},
		})
	}

	return &model.ToolsListResult{Tools: tools}, nil
}

// handleToolsCall は tools/call メソッドを処理
// ツール未検出および実行時エラーはisError付きのtool resultとして返す（MCP仕様）
// 引数スキーマ違反はJSON-RPCのInvalid paramsとして返す
func (h *Handler) handleToolsCall(ctx context.Context, params any) (any, error) {
	var p model.ToolsCallParams
	if err := mapParams(params, &p); err != nil {
		return nil, err
	}

	// ツール名必須チェック
	if p.Name == "" {
		return &model.ToolsCallResult{
			Content: []model.ContentItem{
				model.NewTextContent("Error: tool name is required"),
			},
			IsError: true,
		}, nil
	}

	d, err := h.registry.Lookup(registry.KindTool, p.Name)
	if err != nil {
		// ツールが見つからない場合はエラーをcontentに含める
		return &model.ToolsCallResult{
			Content: []model.ContentItem{
				model.NewTextContent(fmt.Sprintf("Tool not found: %s", p.Name)),
			},
			IsError: true,
		}, nil
	}

	// 引数スキーマ検証
	if _, err := d.ValidateArgs(p.Arguments); err != nil {
		return nil, err
	}

	// ハンドラー呼び出し
	result, err := d.Handler(ctx, p.Arguments)
	if err != nil {
		// 実行時エラーをcontentに含める（MCP仕様）
		return &model.ToolsCallResult{
			Content: []model.ContentItem{
				model.NewTextContent(fmt.Sprintf("Error: %s", err.Error())),
			},
			IsError: true,
		}, nil
	}

	return &model.ToolsCallResult{
		Content: []model.ContentItem{
			model.NewTextContent(result),
		},
	}, nil
}

// handleResourcesList は resources/list メソッドを処理
func (h *Handler) handleResourcesList(ctx context.Context) (any, error) {
	descriptors := h.registry.List(registry.KindResource)

	resources := make([]model.Resource, 0, len(descriptors))
	for _, d := range descriptors {
		resources = append(resources, model.Resource{
			URI:         d.Name,
			Name:        d.Name,
			Description: d.Description,
			MimeType:    d.MimeType,
		})
	}

	return &model.ResourcesListResult{Resources: resources}, nil
}

// handleResourcesRead は resources/read メソッドを処理
func (h *Handler) handleResourcesRead(ctx context.Context, params any) (any, error) {
	var p model.ResourcesReadParams
	if err := mapParams(params, &p); err != nil {
		return nil, err
	}

	if p.URI == "" {
		return nil, errURIRequired
	}

	d, err := h.registry.Lookup(registry.KindResource, p.URI)
	if err != nil {
		return nil, err
	}

	text, err := d.Handler(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &model.ResourcesReadResult{
		Contents: []model.ResourceContents{
			{
				URI:      d.Name,
				MimeType: d.MimeType,
				Text:     text,
			},
		},
	}, nil
}

// handlePromptsList は prompts/list メソッドを処理
func (h *Handler) handlePromptsList(ctx context.Context) (any, error) {
	descriptors := h.registry.List(registry.KindPrompt)

	prompts := make([]model.Prompt, 0, len(descriptors))
	for _, d := range descriptors {
		prompts = append(prompts, model.Prompt{
			Name:        d.Name,
			Description: d.Description,
		})
	}

	return &model.PromptsListResult{Prompts: prompts}, nil
}

// handlePromptsGet は prompts/get メソッドを処理
func (h *Handler) handlePromptsGet(ctx context.Context, params any) (any, error) {
	var p model.PromptsGetParams
	if err := mapParams(params, &p); err != nil {
		return nil, err
	}

	if p.Name == "" {
		return nil, errNameRequired
	}

	d, err := h.registry.Lookup(registry.KindPrompt, p.Name)
	if err != nil {
		return nil, err
	}

	text, err := d.Handler(ctx, p.Arguments)
	if err != nil {
		return nil, err
	}

	return &model.PromptsGetResult{
		Description: d.Description,
		Messages: []model.PromptMessage{
			{
				Role:    "user",
				Content: model.NewTextContent(text),
			},
		},
	}, nil
}
