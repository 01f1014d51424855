package registry

import (
	"context"

	"github.com/kfurue/notes_mcp/internal/notes"
)

// capability名の定数
const (
	ToolAddNote      = "add_note"
	ToolReadNotes    = "read_notes"
	ToolFetchWeather = "fetch_weather"
	ToolSearchNews   = "search_news"

	ResourceLatestNote = "notes://latest"

	PromptNoteSummary = "note_summary_prompt"
)

// NoteSavedMessage はadd_note成功時の確認メッセージ
const NoteSavedMessage = "Note saved!"

// EmptySummaryMessage はノートが無い場合のプロンプト
const EmptySummaryMessage = "There are no notes yet."

// SummaryPromptPrefix は要約プロンプトの定型部分
const SummaryPromptPrefix = "Summarize the current notes: "

// WeatherFetcher は天気取得の抽象
type WeatherFetcher interface {
	Fetch(ctx context.Context, city string) (string, error)
}

// NewsSearcher はニュース検索の抽象
type NewsSearcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// NoteStore はノートログ操作の抽象
type NoteStore interface {
	Append(message string) error
	ReadAll() (string, error)
	ReadLatest() (string, error)
}

// Build は全capabilityを登録したRegistryを構築する
// 登録は起動時に一度だけ行い、以降Registryは不変
func Build(store NoteStore, weather WeatherFetcher, news NewsSearcher) (*Registry, error) {
	r := New()

	descriptors := []*Descriptor{
		{
			Kind:        KindTool,
			Name:        ToolAddNote,
			Description: "Append a new note to the note file.",
			Args: []ArgSpec{
				{Name: "message", Type: "string", Description: "The note content to be added.", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				message, _ := args["message"].(string)
				if err := store.Append(message); err != nil {
					return "", err
				}
				return NoteSavedMessage, nil
			},
		},
		{
			Kind:        KindTool,
			Name:        ToolReadNotes,
			Description: "Read and return all notes from the note file.",
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				return store.ReadAll()
			},
		},
		{
			Kind:        KindTool,
			Name:        ToolFetchWeather,
			Description: "Fetch current weather for a city.",
			Args: []ArgSpec{
				{Name: "city", Type: "string", Description: "City name to fetch weather for.", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				city, _ := args["city"].(string)
				return weather.Fetch(ctx, city)
			},
		},
		{
			Kind:        KindTool,
			Name:        ToolSearchNews,
			Description: "Fetch search results from Google News via Serper.",
			Args: []ArgSpec{
				{Name: "query", Type: "string", Description: "News search query.", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				query, _ := args["query"].(string)
				return news.Search(ctx, query)
			},
		},
		{
			Kind:        KindResource,
			Name:        ResourceLatestNote,
			Description: "Get the most recently added note from the note file.",
			MimeType:    "text/plain",
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				return store.ReadLatest()
			},
		},
		{
			Kind:        KindPrompt,
			Name:        PromptNoteSummary,
			Description: "Generate a prompt asking the AI to summarize all current notes.",
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				content, err := store.ReadAll()
				if err != nil {
					return "", err
				}
				if content == notes.NoNotesMessage {
					return EmptySummaryMessage, nil
				}
				return SummaryPromptPrefix + content, nil
			},
		},
	}

	for _, d := range descriptors {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}

	return r, nil
}
