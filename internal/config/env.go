package config

import (
	"os"

	"github.com/kfurue/notes_mcp/internal/model"
)

// 環境変数名の定数
const (
	EnvWeatherAPIKey  = "WEATHER_API_KEY"
	EnvSerperAPIKey   = "SERPER_API_KEY"
	EnvAgentOpsAPIKey = "AGENTOPS_API_KEY"
	EnvNotesFile      = "MCP_NOTES_FILE"
	EnvLogLevel       = "MCP_NOTES_LOG_LEVEL"
)

// ApplyEnvOverrides は環境変数による設定上書きを適用する
// config を直接変更する
func ApplyEnvOverrides(config *model.Config) {
	// 天気APIキーの環境変数上書き
	if apiKey := os.Getenv(EnvWeatherAPIKey); apiKey != "" {
		config.Weather.APIKey = &apiKey
	}

	// ニュース検索APIキーの環境変数上書き
	if apiKey := os.Getenv(EnvSerperAPIKey); apiKey != "" {
		config.News.APIKey = &apiKey
	}

	// テレメトリAPIキーの環境変数上書き
	if apiKey := os.Getenv(EnvAgentOpsAPIKey); apiKey != "" {
		config.Telemetry.APIKey = &apiKey
	}

	// ノートログファイルパスの環境変数上書き
	if notesPath := os.Getenv(EnvNotesFile); notesPath != "" {
		config.Paths.NotesPath = notesPath
	}

	// ログレベルの環境変数上書き
	if level := os.Getenv(EnvLogLevel); level != "" {
		config.Logging.Level = level
	}
}
