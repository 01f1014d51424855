package model

// Config はサーバー全体の設定を表す
type Config struct {
	TransportDefaults TransportDefaults `json:"transportDefaults"`
	HTTP              HTTPConfig        `json:"http"`
	Weather           WeatherConfig     `json:"weather"`
	News              NewsConfig        `json:"news"`
	Telemetry         TelemetryConfig   `json:"telemetry"`
	Logging           LoggingConfig     `json:"logging"`
	Paths             PathsConfig       `json:"paths"`
}

// TransportDefaults はtransportのデフォルト設定
type TransportDefaults struct {
	DefaultTransport string `json:"defaultTransport"` // "stdio" | "http"
}

// HTTPConfig はHTTP transportの設定
type HTTPConfig struct {
	CORSOrigins []string `json:"corsOrigins,omitempty"` // 許可するオリジン、空ならCORS無効
}

// WeatherConfig は天気APIクライアント設定
type WeatherConfig struct {
	BaseURL string  `json:"baseUrl"`          // 例: "http://api.weatherapi.com/v1"
	APIKey  *string `json:"apiKey,omitempty"` // nullable、環境変数で上書き可
}

// NewsConfig はニュース検索APIクライアント設定
type NewsConfig struct {
	BaseURL  string  `json:"baseUrl"`          // 例: "https://google.serper.dev"
	APIKey   *string `json:"apiKey,omitempty"` // nullable、環境変数で上書き可
	PageSize int     `json:"pageSize"`         // 1リクエストの取得件数
}

// TelemetryConfig はセッショントラッキング設定
// APIKeyが未設定の場合はテレメトリ無効
type TelemetryConfig struct {
	Endpoint string  `json:"endpoint"`
	APIKey   *string `json:"apiKey,omitempty"`
}

// LoggingConfig はログ設定
type LoggingConfig struct {
	Level string `json:"level"` // logrusレベル名（"info"など）
}

// PathsConfig はファイルパス設定
type PathsConfig struct {
	ConfigPath string `json:"configPath"` // 設定ファイルパス
	NotesPath  string `json:"notesPath"`  // ノートログファイルパス
}

// Transport定数
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)
