package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kfurue/notes_mcp/internal/model"
)

// Manager は設定の読み書きを管理する
type Manager struct {
	mu         sync.RWMutex
	config     *model.Config
	configPath string
}

// NewManager は新しいManagerを作成する
// configPathが空文字の場合、デフォルトパス（~/.mcp-notes/config.json）を使用
func NewManager(configPath string) (*Manager, error) {
	// configPathが空の場合はデフォルトパスを使用
	if configPath == "" {
		defaultPath, err := GetDefaultConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get default config path: %w", err)
		}
		configPath = defaultPath
	}

	// デフォルトのノートログパスを取得
	notesPath, err := GetDefaultNotesPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get default notes path: %w", err)
	}

	// デフォルト設定で初期化
	config := DefaultConfig(configPath, notesPath)

	return &Manager{
		config:     config,
		configPath: configPath,
	}, nil
}

// Load は設定ファイルを読み込み、環境変数による上書きを適用する
// ファイルが存在しない場合はデフォルト設定を使用（エラーなし）
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// ファイルが存在しない場合はデフォルト設定＋環境変数のみ
	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		ApplyEnvOverrides(m.config)
		return m.expandNotesPath()
	}

	// ファイルを読み込み
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// JSONをパース（ファイルで未指定の項目はデフォルト値を保持）
	config := m.config
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	config.Paths.ConfigPath = m.configPath
	if config.Paths.NotesPath == "" {
		notesPath, err := GetDefaultNotesPath()
		if err != nil {
			return fmt.Errorf("failed to get default notes path: %w", err)
		}
		config.Paths.NotesPath = notesPath
	}

	// 環境変数は設定ファイルより優先
	ApplyEnvOverrides(config)

	m.config = config
	return m.expandNotesPath()
}

// expandNotesPath はノートログパスの"~"をホームディレクトリに展開する
// 設定ファイル・環境変数のどちら由来でも展開後のパスを保持する
func (m *Manager) expandNotesPath() error {
	notesPath, err := ExpandTilde(m.config.Paths.NotesPath)
	if err != nil {
		return fmt.Errorf("failed to expand notes path: %w", err)
	}
	m.config.Paths.NotesPath = notesPath
	return nil
}

// Save は設定ファイルを保存する
func (m *Manager) Save() error {
	m.mu.RLock()
	config := m.config
	m.mu.RUnlock()

	// ディレクトリを作成
	configDir := filepath.Dir(m.configPath)
	if err := EnsureDir(configDir); err != nil {
		return err
	}

	// JSONにエンコード
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 一時ファイルに書き込み（atomicな保存のため）
	tmpFile := m.configPath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp config file: %w", err)
	}

	// 一時ファイルを本番ファイルにリネーム
	if err := os.Rename(tmpFile, m.configPath); err != nil {
		os.Remove(tmpFile) // クリーンアップ
		return fmt.Errorf("failed to rename config file: %w", err)
	}

	return nil
}

// GetConfig は現在の設定を返す（ロード済みの場合）
func (m *Manager) GetConfig() *model.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// GetConfigPath は設定ファイルパスを返す
func (m *Manager) GetConfigPath() string {
	return m.configPath
}

// NewManagerWithConfig は指定した設定でManagerを作成する（テスト用）
func NewManagerWithConfig(cfg *model.Config) *Manager {
	return &Manager{
		config:     cfg,
		configPath: "", // テスト用なので空
	}
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig(configPath, notesPath string) *model.Config {
	return &model.Config{
		TransportDefaults: model.TransportDefaults{
			DefaultTransport: model.TransportStdio,
		},
		Weather: model.WeatherConfig{
			BaseURL: DefaultWeatherBaseURL,
			APIKey:  nil,
		},
		News: model.NewsConfig{
			BaseURL:  DefaultNewsBaseURL,
			APIKey:   nil,
			PageSize: DefaultNewsPageSize,
		},
		Telemetry: model.TelemetryConfig{
			Endpoint: DefaultTelemetryEndpoint,
			APIKey:   nil,
		},
		Logging: model.LoggingConfig{
			Level: "info",
		},
		Paths: model.PathsConfig{
			ConfigPath: configPath,
			NotesPath:  notesPath,
		},
	}
}

// 外部サービスのデフォルトエンドポイント
const (
	DefaultWeatherBaseURL    = "http://api.weatherapi.com/v1"
	DefaultNewsBaseURL       = "https://google.serper.dev"
	DefaultNewsPageSize      = 10
	DefaultTelemetryEndpoint = "https://api.agentops.ai"
)
