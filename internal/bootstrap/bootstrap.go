// Package bootstrap provides common initialization logic for mcp-notes.
package bootstrap

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/kfurue/notes_mcp/internal/config"
	"github.com/kfurue/notes_mcp/internal/fetch"
	"github.com/kfurue/notes_mcp/internal/model"
	"github.com/kfurue/notes_mcp/internal/notes"
	"github.com/kfurue/notes_mcp/internal/registry"
	"github.com/kfurue/notes_mcp/internal/telemetry"
)

// Services は初期化されたサービス群を保持
type Services struct {
	Registry  *registry.Registry
	Store     *notes.Store
	Weather   *fetch.WeatherClient
	News      *fetch.NewsClient
	Telemetry *telemetry.Client
	Config    *model.Config
	Logger    *logrus.Logger
}

// Initialize は設定を読み込み、必要なサービスを初期化する
func Initialize(configPath string) (*Services, func(), error) {
	// 設定マネージャーの作成
	configManager, err := config.NewManager(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	// 設定ファイルの読み込み
	if err := configManager.Load(); err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg := configManager.GetConfig()

	// ロガー初期化
	// stdoutはレスポンス専用のためログは必ずstderrに出す
	log := newLogger(cfg.Logging.Level)

	// 1. Store初期化
	store := notes.NewStore(cfg.Paths.NotesPath)

	// 2. Fetcher初期化
	weather := fetch.NewWeatherClient(&cfg.Weather, fetch.DefaultTimeout)
	news := fetch.NewNewsClient(&cfg.News, fetch.DefaultTimeout)

	// 3. Registry構築
	reg, err := registry.Build(store, weather, news)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build capability registry: %w", err)
	}

	// 4. Telemetry初期化
	tel := telemetry.NewClient(&cfg.Telemetry, telemetry.WithLogger(log))

	log.WithFields(logrus.Fields{
		"config":    configManager.GetConfigPath(),
		"notes":     store.Path(),
		"telemetry": tel.Enabled(),
	}).Info("services initialized")

	cleanup := func() {}

	return &Services{
		Registry:  reg,
		Store:     store,
		Weather:   weather,
		News:      news,
		Telemetry: tel,
		Config:    cfg,
		Logger:    log,
	}, cleanup, nil
}

// newLogger はログレベル設定に従ってロガーを生成する
func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}
