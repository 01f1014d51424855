package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kfurue/notes_mcp/internal/bootstrap"
	"github.com/kfurue/notes_mcp/internal/jsonrpc"
	"github.com/kfurue/notes_mcp/internal/model"
	"github.com/kfurue/notes_mcp/internal/telemetry"
	"github.com/kfurue/notes_mcp/internal/transport/http"
	"github.com/kfurue/notes_mcp/internal/transport/stdio"
)

// ビルド時変数（-ldflags で変更可能）
var (
	defaultTransport = "stdio"
	version          = "dev"
)

// Options はCLI引数オプション
type Options struct {
	Transport    string
	TransportSet bool // -t/--transport が明示指定されたか
	Host         string
	Port         int
	ConfigPath   string
}

func main() {
	var err error

	// 引数なしの場合はserveをデフォルト実行
	if len(os.Args) < 2 {
		err = run([]string{})
	} else {
		switch os.Args[1] {
		case "serve":
			// 既存の run() フローを使用
			err = run(os.Args[1:])
		case "notes":
			err = runNotesCmd(os.Args[2:])
		case "version", "-v", "--version":
			printVersion()
			return
		case "help", "-h", "--help":
			printUsage()
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
			printUsage()
			os.Exit(1)
		}
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// printUsage prints the usage information
func printUsage() {
	fmt.Println(`mcp-notes - Local MCP Notes Server

Usage:
  mcp-notes <command> [options]

Commands:
  serve     Start the MCP server (stdio or HTTP)
  notes     List saved notes (oneshot command)
  version   Print version information
  help      Print this help message

Serve Options:
  -t, --transport string   Transport type: stdio, http (default: stdio)
  --host string            HTTP host (default: 127.0.0.1)
  -p, --port int           HTTP port (default: 8765)
  -c, --config string      Config file path

Notes Options:
  --latest                 Show only the most recent note
  -f, --format string      Output format: text, json (default: text)
  -c, --config string      Config file path

Examples:
  mcp-notes serve
  mcp-notes serve -t http -p 8080
  mcp-notes notes
  mcp-notes notes --latest -f json`)
}

// printVersion prints the version information
func printVersion() {
	fmt.Printf("mcp-notes version %s\n", version)
}

// run は実際の処理を行う（テスト容易性のため分離）
func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := setupSignalHandler()
	defer cancel()

	return runServe(ctx, opts)
}

// parseFlags は引数をパースしてOptionsを返す
func parseFlags(args []string) (*Options, error) {
	fs := flag.NewFlagSet("mcp-notes", flag.ContinueOnError)

	opts := &Options{}
	fs.StringVar(&opts.Transport, "transport", defaultTransport, "Transport type: stdio, http")
	fs.StringVar(&opts.Transport, "t", defaultTransport, "Transport type (shorthand)")
	fs.StringVar(&opts.Host, "host", "127.0.0.1", "HTTP host")
	fs.IntVar(&opts.Port, "port", 8765, "HTTP port")
	fs.IntVar(&opts.Port, "p", 8765, "HTTP port (shorthand)")
	fs.StringVar(&opts.ConfigPath, "config", "", "Config file path")
	fs.StringVar(&opts.ConfigPath, "c", "", "Config file path (shorthand)")

	// 空配列の場合はserveをデフォルトとして扱う
	// serveサブコマンド確認（引数なしまたは"serve"で始まる場合のみ許可）
	var flagArgs []string
	if len(args) == 0 {
		// 引数なし: デフォルトでserve
		flagArgs = []string{}
	} else if args[0] == "serve" {
		flagArgs = args[1:]
	} else {
		return nil, fmt.Errorf("usage: mcp-notes serve [options]")
	}

	if err := fs.Parse(flagArgs); err != nil {
		return nil, err
	}

	// 明示指定の有無を記録（未指定なら設定ファイルのデフォルトに従う）
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "transport" || f.Name == "t" {
			opts.TransportSet = true
		}
	})

	// バリデーション
	if opts.Transport != "stdio" && opts.Transport != "http" {
		return nil, fmt.Errorf("invalid transport: %s (must be stdio or http)", opts.Transport)
	}
	if opts.Port < 1 || opts.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d (must be 1-65535)", opts.Port)
	}

	return opts, nil
}

// setupSignalHandler はSIGINT/SIGTERMを受けてcontextをキャンセルする
func setupSignalHandler() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	return ctx, cancel
}

// runServe はserveコマンドを実行
func runServe(ctx context.Context, opts *Options) error {
	// bootstrap.Initializeを使用して共通初期化ロジックを実行
	services, cleanup, err := bootstrap.Initialize(opts.ConfigPath)
	if err != nil {
		return err
	}
	defer cleanup()

	// セッション通知はfire-and-forget
	services.Telemetry.StartSession(ctx)
	endState := telemetry.EndStateSuccess
	defer func() {
		services.Telemetry.EndSession(context.Background(), endState)
	}()

	// JSON-RPC Handler初期化
	handler := jsonrpc.New(services.Registry)

	transport, err := resolveTransport(opts, services.Config)
	if err != nil {
		endState = telemetry.EndStateFail
		return err
	}

	// transport起動
	var runErr error
	switch transport {
	case "stdio":
		server := stdio.New(handler, stdio.WithLogger(services.Logger))
		runErr = server.Run(ctx)
	case "http":
		server := http.New(handler, buildHTTPConfig(opts, services.Config), http.WithLogger(services.Logger))
		runErr = server.Run(ctx)
	default:
		runErr = fmt.Errorf("unknown transport: %s", transport)
	}

	if runErr != nil {
		endState = telemetry.EndStateFail
	}
	return runErr
}

// resolveTransport は使用するtransportを決定する
// フラグ明示指定 > 設定ファイルのtransportDefaults > ビルド時デフォルト
func resolveTransport(opts *Options, cfg *model.Config) (string, error) {
	if opts.TransportSet {
		return opts.Transport, nil
	}

	configured := cfg.TransportDefaults.DefaultTransport
	if configured == "" {
		return opts.Transport, nil
	}
	if configured != "stdio" && configured != "http" {
		return "", fmt.Errorf("invalid transport in config: %s (must be stdio or http)", configured)
	}
	return configured, nil
}

// buildHTTPConfig はHTTPサーバー設定を組み立てる（CORS含む）
func buildHTTPConfig(opts *Options, cfg *model.Config) http.Config {
	return http.Config{
		Addr:        fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		CORSOrigins: cfg.HTTP.CORSOrigins,
	}
}
