package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/kfurue/notes_mcp/internal/bootstrap"
	"github.com/kfurue/notes_mcp/internal/notes"
)

// NotesOptions holds parsed notes command options
type NotesOptions struct {
	Latest     bool
	Format     string
	ConfigPath string
}

// NotesOutput represents the JSON output format
type NotesOutput struct {
	Notes []string `json:"notes"`
	Count int      `json:"count"`
}

// parseNotesFlags parses command line arguments for notes command
func parseNotesFlags(args []string) (*NotesOptions, error) {
	fs := flag.NewFlagSet("notes", flag.ContinueOnError)
	fs.SetOutput(io.Discard) // suppress default error output

	opts := &NotesOptions{}

	// Long flags
	fs.BoolVar(&opts.Latest, "latest", false, "Show only the most recent note")
	fs.StringVar(&opts.Format, "format", "text", "Output format: text|json")
	fs.StringVar(&opts.ConfigPath, "config", "", "Config file path")

	// Short flags
	fs.StringVar(&opts.Format, "f", "text", "Output format: text|json")
	fs.StringVar(&opts.ConfigPath, "c", "", "Config file path")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Set default format if not specified
	if opts.Format == "" {
		opts.Format = "text"
	}

	// Validation
	if len(fs.Args()) > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", fs.Args()[0])
	}
	if opts.Format != "text" && opts.Format != "json" {
		return nil, fmt.Errorf("invalid format: %s (must be text or json)", opts.Format)
	}

	return opts, nil
}

// runNotesCmd is the entry point for notes command
func runNotesCmd(args []string) error {
	opts, err := parseNotesFlags(args)
	if err != nil {
		return err
	}

	// Initialize services
	services, cleanup, err := bootstrap.Initialize(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer cleanup()

	entries, err := loadNotes(services.Store, opts.Latest)
	if err != nil {
		return fmt.Errorf("failed to read notes: %w", err)
	}

	// Output results
	switch opts.Format {
	case "json":
		if err := formatJSONOutput(os.Stdout, entries); err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
	default:
		formatTextOutput(os.Stdout, entries)
	}

	return nil
}

// loadNotes reads notes from the store, one entry per line
func loadNotes(store *notes.Store, latestOnly bool) ([]string, error) {
	if latestOnly {
		latest, err := store.ReadLatest()
		if err != nil {
			return nil, err
		}
		if latest == notes.NoNotesMessage {
			return nil, nil
		}
		return []string{latest}, nil
	}

	content, err := store.ReadAll()
	if err != nil {
		return nil, err
	}
	if content == notes.NoNotesMessage {
		return nil, nil
	}
	return strings.Split(content, "\n"), nil
}

// formatTextOutput outputs notes in human-readable text format
func formatTextOutput(w io.Writer, entries []string) {
	if len(entries) == 0 {
		fmt.Fprintln(w, notes.NoNotesMessage)
		return
	}

	index := color.New(color.FgCyan, color.Bold)
	for i, entry := range entries {
		index.Fprintf(w, "[%d] ", i+1)
		fmt.Fprintln(w, entry)
	}

	count := color.New(color.Faint)
	count.Fprintf(w, "\n%d note(s)\n", len(entries))
}

// formatJSONOutput outputs notes in JSON format
func formatJSONOutput(w io.Writer, entries []string) error {
	output := NotesOutput{
		Notes: entries,
		Count: len(entries),
	}
	if output.Notes == nil {
		output.Notes = []string{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
