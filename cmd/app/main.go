package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/voidwyrm/revw/internal"
	"github.com/voidwyrm/revw/internal/docservice"
	"github.com/voidwyrm/revw/internal/export"
	"github.com/voidwyrm/revw/internal/format"
	"github.com/voidwyrm/revw/internal/index"
	"github.com/voidwyrm/revw/internal/mcpserver"
	"github.com/voidwyrm/revw/internal/record"
	"github.com/voidwyrm/revw/internal/storage"
	"github.com/voidwyrm/revw/internal/tui"
	pkgconfig "github.com/voidwyrm/revw/pkg/config"
)

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "revw", "config.yaml")
}

// loadConfig reads the config file named by --config. A missing file
// leaves the defaults in place.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadIfExists(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// cliLogger logs to stderr so subcommand output on stdout stays clean.
func cliLogger(cfg *internal.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
}

func openWorkspace(cfg *internal.Config) (*storage.FS, *index.DB, error) {
	store, err := storage.NewFS(cfg.Workspace.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open workspace: %w", err)
	}
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open index: %w", err)
	}
	return store, db, nil
}

func runTUI(_ context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return errors.New("missing file argument (revw <file>)")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return tui.Run(path, tui.Options{
		AutoReload:    cfg.Workspace.AutoReload,
		GitAutocommit: cfg.Workspace.GitAutocommit,
		MaxVisible:    cfg.UI.MaxVisibleRecords,
	})
}

func runConvert(_ context.Context, cmd *cli.Command) error {
	input := cmd.Args().First()
	output := cmd.String("output")
	if input == "" || output == "" {
		return errors.New("usage: revw convert -o <target> <source>")
	}

	from, err := format.Detect(input)
	if err != nil {
		return err
	}
	to, err := format.Detect(output)
	if name := cmd.String("to"); name != "" {
		to, err = format.ParseName(name)
	}
	if err != nil {
		return err
	}

	var section *record.Section
	if name := cmd.String("section"); name != "" {
		s, err := record.ParseSection(name)
		if err != nil {
			return err
		}
		section = &s
	}

	src, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	appendTo := cmd.Bool("append")
	var existing []byte
	if appendTo {
		existing, err = os.ReadFile(output)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	out, err := docservice.Convert(src, from, existing, docservice.ConvertOptions{
		To:      to,
		Section: section,
		Append:  appendTo,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	if err := os.WriteFile(output, out, 0o644); err != nil {
		return err
	}
	fmt.Printf("converted %s to %s\n", input, output)
	return nil
}

func runExport(_ context.Context, cmd *cli.Command) error {
	input := cmd.Args().First()
	if input == "" {
		return errors.New("usage: revw export [-o out.png] <file>")
	}
	output := cmd.String("output")
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".png"
	}

	ft, err := format.Detect(input)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	doc, err := format.Parse(ft, data)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	if err := export.WritePNG(doc, output); err != nil {
		return err
	}
	fmt.Println("exported", output)
	return nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runMCP(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, db, err := openWorkspace(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// Stdout carries the protocol, so logs go to stderr.
	logger := cliLogger(cfg)
	if err := index.Sync(db, store, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}
	return mcpserver.New(store, db).ServeStdio()
}

func runSearch(_ context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if query == "" {
		return errors.New("usage: revw search <query>")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, db, err := openWorkspace(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := index.Sync(db, store, cliLogger(cfg)); err != nil {
		return fmt.Errorf("sync index: %w", err)
	}
	results, err := db.Search(query, int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("no matches")
		return nil
	}
	for _, r := range results {
		fmt.Printf("%s: %s\n", r.Path, r.Snippet)
	}
	return nil
}

func runIndex(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, db, err := openWorkspace(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := index.Sync(db, store, cliLogger(cfg)); err != nil {
		return fmt.Errorf("sync index: %w", err)
	}
	rows, err := db.ListDocuments()
	if err != nil {
		return err
	}
	fmt.Printf("indexed %d documents\n", len(rows))
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:      "revw",
		Usage:     "Vim-style record keeper: edit, convert, search and serve record documents",
		ArgsUsage: "[file]",
		Action:    runTUI,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "~/.config/revw/config.yaml",
				Value:       defaultConfigPath(),
				Sources:     cli.EnvVars("REVW_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "convert",
				Usage:     "Convert a document between serializations",
				ArgsUsage: "<source>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Target file (extension picks the format)"},
					&cli.StringFlag{Name: "to", Usage: "Target format: md, json or toon (overrides the extension)"},
					&cli.StringFlag{Name: "section", Usage: "Restrict to one section: outside or inside"},
					&cli.BoolFlag{Name: "append", Usage: "Merge into an existing target file"},
				},
				Action: runConvert,
			},
			{
				Name:      "export",
				Usage:     "Render a document to a PNG image",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output image path"},
				},
				Action: runExport,
			},
			{
				Name:   "serve",
				Usage:  "Serve the workspace over a read-only HTTP API",
				Action: runServe,
			},
			{
				Name:   "mcp",
				Usage:  "Expose workspace tools over the Model Context Protocol on stdio",
				Action: runMCP,
			},
			{
				Name:      "search",
				Usage:     "Full-text search across the workspace",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Usage: "Maximum number of results", Value: 20},
				},
				Action: runSearch,
			},
			{
				Name:   "index",
				Usage:  "Rebuild the workspace search index",
				Action: runIndex,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
