package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"poe-overlay/internal/cache"
	"poe-overlay/internal/config"
	"poe-overlay/internal/db"
	"poe-overlay/internal/filewalker"
	"poe-overlay/internal/graph"
	"poe-overlay/internal/item"
	"poe-overlay/internal/processor"
	"poe-overlay/internal/query"
	"poe-overlay/internal/textutil"
	"poe-overlay/internal/worker"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, cancel := setupContext()
	err := newRootCmd().ExecuteContext(ctx)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool
	var language string

	rootCmd := &cobra.Command{
		Use:          "poe-overlay",
		Short:        "Parse Path of Exile item texts into structured items",
		Long:         "Reads item texts copied from the game client, matches their modifiers against the stat corpus and builds trade queries.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&language, "language", "", "Client language (overrides POE_LANGUAGE)")

	loadConfig := func() *config.Config {
		cfg := config.Load()
		if language != "" {
			cfg.Language = language
		}
		return cfg
	}

	rootCmd.AddCommand(parseCmd(loadConfig))
	rootCmd.AddCommand(parseDirCmd(loadConfig))
	rootCmd.AddCommand(searchCmd(loadConfig))
	rootCmd.AddCommand(queryCmd(loadConfig))
	rootCmd.AddCommand(migrateCmd(loadConfig))
	rootCmd.AddCommand(seedGraphCmd(loadConfig))
	rootCmd.AddCommand(pseudosCmd(loadConfig))
	rootCmd.AddCommand(twinsCmd(loadConfig))
	return rootCmd
}

func parseCmd(loadConfig func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse one item text and print it as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd.Context(), loadConfig(), inputArg(args), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func parseDirCmd(loadConfig func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "parse-dir <directory>",
		Short: "Parse every item of the .txt dumps under a directory, one JSON line per item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParseDir(cmd.Context(), loadConfig(), args[0], cmd.OutOrStdout())
		},
	}
}

func searchCmd(loadConfig func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "search <line>...",
		Short: "Match modifier lines against the stat corpus",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(loadConfig(), args, cmd.OutOrStdout())
		},
	}
}

func queryCmd(loadConfig func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [file|-]",
		Short: "Build the default trade query of an item text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if path, _ := cmd.Flags().GetString("settings"); path != "" {
				cfg.SettingsFile = path
			}
			return runQuery(cmd.Context(), cfg, inputArg(args), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("settings", "", "Query settings YAML (overrides POE_SETTINGS_FILE)")
	return cmd
}

func migrateCmd(loadConfig func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the cache table migrations to DATABASE_URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := loadConfig()
			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is not set")
			}
			if err := db.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
				return err
			}
			log.Info().Msg("Migrations applied")
			return nil
		},
	}
}

func seedGraphCmd(loadConfig func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-graph",
		Short: "Export the stat corpus and pseudo definitions to Neo4j",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeedGraph(cmd.Context(), loadConfig())
		},
	}
}

func pseudosCmd(loadConfig func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "pseudos <stat-id>",
		Short: "List the pseudo stats a stat id is folded into",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			driver, err := initGraph(ctx, loadConfig())
			if err != nil {
				return err
			}
			defer driver.Close(ctx)

			res, err := graph.NewStatGraph(driver).PseudosFor(ctx, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
}

func twinsCmd(loadConfig func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "twins <type.trade-id>",
		Short: "List the stats rendering the same text as a stat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			driver, err := initGraph(ctx, loadConfig())
			if err != nil {
				return err
			}
			defer driver.Close(ctx)

			res, err := graph.NewStatGraph(driver).TwinsOf(ctx, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// initCache builds the item cache. Without DATABASE_URL it is memory only;
// the returned pool is nil in that case.
func initCache(ctx context.Context, cfg *config.Config) (*cache.ItemCache, *pgxpool.Pool, error) {
	expiration, err := cache.ParseExpiration(cfg.CacheExpiration)
	if err != nil {
		return nil, nil, err
	}
	if cfg.DatabaseURL == "" {
		return cache.NewItemCache(nil, expiration), nil, nil
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	store := cache.NewPostgresStore(pool)
	if n, err := store.Purge(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to purge expired cache entries")
	} else {
		log.Debug().Int64("count", n).Msg("Purged expired cache entries")
	}
	c := cache.NewItemCache(store, expiration)
	if err := c.Preload(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to preload cache")
	}
	return c, pool, nil
}

// initGraph opens and verifies the Neo4j driver.
func initGraph(ctx context.Context, cfg *config.Config) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
	if err != nil {
		return nil, fmt.Errorf("connect Neo4j: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("verify Neo4j connectivity: %w", err)
	}
	log.Info().Msg("Connected to Neo4j")
	return driver, nil
}

// initDependencies loads the reference data and wires the pipeline.
func initDependencies(ctx context.Context, cfg *config.Config) (*pipeline, func(), error) {
	data, err := loadData(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("load reference data: %w", err)
	}
	itemCache, pool, err := initCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if pool != nil {
			pool.Close()
		}
	}
	p, err := newPipeline(cfg, data, itemCache)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return p, cleanup, nil
}

func inputArg(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}

func readInput(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read item text: %w", err)
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// runParse handles the `parse` command.
func runParse(ctx context.Context, cfg *config.Config, path string, stdin io.Reader, out io.Writer) error {
	text, err := readInput(path, stdin)
	if err != nil {
		return err
	}
	p, cleanup, err := initDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	it, err := p.Handle(ctx, text)
	if err != nil {
		return err
	}
	return writeJSON(out, it)
}

// parsedLine is one line of parse-dir output.
type parsedLine struct {
	Path  string     `json:"path"`
	Line  int        `json:"line"`
	Item  *item.Item `json:"item,omitempty"`
	Error string     `json:"error,omitempty"`
}

// runParseDir handles the `parse-dir` command.
func runParseDir(ctx context.Context, cfg *config.Config, dir string, out io.Writer) error {
	p, cleanup, err := initDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	w := filewalker.NewWalker()
	entries, err := w.Walk(dir)
	if err != nil {
		return fmt.Errorf("walk input directory: %w", err)
	}

	var texts []filewalker.ItemText
	for _, entry := range entries {
		items, err := w.ReadFile(entry)
		if err != nil {
			log.Error().Err(err).Str("file", entry.Path).Msg("Read failed")
			continue
		}
		texts = append(texts, items...)
	}

	log.Info().Int("files", len(entries)).Int("items", len(texts)).Msg("Starting batch parse")

	parsePool := worker.NewPool[filewalker.ItemText, *item.Item](cfg.WorkerCount,
		func(ctx context.Context, t filewalker.ItemText) (*item.Item, error) {
			return p.Handle(ctx, t.Text)
		},
	)

	enc := json.NewEncoder(out)
	failed := 0
	for _, batch := range worker.Batch(texts, 256) {
		for _, task := range parsePool.Execute(ctx, batch) {
			line := parsedLine{Path: task.Input.Path, Line: task.Input.Line, Item: task.Result}
			if task.Err != nil {
				failed++
				line.Error = task.Err.Error()
				log.Debug().Err(task.Err).
					Str("file", task.Input.Path).
					Int("line", task.Input.Line).
					Str("text", textutil.Truncate(textutil.FirstLine(task.Input.Text), 40)).
					Msg("Item skipped")
			}
			if err := enc.Encode(line); err != nil {
				return fmt.Errorf("write JSON: %w", err)
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	log.Info().
		Int("items", len(texts)).
		Int("failed", failed).
		Msg("Batch parse complete")
	return nil
}

// runSearch handles the `search` command.
func runSearch(cfg *config.Config, lines []string, out io.Writer) error {
	data, err := loadData(cfg)
	if err != nil {
		return fmt.Errorf("load reference data: %w", err)
	}
	p, err := newPipeline(cfg, data, nil)
	if err != nil {
		return err
	}
	return writeJSON(out, p.Search(lines))
}

// runQuery handles the `query` command.
func runQuery(ctx context.Context, cfg *config.Config, path string, stdin io.Reader, out io.Writer) error {
	settings, err := query.LoadSettings(cfg.SettingsFile)
	if err != nil {
		return err
	}
	text, err := readInput(path, stdin)
	if err != nil {
		return err
	}
	p, cleanup, err := initDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	it, err := p.Handle(ctx, text)
	if err != nil {
		return err
	}
	return writeJSON(out, query.Provide(it, settings))
}

// runSeedGraph handles the `seed-graph` command.
func runSeedGraph(ctx context.Context, cfg *config.Config) error {
	data, err := loadData(cfg)
	if err != nil {
		return fmt.Errorf("load reference data: %w", err)
	}

	driver, err := initGraph(ctx, cfg)
	if err != nil {
		return err
	}
	defer driver.Close(ctx)

	g := graph.NewStatGraph(driver)
	if err := g.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure graph schema: %w", err)
	}
	if err := g.SeedStats(ctx, data.Stats, processor.PseudoModifiers()); err != nil {
		return fmt.Errorf("seed stats: %w", err)
	}
	log.Info().Msg("Stat graph seeded")
	return nil
}
