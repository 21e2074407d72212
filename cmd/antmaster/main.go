package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/antmaster"
	"github.com/fwojciec/antmaster/catalog"
	"github.com/fwojciec/antmaster/config"
	"github.com/fwojciec/antmaster/enrich"
	"github.com/fwojciec/antmaster/expert"
	"github.com/fwojciec/antmaster/gemini"
	amgin "github.com/fwojciec/antmaster/gin"
	"github.com/fwojciec/antmaster/goquery"
	"github.com/fwojciec/antmaster/htmltomarkdown"
	amhttp "github.com/fwojciec/antmaster/http"
	"github.com/fwojciec/antmaster/llm"
	"github.com/fwojciec/antmaster/mcp"
	"github.com/fwojciec/antmaster/readability"
	amslog "github.com/fwojciec/antmaster/slog"
	"github.com/fwojciec/antmaster/sqlite"
	"github.com/fwojciec/antmaster/trafilatura"
	"github.com/fwojciec/antmaster/websocket"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Lookup reads environment variables. Defaults to the process
	// environment plus the --env-file contents.
	Lookup config.LookupFunc

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing. When set, Run uses them instead of
	// opening the database or building a knowledge backend.
	SpeciesService antmaster.SpeciesService
	Completer      antmaster.Completer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("antmaster"),
		kong.Description("Species catalog with a Spanish-speaking ant expert."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'antmaster --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := m.loadConfig(cli)
	if err != nil {
		return err
	}
	deps.Config = cfg
	deps.Logger = newLogger(cfg.Log, stderr)

	cmd := strings.Fields(kongCtx.Command())[0]

	// A remote ask needs neither the catalog nor a backend.
	if cmd == "ask" && !cli.Ask.Local {
		conn, err := websocket.Dial(ctx, cli.Ask.URL,
			websocket.WithTimeout(cfg.Server.RequestTimeout()),
			websocket.WithLogger(deps.Logger),
		)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: start a server with 'antmaster serve' or use --local")
			return err
		}
		defer conn.Close()
		deps.Asker = mcp.NewClient(conn)
		return kongCtx.Run(deps)
	}

	species := m.SpeciesService
	if species == nil {
		m.DB = sqlite.NewDB(cfg.Database.Path)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set ANTMASTER_DB or --db to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", cfg.Database.Path, err)
		}
		defer m.Close()
		species = sqlite.NewSpeciesService(m.DB)
	}
	deps.Species = species

	switch cmd {
	case "serve", "ask":
		completer := m.Completer
		if completer == nil {
			if completer, err = llm.NewCompleter(ctx, cfg.Backend); err != nil {
				return fmt.Errorf("failed to create knowledge backend: %w", err)
			}
			if _, ok := completer.(llm.Unconfigured); ok {
				deps.Logger.Warn("no knowledge backend configured; only catalog questions will be answered",
					"provider", cfg.Backend.Provider)
			}
		}
		completer = amslog.NewLoggingCompleter(completer, deps.Logger)
		deps.Asker = amslog.NewLoggingAsker(expert.NewService(species, completer), deps.Logger)

		deps.Server = amgin.NewServer(deps.Asker, species,
			amgin.WithLogger(deps.Logger),
			amgin.WithWebsocketOptions(
				websocket.WithTimeout(cfg.Server.RequestTimeout()),
				websocket.WithReadLimit(cfg.Server.ReadLimitBytes),
			),
		)

	case "import":
		deps.Importer = &catalog.Importer{
			Species: species,
			Logger: func(format string, args ...any) {
				deps.Logger.Debug(fmt.Sprintf(format, args...))
			},
		}

	case "enrich":
		fetcher := amslog.NewLoggingFetcher(amhttp.NewFetcher(), deps.Logger)
		defer fetcher.Close()

		deps.Enricher = &enrich.Enricher{
			Species:     species,
			Fetcher:     fetcher,
			Extractor:   trafilatura.NewExtractor(),
			Fallback:    readability.NewExtractor(),
			Converter:   htmltomarkdown.NewConverter(),
			Images:      goquery.NewImageFinder(),
			RateLimiter: enrich.NewDomainLimiter(cli.Enrich.Rate),
			Concurrency: cli.Enrich.Concurrency,
			Force:       cli.Enrich.Force,
			Limit:       cli.Enrich.Limit,
			Logger: func(format string, args ...any) {
				deps.Logger.Debug(fmt.Sprintf(format, args...))
			},
		}
		if cli.Enrich.CountTokens {
			tokenCounter, err := gemini.NewTokenCounter(gemini.DefaultTokenizerModel)
			if err != nil {
				return fmt.Errorf("failed to create token counter: %w", err)
			}
			deps.Enricher.TokenCounter = tokenCounter
		}
	}

	return kongCtx.Run(deps)
}

// loadConfig resolves configuration from defaults, the config file, the
// env file, the environment and global flags, in increasing precedence.
func (m *Main) loadConfig(cli *CLI) (*config.Config, error) {
	cfg, err := config.Load(cli.Config, true)
	if err != nil {
		return nil, err
	}

	lookup := m.Lookup
	if lookup == nil {
		if lookup, err = config.LoadEnvFile(cli.EnvFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}

	if cli.DB != "" {
		cfg.Database.Path = cli.DB
	}
	if cli.LogLevel != "" {
		cfg.Log.Level = cli.LogLevel
	}
	if cli.Serve.Addr != "" {
		cfg.Server.Addr = cli.Serve.Addr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
