package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"semaxis/internal/cache"
	"semaxis/internal/config"
	"semaxis/internal/embedding"
	"semaxis/internal/embedding/cached"
	"semaxis/internal/embedding/compat"
	"semaxis/internal/embedding/openai"
	"semaxis/internal/embedding/tfidf"
	"semaxis/internal/examples"
	"semaxis/internal/httpapi"
	"semaxis/internal/logger"
	"semaxis/internal/service"
	"semaxis/internal/tui"
)

const usage = `Usage: semaxis [--config=config.yaml] [--dataset=dataset.yaml] <command> [args]

Commands:
  init            write the sample example files
  build           build the semantic axis and save it
  score <text>... score each argument against the saved axis
  eval            run the evaluation report
  demo            score the built-in demo prompts
  serve           serve POST /project on the configured server address
  repl            demo run followed by the interactive prompt (default)
`

func main() {
	_ = godotenv.Load()

	var cfgPath, datasetPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ./config.yaml or ~/.config/semaxis/config.yaml if not provided)")
	flag.StringVar(&datasetPath, "dataset", "", "Path to a YAML evaluation dataset (optional; uses the built-in dataset)")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	command, args := "repl", flag.Args()
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, cfgPath, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, os.Stderr)
	log.Debug("config loaded", "path", cfgPath, "embedder", cfg.Embedder.Type)

	if datasetPath == "" {
		datasetPath = cfg.Evaluation.DatasetFile
	}
	if err := run(command, args, cfg, datasetPath, log, os.Stdout); err != nil {
		log.Error("command failed", "command", command, "err", err)
		os.Exit(1)
	}
}

func run(command string, args []string, cfg *config.AppConfig, datasetPath string, log *slog.Logger, out io.Writer) error {
	if command == "init" {
		return runInit(cfg, datasetPath, out)
	}
	switch command {
	case "build", "score", "eval", "demo", "serve", "repl":
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}

	emb, closeCache, err := newEmbedder(cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()
	svc := service.NewAxisService(emb, service.OptionsFromConfig(cfg), log)

	switch command {
	case "build":
		a, err := svc.Build()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Axis built: dimension %d, saved to %s\n", a.Dimension(), cfg.Data.AxisFile)
		return nil
	case "score":
		if len(args) == 0 {
			return errors.New("score needs at least one text argument")
		}
		if _, _, err := svc.LoadOrBuild(); err != nil {
			return err
		}
		results, err := svc.Analyze(args)
		if err != nil {
			return err
		}
		printProjections(out, results)
		return nil
	case "eval":
		ds, err := loadDataset(datasetPath)
		if err != nil {
			return err
		}
		if _, _, err := svc.LoadOrBuild(); err != nil {
			return err
		}
		r, err := svc.Evaluate(ds)
		if err != nil {
			return err
		}
		printReport(out, r)
		return nil
	case "demo":
		if _, _, err := svc.LoadOrBuild(); err != nil {
			return err
		}
		return runDemo(svc, out)
	case "serve":
		if _, _, err := svc.LoadOrBuild(); err != nil {
			return err
		}
		return serve(cfg.Server.Addr, httpapi.NewRouter(log, svc), log)
	default:
		if _, _, err := svc.LoadOrBuild(); err != nil {
			return err
		}
		if err := runDemo(svc, out); err != nil {
			return err
		}
		m := tui.New(svc, "Axis: "+cfg.Data.AxisFile+"  Embedder: "+emb.Name())
		_, err := tea.NewProgram(m).Run()
		return err
	}
}

func runInit(cfg *config.AppConfig, datasetPath string, out io.Writer) error {
	created, err := examples.EnsureSamples(cfg.Data.PositiveFile, cfg.Data.NegativeFile)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(out, "Sample examples written to %s and %s\n", cfg.Data.PositiveFile, cfg.Data.NegativeFile)
	} else {
		fmt.Fprintln(out, "Example files already exist, nothing written")
	}
	if datasetPath == "" {
		return nil
	}
	if _, err := os.Stat(datasetPath); err == nil {
		return nil
	}
	if err := examples.SaveDataset(datasetPath, examples.DefaultDataset()); err != nil {
		return err
	}
	fmt.Fprintf(out, "Evaluation dataset written to %s\n", datasetPath)
	return nil
}

func runDemo(svc *service.AxisService, out io.Writer) error {
	results, err := svc.Analyze(examples.DemoPrompts())
	if err != nil {
		return err
	}
	printProjections(out, results)
	return nil
}

// serve runs the HTTP API until SIGINT or SIGTERM, then shuts down gracefully.
func serve(addr string, h http.Handler, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Info("server listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loadDataset(path string) (examples.Dataset, error) {
	if path == "" {
		return examples.DefaultDataset(), nil
	}
	return examples.LoadDataset(path)
}

// newEmbedder assembles the configured embedder. Remote embedders are wrapped
// with the embedding cache; the returned func closes it.
func newEmbedder(cfg *config.AppConfig, log *slog.Logger) (embedding.Embedder, func(), error) {
	noop := func() {}
	var emb embedding.Embedder
	switch cfg.Embedder.Type {
	case "tfidf", "":
		return tfidf.NewEmbedder(), noop, nil
	case "compat":
		c := cfg.Embedder.Compat
		client, err := compat.NewClient(compat.Config{
			BaseURL:         c.BaseURL,
			APIKeyEnv:       c.APIKeyEnv,
			Model:           c.Model,
			Timeout:         time.Duration(c.TimeoutSecs) * time.Second,
			BatchSize:       c.BatchSize,
			MaxRetries:      c.MaxRetries,
			AllowMissingKey: c.AllowMissingKey,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("compat embedder init failed: %w", err)
		}
		emb = client
	case "openai":
		c := cfg.Embedder.OpenAI
		e, err := openai.NewEmbedder(openai.Config{
			BaseURL:    c.BaseURL,
			APIKeyEnv:  c.APIKeyEnv,
			Model:      c.Model,
			Timeout:    time.Duration(c.TimeoutSecs) * time.Second,
			BatchSize:  c.BatchSize,
			MaxRetries: c.MaxRetries,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("openai embedder init failed: %w", err)
		}
		emb = e
	default:
		return nil, noop, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}

	c := newCache(cfg, log)
	ttl := time.Duration(cfg.Cache.TTLSecs) * time.Second
	return cached.New(emb, c, ttl, log), func() { _ = c.Close() }, nil
}

// newCache connects to Redis when configured. Any other setting, or a Redis
// that cannot be reached, yields a NoOpCache.
func newCache(cfg *config.AppConfig, log *slog.Logger) cache.Cache {
	if cfg.Cache.Type != "redis" {
		return cache.NewNoOpCache()
	}
	rc, err := cache.NewRedisCache(cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB)
	if err != nil {
		log.Warn("embedding cache disabled", "addr", cfg.Cache.Addr, "err", err)
		return cache.NewNoOpCache()
	}
	return rc
}
