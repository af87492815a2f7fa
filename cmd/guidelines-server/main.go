// Command guidelines-server serves the conversion API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dd0wney/cluso-guidelines/pkg/api"
	"github.com/dd0wney/cluso-guidelines/pkg/archive"
	"github.com/dd0wney/cluso-guidelines/pkg/auth"
	"github.com/dd0wney/cluso-guidelines/pkg/cache"
	"github.com/dd0wney/cluso-guidelines/pkg/config"
	"github.com/dd0wney/cluso-guidelines/pkg/convert"
	"github.com/dd0wney/cluso-guidelines/pkg/events"
	"github.com/dd0wney/cluso-guidelines/pkg/health"
	"github.com/dd0wney/cluso-guidelines/pkg/logging"
	"github.com/dd0wney/cluso-guidelines/pkg/metrics"
	"github.com/dd0wney/cluso-guidelines/pkg/server"
	"github.com/dd0wney/cluso-guidelines/pkg/store"
	"github.com/dd0wney/cluso-guidelines/pkg/triples"
	"github.com/dd0wney/cluso-guidelines/pkg/vocabulary"
)

func main() {
	configPath := flag.String("config", os.Getenv("GUIDELINES_CONFIG"), "Path to YAML configuration")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "guidelines-server: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.Logging.Level))
	logging.SetDefaultLogger(logger)

	vocab, err := vocabulary.Load(cfg.Vocabulary.Path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	registry := metrics.DefaultRegistry()
	checker := health.NewHealthChecker()
	checker.RegisterCheck("vocabulary", health.VocabularyCheck(func() (int, int, error) {
		roles, classes := vocab.Counts()
		return roles, classes, nil
	}))
	checker.RegisterCheck("memory", health.MemoryCheck())

	opts := []convert.Option{
		convert.WithLogger(logger.With(logging.Component("convert"))),
		convert.WithMetrics(registry),
	}

	var results *cache.Cache[*triples.Result]
	if cfg.Cache.Enabled {
		results, err = cache.New[*triples.Result](cfg.Cache.Size)
		if err != nil {
			return err
		}
		opts = append(opts, convert.WithCache(results))
	}

	if cfg.Archive.Enabled {
		sink, err := archive.New(ctx, cfg.Archive)
		if err != nil {
			return fmt.Errorf("failed to open archive: %w", err)
		}
		opts = append(opts, convert.WithArchive(sink))
		checker.RegisterReadinessCheck("archive", health.DependencyCheck("archive", true, sink.Ping))
		logger.Info("Conversion archive enabled", logging.String("backend", cfg.Archive.Backend))
	}

	if cfg.Store.Enabled {
		st, err := store.New(ctx, cfg.Store.DatabaseURL, cfg.Store.MaxConns)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer st.Close()
		opts = append(opts, convert.WithRecorder(st))
		checker.RegisterReadinessCheck("store", health.DependencyCheck("store", true, st.Ping))
		logger.Info("Conversion store enabled")
	}

	if cfg.Events.Enabled {
		pub, err := events.NewPublisher(cfg.Events.URL)
		if err != nil {
			return fmt.Errorf("failed to open event socket: %w", err)
		}
		defer pub.Close()
		opts = append(opts, convert.WithEvents(pub))
		logger.Info("Conversion events enabled", logging.String("url", cfg.Events.URL))
	}

	svc := convert.New(vocab, opts...)

	apiOpts := []api.Option{
		api.WithLogger(logger.With(logging.Component("api"))),
		api.WithMetrics(registry),
		api.WithHealth(checker),
	}
	if cfg.Auth.Enabled {
		manager, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		if err != nil {
			return err
		}
		apiOpts = append(apiOpts, api.WithAuth(manager))
		logger.Info("Bearer token authentication enabled")
	}

	srv, err := api.NewServer(cfg.Server, svc, apiOpts...)
	if err != nil {
		return err
	}

	gs := server.NewGracefulServer(cfg.Server, srv.Handler(), logger.With(logging.Component("server")))
	gs.SetConfigReloadFunc(func() error {
		next, err := config.Load(configPath)
		if err != nil {
			return err
		}
		logger.SetLevel(logging.ParseLevel(next.Logging.Level))
		if results != nil {
			results.Purge()
		}
		logger.Info("Configuration reloaded",
			logging.String("level", next.Logging.Level),
			logging.Bool("cache_purged", results != nil),
		)
		return nil
	})

	logger.Info("Guideline converter starting",
		logging.String("addr", cfg.Server.Addr()),
		logging.Bool("auth", cfg.Auth.Enabled),
		logging.Bool("cache", cfg.Cache.Enabled),
	)
	return gs.Start()
}
