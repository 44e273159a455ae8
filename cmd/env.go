package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/brandscout-cli/internal/disambig"
	"github.com/sells-group/brandscout-cli/internal/normalize"
	"github.com/sells-group/brandscout-cli/internal/registry"
	"github.com/sells-group/brandscout-cli/internal/resolver"
	"github.com/sells-group/brandscout-cli/internal/store"
	"github.com/sells-group/brandscout-cli/pkg/llm"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		path := cfg.Store.Path
		if path == "" {
			path = "brandscout.db"
		}
		return store.NewSQLite(path)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &cfg.Store.Pool)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initResolver builds a resolver from config. Pass noFallback to force
// deterministic-only resolution regardless of the anthropic settings.
func initResolver(noFallback bool) (*resolver.Resolver, error) {
	reg, err := registry.Load(cfg.Registry.Path)
	if err != nil {
		return nil, eris.Wrap(err, "load registry")
	}

	var analyzer disambig.Analyzer = disambig.NopAnalyzer{}
	if !noFallback && cfg.Anthropic.Enabled && cfg.Anthropic.Key != "" {
		client := llm.NewClient(cfg.Anthropic.Key)
		analyzer = disambig.NewLLMAnalyzer(
			client,
			cfg.Anthropic.Model,
			time.Duration(cfg.Anthropic.TimeoutSecs)*time.Second,
			disambig.Band{Low: cfg.Resolve.NearMissLow, High: cfg.Resolve.NearMissHigh},
		)
	} else {
		zap.L().Debug("disambiguation fallback disabled")
	}

	opts := resolver.Options{
		MinLocations: cfg.Resolve.MinLocations,
		MaxLocations: cfg.Resolve.MaxLocations,
		MinPrefix:    cfg.Resolve.MinPrefix,
	}
	if cfg.Resolve.ResolveRedirects {
		opts.Redirects = normalize.NewRedirectResolver(
			time.Duration(cfg.Resolve.RedirectTimeoutSecs)*time.Second,
			float64(cfg.Resolve.RedirectRPS),
			cfg.Resolve.RedirectWorkers,
		)
	}

	return resolver.New(reg, analyzer, opts), nil
}
