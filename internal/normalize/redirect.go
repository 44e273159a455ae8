package normalize

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/brandscout-cli/internal/resilience"
)

// RedirectResolver follows website redirects so vanity and tracking domains
// collapse onto the brand's canonical domain before grouping. Resolution is
// best effort: any failure returns the input URL unchanged.
type RedirectResolver struct {
	client  *http.Client
	limiter *rate.Limiter
	workers int

	mu    sync.Mutex
	cache map[string]string
}

// NewRedirectResolver creates a resolver with the given per-request timeout,
// requests-per-second limit, and worker count.
func NewRedirectResolver(timeout time.Duration, rps float64, workers int) *RedirectResolver {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if rps <= 0 {
		rps = 20
	}
	if workers <= 0 {
		workers = 10
	}
	return &RedirectResolver{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		workers: workers,
		cache:   make(map[string]string),
	}
}

// Resolve returns the final URL after redirects, or the input on any error.
func (r *RedirectResolver) Resolve(ctx context.Context, rawURL string) string {
	if rawURL == "" {
		return rawURL
	}

	r.mu.Lock()
	if final, ok := r.cache[rawURL]; ok {
		r.mu.Unlock()
		return final
	}
	r.mu.Unlock()

	final := r.fetch(ctx, rawURL)

	r.mu.Lock()
	r.cache[rawURL] = final
	r.mu.Unlock()

	return final
}

// ResolveAll resolves a batch of URLs with bounded concurrency and returns
// a map from input URL to final URL. Failed lookups map to themselves.
func (r *RedirectResolver) ResolveAll(ctx context.Context, urls []string) map[string]string {
	unique := make([]string, 0, len(urls))
	seen := make(map[string]bool, len(urls))
	for _, u := range urls {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		unique = append(unique, u)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for _, u := range unique {
		g.Go(func() error {
			r.Resolve(ctx, u)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	out := make(map[string]string, len(unique))
	r.mu.Lock()
	for _, u := range unique {
		if final, ok := r.cache[u]; ok {
			out[u] = final
		} else {
			out[u] = u
		}
	}
	r.mu.Unlock()

	return out
}

// redirectRetryConfig keeps redirect probes cheap: one retry on transient
// network failures or rate-limit responses, short backoff.
var redirectRetryConfig = resilience.RetryConfig{
	MaxAttempts:    2,
	InitialBackoff: 200 * time.Millisecond,
	MaxBackoff:     time.Second,
	Multiplier:     2.0,
	OnRetry:        resilience.RetryLogger("redirect", "head"),
}

func (r *RedirectResolver) fetch(ctx context.Context, rawURL string) string {
	target := rawURL
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = "https://" + target
	}

	final, err := resilience.DoVal(ctx, redirectRetryConfig, func(ctx context.Context) (string, error) {
		if err := r.limiter.Wait(ctx); err != nil {
			return "", err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
		if err != nil {
			return "", err
		}

		resp, err := r.client.Do(req)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()

		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return "", resilience.NewTransientError(
				eris.Errorf("redirect probe: status %d", resp.StatusCode), resp.StatusCode)
		}

		if resp.Request != nil && resp.Request.URL != nil {
			return resp.Request.URL.String(), nil
		}
		return target, nil
	})
	if err != nil {
		zap.L().Debug("normalize: redirect lookup failed",
			zap.String("url", rawURL),
			zap.Error(err),
		)
		return rawURL
	}
	return final
}
