package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yeisme/soundboard/pkg/configs"
	"github.com/yeisme/soundboard/pkg/tracing"
)

// maxManifestBytes 单个清单的读取上限.
const maxManifestBytes = 8 << 20

// HTTPSource 从静态内容服务器读取清单，依赖服务器侧的 HTTP 缓存.
type HTTPSource struct {
	base      *url.URL
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker
	userAgent string
}

// NewHTTPSource 创建 HTTP 来源. breakerCfg 未启用时不经过熔断器.
func NewHTTPSource(baseURL string, client *http.Client, breakerCfg configs.CircuitBreakerConfig, userAgent string) (*HTTPSource, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse catalog base url: %w", err)
	}

	if client == nil {
		client = http.DefaultClient
	}

	s := &HTTPSource{base: base, client: client, userAgent: userAgent}

	if breakerCfg.Enabled {
		s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "catalog-http",
			MaxRequests: breakerCfg.MaxRequestsInHalf,
			Interval:    breakerCfg.Interval(),
			Timeout:     breakerCfg.Timeout(),
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if counts.Requests < breakerCfg.MinRequests {
					return false
				}

				return float64(counts.TotalFailures)/float64(counts.Requests) >= breakerCfg.FailureRate
			},
			// 404 是内容缺失，不是服务器故障
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrNotFound)
			},
		})
	}

	return s, nil
}

// Describe 实现 Source.
func (s *HTTPSource) Describe() string {
	return s.base.String()
}

// Fetch 实现 Source.
func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	ctx, span := tracing.StartSpan(ctx, "catalog.http.fetch")
	defer span.End()

	target := s.base.JoinPath(name)
	span.SetAttributes(attribute.String("http.url", target.String()))

	if s.breaker == nil {
		data, err := s.get(ctx, target.String())
		tracing.RecordError(span, err)

		return data, err
	}

	out, err := s.breaker.Execute(func() (interface{}, error) {
		return s.get(ctx, target.String())
	})
	if err != nil {
		tracing.RecordError(span, err)

		return nil, err
	}

	return out.([]byte), nil
}

func (s *HTTPSource) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, target)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: unexpected status %s", target, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}

	return data, nil
}

func init() {
	RegisterSourceFactory(configs.CatalogSourceHTTP, func(_ context.Context, cfg *configs.AppConfig) (Source, error) {
		client := &http.Client{Timeout: cfg.Catalog.Timeout}

		return NewHTTPSource(cfg.Catalog.BaseURL, client, cfg.CircuitBreaker, cfg.Catalog.UserAgent)
	})
}
