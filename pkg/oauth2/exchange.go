package oauth2

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"authflow/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "authflow/pkg/oauth2"

// Exchanger trades an authorization code for a token response
type Exchanger interface {
	Exchange(ctx context.Context, cfg ProviderConfig, code string) Result
}

// TokenExchanger performs the RFC 6749 §4.1.3 access token request over HTTP.
// The response body is passed through untouched; only the status code decides success.
type TokenExchanger struct {
	httpClient *http.Client
	logger     logger.Client
	tracer     trace.Tracer
	results    metric.Int64Counter
	duration   metric.Float64Histogram
}

func NewTokenExchanger(httpClient *http.Client, log logger.Client) *TokenExchanger {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	meter := otel.Meter(instrumentationName)
	// instrument errors only happen on invalid names; the no-op instruments are still usable
	results, _ := meter.Int64Counter("oauth2.exchange.results",
		metric.WithDescription("Token exchanges by outcome"))
	duration, _ := meter.Float64Histogram("oauth2.exchange.duration",
		metric.WithDescription("Token exchange latency"), metric.WithUnit("s"))

	return &TokenExchanger{
		httpClient: httpClient,
		logger:     log,
		tracer:     otel.Tracer(instrumentationName),
		results:    results,
		duration:   duration,
	}
}

func (e *TokenExchanger) Exchange(ctx context.Context, cfg ProviderConfig, code string) Result {
	ctx, span := e.tracer.Start(ctx, "oauth2.exchange", trace.WithAttributes(
		attribute.String("oauth2.provider", cfg.Name),
	))
	defer span.End()

	start := time.Now()
	res := e.exchange(ctx, cfg, code)

	attrs := []attribute.KeyValue{
		attribute.String("oauth2.provider", cfg.Name),
		attribute.String("oauth2.result", string(res.Status)),
	}
	e.results.Add(ctx, 1, metric.WithAttributes(attrs...))
	e.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attrs...))

	span.SetAttributes(attribute.String("oauth2.result", string(res.Status)))
	if res.StatusCode != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", res.StatusCode))
	}
	if !res.OK() {
		span.SetStatus(codes.Error, string(res.Status))
	}
	return res
}

func (e *TokenExchanger) exchange(ctx context.Context, cfg ProviderConfig, code string) Result {
	data := url.Values{}
	data.Set("client_id", cfg.ClientID)
	data.Set("client_secret", cfg.ClientSecret)
	data.Set("grant_type", "authorization_code")
	data.Set("redirect_uri", cfg.RedirectURI)
	data.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return e.failure(cfg, "", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return e.failure(cfg, "", err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		if readErr != nil {
			return e.failure(cfg, string(body), readErr)
		}
		e.logger.Debug("token exchange succeeded",
			logger.Field{Key: "provider", Value: cfg.Name},
			logger.Field{Key: "status", Value: resp.StatusCode},
		)
		return Result{
			Status:     StatusSuccess,
			Body:       string(body),
			StatusCode: resp.StatusCode,
			TokenURL:   cfg.TokenURL,
		}
	}

	fields := []logger.Field{
		{Key: "provider", Value: cfg.Name},
		{Key: "status", Value: resp.StatusCode},
		{Key: "status_text", Value: resp.Status},
		{Key: "body", Value: string(body)},
	}
	if readErr != nil {
		fields = append(fields, logger.Err(readErr))
	}
	e.logger.Warn("token endpoint returned error", fields...)

	return Result{
		Status:     StatusHTTPError,
		Body:       string(body),
		StatusCode: resp.StatusCode,
		TokenURL:   cfg.TokenURL,
	}
}

func (e *TokenExchanger) failure(cfg ProviderConfig, partial string, err error) Result {
	e.logger.Error("token exchange failed",
		logger.Field{Key: "provider", Value: cfg.Name},
		logger.Field{Key: "token_url", Value: cfg.TokenURL},
		logger.Err(err),
	)
	return Result{
		Status:    StatusFailure,
		Body:      partial,
		Exception: err.Error(),
		TokenURL:  cfg.TokenURL,
	}
}
