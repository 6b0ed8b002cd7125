package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"authflow/cfg"
	_ "authflow/cmd/oauth2/docs" // swagger docs
	"authflow/internal/audit"
	"authflow/pkg/cache"
	"authflow/pkg/db"
	"authflow/pkg/idgen"
	"authflow/pkg/logger"
	"authflow/pkg/oauth2"
	"authflow/pkg/telemetry"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const shutdownTimeout = 10 * time.Second

// @title           OAuth2 Authorization Flow API
// @version         1.0
// @description     Runs OAuth2 authorization code flows and exchanges the returned code for tokens.
// @BasePath        /
// @schemes         http
func main() {
	// ============
	// config
	// ============
	config, errCfg := cfg.Load()
	if errCfg != nil {
		log.Fatal(errCfg)
	}

	// ============
	// logger
	// ============
	zlogger := logger.NewZeroLog(config.AppEnv)

	if err := run(config, zlogger); err != nil {
		zlogger.Error("server exited", logger.Err(err))
		os.Exit(1)
	}
}

func run(config *cfg.Config, zlogger logger.Client) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ============
	// OpenTelemetry
	// ============
	shutdownOtel, err := telemetry.Init(ctx, config.Observability, zlogger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownOtel(shutdownCtx); err != nil {
			zlogger.Warn("otel shutdown failed", logger.Err(err))
		}
	}()

	// ============
	// Cache
	// ============
	redisAddr := config.Redis.Host + ":" + config.Redis.Port
	redis, err := cache.NewRedisCache(ctx, redisAddr, config.Redis.Password)
	if err != nil {
		return err
	}

	// ============
	// Audit (optional)
	// ============
	var recorder oauth2.FlowRecorder = oauth2.NopRecorder()
	var auditStore *audit.Store
	if config.Postgres.Enabled() {
		sqlClient, err := db.NewSQLClient(ctx, "postgres", db.PostgresDSN(config.Postgres), db.PoolOptions{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		})
		if err != nil {
			return err
		}
		defer sqlClient.Close()

		auditStore = audit.NewStore(sqlClient)
		recorder = auditStore
	} else {
		zlogger.Info("flow audit disabled, POSTGRES_HOST not set")
	}

	// ============
	// Oauth2
	// ============
	httpClient := &http.Client{
		Timeout: time.Duration(config.OAuth2.ExchangeTimeoutSeconds) * time.Second,
	}

	provider := oauth2.ProviderConfig{
		Name:            config.OAuth2.ProviderName,
		ClientID:        config.OAuth2.ClientID,
		ClientSecret:    config.OAuth2.ClientSecret,
		AuthURL:         config.OAuth2.AuthURL,
		TokenURL:        config.OAuth2.TokenURL,
		RedirectURI:     config.OAuth2.RedirectURI,
		ExtraAuthParams: oauth2.ParseExtraParams(config.OAuth2.AuthExtra),
	}
	if config.OAuth2.Issuer != "" {
		endpoint, err := oauth2.DiscoverEndpoint(ctx, httpClient, config.OAuth2.Issuer)
		if err != nil {
			return err
		}
		provider = provider.WithEndpoint(endpoint)
	}

	ids, err := idgen.NewSnowflakeGenerator(config.SnowflakeNodeID)
	if err != nil {
		return err
	}

	statuses := oauth2.NewCacheStatusStore(redis, time.Duration(config.FlowStatusTTLMinutes)*time.Minute)
	manager := oauth2.NewManager(oauth2.NewTokenExchanger(httpClient, zlogger), ids, statuses, recorder, zlogger)
	defer manager.Close()

	if err := manager.RegisterProvider(provider); err != nil {
		return err
	}

	// ============
	// HTTP
	// ============
	if config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(config.Observability.ServiceName))
	r.Use(telemetry.RequestLogger(zlogger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	oauth2.RegisterRoutes(r, manager)
	if auditStore != nil {
		r.GET("/auth/history/:provider", audit.HistoryHandler(auditStore))
	}
	initSwagger(r)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", config.AppPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		zlogger.Info("server listening",
			logger.Field{Key: "addr", Value: srv.Addr},
			logger.Field{Key: "provider", Value: provider.Name},
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	zlogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func initSwagger(r *gin.Engine) {
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		html := `<!DOCTYPE html>
<html>
<head>
    <title>API Documentation</title>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body>
    <script id="api-reference" data-url="/swagger/doc.json"></script>
    <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
</body>
</html>`
		c.String(200, html)
	})
}
