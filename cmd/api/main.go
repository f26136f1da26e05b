package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/solargearltd/solar-platform/cmd/mainconfig"
	"github.com/solargearltd/solar-platform/internal/analytics"
	"github.com/solargearltd/solar-platform/internal/api/router"
	"github.com/solargearltd/solar-platform/internal/chat"
	appconfig "github.com/solargearltd/solar-platform/internal/config"
	"github.com/solargearltd/solar-platform/internal/conversation"
	"github.com/solargearltd/solar-platform/internal/leadgate"
	"github.com/solargearltd/solar-platform/internal/leads"
	"github.com/solargearltd/solar-platform/internal/notify"
	"github.com/solargearltd/solar-platform/internal/observability/metrics"
	"github.com/solargearltd/solar-platform/internal/site"
	"github.com/solargearltd/solar-platform/pkg/logging"
)

func main() {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting solar-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Metrics
	leadMetrics := metrics.NewLeadMetrics(nil)
	chatMetrics := metrics.NewChatMetrics(nil)
	analyticsMetrics := metrics.NewAnalyticsMetrics(nil)

	// A/B variant store: Redis when configured, in-process otherwise.
	var variants analytics.VariantStore
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		variants = analytics.NewRedisVariantStore(redis.NewClient(opts))
		logger.Info("variant store: redis", "addr", cfg.RedisAddr)
	} else {
		variants = analytics.NewMemoryVariantStore()
		logger.Info("variant store: in-memory")
	}

	// Analytics event queue: SQS in production, channel-backed for dev.
	var queue analytics.EventQueue
	if !cfg.UseMemoryQueue && cfg.AnalyticsQueueURL != "" {
		awsCfg, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		queue = analytics.NewSQSQueue(awssqs.NewFromConfig(awsCfg), cfg.AnalyticsQueueURL)
		logger.Info("analytics queue: sqs", "url", cfg.AnalyticsQueueURL)
	} else {
		queue = analytics.NewMemoryQueue(0)
		logger.Info("analytics queue: in-memory")
	}

	tagger := analytics.NewTagger(variants, queue, analyticsMetrics, logger)

	// Lead delivery and sales alerts.
	gateway := leadgate.NewClient(cfg.FormsEndpoint, leadgate.WithLogger(logger))
	var emailSender notify.EmailSender = notify.NewStubEmailSender(logger)
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		emailSender = sg
	}
	notifier := notify.NewService(emailSender, cfg.SalesInbox, logger)

	// Chat widget: each visitor gets a lazily-created Gemini session.
	geminiCfg := conversation.GeminiConfig{
		APIKey:         cfg.GeminiAPIKey,
		ModelID:        cfg.GeminiModelID,
		Temperature:    cfg.GeminiTemperature,
		WhatsAppNumber: cfg.WhatsAppNumber,
	}
	chatHandler := chat.NewHandler(func(visitorID string) *chat.Widget {
		factory := func(ctx context.Context) (conversation.ChatModel, error) {
			return conversation.NewGeminiChatModel(ctx, geminiCfg)
		}
		session := conversation.NewSession(factory, gateway, tagger, visitorID, cfg.WhatsAppNumber, logger)
		return chat.NewWidget(session, tagger, chatMetrics, visitorID, cfg.WhatsAppNumber, logger)
	}, cfg.ChatIdleTTL, logger)

	// Release abandoned chat sessions in the background.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go chatHandler.Run(sweepCtx)

	routerCfg := &router.Config{
		Logger:             logger,
		SiteHandler:        site.NewHandler(tagger, cfg.WhatsAppNumber, cfg.BookingLink, cfg.GreetingDelay, cfg.Env != "development", logger),
		LeadsHandler:       leads.NewHandler(gateway, tagger, notifier, leadMetrics, cfg.WhatsAppNumber, cfg.PurchaseHandoffWait, logger),
		ChatHandler:        chatHandler,
		AnalyticsHandler:   analytics.NewHandler(tagger, logger),
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	// Close live chat sessions so Gemini handles are released.
	if err := chatHandler.Shutdown(ctx); err != nil {
		logger.Warn("chat shutdown incomplete", "error", err)
	}

	logger.Info("server stopped")
}
