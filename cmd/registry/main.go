package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"landregistry/internal/chain"
	"landregistry/internal/config"
	"landregistry/internal/observability/logging"
	"landregistry/internal/observability/metrics"
	"landregistry/internal/observability/middleware"
	"landregistry/internal/service"
	"landregistry/internal/service/impl"
	miniostore "landregistry/internal/storage/minio"
	"landregistry/internal/store"
	transport "landregistry/internal/transport/http"
	"landregistry/pkg/db"
)

func main() {
	cfg := config.Load()

	logger := logging.NewLogger(logging.Config{
		ServiceName: "landregistry",
		Environment: cfg.Environment,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	slog.SetDefault(logger)
	metrics.MustRegister()

	logger.Info("starting service")

	gdb, err := db.Open(db.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.Environment == "dev"})
	if err != nil {
		logger.Error("db open", "error", err)
		os.Exit(1)
	}

	st := store.New(gdb)
	if err := st.AutoMigrate(context.Background()); err != nil {
		logger.Error("auto migrate", "error", err)
		os.Exit(1)
	}

	var blobs service.BlobStore
	if cfg.MinioEndpoint != "" {
		docs, err := miniostore.NewDocumentStore(context.Background(), miniostore.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			logger.Error("minio init", "error", err)
			os.Exit(1)
		}
		blobs = docs
		logger.Info("document storage enabled", "bucket", cfg.MinioBucket)
	} else {
		logger.Warn("document storage disabled, uploads will be rejected")
	}

	var anchor service.ChainAnchor
	if cfg.EthereumRPCURL != "" {
		client := chain.New(chain.Config{
			RPCURL:          cfg.EthereumRPCURL,
			ContractAddress: cfg.ContractAddress,
			AccountAddress:  cfg.ChainAccount,
		})
		probeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		block, err := client.BlockNumber(probeCtx)
		cancel()
		if err != nil {
			logger.Warn("chain node unreachable, anchoring disabled", "error", err)
		} else {
			anchor = client
			logger.Info("chain anchoring enabled", "block", block)
		}
	}

	var notifier service.Notifier
	if cfg.SMTPHost != "" || cfg.SMSAPIKey != "" {
		notifier = impl.NewNotifier(impl.NotifierConfig{
			SMTPHost:     cfg.SMTPHost,
			SMTPPort:     cfg.SMTPPort,
			SMTPFrom:     cfg.SMTPFrom,
			SMTPPass:     cfg.SMTPPass,
			SMSAPIURL:    cfg.SMSAPIURL,
			SMSAPIKey:    cfg.SMSAPIKey,
			SMSAPISecret: cfg.SMSAPISecret,
			SMSFrom:      cfg.SMSFrom,
		})
	}

	passwords := impl.NewPasswordServiceArgon2id()
	tokens := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:     cfg.Issuer,
		Audience:   cfg.Audience,
		TTL:        cfg.TokenTTL,
		SigningKey: []byte(cfg.TokenSecret),
	})
	auth := impl.NewAuthServiceImpl(st, passwords, tokens)
	lands := impl.NewLandServiceImpl(st, blobs, anchor, notifier, impl.LandConfig{
		MaxUploadBytes: cfg.MaxUploadBytes,
		MaxUploads:     cfg.MaxUploads,
	})

	router := transport.NewRouter(&transport.Handlers{
		Auth:        auth,
		Lands:       lands,
		Tokens:      tokens,
		Notifier:    notifier,
		Blobs:       blobs,
		Environment: cfg.Environment,
	}, transport.RouterConfig{
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.RateLimit,
		RateWindow:  cfg.RateWindow,
	})

	handler := middleware.WithRequestAndTrace(middleware.WithMetrics(router))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("land registry listening", "addr", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
