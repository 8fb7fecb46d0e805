package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	httpctx "github.com/dtroode/catalog-server/internal/api/http/context"
	"github.com/dtroode/catalog-server/internal/api/http/router"
	httpServer "github.com/dtroode/catalog-server/internal/api/http/server"
	"github.com/dtroode/catalog-server/internal/config"
	"github.com/dtroode/catalog-server/internal/logger"
	"github.com/dtroode/catalog-server/internal/model"
	"github.com/dtroode/catalog-server/internal/password"
	"github.com/dtroode/catalog-server/internal/repository/postgres"
	"github.com/dtroode/catalog-server/internal/server"
	"github.com/dtroode/catalog-server/internal/service"
	"github.com/dtroode/catalog-server/internal/storage/local"
	"github.com/dtroode/catalog-server/internal/storage/minio"
	"github.com/dtroode/catalog-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const (
	commandServe      = "serve"
	commandSeed       = "seed"
	commandResetAdmin = "reset-admin"
)

func main() {
	command := flag.String("command", commandServe, "one of: serve, seed, reset-admin")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConection(ctx, cfg.Database.DSN, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	productRepo := postgres.NewProductRepository(db)
	userRepo := postgres.NewUserRepository(db)
	hasher := password.NewBcrypt(cfg.Bcrypt.Cost)
	bootstrap := service.NewBootstrap(userRepo, hasher, cfg.Admin.Email, cfg.Admin.Password, logger)

	switch *command {
	case commandServe:
	case commandResetAdmin:
		if err := bootstrap.ResetAdmin(ctx); err != nil {
			logger.Fatal("failed to reset admin", "error", err)
		}
		logger.Info("admin credentials reset", "email", cfg.Admin.Email)
		return
	case commandSeed:
		// Seeding never touches images, so it needs no asset backend.
		n, err := service.NewProduct(productRepo, nil, logger).SeedProducts(ctx)
		if err != nil {
			logger.Fatal("failed to seed products", "error", err)
		}
		logger.Info("seed finished", "inserted", n)
		return
	default:
		logger.Fatal("unknown command", "command", *command)
	}

	storage, err := newAssetStorage(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize asset storage", "error", err, "backend", cfg.Assets.Backend)
	}

	assets := service.NewAssets(storage, cfg.Assets.URLPrefix, cfg.Assets.MaxSize, logger)
	productService := service.NewProduct(productRepo, assets, logger)
	userService := service.NewUser(userRepo, hasher, logger)
	authService := service.NewAuth(userRepo, hasher, token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL), logger)

	created, err := bootstrap.EnsureSeedAdmin(ctx)
	if err != nil {
		logger.Fatal("failed to ensure admin user", "error", err)
	}
	if created {
		logger.Info("admin user created", "email", cfg.Admin.Email)
	}

	r := router.New(authService, productService, userService, assets, httpctx.NewManager(), router.Options{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		AssetsPrefix:   cfg.Assets.URLPrefix,
		MaxUploadSize:  cfg.Assets.MaxSize,
	}, logger)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func newAssetStorage(ctx context.Context, cfg *config.Config) (model.Storage, error) {
	if cfg.Assets.Backend == config.AssetsBackendMinio {
		return minio.Dial(ctx, minio.Options{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
	}
	return local.NewClient(cfg.Assets.Dir)
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
