package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"gadgetry.org/internal/auth"
	"gadgetry.org/internal/config"
	"gadgetry.org/internal/gadget"
	"gadgetry.org/internal/httpapi"
	"gadgetry.org/internal/migrate"
	"gadgetry.org/internal/obs"
	"gadgetry.org/internal/store/pg"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	configPath := flag.String("config", os.Getenv("GADGETS_CONFIG"), "Path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	obs.Init()
	obs.InitBuildInfo(version, commit)
	obs.SetLevel(obs.ParseLevel(cfg.Logging.Level))

	var (
		users   auth.UserStore    = auth.NewInMemoryUsers()
		gadgets gadget.Repository = gadget.NewInMemory()
		probe   httpapi.ReadyProbe
		store   *pg.Store
	)
	if cfg.Database.DSN != "" {
		store, err = pg.Open(cfg.Database.DSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		if cfg.Database.AutoMigrate {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			err = migrate.NewManager(store.DB()).Up(ctx)
			cancel()
			if err != nil {
				log.Fatalf("migrate: %v", err)
			}
		}
		users = store.Users()
		gadgets = store.Gadgets()
		probe = httpapi.ReadyProbe{DB: store.DB()}
	}

	tokens, err := auth.NewTokenService(cfg.Auth.Secret, auth.WithTTL(cfg.Auth.TokenTTL))
	if err != nil {
		log.Fatalf("token service: %v", err)
	}

	api := httpapi.New(httpapi.Deps{
		Gate:         auth.NewGate(tokens, users),
		Accounts:     auth.NewAccounts(users, tokens, auth.WithBcryptCost(cfg.Auth.BcryptCost)),
		Gadgets:      gadget.NewService(gadgets),
		Ready:        probe,
		Version:      version,
		CORSOrigin:   cfg.HTTP.CORSOrigin,
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	var grpcSrv *grpc.Server
	if cfg.GRPC.Addr != "" {
		lis, err := net.Listen("tcp", cfg.GRPC.Addr)
		if err != nil {
			log.Fatalf("grpc listen: %v", err)
		}
		grpcSrv = grpc.NewServer()
		httpapi.NewHealthServer(probe).Register(grpcSrv)
		go func() {
			if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				log.Fatalf("grpc serve: %v", err)
			}
		}()
	}

	obs.Info("starting gadgetry-api", map[string]any{
		"version":   version,
		"http_addr": srv.Addr,
		"grpc_addr": cfg.GRPC.Addr,
		"token_ttl": tokens.TTL().String(),
		"storage":   storageKind(store),
	})

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	obs.Info("shutting down", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
	if store != nil {
		_ = store.Close()
	}
	obs.Info("stopped", nil)
}

func storageKind(s *pg.Store) string {
	if s == nil {
		return "memory"
	}
	return "postgres"
}
