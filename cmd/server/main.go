package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tghbhs/science-carnival/backend/internal/api"
	"github.com/tghbhs/science-carnival/backend/internal/audit"
	"github.com/tghbhs/science-carnival/backend/internal/auth"
	"github.com/tghbhs/science-carnival/backend/internal/bootstrap"
	"github.com/tghbhs/science-carnival/backend/internal/config"
	"github.com/tghbhs/science-carnival/backend/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// ── PostgreSQL ───────────────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres connect: %v", err)
	}
	defer pgPool.Close()
	st := store.NewPostgres(pgPool)
	if err := st.Migrate(ctx); err != nil {
		log.Fatalf("postgres migrate: %v", err)
	}

	// ── Redis sessions ───────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connect: %v", err)
	}
	defer rdb.Close()
	sessions := auth.NewRedisSessions(rdb, cfg.SessionTTL)

	// ── MongoDB audit trail ──────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer mongoClient.Disconnect(ctx)
	auditLog := audit.NewMongo(mongoClient.Database(cfg.MongoDB))

	// ── MinIO media ──────────────────────────────────────────
	media, err := store.NewMinioStore(
		ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
	)
	if err != nil {
		log.Fatalf("minio connect: %v", err)
	}

	// ── Default data ─────────────────────────────────────────
	if err := bootstrap.Seed(ctx, st, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("seed defaults: %v", err)
	}

	// ── Router ───────────────────────────────────────────────
	r := api.NewRouter(api.Deps{
		Store:          st,
		Sessions:       sessions,
		Media:          media,
		Audit:          auditLog,
		SecureCookies:  cfg.IsProduction(),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("Backend listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
