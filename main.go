package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"go.mongodb.org/mongo-driver/mongo"

	"volunteerhub/config"
	"volunteerhub/db"
	"volunteerhub/middlewares"
	"volunteerhub/models"
	"volunteerhub/routes"
	"volunteerhub/services"
	"volunteerhub/utils"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "volunteerhub",
		Usage: "Volunteer events and opportunities: web pages and API.",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			seedCommand(),
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application failed", "error", err)
		os.Exit(1)
	}
}

// stores holds the open backends shared by every command.
type stores struct {
	sql   *sql.DB
	mongo *mongo.Client
	mdb   *mongo.Database
}

func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	sqldb, err := db.Open(ctx, cfg.SQLDriver, cfg.SQLDSN)
	if err != nil {
		return nil, err
	}
	mg, err := db.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		_ = sqldb.Close()
		return nil, err
	}
	return &stores{sql: sqldb, mongo: mg, mdb: mg.Database(cfg.MongoDB)}, nil
}

func (s *stores) Close() {
	_ = s.sql.Close()
	_ = s.mongo.Disconnect(context.Background())
}

func loadConfig() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	logger := utils.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	utils.SetSigningKey(cfg.JWTSecret)
	return cfg, logger, nil
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create the SQL tables.",
		Action: func(c *cli.Context) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			sqldb, err := db.Open(c.Context, cfg.SQLDriver, cfg.SQLDSN)
			if err != nil {
				return err
			}
			defer sqldb.Close()
			if err := db.InitSchema(c.Context, sqldb); err != nil {
				return err
			}
			logger.Info("schema ready", "driver", cfg.SQLDriver)
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "migrate", Usage: "Create the SQL tables before serving."},
		},
		Action: func(c *cli.Context) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			st, err := openStores(c.Context, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			if c.Bool("migrate") || cfg.SQLDriver == db.DriverSQLite {
				if err := db.InitSchema(c.Context, st.sql); err != nil {
					return err
				}
			}

			rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
			defer rdb.Close()
			if err := rdb.Ping(c.Context).Err(); err != nil {
				logger.Warn("redis unavailable; cache and quota degrade to pass-through", "error", err)
			}

			svc := services.New(services.Deps{
				Users:         models.NewSQLUserRepository(st.sql),
				Events:        models.NewMongoEventRepository(st.mdb.Collection("events")),
				Opportunities: models.NewMongoOpportunityRepository(st.mdb.Collection("opportunities")),
				Registrations: models.NewSQLRegistrationRepository(st.sql),
				Applications:  models.NewSQLApplicationRepository(st.sql),
				Cache:         utils.NewCacheInvalidator(rdb),
				Logger:        logger,
			})

			if cfg.Env != "dev" {
				gin.SetMode(gin.ReleaseMode)
			}
			server := gin.New()
			server.Use(gin.Recovery(), middlewares.RequestLogger(logger))
			server.Use(middlewares.ResponseCache(rdb, cfg.CacheTTL))

			routes.RegisterRoutes(server, routes.Options{
				Users:   models.NewSQLUserRepository(st.sql),
				Service: svc,
				Redis:   rdb,
				Logger:  logger,
				Limits: routes.Limits{
					RPS:        cfg.RateLimitRPS,
					Burst:      cfg.RateLimitBurst,
					UserRPS:    cfg.UserRateRPS,
					UserBurst:  cfg.UserRateBurst,
					DailyQuota: cfg.DailyQuota,
				},
				PageFetchBudget: cfg.PageFetchBudget,
				SecureCookies:   cfg.Env != "dev",
			})

			return run(c.Context, logger, &http.Server{
				Addr:         cfg.HTTPAddr,
				Handler:      server,
				ReadTimeout:  5 * time.Second,
				WriteTimeout: 40 * time.Second,
				IdleTimeout:  120 * time.Second,
			})
		},
	}
}

// run serves until SIGINT/SIGTERM, then drains in-flight requests.
func run(ctx context.Context, logger *slog.Logger, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("server exited cleanly")
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server exited with error: %w", err)
		}
		return nil
	}
}
