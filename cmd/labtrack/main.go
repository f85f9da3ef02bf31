package main

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/labtrack/labtrack/internal/config"
	"github.com/labtrack/labtrack/internal/domain/lab"
	"github.com/labtrack/labtrack/internal/domain/search"
	"github.com/labtrack/labtrack/internal/platform/auth"
	"github.com/labtrack/labtrack/internal/platform/db"
	"github.com/labtrack/labtrack/internal/platform/middleware"
	"github.com/labtrack/labtrack/internal/seed"
	"github.com/labtrack/labtrack/migrations"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:          "labtrack",
		Short:        "Laboratory sample tracking API",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(orgCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(env, level string) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if env == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return logger.Level(lvl)
}

// connect loads the configuration and opens the pool used by every command.
func connect(ctx context.Context) (*config.Config, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, nil, err
	}
	return cfg, pool, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrationsFS(dir string) fs.FS {
	if dir == "" {
		return migrations.FS
	}
	return os.DirFS(dir)
}

func newMigrator(cmd *cobra.Command, pool *pgxpool.Pool) (*db.Migrator, string, error) {
	schema, _ := cmd.Flags().GetString("schema")
	dir, _ := cmd.Flags().GetString("dir")
	m, err := db.NewMigrator(pool, migrationsFS(dir), schema)
	return m, schema, err
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator, schema, err := newMigrator(cmd, pool)
			if err != nil {
				return err
			}
			fmt.Printf("Running migrations on schema: %s\n", schema)

			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator, schema, err := newMigrator(cmd, pool)
			if err != nil {
				return err
			}
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("Migration status for schema: %s\n", schema)
			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status, appliedAt := "pending", ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}

	for _, c := range []*cobra.Command{upCmd, statusCmd} {
		c.Flags().String("schema", "public", "Target schema for migrations")
		c.Flags().String("dir", "", "Path to a migrations directory (default: embedded migrations)")
		cmd.AddCommand(c)
	}
	return cmd
}

func newLabService(pool *pgxpool.Pool) *lab.Service {
	return lab.NewService(lab.NewOrganisationRepoPG(pool), lab.NewProfileRepoPG(pool), lab.NewResultRepoPG(pool))
}

func orgCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "org",
		Short: "Manage organisations",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an organisation",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("--name is required")
			}

			ctx := cmd.Context()
			_, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			o := &lab.Organisation{Name: name}
			if err := newLabService(pool).CreateOrganisation(ctx, o); err != nil {
				return err
			}
			fmt.Printf("Created organisation %s (%s)\n", o.Name, o.ID)
			return nil
		},
	}
	createCmd.Flags().String("name", "", "Organisation name")

	cmd.AddCommand(createCmd)
	return cmd
}

func seedCmd() *cobra.Command {
	defaults := seed.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill an organisation with generated profiles and samples",
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := lab.ParseID(mustString(cmd, "org"))
			if err != nil {
				return fmt.Errorf("--org must be an organisation id: %w", err)
			}
			opts := defaults
			opts.Profiles, _ = cmd.Flags().GetInt("profiles")
			opts.Samples, _ = cmd.Flags().GetInt("samples")
			opts.Seed, _ = cmd.Flags().GetUint64("seed")

			ctx := cmd.Context()
			cfg, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()
			logger := newLogger(cfg.Env, cfg.LogLevel)

			svc := newLabService(pool)
			if _, err := svc.GetOrganisation(ctx, orgID); err != nil {
				return fmt.Errorf("organisation %s: %w", orgID, err)
			}

			var sum *seed.Summary
			err = db.WithTx(ctx, pool, func(ctx context.Context) error {
				sum, err = seed.NewGenerator(svc, logger).Run(ctx, orgID, opts)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Printf("Seeded %d profile(s) and %d sample(s), %d with results.\n", sum.Profiles, sum.Samples, sum.Recorded)
			return nil
		},
	}
	cmd.Flags().String("org", "", "Organisation id")
	cmd.Flags().Int("profiles", defaults.Profiles, "Number of profiles to create")
	cmd.Flags().Int("samples", defaults.Samples, "Number of samples to create")
	cmd.Flags().Uint64("seed", 0, "Random seed (0 picks one)")
	return cmd
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func newSearchStore(cfg *config.Config, pool *pgxpool.Pool) (search.Store, error) {
	switch cfg.StoreBackend {
	case config.StoreGorm:
		gdb, err := db.NewGorm(pool)
		if err != nil {
			return nil, err
		}
		return search.NewStoreGorm(gdb), nil
	case config.StorePGX:
		return search.NewStorePG(pool), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func authMiddleware(cfg *config.Config) echo.MiddlewareFunc {
	if cfg.IsDev() {
		return auth.DevAuthMiddleware()
	}
	return auth.JWTMiddleware(auth.JWTConfig{
		Issuer:     cfg.AuthIssuer,
		Audience:   cfg.AuthAudience,
		SigningKey: []byte(cfg.AuthSigningKey),
	})
}

// newServer wires the HTTP surface. It does not touch the network.
func newServer(cfg *config.Config, logger zerolog.Logger, labSvc *lab.Service, store search.Store) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.SecureWithConfig(echomw.SecureConfig{
		XSSProtection:         "0",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		ReferrerPolicy:        "no-referrer",
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
	}))
	e.Use(echomw.BodyLimit("1M"))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})

	api := e.Group(cfg.BasePath,
		authMiddleware(cfg),
		middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			BurstSize:         cfg.RateLimitBurst,
		}),
		middleware.SanitizeQuery(logger),
	)
	org := api.Group("/org/:org", auth.RequireOrganisation(), lab.OrganisationScope(labSvc))

	lab.NewHandler(labSvc).RegisterRoutes(api, org)
	engine := search.NewEngine(store, logger.With().Str("component", "search").Logger(), cfg.SearchMaxLimit)
	search.NewHandler(engine).RegisterRoutes(org)

	return e
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Env, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("invalid configuration")
		return err
	}
	if cfg.IsDev() {
		logger.Warn().Msg("development mode: every request is treated as an admin; set ENV=production and AUTH_SIGNING_KEY to enforce tokens")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to database")
		return err
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	store, err := newSearchStore(cfg, pool)
	if err != nil {
		return err
	}
	logger.Info().Str("backend", cfg.StoreBackend).Msg("search store ready")

	e := newServer(cfg, logger, newLabService(pool), store)
	e.GET("/health/db", db.HealthHandler(pool, cfg.StoreBackend))

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("base_path", cfg.BasePath).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return err
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
