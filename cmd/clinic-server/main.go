package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dermai/clinic/internal/config"
	"github.com/dermai/clinic/internal/platform/auth"
	"github.com/dermai/clinic/internal/platform/db"
	"github.com/dermai/clinic/internal/platform/idbridge"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "clinic-server",
		Short:        "DermAI clinic API server",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(idmapCmd())
	rootCmd.AddCommand(capabilitiesCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadBridge(cfg *config.Config, logger zerolog.Logger) (*idbridge.Bridge, error) {
	ids, err := idbridge.Load(cfg.IDMapFile)
	if err != nil {
		return nil, fmt.Errorf("load id map: %w", err)
	}
	ev := logger.Info().Int("entries", ids.Len())
	if cfg.IDMapFile != "" {
		ev = ev.Str("file", cfg.IDMapFile)
	}
	ev.Msg("id bridge loaded")
	if chains := ids.Chains(); len(chains) > 0 {
		logger.Warn().Strs("keys", chains).Msg("id map has chained entries; chains are not followed")
	}
	return ids, nil
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

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	a := &app{cfg: cfg, logger: logger}
	a.gates = buildGates(cfg, logger)
	a.gates.registry.Log(logger)

	if a.ids, err = loadBridge(cfg, logger); err != nil {
		return err
	}

	ctx := context.Background()
	if err := a.connect(ctx); err != nil {
		return err
	}
	defer a.close()

	e, err := newServer(a)
	if err != nil {
		return err
	}

	go func() {
		logger.Info().Str("addr", serveAddr(cfg)).Str("store", a.repos.backend).Msg("starting server")
		if err := e.Start(serveAddr(cfg)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run Postgres migrations",
	}

	withMigrator := func(fn func(ctx context.Context, m *db.Migrator) error) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is not set")
		}
		ctx := context.Background()
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return err
		}
		defer pool.Close()
		return fn(ctx, db.NewMigrator(pool))
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(ctx context.Context, m *db.Migrator) error {
				count, err := m.Up(ctx)
				if err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(ctx context.Context, m *db.Migrator) error {
				statuses, err := m.Status(ctx)
				if err != nil {
					return fmt.Errorf("failed to get migration status: %w", err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
				for _, s := range statuses {
					status, appliedAt := "pending", ""
					if s.Applied {
						status = "applied"
						if s.AppliedAt != nil {
							appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
						}
					}
					fmt.Fprintf(out, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
				}
				return nil
			})
		},
	})

	return cmd
}

func idmapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "idmap",
		Short: "Inspect the legacy id map",
	}

	var file string
	cmd.PersistentFlags().StringVar(&file, "file", "", "id map file (defaults to ID_MAP_FILE)")

	open := func() (*idbridge.Bridge, string, error) {
		if file == "" {
			cfg, err := config.Load()
			if err != nil {
				return nil, "", err
			}
			file = cfg.IDMapFile
		}
		b, err := idbridge.Load(file)
		return b, file, err
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate the id map and report chained entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, path, err := open()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if path == "" {
				path = "(none)"
			}
			fmt.Fprintf(out, "%s: %d entries\n", path, b.Len())
			for _, k := range b.Chains() {
				fmt.Fprintf(out, "chained: %s -> %s -> %s\n", k, b.Resolve(k), b.Resolve(b.Resolve(k)))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "resolve <id>...",
		Short: "Print the canonical id for each argument",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, err := open()
			if err != nil {
				return err
			}
			for _, id := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", id, b.Resolve(id))
			}
			return nil
		},
	})

	return cmd
}

func capabilitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "capabilities",
		Short: "Print the capability decisions for the current environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			g := buildGates(cfg, zerolog.Nop())
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(g.registry.Statuses())
		},
	}
}

func tokenCmd() *cobra.Command {
	var (
		subject  string
		hospital string
		roles    []string
		ttl      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.AuthSigningKey == "" {
				return errors.New("AUTH_SIGNING_KEY is not set")
			}
			if hospital == "" {
				hospital = cfg.HospitalID
			}
			tok, err := auth.IssueToken(auth.JWTConfig{
				Issuer:     cfg.AuthIssuer,
				SigningKey: []byte(cfg.AuthSigningKey),
			}, subject, hospital, roles, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "sub", "", "token subject (user id)")
	cmd.Flags().StringVar(&hospital, "hospital", "", "hospital id (defaults to HOSPITAL_ID)")
	cmd.Flags().StringSliceVar(&roles, "role", []string{auth.RoleStaff}, "roles to grant")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("sub")
	return cmd
}
