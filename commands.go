package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Danibruno18/credix/config"
	"github.com/Danibruno18/credix/controllers"
	"github.com/Danibruno18/credix/database"
	"github.com/Danibruno18/credix/services"
	"github.com/Danibruno18/credix/utils"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// setup загружает конфигурацию, логгер и подключение к БД
func setup(cfgFile string) (*config.Config, *database.Database, error) {
	cfg, err := config.NewConfigFromFile(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	if err := utils.InitLogger(cfg.LogDir, cfg.LogDebug); err != nil {
		return nil, nil, fmt.Errorf("ошибка инициализации логгера: %w", err)
	}

	if cfg.DB.Driver == "sqlite" {
		if dir := filepath.Dir(cfg.DB.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("ошибка создания каталога БД: %w", err)
			}
		}
	}

	db, err := database.NewDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func serveCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API and admin HTTP servers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, db, err := setup(*cfgFile)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(cfg); err != nil {
				return err
			}

			opts := controllers.RouterOptions{Clock: services.SystemClock{}}

			// nil *EmailService не должен попасть в интерфейс
			if emailService := services.NewEmailService(cfg); emailService != nil {
				opts.Notifier = emailService
			}

			if cfg.AMQP.URL != "" {
				publisher, err := services.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
				if err != nil {
					utils.LogError("Ledger events disabled: %v", err)
				} else {
					defer publisher.Close()
					opts.Publisher = publisher
				}
			}

			// Дожидаемся фоновых уведомлений перед выходом
			opts.Budgets = services.NewBudgetMonitor(db, opts.Notifier)
			defer opts.Budgets.Wait()

			return serve(cmd.Context(), cfg, db, opts)
		},
	}
}

// serve запускает API, админ-сервер и планировщик сверки до отмены ctx
func serve(ctx context.Context, cfg *config.Config, db *database.Database, opts controllers.RouterOptions) error {
	gin.SetMode(gin.ReleaseMode)

	servers := []*http.Server{{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: controllers.NewRouter(cfg, db, opts),
	}}
	if cfg.Admin.Port > 0 {
		servers = append(servers, &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Admin.Port),
			Handler: controllers.NewAdminRouter(cfg, db),
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			utils.LogInfo("Сервер запущен на %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("ошибка запуска сервера %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	scheduler := services.NewBalanceAuditScheduler(services.NewBalanceReconciler(db), cfg.AuditInterval)
	g.Go(func() error {
		scheduler.Start(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		utils.LogInfo("Остановка серверов...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			errs = append(errs, srv.Shutdown(shutdownCtx))
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

func migrateCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, db, err := setup(*cfgFile)
			if err != nil {
				return err
			}
			defer db.Close()

			startTime := time.Now()
			err = db.Migrate(cfg)
			utils.LogOperation("migrate", startTime, err)
			return err
		},
	}
}

func reconcileCmd(cfgFile *string) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute cached balances from the transaction ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, db, err := setup(*cfgFile)
			if err != nil {
				return err
			}
			defer db.Close()

			return runReconcile(cmd.Context(), db, userID, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "reconcile a single user by id (default: all active users)")
	return cmd
}

// runReconcile печатает результаты сверки в формате JSON
func runReconcile(ctx context.Context, db *database.Database, userID string, out io.Writer) error {
	reconciler := services.NewBalanceReconciler(db)

	var results []services.ReconcileResult
	if userID != "" {
		result, err := reconciler.Reconcile(ctx, userID)
		if err != nil {
			return err
		}
		results = append(results, *result)
	} else {
		var err error
		results, err = reconciler.ReconcileAll(ctx)
		if err != nil {
			return err
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "credix %s\n", version)
		},
	}
}
