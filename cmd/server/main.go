package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/ignatzorin/sinistros-backend/internal/ai"
	"github.com/ignatzorin/sinistros-backend/internal/config"
	"github.com/ignatzorin/sinistros-backend/internal/db"
	"github.com/ignatzorin/sinistros-backend/internal/dispatcher"
	httpHandlers "github.com/ignatzorin/sinistros-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/sinistros-backend/internal/http/router"
	"github.com/ignatzorin/sinistros-backend/internal/logger"
	"github.com/ignatzorin/sinistros-backend/internal/repository"
	"github.com/ignatzorin/sinistros-backend/internal/service"
	"github.com/ignatzorin/sinistros-backend/internal/storage"
	"github.com/ignatzorin/sinistros-backend/internal/ws"
)

const Version = "0.1.0"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sinistros",
		Short:         "Backend de gestão de sinistros automotivos",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Inicia o servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	})
	cmd.AddCommand(migrateCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Mostra a versão",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sinistros version %s\n", Version)
		},
	})

	return cmd
}

func migrateCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica as migrações do PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL não configurado")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			conn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer conn.Close()

			if dryRun {
				pending, err := db.PendingMigrations(ctx, conn, cfg.MigrationsPath)
				if err != nil {
					return err
				}
				for _, name := range pending {
					fmt.Println(name)
				}
				return nil
			}
			return db.RunMigrations(ctx, conn, cfg.MigrationsPath)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Apenas lista as migrações pendentes")
	return cmd
}

// loadConfig загружает конфигурацию и настраивает логгер.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("main: ошибка загрузки конфигурации: %w", err)
	}

	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}
	return cfg, nil
}

func serve() error {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.WithComponent("main")

	tokenManager := service.NewTokenManager(cfg.ThirdPartyTokenSecret, cfg.ThirdPartyTokenTTL)

	// Хранилище выбирается один раз: PostgreSQL или память с демо-данными.
	store, err := repository.Open(ctx, cfg.DatabaseURL, cfg.StoreProbeTimeout, tokenManager)
	if err != nil {
		return fmt.Errorf("main: ошибка открытия хранилища: %w", err)
	}
	defer func() {
		if err := repository.Close(store); err != nil {
			log.WithError(err).Warn("ошибка закрытия хранилища")
		}
	}()

	if err := repository.Migrate(ctx, store, cfg.MigrationsPath); err != nil {
		return fmt.Errorf("main: ошибка миграций: %w", err)
	}

	artifacts, err := storage.NewArtifactStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		return fmt.Errorf("main: не удалось подготовить файловое хранилище: %w", err)
	}

	// Оценщик: модель, если настроена, иначе эвристика.
	var estimator ai.Estimator = ai.HeuristicEstimator{}
	if cfg.AIBaseURL != "" && cfg.AIModel != "" {
		estimator = ai.FallbackEstimator{
			Primary:  ai.NewClient(cfg.AIBaseURL, cfg.AIModel),
			Fallback: ai.HeuristicEstimator{},
		}
	}

	// Вебсокеты.
	hub := ws.NewHub(ctx)
	go hub.Run()

	// Сервисы.
	cache := service.NewCacheService(ctx)
	claims := service.NewClaimService(store, estimator, tokenManager, cache, cfg.PortalBaseURL)
	claims.SetHub(hub)
	agg := service.NewAggregationService(store, cfg.SLADays)
	reports := service.NewReportService(store, cfg.SLADays)
	legacy := service.NewLegacyService(store)

	// Метрики.
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Диспетчер: внешняя автоматизация, затем локальная реализация, затем демо-режим.
	actions := dispatcher.New(claims, dispatcher.NewMetrics(registry),
		dispatcher.NewRemoteStage(cfg.AutomationBaseURL, cfg.Webhooks, cfg.WebhookTimeout),
		dispatcher.NewLocalStage(claims, agg, reports, legacy),
		dispatcher.NewMockStage(cfg.MockDelay),
	)

	engine := httpRouter.SetupRouter(cfg, httpRouter.Handlers{
		Health:    httpHandlers.NewHealthHandler(store),
		Claims:    httpHandlers.NewClaimHandler(claims, agg, artifacts),
		Actions:   httpHandlers.NewActionHandler(actions),
		Portal:    httpHandlers.NewPortalHandler(claims, artifacts),
		Sinistros: httpHandlers.NewSinistroHandler(legacy),
		Reports:   httpHandlers.NewReportHandler(reports),
		WS:        httpHandlers.NewWSHandler(hub, claims),
	}, registry)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("ошибка остановки http сервера")
		}
	}()

	log.WithField("port", cfg.HTTPPort).WithField("backend", store.Backend()).Info("HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("main: сервер завершился с ошибкой: %w", err)
	}
	return nil
}
