package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"vet-clinic/internal/adapters/auth/jwtauth"
	"vet-clinic/internal/adapters/eventbus/redisbus"
	"vet-clinic/internal/config"
	"vet-clinic/internal/domain/patients"
	"vet-clinic/internal/platform/eventbus"
	"vet-clinic/internal/platform/logger"
	"vet-clinic/internal/ports/auth"
	"vet-clinic/internal/router"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// @title vet-clinic API
// @version 1.0
// @description Clientes, mascotas, premios, pacientes, registros médicos y facturación.
// @BasePath /
func main() {
	rootCmd := &cobra.Command{
		Use:          "vet-clinic",
		Short:        "Veterinary clinic API",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(consumeCmd())
	rootCmd.AddCommand(storeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var withConsumer bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(withConsumer)
		},
	}
	cmd.Flags().BoolVar(&withConsumer, "with-consumer", true, "with REDIS_URL set, also consume events in this process")
	return cmd
}

func consumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consume",
		Short: "Consume client events and keep the patients owner replica up to date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsumer()
		},
	}
}

func storeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Storage utilities",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "ping",
		Short: "Check connectivity with the configured storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			b, err := openBackends(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer b.close(context.Background())

			if err := b.ping(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "storage %s ok\n", cfg.Storage)
			return nil
		},
	})
	return cmd
}

func setup() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
		File:   cfg.LogFile,
	})
	return cfg, log, nil
}

func runServer(withConsumer bool) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackends(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.close(context.Background())

	var verifier auth.AuthVerifier // sin verifier para modo dev
	if cfg.JWTSecret != "" {
		verifier = jwtauth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	}

	opts := router.Options{
		AuthVerifier: verifier,
		Log:          log,
		Stores:       &b.stores,
		Dispatcher:   eventbus.NewDispatcher(log.With(map[string]any{"component": "dispatcher"})),
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = redisbus.Open(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		opts.Publisher = redisbus.NewPublisher(rdb, cfg.EventsChannel)
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.NewRouter(opts),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if rdb != nil && withConsumer {
		consumer := redisbus.NewConsumer(rdb, cfg.EventsChannel, opts.Dispatcher, log.With(map[string]any{"component": "consumer"}))
		go func() {
			if err := consumer.Run(ctx); err != nil {
				log.Error("consumer stopped", map[string]any{"error": err})
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// runConsumer corre sólo la réplica de dueños: no levanta HTTP.
func runConsumer() error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if cfg.RedisURL == "" {
		return errors.New("REDIS_URL is required to consume events")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackends(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.close(context.Background())

	rdb, err := redisbus.Open(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer rdb.Close()

	patientsSvc := patients.NewService(b.stores.Patients, b.stores.Owners, log.With(map[string]any{"module": "patients"}))
	d := eventbus.NewDispatcher(log.With(map[string]any{"component": "dispatcher"}))
	patients.RegisterEventHandlers(d, patientsSvc)

	return redisbus.NewConsumer(rdb, cfg.EventsChannel, d, log.With(map[string]any{"component": "consumer"})).Run(ctx)
}
