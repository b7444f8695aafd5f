package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/doc-forge-buddy/docforge/pkg/cli/config"
	httpctrl "github.com/doc-forge-buddy/docforge/pkg/controller/http"
	"github.com/doc-forge-buddy/docforge/pkg/service/responsecache"
	"github.com/doc-forge-buddy/docforge/pkg/service/worker"
	"github.com/doc-forge-buddy/docforge/pkg/usecase"
	"github.com/doc-forge-buddy/docforge/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe(version string) *cli.Command {
	var addr string
	var scanInterval time.Duration
	var enableMetrics bool
	var repoCfg config.Repository
	var cacheCfg config.Cache
	var slackCfg config.Slack
	var geminiCfg config.Gemini
	var sentryCfg config.Sentry
	var policyCfg config.PolicyFile

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("DOCFORGE_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "scan-interval",
			Usage:       "Interval of the background notification scan (0 disables it)",
			Value:       time.Hour,
			Sources:     cli.EnvVars("DOCFORGE_SCAN_INTERVAL"),
			Destination: &scanInterval,
		},
		&cli.BoolFlag{
			Name:        "metrics",
			Usage:       "Expose Prometheus metrics on /metrics",
			Value:       true,
			Sources:     cli.EnvVars("DOCFORGE_METRICS"),
			Destination: &enableMetrics,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, cacheCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)
	flags = append(flags, policyCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return err
			}
			defer flush()

			policy, err := policyCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load policy")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			store, err := cacheCfg.Configure(ctx, &repoCfg)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize cache store")
			}
			defer func() {
				if err := store.Close(); err != nil {
					logging.Default().Error("failed to close cache store", "error", err.Error())
				}
			}()

			cacheOpts := append(policy.CacheOptions(), responsecache.WithStorageKey(cacheCfg.Key()))
			cache := responsecache.New(store, cacheOpts...)
			if err := cache.Init(ctx); err != nil {
				return goerr.Wrap(err, "failed to initialize response cache")
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := cache.Shutdown(shutdownCtx); err != nil {
					logging.Default().Error("failed to persist response cache", "error", err.Error())
				}
			}()

			ucOpts := []usecase.Option{
				usecase.WithScanPolicy(policy.ScanPolicy()),
				usecase.WithResponseCache(cache),
			}

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize LLM client")
			}
			if llmClient != nil {
				ucOpts = append(ucOpts, usecase.WithLLMClient(llmClient))
				logging.Default().Info("Gemini enabled for assist", "gemini", geminiCfg)
			} else {
				logging.Default().Info("Gemini not configured, assist answers from cache only")
			}

			slackSvc, err := slackCfg.Configure()
			if err != nil {
				return err
			}
			if slackSvc != nil {
				ucOpts = append(ucOpts, usecase.WithSlack(slackSvc, slackCfg.Channel()))
				logging.Default().Info("Slack delivery enabled", "slack", slackCfg)
			}

			uc := usecase.New(repo, ucOpts...)

			var scanWorker *worker.ScanWorker
			if scanInterval > 0 {
				scanWorker = worker.NewScanWorker(uc.Scan, scanInterval)
				if err := scanWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start scan worker")
				}
			}

			httpHandler := httpctrl.New(
				httpctrl.WithScanUseCase(uc.Scan),
				httpctrl.WithNotificationUseCase(uc.Notification),
				httpctrl.WithAssistUseCase(uc.Assist),
				httpctrl.WithMetrics(enableMetrics),
			)
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr, "scan_interval", scanInterval)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				if scanWorker != nil {
					scanWorker.Stop()
				}
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				if scanWorker != nil {
					scanWorker.Stop()
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
