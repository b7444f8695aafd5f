package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/doc-forge-buddy/docforge/pkg/cli/config"
	"github.com/doc-forge-buddy/docforge/pkg/domain/model"
	"github.com/doc-forge-buddy/docforge/pkg/usecase"
	"github.com/doc-forge-buddy/docforge/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

type scanOutput struct {
	Success              bool   `json:"success"`
	NotificationsCreated int    `json:"notificationsCreated"`
	Errors               int    `json:"errors"`
	CleanedCount         int    `json:"cleanedCount"`
	Timestamp            string `json:"timestamp"`
}

func writeScanResult(w io.Writer, result *model.ScanResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(scanOutput{
		Success:              true,
		NotificationsCreated: result.NotificationsCreated,
		Errors:               result.Errors,
		CleanedCount:         result.CleanedCount,
		Timestamp:            result.FinishedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}); err != nil {
		return goerr.Wrap(err, "failed to write scan result")
	}
	return nil
}

func cmdScan() *cli.Command {
	var repoCfg config.Repository
	var slackCfg config.Slack
	var sentryCfg config.Sentry
	var policyCfg config.PolicyFile

	var flags []cli.Flag
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)
	flags = append(flags, policyCfg.Flags()...)

	return &cli.Command{
		Name:  "scan",
		Usage: "Run one notification scan and print the result as JSON",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			flush, err := sentryCfg.Configure("")
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

			ucOpts := []usecase.Option{usecase.WithScanPolicy(policy.ScanPolicy())}
			slackSvc, err := slackCfg.Configure()
			if err != nil {
				return err
			}
			if slackSvc != nil {
				ucOpts = append(ucOpts, usecase.WithSlack(slackSvc, slackCfg.Channel()))
			}

			uc := usecase.New(repo, ucOpts...)

			start := time.Now()
			result, err := uc.Scan.Scan(ctx)
			if err != nil {
				return goerr.Wrap(err, "notification scan failed")
			}
			logging.Default().Info("Scan completed",
				"notifications_created", result.NotificationsCreated,
				"errors", result.Errors,
				"cleaned", result.CleanedCount,
				"duration", time.Since(start),
			)

			return writeScanResult(os.Stdout, result)
		},
	}
}
