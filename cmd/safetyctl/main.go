package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/wolfman30/caretaker-ai/cmd/mainconfig"
	"github.com/wolfman30/caretaker-ai/internal/app/bootstrap"
	"github.com/wolfman30/caretaker-ai/internal/audit"
	appconfig "github.com/wolfman30/caretaker-ai/internal/config"
	"github.com/wolfman30/caretaker-ai/internal/llm"
	"github.com/wolfman30/caretaker-ai/pkg/logging"
)

var version = "dev"

// deps builds the collaborators a command needs. Tests swap them for fakes.
type deps struct {
	logger     *logging.Logger
	stdin      io.Reader
	gateway    func(ctx context.Context) (llm.Gateway, func(), error)
	auditTrail func(ctx context.Context) (*audit.Logger, func(), error)
}

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	root := newRootCmd(configuredDeps(cfg, logger))
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(d *deps) *cobra.Command {
	root := &cobra.Command{
		Use:           "safetyctl",
		Short:         "Operate and inspect the caretaker AI safety layer",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newPingCmd(d),
		newChatCmd(d),
		newCheckCmd(d),
		newClassifyCmd(d),
		newExtractCmd(d),
		newAuditCmd(d),
	)
	return root
}

func configuredDeps(cfg *appconfig.Config, logger *logging.Logger) *deps {
	return &deps{
		logger: logger,
		stdin:  os.Stdin,
		gateway: func(ctx context.Context) (llm.Gateway, func(), error) {
			gw, err := bootstrap.BuildGateway(ctx, cfg, logger, nil, mainconfig.LoadAWSConfig)
			if err != nil {
				return nil, nil, err
			}
			return gw, gw.Close, nil
		},
		auditTrail: func(ctx context.Context) (*audit.Logger, func(), error) {
			redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
			dbs, err := bootstrap.BuildDatabases(ctx, cfg)
			if err != nil {
				if redisClient != nil {
					_ = redisClient.Close()
				}
				return nil, nil, err
			}
			cleanup := func() {
				dbs.Close()
				if redisClient != nil {
					_ = redisClient.Close()
				}
			}
			store, err := bootstrap.BuildAuditStore(cfg, redisClient, dbs.SQL, logger)
			if err != nil {
				cleanup()
				return nil, nil, err
			}
			return audit.NewLogger(store, logger), cleanup, nil
		},
	}
}
