package main

import (
	"context"
	"fmt"
	"io"

	"github.com/Sternrassler/hexproof-client/internal/config"
	"github.com/Sternrassler/hexproof-client/pkg/client"
	"github.com/Sternrassler/hexproof-client/pkg/logging"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries flag values and the resources built from them for one run.
type app struct {
	out    io.Writer
	errOut io.Writer

	cfgFile  string
	logLevel string
	pretty   bool
	jsonOut  bool

	cfg    *config.Config
	redis  *redis.Client
	client *client.Client
	logger zerolog.Logger
}

// run executes one command line and releases the client and Redis
// connection afterwards, whether or not the command failed.
func (a *app) run(ctx context.Context, args []string) error {
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	if a.errOut != nil {
		root.SetErr(a.errOut)
	}
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "hexproof",
		Short:        "Fetch Magic: The Gathering data from MTGJSON, Scryfall and mtg-vectors",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}
	root.SetOut(a.out)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default ./hexproof.yaml)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&a.pretty, "pretty", false, "human-readable console logs")
	flags.BoolVar(&a.jsonOut, "json", false, "print results as JSON")

	root.AddCommand(
		newMTGJSONCmd(a),
		newScryfallCmd(a),
		newVectorsCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) setup(ctx context.Context) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.pretty {
		cfg.Log.Pretty = true
	}
	a.cfg = cfg
	a.logger = logging.Setup(cfg.LoggingConfig())

	cc := cfg.ClientConfig()
	if rc := cfg.NewRedisClient(); rc != nil {
		if err := rc.Ping(ctx).Err(); err != nil {
			a.logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).
				Msg("Redis unreachable, using in-process rate limiting without cache")
			rc.Close()
		} else {
			a.redis = rc
			cc.Redis = rc
		}
	}

	c, err := client.New(cc)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	a.client = c
	return nil
}

func (a *app) close() {
	if a.client != nil {
		a.client.Close()
		a.client = nil
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("Failed to close Redis client")
		}
		a.redis = nil
	}
}
