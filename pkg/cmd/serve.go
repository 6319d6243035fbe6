package cmd

import (
	"context"
	"net"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/c9s/chartsync/pkg/cmd/cmdutil"
	"github.com/c9s/chartsync/pkg/config"
	"github.com/c9s/chartsync/pkg/engine"
	"github.com/c9s/chartsync/pkg/restapi"
	"github.com/c9s/chartsync/pkg/server"
	"github.com/c9s/chartsync/pkg/stream"
	"github.com/c9s/chartsync/pkg/types"
)

func init() {
	ServeCmd.Flags().String("bind", "", "the address the api server listens on, overrides server.bind")
	RootCmd.AddCommand(ServeCmd)
}

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the chart sync service",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		configFile := viper.GetString("config")
		if len(configFile) == 0 {
			return errors.New("--config option is required")
		}

		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}

		if bind, _ := cmd.Flags().GetString("bind"); len(bind) > 0 {
			cfg.Server.Bind = bind
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		return serve(ctx, cancel, cfg)
	},
}

// newStreamSource creates the stream source of the configured driver. The
// publisher is nil when the source can not be published to.
func newStreamSource(cfg *config.SourceConfig) (types.StreamSource, stream.Publisher, error) {
	switch cfg.Driver {
	case config.SourceDriverLocal:
		hub := stream.NewHub()
		return hub, hub, nil

	case config.SourceDriverWebsocket:
		return stream.NewWebsocketSource(cfg.WebsocketURL), nil, nil

	case config.SourceDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		source := stream.NewRedisSource(client, cfg.TopicPrefix)
		return source, source, nil
	}

	return nil, nil, errors.Errorf("unsupported source driver %q", cfg.Driver)
}

func serve(ctx context.Context, cancel context.CancelFunc, cfg *config.Config) error {
	source, publisher, err := newStreamSource(&cfg.Source)
	if err != nil {
		return err
	}

	client, err := restapi.New(cfg.API.BaseURL)
	if err != nil {
		return errors.Wrapf(err, "invalid api base url %q", cfg.API.BaseURL)
	}

	client.SetTimeout(cfg.API.Timeout)
	client.MaxRetries = cfg.API.MaxRetries

	registry := engine.NewRegistry(&engine.Environment{
		Fetcher: client,
		Source:  source,
		Trim:    cfg.Trim,
	})

	for i := range cfg.Charts {
		chartConfig := &cfg.Charts[i]
		e, err := registry.GetOrCreate(chartConfig.ID, chartConfig)
		if err != nil {
			return err
		}

		if err := e.Start(ctx, chartConfig.ReplayCursor); err != nil {
			log.WithError(err).Errorf("chart %d started with errors", chartConfig.ID)
		}
	}

	log.Infof("%d charts preloaded, source driver: %s", registry.Len(), cfg.Source.Driver)

	go func() {
		cmdutil.WaitForSignal(ctx, syscall.SIGINT, syscall.SIGTERM)
		cancel()
	}()

	srv := server.New(ctx, registry, publisher)
	runErr := srv.Run(ctx, cfg.Server.Bind)

	log.Infof("removing %d charts...", registry.Len())
	if err := registry.RemoveAll(); err != nil {
		log.WithError(err).Error("chart removal error")
	}

	return runErr
}
