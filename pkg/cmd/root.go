package cmd

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/c9s/chartsync/pkg/cmd/cmdutil"
)

var RootCmd = &cobra.Command{
	Use:   "chartsync",
	Short: "chartsync keeps strategy charts in sync with the live streams",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dotenvFile := viper.GetString("dotenv")
		if _, err := os.Stat(dotenvFile); err == nil {
			if err := godotenv.Load(dotenvFile); err != nil {
				return err
			}
		}

		// flags are parsed at this point
		logger := log.StandardLogger()
		if viper.GetBool("debug") {
			logger.SetLevel(log.DebugLevel)
		}

		logFile := viper.GetString("log-file")
		if len(logFile) == 0 {
			switch os.Getenv("CHARTSYNC_ENV") {
			case "production", "prod":
				logFile = "log/chartsync.log"
			}
		}

		if len(logFile) > 0 {
			logger.AddHook(newLogFileHook(logFile))
		}
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	cmdutil.PersistentFlags(RootCmd.PersistentFlags())
}

// newLogFileHook writes the json log entries of every level to a size rotated
// log file.
func newLogFileHook(filename string) log.Hook {
	writer := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    100, // megabytes
		MaxBackups: 7,
		MaxAge:     28, // days
		Compress:   true,
	}

	return lfshook.NewHook(
		lfshook.WriterMap{
			log.DebugLevel: writer,
			log.InfoLevel:  writer,
			log.WarnLevel:  writer,
			log.ErrorLevel: writer,
			log.FatalLevel: writer,
			log.PanicLevel: writer,
		},
		&log.JSONFormatter{},
	)
}

func Execute() {
	viper.SetEnvPrefix("CHARTSYNC")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Enable environment variable binding, the env vars are not overloaded yet.
	viper.AutomaticEnv()

	// Once the flags are defined, we can bind config keys with flags.
	if err := viper.BindPFlags(RootCmd.PersistentFlags()); err != nil {
		log.WithError(err).Errorf("failed to bind persistent flags. please check the flag settings.")
	}

	if err := viper.BindPFlags(RootCmd.Flags()); err != nil {
		log.WithError(err).Errorf("failed to bind local flags. please check the flag settings.")
	}

	log.SetFormatter(&prefixed.TextFormatter{})

	if err := RootCmd.Execute(); err != nil {
		log.WithError(err).Fatalf("cannot execute command")
	}
}
