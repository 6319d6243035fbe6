package cmdutil

import "github.com/spf13/pflag"

// PersistentFlags defines the flags shared by the sub-commands.
func PersistentFlags(flags *pflag.FlagSet) {
	flags.Bool("debug", false, "debug flag")
	flags.String("config", "config/chartsync.yaml", "config file")
	flags.String("dotenv", ".env.local", "the dotenv file you want to load")
	flags.String("log-file", "", "write json logs to this file, it is rotated by size")
	flags.String("api", "http://localhost:8080", "the base url of the chartsync service, used by the client commands")
}
