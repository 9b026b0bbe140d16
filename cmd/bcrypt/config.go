package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hasbyte1/go-bcrypt/bcrypt"
)

// settings is the resolved configuration of one invocation. Flags win over
// BCRYPT_* environment variables, which win over defaults.
type settings struct {
	cost      int
	version   string
	logFormat string
	logLevel  string
	parallel  int
}

// bindRootFlags registers the persistent flags on cmd and binds them to v.
func bindRootFlags(cmd *cobra.Command, v *viper.Viper) error {
	v.AutomaticEnv()
	v.SetEnvPrefix("BCRYPT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	cmd.PersistentFlags().Int("cost", bcrypt.DefaultCost, "Work factor for generated salts, clamped to 4-31")
	cmd.PersistentFlags().String("revision", bcrypt.DefaultVersion, "Revision written into generated salts (2a, 2b or 2y)")
	cmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
	cmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn or error")

	return bindFlags(v, cmd.PersistentFlags(), "cost", "revision", "log-format", "log-level")
}

// bindHashFlags registers the flags that only apply to the hash command.
func bindHashFlags(cmd *cobra.Command, v *viper.Viper) error {
	cmd.Flags().String("salt", "", "Use this salt (29 characters) or the salt of this hash instead of generating one")
	cmd.Flags().Bool("progress", false, "Report derivation progress on stderr")
	cmd.Flags().Bool("stdin", false, "Hash one password per line read from stdin")
	cmd.Flags().Int("parallel", runtime.NumCPU(), "Number of passwords hashed at once with --stdin")

	return bindFlags(v, cmd.Flags(), "parallel")
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet, names ...string) error {
	for _, name := range names {
		if err := v.BindPFlag(name, fs.Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind %s flag: %w", name, err)
		}
	}
	return nil
}

// loadSettings reads the bound configuration. An out-of-range cost is clamped
// to [bcrypt.MinCost, bcrypt.MaxCost], as salt generation does.
func loadSettings(v *viper.Viper) settings {
	s := settings{
		cost:      v.GetInt("cost"),
		version:   v.GetString("revision"),
		logFormat: v.GetString("log-format"),
		logLevel:  v.GetString("log-level"),
		parallel:  v.GetInt("parallel"),
	}
	if s.parallel <= 0 {
		s.parallel = runtime.NumCPU()
	}
	s.cost = bcrypt.ClampCost(s.cost)
	return s
}
