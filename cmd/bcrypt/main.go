// Package main implements the bcrypt command line interface.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hasbyte1/go-bcrypt/bcrypt"
	"github.com/hasbyte1/go-bcrypt/hashing"
	"github.com/hasbyte1/go-bcrypt/internal/logger"
	"github.com/hasbyte1/go-bcrypt/random"
)

// errMismatch is returned by compare when the password does not match. It
// only sets the exit status; nothing is printed for it.
var errMismatch = errors.New("password does not match hash")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errMismatch) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// app holds what every subcommand needs once flags have been parsed. hasher
// is the engine behind the manager's bcrypt driver; it serves the paths the
// driver interface does not cover (explicit salts, progress reporting).
type app struct {
	cfg     settings
	hasher  *bcrypt.Hasher
	manager *hashing.Manager
	log     *slog.Logger
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "bcrypt",
		Short:         "bcrypt generates salts, hashes passwords and verifies bcrypt hashes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd, v)
		},
	}
	if err := bindRootFlags(rootCmd, v); err != nil {
		// Flags are registered just above; a failure here is a programming error.
		panic(err)
	}

	rootCmd.AddCommand(
		newSaltCmd(a),
		newHashCmd(a, v),
		newCompareCmd(a),
		newCostCmd(),
		newInfoCmd(a),
	)
	return rootCmd
}

func (a *app) init(cmd *cobra.Command, v *viper.Viper) error {
	cfg := loadSettings(v)
	log, err := logger.Setup(cmd.ErrOrStderr(), cfg.logFormat, cfg.logLevel)
	if err != nil {
		return err
	}

	driver, err := hashing.NewBcryptHasher(hashing.BcryptOptions{
		Cost:     cfg.cost,
		Version:  cfg.version,
		Provider: random.New(random.WithLogger(log)),
		Logger:   log,
	})
	if err != nil {
		return err
	}
	m := hashing.NewManager(hashing.DriverBcrypt)
	if err := m.RegisterDriver(hashing.DriverBcrypt, driver); err != nil {
		return err
	}

	a.cfg, a.hasher, a.manager, a.log = cfg, driver.Engine(), m, log
	return nil
}
