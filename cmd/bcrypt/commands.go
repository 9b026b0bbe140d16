package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/hasbyte1/go-bcrypt/bcrypt"
	"github.com/hasbyte1/go-bcrypt/hashing"
)

func newSaltCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "salt",
		Short: "Print a freshly generated salt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			salt, err := a.hasher.GenerateSalt(a.cfg.cost)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), salt)
			return err
		},
	}
}

func newHashCmd(a *app, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash [password]",
		Short: "Hash a password, or one password per line with --stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			salt, _ := cmd.Flags().GetString("salt")
			progress, _ := cmd.Flags().GetBool("progress")
			stdin, _ := cmd.Flags().GetBool("stdin")

			cs := bcrypt.WithCost(a.cfg.cost)
			if salt != "" {
				if _, err := bcrypt.ParseSalt(salt); err != nil {
					return err
				}
				cs = bcrypt.WithSalt(salt)
			}

			switch {
			case stdin && len(args) > 0:
				return errors.New("a password argument cannot be combined with --stdin")
			case stdin:
				return a.hashLines(cmd, cs, salt == "")
			case len(args) == 0:
				return errors.New("a password argument or --stdin is required")
			}

			var hash string
			switch {
			case progress:
				task, err := a.hasher.HashAsync(args[0], cs, progressPrinter(cmd.ErrOrStderr()))
				if err != nil {
					return err
				}
				h, err := task.Wait(cmd.Context())
				fmt.Fprintln(cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				hash = h
			case salt != "":
				h, err := a.hasher.Hash(args[0], cs)
				if err != nil {
					return err
				}
				hash = h
			default:
				h, err := a.manager.Make(args[0])
				if err != nil {
					return err
				}
				hash = h
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
	if err := bindHashFlags(cmd, v); err != nil {
		panic(err)
	}
	return cmd
}

// hashLines hashes every line of stdin with bounded parallelism and prints
// the results in input order. Generated salts go through the manager's
// default driver; an explicit salt needs the engine.
func (a *app) hashLines(cmd *cobra.Command, cs bcrypt.CostOrSalt, generated bool) error {
	var passwords []string
	sc := bufio.NewScanner(cmd.InOrStdin())
	for sc.Scan() {
		passwords = append(passwords, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	hashes := make([]string, len(passwords))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(a.cfg.parallel)
	for i, pw := range passwords {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var (
				h   string
				err error
			)
			if generated {
				h, err = a.manager.Make(pw)
			} else {
				h, err = a.hasher.Hash(pw, cs)
			}
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			hashes[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, h := range hashes {
		if _, err := fmt.Fprintln(out, h); err != nil {
			return err
		}
	}
	return nil
}

func newCompareCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <password> <hash>",
		Short: "Print whether password matches hash; exit status 1 on mismatch or an unrecognised hash",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			progress, _ := cmd.Flags().GetBool("progress")

			if _, known := hashing.DetectDriver(args[1]); !known {
				return hashing.ErrInvalidHash
			}

			var ok bool
			if progress {
				task := a.hasher.CompareAsync(args[0], args[1], progressPrinter(cmd.ErrOrStderr()))
				res, err := task.Wait(cmd.Context())
				fmt.Fprintln(cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				ok = res
			} else {
				v, err := a.manager.Verify(args[0], args[1])
				if err != nil {
					return err
				}
				if v.Rehash {
					a.log.Info("stored hash does not match the configured cost or revision", "driver", v.Driver)
				}
				ok = v.Match
			}

			if _, err := fmt.Fprintln(cmd.OutOrStdout(), ok); err != nil {
				return err
			}
			if !ok {
				return errMismatch
			}
			return nil
		},
	}
	cmd.Flags().Bool("progress", false, "Report derivation progress on stderr")
	return cmd
}

func newCostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cost <hash>",
		Short: "Print the work factor encoded in a hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cost, err := bcrypt.GetCost(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cost)
			return err
		},
	}
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <hash>",
		Short: "Print the fields of a hash and whether it needs rehashing at the configured settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash := args[0]
			info, err := a.manager.InfoWithDetect(hash)
			if err != nil {
				return err
			}
			salt, err := bcrypt.GetSalt(hash)
			if err != nil {
				return err
			}
			needs, err := a.manager.NeedsRehash(hash)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, err = fmt.Fprintf(out, "driver: %s\nversion: %v\ncost: %v\nsalt: %s\nneeds-rehash: %t\n",
				info.Driver, info.Params["version"], info.Params["cost"], salt, needs)
			return err
		},
	}
}

// progressPrinter renders progress fractions as a percentage on one line.
func progressPrinter(w io.Writer) bcrypt.ProgressFunc {
	return func(f float64) {
		fmt.Fprintf(w, "\r%3.0f%%", f*100)
	}
}
