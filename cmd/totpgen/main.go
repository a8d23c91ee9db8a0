// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

// Command totpgen prints TOTP codes for a Base32 secret.
//
//	totpgen -secret JBSWY3DPEHPK3PXP
//	TOTPGEN_SECRET=JBSWY3DPEHPK3PXP totpgen -digits 8 -algorithm sha256 -watch
//	totpgen -secret JBSWY3DPEHPK3PXP -verify 123456 -skew 2
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/undernetirc/totp-api/internal/auth/oath"
	"github.com/undernetirc/totp-api/internal/auth/oath/totp"
	"github.com/undernetirc/totp-api/internal/globals"
)

// secretEnv is read when -secret is not given
const secretEnv = "TOTPGEN_SECRET"

var errCodeMismatch = errors.New("code does not match")

type options struct {
	secret string
	cfg    oath.Config
	at     int64
	atSet  bool
	watch  bool
	verify string
	skew   uint8
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts, err := parseFlags(os.Args[1:], os.Getenv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			globals.LogAndExit("", 0)
		}
		globals.LogAndExit(err.Error(), 1)
	}

	switch {
	case opts.verify != "":
		err = check(opts, time.Now, os.Stdout)
	case opts.watch:
		err = watch(ctx, opts, time.Now, os.Stdout)
	default:
		err = printOnce(opts, time.Now, os.Stdout)
	}
	if err != nil {
		globals.LogAndExit(err.Error(), 1)
	}
}

func parseFlags(args []string, getenv func(string) string) (*options, error) {
	fs := flag.NewFlagSet("totpgen", flag.ContinueOnError)
	secret := fs.String("secret", "", "Base32 secret (defaults to $"+secretEnv+")")
	period := fs.Uint64("period", oath.DefaultPeriod, "time step in seconds")
	digits := fs.Int("digits", oath.DefaultDigits, "code length")
	algorithm := fs.String("algorithm", string(oath.DefaultAlgorithm), "SHA1, SHA256 or SHA512")
	at := fs.Int64("at", 0, "unix time to generate the code for (default now)")
	watchFlag := fs.Bool("watch", false, "print a new code at every step until interrupted")
	verify := fs.String("verify", "", "check this code instead of printing one")
	skew := fs.Uint("skew", 1, "steps of clock drift accepted by -verify")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts := &options{secret: *secret, at: *at, watch: *watchFlag, verify: *verify}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "at" {
			opts.atSet = true
		}
	})
	if opts.secret == "" {
		opts.secret = getenv(secretEnv)
	}
	if opts.secret == "" {
		return nil, fmt.Errorf("no secret given: use -secret or $%s", secretEnv)
	}
	if opts.watch && opts.atSet {
		return nil, errors.New("-watch and -at cannot be combined")
	}
	if opts.watch && opts.verify != "" {
		return nil, errors.New("-watch and -verify cannot be combined")
	}
	if *skew > math.MaxUint8 {
		return nil, fmt.Errorf("-skew must be at most %d", math.MaxUint8)
	}
	opts.skew = uint8(*skew)

	alg, err := oath.ParseAlgorithm(*algorithm)
	if err != nil {
		return nil, err
	}
	opts.cfg = oath.Config{Period: *period, Digits: *digits, Algorithm: alg}
	if err := opts.cfg.Validate(); err != nil {
		return nil, err
	}

	return opts, nil
}

// instant returns the -at time when given, now otherwise
func (opts *options) instant(now func() time.Time) time.Time {
	if opts.atSet {
		return time.Unix(opts.at, 0)
	}
	return now()
}

// printOnce writes the code for -at, or for now, followed by the seconds it stays valid
func printOnce(opts *options, now func() time.Time, out io.Writer) error {
	t := opts.instant(now)

	code, err := totp.Generate(opts.secret, opts.cfg, t)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s (%ds)\n", code, totp.Remaining(t, opts.cfg.Period))
	return err
}

// check validates -verify within -skew steps and reports the result
func check(opts *options, now func() time.Time, out io.Writer) error {
	t, err := totp.New(opts.secret, opts.cfg, opts.skew)
	if err != nil {
		return err
	}

	if !t.ValidateCustom(opts.verify, opts.instant(now)) {
		return errCodeMismatch
	}
	_, err = fmt.Fprintln(out, "valid")
	return err
}

// watch prints the code whenever the time step changes until ctx is done
func watch(ctx context.Context, opts *options, now func() time.Time, out io.Writer) error {
	t, err := totp.New(opts.secret, opts.cfg, 0)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	last := uint64(0)
	first := true
	for {
		current := now()
		if counter := t.Counter(current); first || counter != last {
			first, last = false, counter
			if _, err := fmt.Fprintf(out, "%s (%ds)\n", t.GenerateCustom(current), t.Remaining(current)); err != nil {
				return err
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
