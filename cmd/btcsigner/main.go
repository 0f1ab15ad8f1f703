// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command btcsigner signs segwit v0 P2WPKH and taproot script-path inputs of
// bitcoin transactions.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
)

// command is a subcommand of btcsigner.
type command interface {
	Register(parser *flags.Parser) error
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			return
		}

		fmt.Fprintf(os.Stderr, "btcsigner: %v\n", err)
		os.Exit(1)
	}
}

// run parses the arguments and executes the selected command, writing its
// results to out.
func run(args []string, out io.Writer) error {
	cfg := defaultConfig()
	parser := flags.NewParser(cfg, flags.HelpFlag|flags.PassDoubleDash)

	commands := []command{
		newUtxosCommand(cfg, out),
		newSignP2WPKHCommand(cfg, out),
		newSignP2TRCommand(cfg, out),
	}
	for _, cmd := range commands {
		if err := cmd.Register(parser); err != nil {
			return err
		}
	}

	// The global options are validated and logging is set up before the
	// selected command runs.
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if err := cfg.validate(); err != nil {
			return err
		}

		setLogLevels(cfg.DebugLevel)
		if cfg.LogDir != "" {
			logFile := filepath.Join(cfg.LogDir, defaultLogFile)
			err := initLogRotator(
				logFile, defaultMaxLogFileSize,
				defaultMaxLogFiles,
			)
			if err != nil {
				return err
			}
			defer closeLogRotator()
		}

		log.Debugf("Running on %s, esplora=%s", cfg.netParams.Name,
			cfg.Esplora.URL)

		return cmd.Execute(args)
	}

	_, err := parser.ParseArgs(args)

	return err
}
