// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btclog"
	"github.com/btcsuite/btcsigner/indexer"
	"github.com/btcsuite/btcsigner/signer"
)

const (
	defaultNetwork    = "testnet"
	defaultLogLevel   = "info"
	defaultLogDirname = "logs"
	defaultLogFile    = "btcsigner.log"

	// defaultMaxLogFiles is the number of rolled log files kept.
	defaultMaxLogFiles = 3

	// defaultMaxLogFileSize is the size in MB at which the log file is
	// rolled.
	defaultMaxLogFileSize = 10
)

var (
	defaultAppDir = btcutil.AppDataDir("btcsigner", false)
	defaultLogDir = filepath.Join(defaultAppDir, defaultLogDirname)

	// defaultEsploraURLs maps a network to a public Esplora instance.
	defaultEsploraURLs = map[string]string{
		"mainnet": "https://mempool.space/api",
		"testnet": "https://mempool.space/testnet/api",
		"signet":  "https://mempool.space/signet/api",
		"regtest": "http://localhost:3002",
	}
)

// config defines the global options of btcsigner.
//
//nolint:ll
type config struct {
	Network     string `long:"network" short:"n" description:"The bitcoin network to use" choice:"mainnet" choice:"testnet" choice:"signet" choice:"regtest"`
	LogDir      string `long:"logdir" description:"Directory to log output; an empty value disables the log file"`
	DebugLevel  string `long:"debuglevel" short:"d" description:"Logging level {trace, debug, info, warn, error, critical}"`
	RandomNonce bool   `long:"randomnonce" description:"Mix fresh randomness into Schnorr nonces instead of deriving them deterministically"`
	Workers     int    `long:"workers" description:"Maximum number of inputs signed concurrently; 0 uses one worker per CPU"`

	Esplora *indexer.Config `group:"Esplora" namespace:"esplora"`

	// netParams is resolved from Network by validate.
	netParams *chaincfg.Params
}

// defaultConfig returns a config with default values populated.
func defaultConfig() *config {
	return &config{
		Network:    defaultNetwork,
		LogDir:     defaultLogDir,
		DebugLevel: defaultLogLevel,
		Esplora:    indexer.DefaultConfig(),
	}
}

// validate checks the options and fills in values derived from them.
func (c *config) validate() error {
	params, err := getNetworkParams(c.Network)
	if err != nil {
		return err
	}
	c.netParams = params

	if _, ok := btclog.LevelFromString(c.DebugLevel); !ok {
		return fmt.Errorf("invalid debug level: %v", c.DebugLevel)
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d",
			c.Workers)
	}

	if c.Esplora.URL == "" {
		c.Esplora.URL = defaultEsploraURLs[strings.ToLower(c.Network)]
	}

	if c.LogDir != "" {
		c.LogDir = cleanAndExpandPath(c.LogDir)
	}

	return nil
}

// signerConfig returns the signer config selected by the options.
func (c *config) signerConfig() *signer.Config {
	nonceMode := signer.NonceDeterministic
	if c.RandomNonce {
		nonceMode = signer.NonceRandomized
	}

	return &signer.Config{
		NonceMode:  nonceMode,
		MaxWorkers: c.Workers,
	}
}

// getNetworkParams returns the chain parameters of a network name.
func getNetworkParams(network string) (*chaincfg.Params, error) {
	switch strings.ToLower(network) {
	case "mainnet":
		return &chaincfg.MainNetParams, nil

	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil

	case "signet":
		return &chaincfg.SigNetParams, nil

	case "regtest":
		return &chaincfg.RegressionNetParams, nil

	default:
		return nil, fmt.Errorf("unknown network: %v", network)
	}
}

// cleanAndExpandPath expands a leading ~ and environment variables and
// cleans the result.
func cleanAndExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[1:])
		}
	}

	return filepath.Clean(os.ExpandEnv(path))
}
