// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signer

import (
	"fmt"
	"runtime"
)

// Config houses the tunables of a Signer.
type Config struct {
	// NonceMode selects how Schnorr nonces are generated for taproot
	// spends. ECDSA signatures always use RFC6979.
	NonceMode NonceMode

	// MaxWorkers bounds the number of inputs that are signed
	// concurrently. A value of zero uses one worker per CPU.
	MaxWorkers int
}

// DefaultConfig returns a config with deterministic nonces and one worker per
// CPU.
func DefaultConfig() *Config {
	return &Config{
		NonceMode:  NonceDeterministic,
		MaxWorkers: runtime.NumCPU(),
	}
}

// Signer signs the inputs of segwit transactions. It holds no key material,
// keys are passed to each call and never retained.
type Signer struct {
	cfg Config
}

// New creates a signer from the given config. A nil config selects
// DefaultConfig.
func New(cfg *Config) (*Signer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if cfg.NonceMode > NonceRandomized {
		return nil, fmt.Errorf("%w: unknown nonce mode %v",
			ErrInvalidSignParam, cfg.NonceMode)
	}
	if cfg.MaxWorkers < 0 {
		return nil, fmt.Errorf("%w: negative worker count %d",
			ErrInvalidSignParam, cfg.MaxWorkers)
	}

	s := &Signer{cfg: *cfg}
	if s.cfg.MaxWorkers == 0 {
		s.cfg.MaxWorkers = runtime.NumCPU()
	}

	return s, nil
}

// defaultSigner backs the package level signing functions.
var defaultSigner = &Signer{cfg: *DefaultConfig()}
