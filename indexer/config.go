// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package indexer

import "time"

const (
	// DefaultRequestTimeout is the default timeout for HTTP requests to
	// the Esplora API.
	DefaultRequestTimeout = 5 * time.Second

	// DefaultMaxRetries is the default number of times a failed request
	// is retried before giving up.
	DefaultMaxRetries = 3

	// retryBackoff is multiplied by the attempt number to get the delay
	// before the next attempt.
	retryBackoff = 100 * time.Millisecond
)

// Config holds the options of the connection to an Esplora HTTP API server
// (e.g. mempool.space, blockstream.info or a local electrs instance).
//
//nolint:ll
type Config struct {
	// URL is the base URL of the Esplora API, without a trailing slash.
	URL string `long:"url" description:"The base URL of the Esplora API (e.g., https://mempool.space/testnet/api)"`

	// RequestTimeout is the timeout of a single HTTP request.
	RequestTimeout time.Duration `long:"timeout" description:"Timeout for HTTP requests to the Esplora API."`

	// MaxRetries is the maximum number of times a failed request is
	// retried.
	MaxRetries int `long:"maxretries" description:"Maximum number of times to retry a failed request."`
}

// DefaultConfig returns a new config with default values populated.
func DefaultConfig() *Config {
	return &Config{
		RequestTimeout: DefaultRequestTimeout,
		MaxRetries:     DefaultMaxRetries,
	}
}
