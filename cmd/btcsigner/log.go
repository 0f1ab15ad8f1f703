// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"
	"github.com/btcsuite/btcsigner/indexer"
	"github.com/btcsuite/btcsigner/signer"
	"github.com/jrick/logrotate/rotator"
)

// logWriter implements an io.Writer that outputs to both standard error and
// the write-end pipe of an initialized log rotator. Standard output is kept
// free for command results.
type logWriter struct {
	rotator *rotator.Rotator
}

// Write writes the data to standard error and the log rotator, if present.
func (w *logWriter) Write(p []byte) (int, error) {
	_, _ = os.Stderr.Write(p)
	if w.rotator != nil {
		return w.rotator.Write(p)
	}

	return len(p), nil
}

var (
	// logOut is the writer all subsystem loggers write to.
	logOut = &logWriter{}

	// backendLog is the logging backend used to create all subsystem
	// loggers.
	backendLog = btclog.NewBackend(logOut)

	log        = backendLog.Logger("BTSG")
	signerLog  = backendLog.Logger(signer.Subsystem)
	indexerLog = backendLog.Logger(indexer.Subsystem)

	// subsystemLoggers maps each subsystem identifier to its logger.
	subsystemLoggers = map[string]btclog.Logger{
		"BTSG":            log,
		signer.Subsystem:  signerLog,
		indexer.Subsystem: indexerLog,
	}
)

func init() {
	signer.UseLogger(signerLog)
	indexer.UseLogger(indexerLog)
}

// initLogRotator initializes the logging rotator to write logs to logFile and
// create roll files in the same directory.
func initLogRotator(logFile string, maxLogFileSize, maxLogFiles int) error {
	logDir, _ := filepath.Split(logFile)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	r, err := rotator.New(
		logFile, int64(maxLogFileSize*1024), false, maxLogFiles,
	)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %w", err)
	}

	logOut.rotator = r

	return nil
}

// closeLogRotator flushes and closes the log file, if one was opened.
func closeLogRotator() {
	if logOut.rotator != nil {
		_ = logOut.rotator.Close()
		logOut.rotator = nil
	}
}

// setLogLevels sets the log level of every subsystem logger.
func setLogLevels(level string) {
	lvl, _ := btclog.LevelFromString(level)
	for _, logger := range subsystemLoggers {
		logger.SetLevel(lvl)
	}
}
