// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package logger sets up the per-subsystem loggers every consensus
// package pulls its `log` variable from, backed by btclog and rotated to
// disk via jrick/logrotate.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"
)

// LogRotator and ErrLogRotator write to the current log file, rotating
// once it crosses the rotator's size threshold. Both are nil until
// InitLogRotators runs.
var (
	LogRotator    *rotator.Rotator
	ErrLogRotator *rotator.Rotator
	initiated     bool
)

type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	os.Stdout.Write(p)
	if initiated {
		LogRotator.Write(p)
	}
	return len(p), nil
}

type errLogWriter struct{}

func (errLogWriter) Write(p []byte) (int, error) {
	os.Stderr.Write(p)
	if initiated {
		ErrLogRotator.Write(p)
	}
	return len(p), nil
}

var backendLog = btclog.NewBackend(io.MultiWriter(logWriter{}, errLogWriter{}))

// SubsystemTags names every subsystem that has its own logger.
var SubsystemTags = struct {
	BLKP string // block processor
	GHST string // GHOSTDAG manager
	RCHB string // reachability manager
	MEMP string // mempool
	PLEX string // parallel-execution analyzer
	CHNV string // chain validator
	CONS string // top-level consensus wiring / cmd
}{
	BLKP: "BLKP",
	GHST: "GHST",
	RCHB: "RCHB",
	MEMP: "MEMP",
	PLEX: "PLEX",
	CHNV: "CHNV",
	CONS: "CONS",
}

var subsystemLoggers = map[string]btclog.Logger{
	SubsystemTags.BLKP: backendLog.Logger(SubsystemTags.BLKP),
	SubsystemTags.GHST: backendLog.Logger(SubsystemTags.GHST),
	SubsystemTags.RCHB: backendLog.Logger(SubsystemTags.RCHB),
	SubsystemTags.MEMP: backendLog.Logger(SubsystemTags.MEMP),
	SubsystemTags.PLEX: backendLog.Logger(SubsystemTags.PLEX),
	SubsystemTags.CHNV: backendLog.Logger(SubsystemTags.CHNV),
	SubsystemTags.CONS: backendLog.Logger(SubsystemTags.CONS),
}

// InitLogRotators must run once during startup, before any subsystem
// logger is used, to point logging at logFile/errLogFile.
func InitLogRotators(logFile, errLogFile string) {
	LogRotator = initLogRotator(logFile)
	ErrLogRotator = initLogRotator(errLogFile)
	initiated = true
}

func initLogRotator(logFile string) *rotator.Rotator {
	logDir, _ := filepath.Split(logFile)
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0700); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create log directory: %s\n", err)
			os.Exit(1)
		}
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create file rotator: %s\n", err)
		os.Exit(1)
	}
	return r
}

// Get returns the logger registered for tag, and whether it exists.
func Get(tag string) (log btclog.Logger, ok bool) {
	log, ok = subsystemLoggers[tag]
	return
}

// SetLogLevel sets one subsystem's logging level. Unknown subsystems are
// ignored; invalid levels default to info.
func SetLogLevel(subsystemID, logLevel string) {
	log, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}
	level, ok := btclog.LevelFromString(logLevel)
	if !ok {
		level = btclog.LevelInfo
	}
	log.SetLevel(level)
}

// SetLogLevels sets every subsystem's logging level to logLevel.
func SetLogLevels(logLevel string) {
	for subsystemID := range subsystemLoggers {
		SetLogLevel(subsystemID, logLevel)
	}
}

// SupportedSubsystems returns the sorted list of registered subsystem tags.
func SupportedSubsystems() []string {
	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}
	sort.Strings(subsystems)
	return subsystems
}

// ParseAndSetDebugLevels parses a debug-level spec, either a single level
// applied to every subsystem ("debug") or a comma-separated list of
// subsystem=level pairs ("BLKP=debug,MEMP=trace").
func ParseAndSetDebugLevels(debugLevel string) error {
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		if !validLogLevel(debugLevel) {
			return fmt.Errorf("the specified debug level [%s] is invalid", debugLevel)
		}
		SetLogLevels(debugLevel)
		return nil
	}

	for _, pair := range strings.Split(debugLevel, ",") {
		fields := strings.Split(pair, "=")
		if len(fields) != 2 {
			return fmt.Errorf("the specified debug level contains an invalid subsystem/level pair [%s]", pair)
		}
		subsysID, logLevel := fields[0], fields[1]

		if _, ok := Get(subsysID); !ok {
			return fmt.Errorf("the specified subsystem [%s] is invalid -- supported subsystems %s",
				subsysID, strings.Join(SupportedSubsystems(), ", "))
		}
		if !validLogLevel(logLevel) {
			return fmt.Errorf("the specified debug level [%s] is invalid", logLevel)
		}
		SetLogLevel(subsysID, logLevel)
	}
	return nil
}

func validLogLevel(logLevel string) bool {
	_, ok := btclog.LevelFromString(logLevel)
	return ok
}
