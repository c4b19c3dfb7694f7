package main

import (
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

// config houses consensusd's command-line configuration.
type config struct {
	DataDir    string `short:"b" long:"datadir" description:"Directory to store the consensus database in" default:"./data"`
	Simnet     bool   `long:"simnet" description:"Use the simnet parameters (K=1) instead of mainnet"`
	LogLevel   string `short:"d" long:"debuglevel" description:"Logging level for all subsystems" default:"info"`
	LogDir     string `long:"logdir" description:"Directory to log output" default:"./logs"`
}

func parseConfig() (*config, error) {
	cfg := &config{}
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)
	if _, err := parser.Parse(); err != nil {
		return nil, err
	}
	if cfg.DataDir == "" {
		return nil, errors.New("--datadir may not be empty")
	}
	return cfg, nil
}
