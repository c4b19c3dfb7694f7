// consensusd hosts the consensus core standalone: it opens a storage
// backend, wires a Consensus via the domain/consensus factory, and
// keeps it running so other processes (a p2p layer, an RPC surface —
// both out of scope here) could be layered in front of it.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tos-network/tos-sub006/domain/consensus"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
	"github.com/tos-network/tos-sub006/domain/dagconfig"
	"github.com/tos-network/tos-sub006/logger"
	"github.com/tos-network/tos-sub006/storage/leveldbstore"
)

var log, _ = logger.Get(logger.SubsystemTags.CONS)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := parseConfig()
	if err != nil {
		return err
	}

	logger.InitLogRotators(
		filepath.Join(cfg.LogDir, "consensusd.log"),
		filepath.Join(cfg.LogDir, "consensusd_err.log"))
	defer logger.LogRotator.Close()
	defer logger.ErrLogRotator.Close()
	logger.SetLogLevels(cfg.LogLevel)

	params := &dagconfig.MainnetParams
	if cfg.Simnet {
		params = &dagconfig.SimnetParams
	}

	db, err := leveldbstore.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	defer db.Close()

	factory := consensus.NewFactory()
	c := factory.NewConsensus(params, db)

	genesisBlock := &externalapi.DomainBlock{Header: params.GenesisHeader}
	if err := c.ValidateAndInsertBlock(genesisBlock); err != nil {
		return err
	}

	log.Infof("consensus core ready on %s, genesis %s", params.Name, params.GenesisHash)
	select {}
}
