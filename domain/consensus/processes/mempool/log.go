package mempool

import "github.com/tos-network/tos-sub006/logger"

var log, _ = logger.Get(logger.SubsystemTags.MEMP)
