package model

import "github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"

// DAGTopologyManager exposes parent/child/ancestor relationships over the
// block DAG, used by the GHOSTDAG manager's mergeset walk and by the
// block processor's structural checks. Parents/Children are both read
// from the block relation store; the ancestor queries delegate to the
// ReachabilityManager.
type DAGTopologyManager interface {
	Parents(blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error)
	Children(blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error)
	IsAncestorOf(blockHashA, blockHashB *externalapi.DomainHash) (bool, error)
	Tips() ([]*externalapi.DomainHash, error)
}
