package externalapi

import (
	"bytes"
	"encoding/gob"
)

// ReachabilityData is the reachability index's per-block bookkeeping.
// Parent/Children/Interval form the chain tree, on which interval
// containment answers chain-ancestry in O(1); FutureCoveringSet answers
// DAG-ancestry for non-chain descendants in O(log n).
type ReachabilityData struct {
	Parent            *DomainHash
	Interval          *Interval
	Height            uint64
	Children          []*DomainHash
	FutureCoveringSet []*DomainHash

	// treeSize caches the number of tree-descendants (including itself)
	// so reindexing can proportionally redistribute interval space
	// without re-walking the whole subtree.
	treeSize uint64
}

// NewReachabilityData constructs a ReachabilityData record.
func NewReachabilityData(parent *DomainHash, interval *Interval, height uint64) *ReachabilityData {
	return &ReachabilityData{
		Parent:   parent,
		Interval: interval,
		Height:   height,
	}
}

// TreeSize returns the cached count of this block's chain-tree
// descendants, itself included.
func (d *ReachabilityData) TreeSize() uint64 {
	if d.treeSize == 0 {
		return 1
	}
	return d.treeSize
}

// SetTreeSize updates the cached descendant count.
func (d *ReachabilityData) SetTreeSize(size uint64) {
	d.treeSize = size
}

// Clone returns a deep copy of d.
func (d *ReachabilityData) Clone() *ReachabilityData {
	if d == nil {
		return nil
	}
	return &ReachabilityData{
		Parent:            d.Parent.Clone(),
		Interval:          d.Interval.Clone(),
		Height:            d.Height,
		Children:          CloneHashes(d.Children),
		FutureCoveringSet: CloneHashes(d.FutureCoveringSet),
		treeSize:          d.treeSize,
	}
}

type gobReachabilityData struct {
	Parent            *DomainHash
	Interval          *Interval
	Height            uint64
	Children          []*DomainHash
	FutureCoveringSet []*DomainHash
	TreeSize          uint64
}

// GobEncode implements gob.GobEncoder.
func (d *ReachabilityData) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(gobReachabilityData{
		Parent:            d.Parent,
		Interval:          d.Interval,
		Height:            d.Height,
		Children:          d.Children,
		FutureCoveringSet: d.FutureCoveringSet,
		TreeSize:          d.treeSize,
	})
	return buf.Bytes(), err
}

// GobDecode implements gob.GobDecoder.
func (d *ReachabilityData) GobDecode(data []byte) error {
	var decoded gobReachabilityData
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&decoded); err != nil {
		return err
	}
	d.Parent = decoded.Parent
	d.Interval = decoded.Interval
	d.Height = decoded.Height
	d.Children = decoded.Children
	d.FutureCoveringSet = decoded.FutureCoveringSet
	d.treeSize = decoded.TreeSize
	return nil
}
