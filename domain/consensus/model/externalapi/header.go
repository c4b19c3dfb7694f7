package externalapi

// TipsLimit and MaxTxsPerBlock bound the size of a header's parent and
// transaction sets. They live in dagconfig as network parameters; these
// are only the field-level invariants a header must satisfy structurally.

// ExtraNonceSize is the fixed size, in bytes, of a header's miner-chosen
// extra nonce field.
const ExtraNonceSize = 32

// VRFData is the VRF proof a miner may attach to a block. It is carried
// outside the PoW preimage: the VRF output is computed over the block
// hash, so including it in the hash preimage would be circular.
type VRFData struct {
	PubKey     [32]byte
	Output     [32]byte
	Proof      [64]byte
	BindingSig [64]byte
}

// Clone returns a deep copy of v, or nil if v is nil.
func (v *VRFData) Clone() *VRFData {
	if v == nil {
		return nil
	}
	clone := *v
	return &clone
}

// DomainBlockHeader is the consensus-relevant subset of a block header.
// Parents and Txs are ordered, duplicate-free sets of hashes; ordering is
// the declaration order used in the canonical preimage and is
// preserved verbatim from the wire encoding.
type DomainBlockHeader struct {
	Version     uint8
	Height      uint64
	TimestampMs uint64
	Nonce       uint64
	ExtraNonce  [ExtraNonceSize]byte
	MinerPubKey [32]byte
	Parents     []*DomainHash
	Txs         []*DomainHash
	VRF         *VRFData
	BlueScore   uint64

	// Difficulty is the PoW target this block was mined against, carried
	// in the header (rather than recomputed from a window at validation
	// time) since the adjustment formula that derives it is out of this
	// core's scope; the core only validates against and accumulates the
	// value already attached to each header.
	Difficulty uint64
}

// Clone returns a deep copy of the header.
func (h *DomainBlockHeader) Clone() *DomainBlockHeader {
	if h == nil {
		return nil
	}
	clone := *h
	clone.Parents = CloneHashes(h.Parents)
	clone.Txs = CloneHashes(h.Txs)
	clone.VRF = h.VRF.Clone()
	return &clone
}

// ParentsSet treats Parents as a set for membership tests.
func (h *DomainBlockHeader) ParentsSet() map[DomainHash]struct{} {
	set := make(map[DomainHash]struct{}, len(h.Parents))
	for _, parent := range h.Parents {
		set[*parent] = struct{}{}
	}
	return set
}

// HasParent returns whether candidate is one of h's declared parents.
func (h *DomainBlockHeader) HasParent(candidate *DomainHash) bool {
	for _, parent := range h.Parents {
		if parent.Equal(candidate) {
			return true
		}
	}
	return false
}
