// Package hashserialization implements the canonical byte layouts this
// core hashes over: the block PoW preimage and the per-transaction hash
// used to identify mempool entries. Both use double-SHA256, matching
// the hashing primitive this core's consensus uses throughout.
package hashserialization

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
)

func doubleSHA256(chunks ...[]byte) externalapi.DomainHash {
	first := sha256.New()
	for _, chunk := range chunks {
		first.Write(chunk)
	}
	second := sha256.Sum256(first.Sum(nil))
	return externalapi.DomainHash(second)
}

func concatHashes(hashes []*externalapi.DomainHash) externalapi.DomainHash {
	chunks := make([][]byte, len(hashes))
	for i, hash := range hashes {
		chunks[i] = hash[:]
	}
	return doubleSHA256(chunks...)
}

// TipsHash hashes parents' concatenated bytes in declaration order.
func TipsHash(parents []*externalapi.DomainHash) externalapi.DomainHash {
	return concatHashes(parents)
}

// TxsHash hashes txs' concatenated bytes in declaration order.
func TxsHash(txs []*externalapi.DomainHash) externalapi.DomainHash {
	return concatHashes(txs)
}

// WorkHash is the "header work" portion of the PoW preimage:
// version | height | tips_hash | txs_hash.
func WorkHash(header *externalapi.DomainBlockHeader) externalapi.DomainHash {
	tipsHash := TipsHash(header.Parents)
	txsHash := TxsHash(header.Txs)

	var heightBuf [8]byte
	binary.BigEndian.PutUint64(heightBuf[:], header.Height)

	return doubleSHA256([]byte{header.Version}, heightBuf[:], tipsHash[:], txsHash[:])
}

// HeaderHash is the block's canonical hash: the "block work" portion
// over work_hash | timestamp | nonce | extra_nonce | miner_pubkey. VRF
// fields never enter this preimage, so attaching or removing a VRF
// proof leaves the hash unchanged.
func HeaderHash(header *externalapi.DomainBlockHeader) *externalapi.DomainHash {
	workHash := WorkHash(header)

	var timestampBuf, nonceBuf [8]byte
	binary.BigEndian.PutUint64(timestampBuf[:], header.TimestampMs)
	binary.BigEndian.PutUint64(nonceBuf[:], header.Nonce)

	hash := doubleSHA256(workHash[:], timestampBuf[:], nonceBuf[:], header.ExtraNonce[:], header.MinerPubKey[:])
	return &hash
}
