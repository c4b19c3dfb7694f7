package hashserialization

import (
	"encoding/binary"

	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
)

// TransactionHash hashes the consensus-relevant fields of tx: version,
// source pubkey, reference, nonce, fee and fee type. Size and the access
// list are wire/execution metadata, not identity-bearing.
func TransactionHash(tx *externalapi.DomainTransaction) externalapi.DomainHash {
	var versionBuf [2]byte
	binary.BigEndian.PutUint16(versionBuf[:], uint16(tx.Version))

	var refTopoheightBuf, nonceBuf, feeBuf [8]byte
	binary.BigEndian.PutUint64(refTopoheightBuf[:], tx.Reference.Topoheight)
	binary.BigEndian.PutUint64(nonceBuf[:], tx.Nonce)
	binary.BigEndian.PutUint64(feeBuf[:], tx.Fee)

	return doubleSHA256(
		versionBuf[:],
		tx.SourcePubKey[:],
		refTopoheightBuf[:],
		tx.Reference.Hash[:],
		nonceBuf[:],
		feeBuf[:],
		[]byte{tx.FeeType},
	)
}
