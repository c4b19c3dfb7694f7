package hashserialization

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
)

func TestHeaderHashIsDeterministic(t *testing.T) {
	header := &externalapi.DomainBlockHeader{Version: 1, Height: 5, Difficulty: 1, Nonce: 42}

	got := HeaderHash(header)
	want := HeaderHash(header)
	if *got != *want {
		t.Errorf("HeaderHash is not deterministic\n got: %s\nwant: %s", spew.Sdump(got), spew.Sdump(want))
	}
}

func TestHeaderHashChangesWithNonce(t *testing.T) {
	header := &externalapi.DomainBlockHeader{Version: 1, Height: 5, Difficulty: 1}

	header.Nonce = 1
	first := HeaderHash(header)
	header.Nonce = 2
	second := HeaderHash(header)

	if *first == *second {
		t.Errorf("HeaderHash did not change across nonces\nfirst: %s\nsecond: %s", spew.Sdump(first), spew.Sdump(second))
	}
}

func TestHeaderHashIgnoresVRFFields(t *testing.T) {
	header := &externalapi.DomainBlockHeader{Version: 1, Height: 5, Difficulty: 1, Nonce: 7}

	before := HeaderHash(header)
	header.VRF = &externalapi.VRFData{Output: [32]byte{1, 2, 3}}
	after := HeaderHash(header)

	if *before != *after {
		t.Errorf("HeaderHash changed after attaching a VRF proof, want unchanged\nbefore: %s\nafter: %s",
			spew.Sdump(before), spew.Sdump(after))
	}
}

func TestTransactionHashDistinguishesNonce(t *testing.T) {
	tx1 := &externalapi.DomainTransaction{Version: 1, Nonce: 1, Fee: 10}
	tx2 := &externalapi.DomainTransaction{Version: 1, Nonce: 2, Fee: 10}

	hash1 := TransactionHash(tx1)
	hash2 := TransactionHash(tx2)
	if hash1 == hash2 {
		t.Errorf("TransactionHash collided across distinct nonces\ntx1: %s\ntx2: %s", spew.Sdump(tx1), spew.Sdump(tx2))
	}
}

func TestTipsHashOrderSensitive(t *testing.T) {
	var a, b externalapi.DomainHash
	a[0], b[0] = 1, 2

	forward := TipsHash([]*externalapi.DomainHash{&a, &b})
	reversed := TipsHash([]*externalapi.DomainHash{&b, &a})
	if forward == reversed {
		t.Errorf("TipsHash ignored parent order\nforward: %s\nreversed: %s", spew.Sdump(forward), spew.Sdump(reversed))
	}
}
