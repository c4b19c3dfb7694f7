package topoheightstore

import (
	"testing"

	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
	"github.com/tos-network/tos-sub006/storage/memory"
)

func TestLatestTopoheightStartsAtZero(t *testing.T) {
	store := New(memory.New())

	latest, err := store.LatestTopoheight()
	if err != nil {
		t.Fatalf("LatestTopoheight: unexpected error: %s", err)
	}
	if latest != 0 {
		t.Errorf("LatestTopoheight on an empty store: got %d, want 0", latest)
	}
}

func TestAdvanceTopoheightIsMonotonic(t *testing.T) {
	store := New(memory.New())

	var genesisHash externalapi.DomainHash
	genesisHash[0] = 1
	genesisTopoheight, err := store.AdvanceTopoheight(&genesisHash)
	if err != nil {
		t.Fatalf("AdvanceTopoheight(genesis): unexpected error: %s", err)
	}
	if genesisTopoheight != 0 {
		t.Errorf("first AdvanceTopoheight: got %d, want 0", genesisTopoheight)
	}

	var nextHash externalapi.DomainHash
	nextHash[0] = 2
	nextTopoheight, err := store.AdvanceTopoheight(&nextHash)
	if err != nil {
		t.Fatalf("AdvanceTopoheight(next): unexpected error: %s", err)
	}
	if nextTopoheight != 1 {
		t.Errorf("second AdvanceTopoheight: got %d, want 1", nextTopoheight)
	}

	latest, err := store.LatestTopoheight()
	if err != nil {
		t.Fatalf("LatestTopoheight: unexpected error: %s", err)
	}
	if latest != 1 {
		t.Errorf("LatestTopoheight after two advances: got %d, want 1", latest)
	}
}

func TestTopoheightAndHashLookupsRoundTrip(t *testing.T) {
	store := New(memory.New())

	var hash externalapi.DomainHash
	hash[0] = 0xab
	topoheight, err := store.AdvanceTopoheight(&hash)
	if err != nil {
		t.Fatalf("AdvanceTopoheight: unexpected error: %s", err)
	}

	gotTopoheight, err := store.TopoheightOf(&hash)
	if err != nil {
		t.Fatalf("TopoheightOf: unexpected error: %s", err)
	}
	if gotTopoheight != topoheight {
		t.Errorf("TopoheightOf: got %d, want %d", gotTopoheight, topoheight)
	}

	gotHash, err := store.HashAtTopoheight(topoheight)
	if err != nil {
		t.Fatalf("HashAtTopoheight: unexpected error: %s", err)
	}
	if !gotHash.Equal(&hash) {
		t.Errorf("HashAtTopoheight: got %s, want %s", gotHash, &hash)
	}
}

func TestPrunedTopoheightIsAlwaysZero(t *testing.T) {
	store := New(memory.New())

	var hash externalapi.DomainHash
	hash[0] = 1
	if _, err := store.AdvanceTopoheight(&hash); err != nil {
		t.Fatalf("AdvanceTopoheight: unexpected error: %s", err)
	}

	pruned, err := store.PrunedTopoheight()
	if err != nil {
		t.Fatalf("PrunedTopoheight: unexpected error: %s", err)
	}
	if pruned != 0 {
		t.Errorf("PrunedTopoheight: got %d, want 0 (no pruning subsystem)", pruned)
	}
}
