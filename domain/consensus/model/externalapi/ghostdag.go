package externalapi

import (
	"bytes"
	"encoding/gob"

	"github.com/holiman/uint256"
)

// BlockGHOSTDAGData is the GHOSTDAG output for a single block, written
// once atomically with the block and never mutated afterwards.
type BlockGHOSTDAGData struct {
	blueScore          uint64
	blueWork           *uint256.Int
	daaScore           uint64
	selectedParent     *DomainHash
	mergeSetBlues      []*DomainHash
	mergeSetReds       []*DomainHash
	bluesAnticoneSizes map[DomainHash]uint16
}

// NewBlockGHOSTDAGData constructs a BlockGHOSTDAGData from its fields.
func NewBlockGHOSTDAGData(
	blueScore uint64,
	blueWork *uint256.Int,
	daaScore uint64,
	selectedParent *DomainHash,
	mergeSetBlues []*DomainHash,
	mergeSetReds []*DomainHash,
	bluesAnticoneSizes map[DomainHash]uint16,
) *BlockGHOSTDAGData {
	return &BlockGHOSTDAGData{
		blueScore:          blueScore,
		blueWork:           blueWork,
		daaScore:           daaScore,
		selectedParent:     selectedParent,
		mergeSetBlues:      mergeSetBlues,
		mergeSetReds:       mergeSetReds,
		bluesAnticoneSizes: bluesAnticoneSizes,
	}
}

// NewGenesisBlockGHOSTDAGData returns the all-zero GHOSTDAG data genesis
// is defined to have, with itself as selected parent.
func NewGenesisBlockGHOSTDAGData(genesisHash *DomainHash) *BlockGHOSTDAGData {
	return &BlockGHOSTDAGData{
		blueScore:          0,
		blueWork:           uint256.NewInt(0),
		daaScore:           0,
		selectedParent:     genesisHash,
		mergeSetBlues:      []*DomainHash{genesisHash},
		mergeSetReds:       nil,
		bluesAnticoneSizes: map[DomainHash]uint16{*genesisHash: 0},
	}
}

// BlueScore returns the count of blue blocks on the selected-parent chain
// up to and including this block's own blue mergeset.
func (d *BlockGHOSTDAGData) BlueScore() uint64 { return d.blueScore }

// BlueWork returns the cumulative work of all blue ancestors plus this
// block's own work.
func (d *BlockGHOSTDAGData) BlueWork() *uint256.Int { return d.blueWork }

// DAAScore returns the difficulty-adjustment score.
func (d *BlockGHOSTDAGData) DAAScore() uint64 { return d.daaScore }

// SelectedParent returns the parent with maximum blue work.
func (d *BlockGHOSTDAGData) SelectedParent() *DomainHash { return d.selectedParent }

// MergeSetBlues returns the mergeset's blue members, selected parent first.
func (d *BlockGHOSTDAGData) MergeSetBlues() []*DomainHash { return d.mergeSetBlues }

// MergeSetReds returns the mergeset's red members.
func (d *BlockGHOSTDAGData) MergeSetReds() []*DomainHash { return d.mergeSetReds }

// BluesAnticoneSizes returns, for each blue in the mergeset, the number of
// its own anticone members that are also blue.
func (d *BlockGHOSTDAGData) BluesAnticoneSizes() map[DomainHash]uint16 { return d.bluesAnticoneSizes }

// BlueAnticoneSize returns the anticone size recorded for blue, and
// whether blue is present in the map at all.
func (d *BlockGHOSTDAGData) BlueAnticoneSize(blue *DomainHash) (uint16, bool) {
	size, ok := d.bluesAnticoneSizes[*blue]
	return size, ok
}

// IsBlue returns whether candidate was classified blue in this block's
// mergeset (selected parent included).
func (d *BlockGHOSTDAGData) IsBlue(candidate *DomainHash) bool {
	if d.selectedParent.Equal(candidate) {
		return true
	}
	for _, blue := range d.mergeSetBlues {
		if blue.Equal(candidate) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of d.
func (d *BlockGHOSTDAGData) Clone() *BlockGHOSTDAGData {
	if d == nil {
		return nil
	}
	anticoneSizes := make(map[DomainHash]uint16, len(d.bluesAnticoneSizes))
	for hash, size := range d.bluesAnticoneSizes {
		anticoneSizes[hash] = size
	}
	return &BlockGHOSTDAGData{
		blueScore:          d.blueScore,
		blueWork:           new(uint256.Int).Set(d.blueWork),
		daaScore:           d.daaScore,
		selectedParent:     d.selectedParent.Clone(),
		mergeSetBlues:      CloneHashes(d.mergeSetBlues),
		mergeSetReds:       CloneHashes(d.mergeSetReds),
		bluesAnticoneSizes: anticoneSizes,
	}
}

// gobBlockGHOSTDAGData mirrors BlockGHOSTDAGData with exported fields, the
// only ones gob can see, so storage-layer round trips don't silently
// lose the unexported struct's contents.
type gobBlockGHOSTDAGData struct {
	BlueScore          uint64
	BlueWork           []byte
	DAAScore           uint64
	SelectedParent     *DomainHash
	MergeSetBlues      []*DomainHash
	MergeSetReds       []*DomainHash
	BluesAnticoneSizes map[DomainHash]uint16
}

// GobEncode implements gob.GobEncoder.
func (d *BlockGHOSTDAGData) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(gobBlockGHOSTDAGData{
		BlueScore:          d.blueScore,
		BlueWork:           d.blueWork.Bytes(),
		DAAScore:           d.daaScore,
		SelectedParent:     d.selectedParent,
		MergeSetBlues:      d.mergeSetBlues,
		MergeSetReds:       d.mergeSetReds,
		BluesAnticoneSizes: d.bluesAnticoneSizes,
	})
	return buf.Bytes(), err
}

// GobDecode implements gob.GobDecoder.
func (d *BlockGHOSTDAGData) GobDecode(data []byte) error {
	var decoded gobBlockGHOSTDAGData
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&decoded); err != nil {
		return err
	}
	d.blueScore = decoded.BlueScore
	d.blueWork = new(uint256.Int).SetBytes(decoded.BlueWork)
	d.daaScore = decoded.DAAScore
	d.selectedParent = decoded.SelectedParent
	d.mergeSetBlues = decoded.MergeSetBlues
	d.mergeSetReds = decoded.MergeSetReds
	d.bluesAnticoneSizes = decoded.BluesAnticoneSizes
	return nil
}
