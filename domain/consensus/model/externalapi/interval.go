package externalapi

import "github.com/pkg/errors"

// intervalMaxValue is u64::MAX - 1: the reachability interval space never
// uses the very top value, which is reserved so a child's end can never
// collide with its parent's end during a left-half split.
const intervalMaxValue = ^uint64(0) - 1

// Interval is a closed [Start, End] range of the reachability interval
// space. Containment of intervals mirrors chain-ancestry: a block's
// interval contains every one of its chain-descendants' intervals.
type Interval struct {
	Start uint64
	End   uint64
}

// NewInterval creates a new Interval. It panics if start > end, since an
// inverted interval is never a legal reachability label.
func NewInterval(start, end uint64) *Interval {
	if start > end {
		panic(errors.Errorf("start %d is greater than end %d", start, end))
	}
	return &Interval{Start: start, End: end}
}

// NewIntervalMaximal returns the maximal interval [1, u64::MAX-1], the
// label assigned to the DAG genesis.
func NewIntervalMaximal() *Interval {
	return NewInterval(1, intervalMaxValue)
}

// Size returns the amount of integers in the interval.
func (i *Interval) Size() uint64 {
	return i.End - i.Start + 1
}

// Contains returns true iff i fully contains other.
func (i *Interval) Contains(other *Interval) bool {
	return i.Start <= other.Start && other.End <= i.End
}

// Clone returns a deep copy of i.
func (i *Interval) Clone() *Interval {
	clone := *i
	return &clone
}

// Equal returns whether i and other denote the same interval.
func (i *Interval) Equal(other *Interval) bool {
	if i == nil || other == nil {
		return i == other
	}
	return i.Start == other.Start && i.End == other.End
}

// SplitInHalf splits i into two adjacent intervals of roughly half its
// size: the reachability manager hands the left half to a newly-arriving
// child and leaves the right half as the parent's free tail. Panics if i
// cannot be split (size < 2), which is a reindex bug, never a runtime
// condition the core should hit uncaught.
func (i *Interval) SplitInHalf() (left, right *Interval) {
	if i.Size() < 2 {
		panic(errors.Errorf("cannot split interval of size %d", i.Size()))
	}
	allocationSize := i.Size() / 2
	left = NewInterval(i.Start, i.Start+allocationSize-1)
	right = NewInterval(i.Start+allocationSize, i.End)
	return left, right
}

// SplitExact splits i into len(sizes) consecutive sub-intervals of the
// given sizes, in order. The sizes must sum to exactly i.Size(); this is
// used by reindexing to proportionally re-carve a parent's interval among
// its children according to their cached subtree sizes.
func (i *Interval) SplitExact(sizes []uint64) []*Interval {
	var total uint64
	for _, size := range sizes {
		total += size
	}
	if total != i.Size() {
		panic(errors.Errorf("sizes sum to %d, expected %d", total, i.Size()))
	}

	result := make([]*Interval, len(sizes))
	start := i.Start
	for idx, size := range sizes {
		result[idx] = NewInterval(start, start+size-1)
		start += size
	}
	return result
}

// SplitWithRemainder splits i proportionally to the requested sizes, with
// any remainder from integer division going to the last sub-interval.
// Used by reindexing when the sum of children subtree
// sizes is smaller than the interval being redistributed (i.e. the
// children's own intervals have room to grow).
func (i *Interval) SplitWithRemainder(sizes []uint64) []*Interval {
	var weightTotal uint64
	for _, size := range sizes {
		weightTotal++
		_ = size
	}
	if weightTotal == 0 {
		return nil
	}

	var sizeTotal uint64
	for _, size := range sizes {
		sizeTotal += size
	}
	if sizeTotal == 0 {
		return i.SplitExact(equalSizes(i.Size(), len(sizes)))
	}

	remaining := i.Size()
	result := make([]*Interval, len(sizes))
	start := i.Start
	for idx, size := range sizes {
		var allocated uint64
		if idx == len(sizes)-1 {
			allocated = remaining
		} else {
			allocated = size * i.Size() / sizeTotal
			if allocated == 0 {
				allocated = 1
			}
			if allocated > remaining {
				allocated = remaining
			}
		}
		result[idx] = NewInterval(start, start+allocated-1)
		start += allocated
		remaining -= allocated
	}
	return result
}

func equalSizes(total uint64, count int) []uint64 {
	sizes := make([]uint64, count)
	base := total / uint64(count)
	remainder := total % uint64(count)
	for idx := range sizes {
		sizes[idx] = base
		if uint64(idx) < remainder {
			sizes[idx]++
		}
	}
	return sizes
}
