package otlayout

import (
	"sort"

	"github.com/npillmayer/otengine/core/arena"
	"github.com/npillmayer/otengine/core/font/opentype/ot"
)

// Run is a maximal sequence of buffer positions Min…Max which are all either
// skipped or not skipped by a lookup. Base is the position of Min within
// RangeList.Ignored or RangeList.Unignored, respectively.
type Run struct {
	Min, Max int
	Base     int
	Ignored  bool
}

// Len returns the number of glyphs in the run.
func (r Run) Len() int {
	return r.Max - r.Min + 1
}

// RangeList partitions a buffer into alternating runs of glyphs ignored and
// not ignored by a lookup. Runs are contiguous and cover the buffer.
//
// Ignored and Unignored list the buffer positions of all ignored and all
// non-ignored glyphs, in order. For a position i in run r,
// r.Base + (i - r.Min) is the index of i in the list matching r.Ignored.
type RangeList struct {
	Runs      []Run
	Ignored   []int
	Unignored []int
}

// ComputeRangeList partitions buffer b into runs for a lookup with flag and
// mark filtering set markSet (may be nil).
func ComputeRangeList(b *Buffer, flag ot.LayoutTableLookupFlag, markSet *ot.Coverage) *RangeList {
	n := b.Len()
	rl := &RangeList{
		Runs:      make([]Run, 0, 8),
		Ignored:   make([]int, 0, n),
		Unignored: make([]int, 0, n),
	}
	rl.fill(b, flag, markSet)
	return rl
}

// computeRangeListOn is ComputeRangeList, allocating from scratch memory s.
// The result has to be released with release, before anything else is freed
// from s.
func computeRangeListOn(s *arena.Stack, b *Buffer, flag ot.LayoutTableLookupFlag,
	markSet *ot.Coverage) (*RangeList, error) {
	//
	n := b.Len()
	if n == 0 {
		return &RangeList{}, nil
	}
	runs, err := arena.StackSlice[Run](s, n)
	if err != nil {
		return nil, err
	}
	ign, err := arena.StackSlice[int](s, n)
	if err != nil {
		arena.FreeSlice(s, runs)
		return nil, err
	}
	nign, err := arena.StackSlice[int](s, n)
	if err != nil {
		arena.FreeSlice(s, ign)
		arena.FreeSlice(s, runs)
		return nil, err
	}
	rl := &RangeList{Runs: runs[:0], Ignored: ign[:0], Unignored: nign[:0]}
	rl.fill(b, flag, markSet)
	return rl, nil
}

// release frees the arrays of a range list created by computeRangeListOn.
func (rl *RangeList) release(s *arena.Stack) {
	if cap(rl.Runs) == 0 {
		return
	}
	var err error
	if e := arena.FreeSlice(s, rl.Unignored[:cap(rl.Unignored)]); e != nil {
		err = e
	}
	if e := arena.FreeSlice(s, rl.Ignored[:cap(rl.Ignored)]); e != nil {
		err = e
	}
	if e := arena.FreeSlice(s, rl.Runs[:cap(rl.Runs)]); e != nil {
		err = e
	}
	if err != nil {
		tracer().Errorf("releasing range list: %v", err)
	}
	*rl = RangeList{}
}

func (rl *RangeList) fill(b *Buffer, flag ot.LayoutTableLookupFlag, markSet *ot.Coverage) {
	for i := 0; i < b.Len(); i++ {
		ign := ShouldIgnore(b, i, flag, markSet)
		if k := len(rl.Runs) - 1; k >= 0 && rl.Runs[k].Ignored == ign {
			rl.Runs[k].Max = i
		} else if ign {
			rl.Runs = append(rl.Runs, Run{Min: i, Max: i, Base: len(rl.Ignored), Ignored: true})
		} else {
			rl.Runs = append(rl.Runs, Run{Min: i, Max: i, Base: len(rl.Unignored)})
		}
		if ign {
			rl.Ignored = append(rl.Ignored, i)
		} else {
			rl.Unignored = append(rl.Unignored, i)
		}
	}
}

// Search returns the index of the run containing buffer position i, or -1.
func (rl *RangeList) Search(i int) int {
	k := sort.Search(len(rl.Runs), func(k int) bool { return rl.Runs[k].Max >= i })
	if k < len(rl.Runs) && rl.Runs[k].Min <= i {
		return k
	}
	return -1
}

// UnignoredPos returns the index of buffer position i within Unignored, or -1
// if i is ignored or out of range.
func (rl *RangeList) UnignoredPos(i int) int {
	k := rl.Search(i)
	if k < 0 || rl.Runs[k].Ignored {
		return -1
	}
	return rl.Runs[k].Base + (i - rl.Runs[k].Min)
}
