package voxelizer

import (
	"slices"
)

const (
	isectPageSize = 1024

	// Encodable height range. Crossings outside it cannot be represented
	// and are dropped at Add.
	isectMinHeight = -1024.0
	isectMaxHeight = 1024.0

	// Fixed-point scale of the encoding, ~1e-6 resolution over the range.
	isectHeightScale = 1 << 20
)

// EncodeCrossing packs a crossing height and the facing of the surface it
// passed through into one uint32: ((v+1024)*2^20)<<1 | upBit. ok is false
// when v is outside [-1024, 1024).
func EncodeCrossing(v float32, normalUp bool) (enc uint32, ok bool) {
	if v < isectMinHeight || v >= isectMaxHeight {
		return 0, false
	}
	// The shifted value spans 31 bits, beyond float32 precision; quantize in
	// float64 so the full 2^-20 resolution survives.
	enc = uint32((float64(v)+1024.0)*isectHeightScale) << 1
	if normalUp {
		enc |= 1
	}
	return enc, true
}

// DecodeCrossing is the inverse of EncodeCrossing.
func DecodeCrossing(enc uint32) (v float32, normalUp bool) {
	return float32(float64(enc>>1)/isectHeightScale - 1024.0), enc&1 == 1
}

type isectEntry struct {
	enc  uint32
	next int32
}

// IntersectionSet collects per-column vertical-ray/triangle crossings for
// one instance's interior fill. Entries live in a page-allocated arena
// indexed by integer handles; index 0 is the empty-chain sentinel. Clear
// resets the cursor and chain heads but keeps the pages, so the arena is
// reused across instances without reallocation.
type IntersectionSet struct {
	pages  [][]isectEntry
	heads  []int32 // chain head per column, 0 = empty
	cursor int32   // next free entry index, starts at 1
}

func NewIntersectionSet(columns int32) *IntersectionSet {
	return &IntersectionSet{
		heads:  make([]int32, columns),
		cursor: 1,
	}
}

// Add records a crossing for a column. Heights outside the encodable range
// are dropped.
func (s *IntersectionSet) Add(column int32, height float32, normalUp bool) {
	enc, ok := EncodeCrossing(height, normalUp)
	if !ok {
		return
	}
	idx := s.cursor
	s.cursor++
	for int(idx/isectPageSize) >= len(s.pages) {
		s.pages = append(s.pages, make([]isectEntry, isectPageSize))
	}
	e := &s.pages[idx/isectPageSize][idx%isectPageSize]
	e.enc = enc
	e.next = s.heads[column]
	s.heads[column] = idx
}

// FetchSorted appends a column's crossings to buf and sorts them ascending
// on the raw encoding. Height dominates the bit layout, so the order is
// ascending by height; the low facing bit only perturbs ordering between
// crossings within the same quantization step.
func (s *IntersectionSet) FetchSorted(column int32, buf []uint32) []uint32 {
	for idx := s.heads[column]; idx != 0; {
		e := &s.pages[idx/isectPageSize][idx%isectPageSize]
		buf = append(buf, e.enc)
		idx = e.next
	}
	slices.Sort(buf)
	return buf
}

// Clear empties every chain in O(columns), retaining the backing pages.
func (s *IntersectionSet) Clear() {
	s.cursor = 1
	for i := range s.heads {
		s.heads[i] = 0
	}
}
