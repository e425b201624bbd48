package voxelizer

import (
	"voxnav/common"
)

// Area ids assigned to rasterized spans. Higher ids indicate higher merge
// priority.
const (
	AreaSolid      uint8 = 0  // unwalkable / enclosed volume
	AreaUnlandable uint8 = 62 // traversable but not landable
	AreaWalkable   uint8 = 63
)

const (
	spanHeightBits = 13
	// SpanMaxHeight is the highest representable voxel cell index.
	SpanMaxHeight = (1 << spanHeightBits) - 1
	spansPerPool  = 2048
)

// Span is one contiguous vertical voxel interval of a heightfield column.
type Span struct {
	SMin uint32 // lower cell index [Limit: < SMax]
	SMax uint32 // upper cell index, exclusive [Limit: <= SpanMaxHeight]
	Area uint8
	Next *Span // next span in the column, higher up
}

// spanPool is a fixed-size block of spans; pools are chained so span
// allocation never frees back to the runtime during a pass.
type spanPool struct {
	next  *spanPool
	items [spansPerPool]Span
}

// Heightfield is a grid of span columns over a fixed world bounding box.
type Heightfield struct {
	Width  int32 // cell count along x
	Height int32 // cell count along z
	BMin   [3]float32
	BMax   [3]float32
	Cs     float32 // horizontal cell size
	Ch     float32 // vertical cell size
	Spans  []*Span // column heads, indexed x + z*Width

	pools    *spanPool
	freelist *Span
}

func NewHeightfield(width, height int32, bmin, bmax [3]float32, cs, ch float32) *Heightfield {
	return &Heightfield{
		Width:  width,
		Height: height,
		BMin:   bmin,
		BMax:   bmax,
		Cs:     cs,
		Ch:     ch,
		Spans:  make([]*Span, width*height),
	}
}

// CalcGridSize derives cell counts from world bounds and the cell size.
func CalcGridSize(bmin, bmax [3]float32, cellSize float32) (width, height int32) {
	width = int32((bmax[0]-bmin[0])/cellSize + 0.5)
	height = int32((bmax[2]-bmin[2])/cellSize + 0.5)
	return width, height
}

// AddSpan inserts [smin, smax) into column (x, z), merging it with any
// overlapping or touching spans. When the merged ceilings are within
// mergeThreshold cells of each other the higher-priority area id is kept.
func (hf *Heightfield) AddSpan(x, z int32, smin, smax uint32, area uint8, mergeThreshold int32) {
	newSpan := hf.allocSpan()
	newSpan.SMin = smin
	newSpan.SMax = smax
	newSpan.Area = area
	newSpan.Next = nil

	columnIndex := x + z*hf.Width
	var previousSpan *Span
	currentSpan := hf.Spans[columnIndex]

	for currentSpan != nil {
		if currentSpan.SMin > newSpan.SMax {
			// Current span is completely after the new span, break.
			break
		}

		if currentSpan.SMax < newSpan.SMin {
			// Current span is completely before the new span. Keep going.
			previousSpan = currentSpan
			currentSpan = currentSpan.Next
			continue
		}

		// The new span overlaps with an existing span. Merge them.
		if currentSpan.SMin < newSpan.SMin {
			newSpan.SMin = currentSpan.SMin
		}
		if currentSpan.SMax > newSpan.SMax {
			newSpan.SMax = currentSpan.SMax
		}

		// Merge flags.
		if common.Abs(int64(newSpan.SMax)-int64(currentSpan.SMax)) <= int64(mergeThreshold) {
			// Higher area ID numbers indicate higher resolution priority.
			newSpan.Area = max(newSpan.Area, currentSpan.Area)
		}

		// Remove the current span since it's now merged with newSpan.
		// Keep going because there might be other overlapping spans that
		// also need to be merged.
		next := currentSpan.Next
		hf.freeSpan(currentSpan)
		if previousSpan != nil {
			previousSpan.Next = next
		} else {
			hf.Spans[columnIndex] = next
		}
		currentSpan = next
	}

	// Insert new span after prev.
	if previousSpan != nil {
		newSpan.Next = previousSpan.Next
		previousSpan.Next = newSpan
	} else {
		// This span should go before the others in the list.
		newSpan.Next = hf.Spans[columnIndex]
		hf.Spans[columnIndex] = newSpan
	}
}

// SpanCount reports the number of live spans across all columns.
func (hf *Heightfield) SpanCount() int {
	count := 0
	for columnIndex := range hf.Spans {
		for span := hf.Spans[columnIndex]; span != nil; span = span.Next {
			count++
		}
	}
	return count
}

func (hf *Heightfield) freeSpan(span *Span) {
	if span == nil {
		return
	}
	// Add the span to the front of the free list.
	span.Next = hf.freelist
	hf.freelist = span
}

func (hf *Heightfield) allocSpan() *Span {
	// If necessary, allocate a new pool and chain its spans onto the freelist.
	if hf.freelist == nil {
		pool := &spanPool{}
		pool.next = hf.pools
		hf.pools = pool
		for i := spansPerPool - 1; i >= 0; i-- {
			pool.items[i].Next = hf.freelist
			hf.freelist = &pool.items[i]
		}
	}

	// Pop item from the front of the free list.
	newSpan := hf.freelist
	hf.freelist = hf.freelist.Next
	return newSpan
}
