package voxelizer

import (
	"math"
	"testing"
)

func TestEncodeCrossingRoundTrip(t *testing.T) {
	values := []float32{-1024, -1023.999, -512.25, -1, -0.0001, 0, 0.0001, 1.5, 512.75, 1023, 1023.999}
	for _, v := range values {
		for _, up := range []bool{false, true} {
			enc, ok := EncodeCrossing(v, up)
			if !ok {
				t.Errorf("EncodeCrossing(%v) rejected an in-range value", v)
				continue
			}
			dec, decUp := DecodeCrossing(enc)
			if decUp != up {
				t.Errorf("EncodeCrossing(%v, %v) lost the facing bit", v, up)
			}
			// Quantization loses at most one 2^-20 step; float32 adds one
			// ulp on top for large magnitudes.
			if math.Abs(float64(dec)-float64(v)) > 1.0/(1<<20)+2.5e-4 {
				t.Errorf("round trip of %v gave %v", v, dec)
			}
		}
	}
}

func TestEncodeCrossingRange(t *testing.T) {
	for _, v := range []float32{-1025, -1024.0001, 1024, 1024.5, 99999} {
		if _, ok := EncodeCrossing(v, false); ok {
			t.Errorf("EncodeCrossing(%v) must reject out-of-range heights", v)
		}
	}
	if _, ok := EncodeCrossing(-1024, false); !ok {
		t.Errorf("-1024 is inside the half-open valid range")
	}
	if _, ok := EncodeCrossing(1024, false); ok {
		t.Errorf("1024 is outside the half-open valid range")
	}
}

func TestIntersectionSetSorting(t *testing.T) {
	s := NewIntersectionSet(4)
	s.Add(2, 7.5, true)
	s.Add(2, -3.25, false)
	s.Add(2, 100, false)
	s.Add(2, 0.5, true)
	s.Add(1, 42, true) // other column, must not leak

	buf := s.FetchSorted(2, nil)
	assertTrue(t, len(buf) == 4, "fetch returns the column's crossings")
	want := []float32{-3.25, 0.5, 7.5, 100}
	for i, enc := range buf {
		v, _ := DecodeCrossing(enc)
		if math.Abs(float64(v)-float64(want[i])) > 1e-3 {
			t.Errorf("entry %d: got height %v, want %v", i, v, want[i])
		}
	}

	buf = s.FetchSorted(1, buf[:0])
	assertTrue(t, len(buf) == 1, "columns are independent")
	buf = s.FetchSorted(0, buf[:0])
	assertTrue(t, len(buf) == 0, "empty column fetches nothing")
}

func TestIntersectionSetOutOfRangeDropped(t *testing.T) {
	s := NewIntersectionSet(1)
	s.Add(0, 5000, true)
	s.Add(0, -5000, false)
	assertTrue(t, len(s.FetchSorted(0, nil)) == 0, "unencodable heights are dropped, not stored")
}

func TestIntersectionSetClear(t *testing.T) {
	s := NewIntersectionSet(2)
	s.Add(0, 1, true)
	s.Add(1, 2, false)
	s.Clear()
	assertTrue(t, len(s.FetchSorted(0, nil)) == 0, "clear empties column 0")
	assertTrue(t, len(s.FetchSorted(1, nil)) == 0, "clear empties column 1")

	// The arena is reusable after a clear.
	s.Add(1, 3, true)
	buf := s.FetchSorted(1, nil)
	assertTrue(t, len(buf) == 1, "set usable after clear")
	v, up := DecodeCrossing(buf[0])
	assertTrue(t, up && math.Abs(float64(v)-3) < 1e-3, "entry written after clear survives")
}

func TestIntersectionSetPageGrowth(t *testing.T) {
	s := NewIntersectionSet(1)
	for i := 0; i < isectPageSize*2+5; i++ {
		s.Add(0, float32(i%1000), i%2 == 0)
	}
	buf := s.FetchSorted(0, nil)
	assertTrue(t, len(buf) == isectPageSize*2+5, "entries survive page growth")
	for i := 1; i < len(buf); i++ {
		assertTrue(t, buf[i-1] <= buf[i], "fetched crossings are sorted ascending")
	}
}
