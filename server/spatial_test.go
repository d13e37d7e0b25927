package main

import (
	"slices"
	"testing"
)

func TestSpatialGridInsertAndQuery(t *testing.T) {
	g := NewSpatialGrid(Arena{Width: 1000, Height: 1000})
	g.Insert(100, 100, 0)
	g.Insert(150, 100, 1)
	g.Insert(900, 900, 2)

	res := g.QueryBuf(100, 100, 50, nil)

	if !slices.Contains(res, 0) || !slices.Contains(res, 1) {
		t.Errorf("expected entities 0 and 1 in results, got %v", res)
	}
	if slices.Contains(res, 2) {
		t.Error("entity 2 should not be in results")
	}
}

func TestSpatialGridNoDuplicates(t *testing.T) {
	g := NewSpatialGrid(Arena{Width: 1000, Height: 1000})
	g.Insert(500, 500, 7)

	res := g.QueryBuf(500, 500, 400, nil)
	count := 0
	for _, i := range res {
		if i == 7 {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected 7 once, got %d times", count)
	}
}

func TestSpatialGridClear(t *testing.T) {
	g := NewSpatialGrid(Arena{Width: 1000, Height: 1000})
	g.Insert(100, 100, 0)
	g.Clear()

	if res := g.QueryBuf(100, 100, 50, nil); len(res) != 0 {
		t.Errorf("expected empty after clear, got %v", res)
	}
}

func TestSpatialGridBoundaryClamp(t *testing.T) {
	g := NewSpatialGrid(Arena{Width: 1000, Height: 1000})
	g.Insert(-50, -50, 0)
	g.Insert(1050, 1050, 1)

	if res := g.QueryBuf(0, 0, 10, nil); !slices.Contains(res, 0) {
		t.Error("out-of-bounds entity should be filed in the corner cell")
	}
	if res := g.QueryBuf(1000, 1000, 10, nil); !slices.Contains(res, 1) {
		t.Error("out-of-bounds entity should be filed in the far corner cell")
	}
}

func TestSpatialGridQueryCoversThreshold(t *testing.T) {
	g := NewSpatialGrid(Arena{Width: 1000, Height: 1000})
	// just inside the asteroid separation threshold, across a cell border
	g.Insert(370, 250, 0)
	res := g.QueryBuf(249, 250, SeparateThresholdAsteroid, nil)
	if !slices.Contains(res, 0) {
		t.Errorf("neighbour within threshold missed: %v", res)
	}
}

func TestSpatialGridReusesBuffer(t *testing.T) {
	g := NewSpatialGrid(Arena{Width: 1000, Height: 1000})
	g.Insert(100, 100, 3)
	buf := make([]int, 0, 8)
	res := g.QueryBuf(100, 100, 10, buf)
	if len(res) != 1 || &res[:1][0] != &buf[:1][0] {
		t.Error("expected results appended into the given buffer")
	}
}
