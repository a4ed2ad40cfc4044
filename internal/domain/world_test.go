package domain

import (
	"testing"

	"borg-perception/internal/core/types/enums"
)

func TestGridMap_Bounds(t *testing.T) {
	g := NewGridMap()

	tests := []struct {
		name string
		pos  Position
		in   bool
	}{
		{"origin", Position{0, 0}, true},
		{"far corner", Position{DungeonWidth - 1, DungeonHeight - 1}, true},
		{"negative x", Position{-1, 5}, false},
		{"past width", Position{DungeonWidth, 5}, false},
		{"past height", Position{5, DungeonHeight}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.In(tt.pos); got != tt.in {
				t.Errorf("In(%v) = %v, want %v", tt.pos, got, tt.in)
			}
			if got := g.At(tt.pos) != nil; got != tt.in {
				t.Errorf("At(%v) != nil is %v, want %v", tt.pos, got, tt.in)
			}
			if g.IsFloor(tt.pos.X, tt.pos.Y) {
				t.Errorf("unknown cell %v reported as floor", tt.pos)
			}
		})
	}
}

func TestGridMap_ResetForgets(t *testing.T) {
	g := NewGridMap()
	c := g.At(Position{3, 4})
	c.Feat = enums.FeatFloor
	c.Flags |= FlagGlow | FlagMarked
	c.Kill = 7

	g.Reset()

	got := g.Cell(3, 4)
	if got.Feat != enums.FeatNone || got.Flags != 0 || got.Kill != 0 {
		t.Errorf("cell not reset: %+v", got)
	}
	if got.PathCost != PathCostUnknown {
		t.Errorf("PathCost = %d, want %d", got.PathCost, PathCostUnknown)
	}
}

func TestPosition_Distance(t *testing.T) {
	tests := []struct {
		a, b Position
		want int
	}{
		{Position{0, 0}, Position{0, 0}, 0},
		{Position{0, 0}, Position{4, 0}, 4},
		{Position{0, 0}, Position{4, 2}, 5},
		{Position{10, 10}, Position{7, 16}, 7},
	}
	for _, tt := range tests {
		if got := tt.a.Distance(tt.b); got != tt.want {
			t.Errorf("Distance(%v,%v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		if got := tt.b.Distance(tt.a); got != tt.want {
			t.Errorf("Distance is not symmetric for %v,%v", tt.a, tt.b)
		}
	}
}

func TestLandmarks_AddRemove(t *testing.T) {
	var l Landmarks
	p := Position{X: 12, Y: 3}

	if !l.Add(LandmarkDownStairs, p) {
		t.Fatal("first Add should report insertion")
	}
	if l.Add(LandmarkDownStairs, p) {
		t.Error("duplicate Add should be ignored")
	}
	if !l.Has(LandmarkDownStairs, p) || l.Has(LandmarkUpStairs, p) {
		t.Error("Has mismatch")
	}
	if !l.Remove(LandmarkDownStairs, p) || len(l.List(LandmarkDownStairs)) != 0 {
		t.Error("Remove failed")
	}
}

func TestDetectMap_MarkAroundClamps(t *testing.T) {
	var d DetectMap
	d.MarkAround(DetectTraps, RegionRows-1, RegionCols-1)

	if !d.Detected(DetectTraps, RegionRows-1, RegionCols-1) {
		t.Error("corner block not marked")
	}
	if d.Detected(DetectTraps, RegionRows, RegionCols) {
		t.Error("out of range block reported")
	}

	d.MarkAround(DetectWalls, 1, 2)
	for _, rc := range [][2]int{{1, 2}, {1, 3}, {2, 2}, {2, 3}} {
		if !d.Detected(DetectWalls, rc[0], rc[1]) {
			t.Errorf("block %v not marked", rc)
		}
	}
	if d.Detected(DetectWalls, 0, 2) || d.Detected(DetectDoors, 1, 2) {
		t.Error("unexpected mark")
	}
}
