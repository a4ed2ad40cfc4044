package systems

import (
	"testing"

	"borg-perception/internal/core/types/enums"
	"borg-perception/internal/domain"
)

func TestLineOfSight(t *testing.T) {
	// Комната 10..20 x 10..20, колонна в центре и стена в (16,13).
	g := domain.NewGridMap()
	room(g, 10, 10, 20, 20)
	setFeat(g, 15, 15, enums.FeatGranite)
	setFeat(g, 16, 13, enums.FeatGranite)

	tests := []struct {
		name string
		a, b domain.Position
		want bool
	}{
		{"same cell", pos(12, 12), pos(12, 12), true},
		{"clear horizontal", pos(10, 12), pos(20, 12), true},
		{"blocked horizontal", pos(12, 15), pos(18, 15), false},
		{"blocked vertical", pos(15, 12), pos(15, 18), false},
		{"blocked diagonal", pos(12, 12), pos(18, 18), false},
		{"adjacent wall", pos(14, 15), pos(15, 15), true},
		{"unknown is opaque", pos(12, 12), pos(12, 7), false},
		{"knight move", pos(12, 12), pos(13, 14), true},
		{"knight move around wall", pos(16, 12), pos(17, 14), false},
		{"shallow slope", pos(10, 10), pos(20, 13), true},
		{"origin on the edge", pos(0, 5), pos(3, 5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LineOfSight(g, tt.a, tt.b); got != tt.want {
				t.Errorf("LineOfSight(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestLineOfSight_SymmetricOnOpenFloor(t *testing.T) {
	g := domain.NewGridMap()
	room(g, 5, 5, 40, 30)

	for ay := 6; ay < 30; ay += 3 {
		for ax := 6; ax < 40; ax += 4 {
			for by := 5; by <= 30; by += 5 {
				for bx := 5; bx <= 40; bx += 7 {
					a, b := pos(ax, ay), pos(bx, by)
					ab := LineOfSight(g, a, b)
					ba := LineOfSight(g, b, a)
					if ab != ba {
						t.Fatalf("asymmetric: los(%v,%v)=%v los(%v,%v)=%v", a, b, ab, b, a, ba)
					}
					if !ab {
						t.Fatalf("open floor should always be visible: %v -> %v", a, b)
					}
				}
			}
		}
	}
}

func TestLineOfSight_SymmetricAtDungeonEdge(t *testing.T) {
	// Комната прижата к рамке: стены в x=0 и y=0.
	g := domain.NewGridMap()
	room(g, 1, 1, 20, 10)

	var edge []domain.Position
	for y := 0; y <= 11; y++ {
		edge = append(edge, pos(0, y))
	}
	for x := 1; x <= 21; x++ {
		edge = append(edge, pos(x, 0))
	}

	for _, a := range edge {
		for by := 1; by <= 10; by += 3 {
			for bx := 1; bx <= 20; bx += 4 {
				b := pos(bx, by)
				ab := LineOfSight(g, a, b)
				ba := LineOfSight(g, b, a)
				if ab != ba {
					t.Fatalf("asymmetric: los(%v,%v)=%v los(%v,%v)=%v", a, b, ab, b, a, ba)
				}
			}
		}
	}

	if !LineOfSight(g, pos(0, 5), pos(5, 5)) {
		t.Errorf("edge wall should be seen along an open row")
	}
}

func TestProjectable(t *testing.T) {
	g := domain.NewGridMap()
	room(g, 10, 10, 30, 20)
	setFeat(g, 20, 15, enums.FeatClosed)

	tests := []struct {
		name string
		a, b domain.Position
		want bool
	}{
		{"same cell", pos(12, 12), pos(12, 12), true},
		{"open room", pos(11, 11), pos(25, 12), true},
		{"door blocks", pos(15, 15), pos(25, 15), false},
		{"into the wall", pos(15, 15), pos(15, 21), false},
		{"at max range", pos(10, 10), pos(30, 10), true},
		{"beyond range", pos(10, 11), pos(31, 11), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Projectable(g, tt.a, tt.b); got != tt.want {
				t.Errorf("Projectable(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestProjectPath_EndsAtTarget(t *testing.T) {
	a, b := pos(10, 10), pos(17, 13)
	path := ProjectPath(a, b, domain.MaxRange)
	if len(path) == 0 || path[len(path)-1] != b {
		t.Fatalf("path does not end at target: %v", path)
	}
	prev := a
	for _, p := range path {
		if !prev.IsAdjacent(p) {
			t.Fatalf("path has a gap between %v and %v", prev, p)
		}
		prev = p
	}
}
