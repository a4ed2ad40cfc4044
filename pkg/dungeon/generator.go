package dungeon

import (
	"math/rand"

	"borg-perception/internal/catalog"
	"borg-perception/internal/core/types/enums"
	"borg-perception/internal/domain"
)

// Константы генерации
const (
	MaxRooms = 12
	MinSize  = 4
	MaxSize  = 12
)

// Rect - Вспомогательная структура для комнаты
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.W && r.X+r.W >= other.X &&
		r.Y <= other.Y+other.H && r.Y+r.H >= other.Y
}

// Contains - клетка внутри комнаты (без стен).
func (r Rect) Contains(p domain.Position) bool {
	return p.X > r.X && p.X < r.X+r.W && p.Y > r.Y && p.Y < r.Y+r.H
}

// Generate создает случайный уровень заданной глубины. Глубина 0 -
// город.
func Generate(cat *catalog.Catalog, depth int, rng *rand.Rand) *Level {
	if depth == 0 {
		return GenerateTown(cat, rng)
	}
	return NewLevel(cat, depth, rng).
		WithRooms(MaxRooms).
		WithVeins(6).
		WithStairs().
		WithMonsters(2 + depth/3 + rng.Intn(4)).
		WithObjects(3 + rng.Intn(4)).
		Build()
}

// --- Вспомогательные функции ---

// createRoom вырезает пол внутри room. Освещенная комната светится
// вместе со стенами.
func createRoom(g *domain.GridMap, room Rect, lit bool) {
	for y := room.Y; y <= room.Y+room.H; y++ {
		for x := room.X; x <= room.X+room.W; x++ {
			c := g.AtXY(x, y)
			if c == nil {
				continue
			}
			if room.Contains(domain.Position{X: x, Y: y}) {
				c.Feat = enums.FeatFloor
			}
			if lit {
				c.Flags |= domain.FlagGlow
			}
		}
	}
}

func dig(g *domain.GridMap, x, y int) {
	c := g.AtXY(x, y)
	if c == nil || c.Feat == enums.FeatPerm {
		return
	}
	if !c.Feat.IsFloor() {
		c.Feat = enums.FeatFloor
	}
}

func createHCorridor(g *domain.GridMap, x1, x2, y int) {
	start := min(x1, x2)
	end := max(x1, x2)
	for x := start; x <= end; x++ {
		dig(g, x, y)
	}
}

func createVCorridor(g *domain.GridMap, y1, y2, x int) {
	start := min(y1, y2)
	end := max(y1, y2)
	for y := start; y <= end; y++ {
		dig(g, x, y)
	}
}
