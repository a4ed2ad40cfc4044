package systems

import (
	"borg-perception/internal/core/types/enums"
	"borg-perception/internal/domain"
)

// room заливает полом прямоугольник [x1..x2]x[y1..y2] и обносит его гранитом.
func room(g *domain.GridMap, x1, y1, x2, y2 int) {
	for y := y1 - 1; y <= y2+1; y++ {
		for x := x1 - 1; x <= x2+1; x++ {
			c := g.AtXY(x, y)
			if c == nil {
				continue
			}
			if x < x1 || x > x2 || y < y1 || y > y2 {
				c.Feat = enums.FeatGranite
			} else {
				c.Feat = enums.FeatFloor
			}
		}
	}
}

func setFeat(g *domain.GridMap, x, y int, f enums.Feat) {
	g.AtXY(x, y).Feat = f
}

func countFlag(g *domain.GridMap, mask domain.CellFlags) int {
	n := 0
	for y := 0; y < domain.DungeonHeight; y++ {
		for x := 0; x < domain.DungeonWidth; x++ {
			if g.HasFlags(x, y, mask) {
				n++
			}
		}
	}
	return n
}

func pos(x, y int) domain.Position {
	return domain.Position{X: x, Y: y}
}
