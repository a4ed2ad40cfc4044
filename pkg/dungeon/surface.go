package dungeon

import (
	"math/rand"

	"borg-perception/internal/catalog"
	"borg-perception/internal/core/types/enums"
	"borg-perception/internal/domain"
)

// Размер города
const (
	TownWidth  = 66
	TownHeight = 22
)

// GenerateTown создает город: освещенная площадь, восемь лавок по краям
// и лестница вниз.
func GenerateTown(cat *catalog.Catalog, rng *rand.Rand) *Level {
	l := NewBlankLevel(cat, 0)
	area := Rect{X: 0, Y: 0, W: TownWidth - 1, H: TownHeight - 1}
	createRoom(l.Grid, area, true)

	// Лавки: два ряда по четыре здания, вход снизу или сверху
	for i := 0; i < 8; i++ {
		bx := 4 + (i%4)*15
		by := 3
		if i >= 4 {
			by = 13
		}
		for y := by; y < by+4; y++ {
			for x := bx; x < bx+8; x++ {
				c := l.Grid.AtXY(x, y)
				c.Feat = enums.FeatPerm
			}
		}
		door := domain.Position{X: bx + 3 + rng.Intn(2), Y: by + 3}
		if i >= 4 {
			door.Y = by
		}
		c := l.Grid.At(door)
		c.Feat = enums.FeatShop
		c.Store = uint8(i + 1)
		c.Flags |= domain.FlagGlow
	}

	down := domain.Position{X: 2 + rng.Intn(TownWidth-6), Y: 10}
	l.Grid.At(down).Feat = enums.FeatMore
	l.Player.Pos = domain.Position{X: down.X + 1, Y: down.Y}
	if down.X+1 >= TownWidth-1 {
		l.Player.Pos.X = down.X - 1
	}
	l.Player.Depth = 0
	return l
}
