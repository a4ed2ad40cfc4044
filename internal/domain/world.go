package domain

import "borg-perception/internal/core/types/enums"

// GridMap - фиксированный массив знаний о клетках текущего уровня.
// Координаты вне карты отсекаются: At возвращает nil, IsFloor - false.
type GridMap struct {
	cells [DungeonHeight][DungeonWidth]Cell
}

// NewGridMap создает карту, где весь рельеф неизвестен.
func NewGridMap() *GridMap {
	g := &GridMap{}
	g.Reset()
	return g
}

// Reset забывает уровень целиком.
func (g *GridMap) Reset() {
	for y := range g.cells {
		for x := range g.cells[y] {
			g.cells[y][x] = Cell{PathCost: PathCostUnknown}
		}
	}
}

// In проверяет, что позиция лежит внутри подземелья.
func (g *GridMap) In(p Position) bool {
	return InBounds(p.X, p.Y)
}

// InBounds - то же, что In, для сырых координат.
func InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < DungeonWidth && y < DungeonHeight
}

// At возвращает изменяемую клетку или nil за пределами карты.
func (g *GridMap) At(p Position) *Cell {
	if !InBounds(p.X, p.Y) {
		return nil
	}
	return &g.cells[p.Y][p.X]
}

// AtXY - At для сырых координат.
func (g *GridMap) AtXY(x, y int) *Cell {
	if !InBounds(x, y) {
		return nil
	}
	return &g.cells[y][x]
}

// Cell возвращает копию клетки (нулевую за пределами карты).
func (g *GridMap) Cell(x, y int) Cell {
	if !InBounds(x, y) {
		return Cell{}
	}
	return g.cells[y][x]
}

// IsFloor - клетка известна и пропускает взгляд. Неизвестная клетка
// прозрачной не считается.
func (g *GridMap) IsFloor(x, y int) bool {
	if !InBounds(x, y) {
		return false
	}
	return g.cells[y][x].Feat.IsFloor()
}

// HasFlags проверяет все флаги mask у клетки.
func (g *GridMap) HasFlags(x, y int, mask CellFlags) bool {
	if !InBounds(x, y) {
		return false
	}
	return g.cells[y][x].Flags.Has(mask)
}

// ClearFlags снимает флаги mask со всех клеток прямоугольника (включительно).
func (g *GridMap) ClearFlags(x1, y1, x2, y2 int, mask CellFlags) {
	x1, y1 = max(x1, 0), max(y1, 0)
	x2, y2 = min(x2, DungeonWidth-1), min(y2, DungeonHeight-1)
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			g.cells[y][x].Flags &^= mask
		}
	}
}

// HasPermWall сообщает, есть ли на уровне известная вечная стена
// внутри подземелья (признак хранилища).
func (g *GridMap) HasPermWall(p Position, radius int) bool {
	for y := p.Y - radius; y <= p.Y+radius; y++ {
		for x := p.X - radius; x <= p.X+radius; x++ {
			if x <= 0 || y <= 0 || x >= DungeonWidth-1 || y >= DungeonHeight-1 {
				continue
			}
			if g.cells[y][x].Feat == enums.FeatPerm {
				return true
			}
		}
	}
	return false
}
