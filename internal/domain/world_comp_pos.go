package domain

import "fmt"

// Position - клетка подземелья (x - столбец, y - строка).
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Directions8 - смещения восьми соседей, по часовой стрелке с севера.
var Directions8 = [8]Position{
	{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// Distance возвращает расстояние в метрике игры: max + min/2.
func (p Position) Distance(other Position) int {
	dy := abs(p.Y - other.Y)
	dx := abs(p.X - other.X)
	if dy > dx {
		return dy + dx/2
	}
	return dx + dy/2
}

// IsAdjacent возвращает true, если цель в соседней клетке (включая диагональ)
func (p Position) IsAdjacent(other Position) bool {
	dx := abs(p.X - other.X)
	dy := abs(p.Y - other.Y)
	return dx <= 1 && dy <= 1 && (dx != 0 || dy != 0)
}

// Shift возвращает новую позицию со смещением.
func (p Position) Shift(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Add складывает позиции как векторы.
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// Region возвращает координаты блока грубой карты (строка, столбец).
func (p Position) Region() (int, int) {
	return p.Y / RegionSize, p.X / RegionSize
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Sign возвращает -1, 0 или 1.
func Sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
