package systems

import (
	"borg-perception/internal/domain"
)

// fullyInBounds - клетка не лежит на внешней рамке подземелья.
func fullyInBounds(x, y int) bool {
	return x > 0 && y > 0 && x < domain.DungeonWidth-1 && y < domain.DungeonHeight-1
}

// LineOfSight проверяет прямую видимость между двумя клетками по знаниям
// движка. Неизвестные клетки прозрачными не считаются. Соседние
// (и совпадающие) клетки видны всегда.
//
// Растеризация целочисленная, с отдельной обработкой ходов "конем":
// если промежуточная клетка со стороны длинной оси проходима, линия есть.
func LineOfSight(g *domain.GridMap, a, b domain.Position) bool {
	x1, y1 := a.X, a.Y
	x2, y2 := b.X, b.Y

	dy := y2 - y1
	dx := x2 - x1
	ay, ax := abs(dy), abs(dx)

	if ax < 2 && ay < 2 {
		return true
	}
	// Рамка подземелья - вечная стена, IsFloor за картой дает false,
	// поэтому концы на краю проверяются так же, как внутренние.

	// Строго по вертикали
	if dx == 0 {
		step := domain.Sign(dy)
		for ty := y1 + step; ty != y2; ty += step {
			if !g.IsFloor(x1, ty) {
				return false
			}
		}
		return true
	}

	// Строго по горизонтали
	if dy == 0 {
		step := domain.Sign(dx)
		for tx := x1 + step; tx != x2; tx += step {
			if !g.IsFloor(tx, y1) {
				return false
			}
		}
		return true
	}

	sx, sy := domain.Sign(dx), domain.Sign(dy)

	// Ходы конем
	if ax == 1 && ay == 2 && g.IsFloor(x1, y1+sy) {
		return true
	}
	if ay == 1 && ax == 2 && g.IsFloor(x1+sx, y1) {
		return true
	}

	// f2 - масштаб половины клетки, f1 - целой
	f2 := ax * ay
	f1 := f2 << 1

	if ax >= ay {
		// Шагаем по горизонтали
		qy := ay * ay
		m := qy << 1
		tx := x1 + sx
		ty := y1
		if qy == f2 {
			ty += sy
			qy -= f1
		}
		for tx != x2 {
			if !g.IsFloor(tx, ty) {
				return false
			}
			qy += m
			switch {
			case qy < f2:
				tx += sx
			case qy > f2:
				ty += sy
				if !g.IsFloor(tx, ty) {
					return false
				}
				qy -= f1
				tx += sx
			default:
				// Линия проходит точно через угол клетки
				ty += sy
				qy -= f1
				tx += sx
			}
		}
		return true
	}

	// Шагаем по вертикали
	qx := ax * ax
	m := qx << 1
	ty := y1 + sy
	tx := x1
	if qx == f2 {
		tx += sx
		qx -= f1
	}
	for ty != y2 {
		if !g.IsFloor(tx, ty) {
			return false
		}
		qx += m
		switch {
		case qx < f2:
			ty += sy
		case qx > f2:
			tx += sx
			if !g.IsFloor(tx, ty) {
				return false
			}
			qx -= f1
			ty += sy
		default:
			tx += sx
			qx -= f1
			ty += sy
		}
	}
	return true
}

// ProjectPath строит путь снаряда от a к b длиной не более limit клеток
// (без начальной клетки). Путь продолжается за b, если limit позволяет,
// но обрывается на самой b.
func ProjectPath(a, b domain.Position, limit int) []domain.Position {
	dy, dx := b.Y-a.Y, b.X-a.X
	sy, sx := domain.Sign(dy), domain.Sign(dx)
	dy, dx = abs(dy), abs(dx)
	if dy == 0 && dx == 0 {
		return nil
	}

	half := dy * dx
	full := half << 1
	path := make([]domain.Position, 0, limit)

	switch {
	case dy > dx:
		m := dx * dx * 2
		y, x := a.Y+sy, a.X
		frac := m
		if frac > half {
			x += sx
			frac -= full
		}
		for len(path) < limit {
			path = append(path, domain.Position{X: x, Y: y})
			if x == b.X && y == b.Y {
				break
			}
			if m != 0 {
				frac += m
				if frac > half {
					x += sx
					frac -= full
				}
			}
			y += sy
		}
	case dx > dy:
		m := dy * dy * 2
		y, x := a.Y, a.X+sx
		frac := m
		if frac > half {
			y += sy
			frac -= full
		}
		for len(path) < limit {
			path = append(path, domain.Position{X: x, Y: y})
			if x == b.X && y == b.Y {
				break
			}
			if m != 0 {
				frac += m
				if frac > half {
					y += sy
					frac -= full
				}
			}
			x += sx
		}
	default:
		y, x := a.Y+sy, a.X+sx
		for len(path) < limit {
			path = append(path, domain.Position{X: x, Y: y})
			if x == b.X && y == b.Y {
				break
			}
			y += sy
			x += sx
		}
	}
	return path
}

// Projectable проверяет, долетит ли снаряд от a до b (монстров на пути
// не учитываем). Неизвестные клетки дальше двух шагов считаются стенами,
// стены и закрытые двери останавливают снаряд.
func Projectable(g *domain.GridMap, a, b domain.Position) bool {
	if a == b {
		return true
	}
	for i, p := range ProjectPath(a, b, domain.MaxRange) {
		if !g.In(p) {
			return false
		}
		dist := i + 1
		c := g.At(p)
		if dist > 2 && !c.Feat.IsKnown() {
			return false
		}
		if !c.Feat.IsFloor() {
			return false
		}
		if p == b {
			return true
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
