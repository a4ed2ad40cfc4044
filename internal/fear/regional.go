// Package fear накапливает эвристику опасности для угроз, которые
// движок не смог точно привязать к монстру, и для скоплений монстров.
package fear

import "borg-perception/internal/domain"

// Regional - грубая карта страха по блокам 11x11. Растет от сообщений,
// которые не удалось привязать, и медленно затухает.
type Regional struct {
	cells [domain.RegionRows][domain.RegionCols]int
}

// Add добавляет k в блок клетки p, половину в соседние по стороне блоки
// и треть в диагональные.
func (r *Regional) Add(p domain.Position, k int) {
	if k <= 0 || !domain.InBounds(p.X, p.Y) {
		return
	}
	row, col := p.Region()
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			y, x := row+dy, col+dx
			if y < 0 || x < 0 || y >= domain.RegionRows || x >= domain.RegionCols {
				continue
			}
			switch {
			case dx == 0 && dy == 0:
				r.cells[y][x] += k
			case dx == 0 || dy == 0:
				r.cells[y][x] += k / 2
			default:
				r.cells[y][x] += k / 3
			}
		}
	}
}

// ClearAround обнуляет блок клетки p и восемь соседних.
func (r *Regional) ClearAround(p domain.Position) {
	if !domain.InBounds(p.X, p.Y) {
		return
	}
	row, col := p.Region()
	for y := max(row-1, 0); y <= min(row+1, domain.RegionRows-1); y++ {
		for x := max(col-1, 0); x <= min(col+1, domain.RegionCols-1); x++ {
			r.cells[y][x] = 0
		}
	}
}

// Decay уменьшает каждый блок на amount, не опускаясь ниже нуля.
func (r *Regional) Decay(amount int) {
	for y := range r.cells {
		for x := range r.cells[y] {
			r.cells[y][x] = max(r.cells[y][x]-amount, 0)
		}
	}
}

// At возвращает страх блока, в который попадает клетка (x, y).
func (r *Regional) At(x, y int) int {
	if !domain.InBounds(x, y) {
		return 0
	}
	row, col := domain.Position{X: x, Y: y}.Region()
	return r.cells[row][col]
}

// Block возвращает страх блока (row, col).
func (r *Regional) Block(row, col int) int {
	if row < 0 || col < 0 || row >= domain.RegionRows || col >= domain.RegionCols {
		return 0
	}
	return r.cells[row][col]
}

// Total - сумма по всем блокам.
func (r *Regional) Total() int {
	n := 0
	for y := range r.cells {
		for x := range r.cells[y] {
			n += r.cells[y][x]
		}
	}
	return n
}

// Reset обнуляет карту (смена уровня).
func (r *Regional) Reset() {
	*r = Regional{}
}
