package fear

import (
	"borg-perception/internal/catalog"
	"borg-perception/internal/domain"
	"borg-perception/internal/systems"
	"borg-perception/internal/tracking"
)

// DangerModel оценивает опасность одного монстра для игрока.
type DangerModel interface {
	Danger(k *tracking.Kill, r *catalog.Race) int
}

// RacePower - модель по умолчанию: каталожная сила расы с поправкой на
// ранения и сон.
type RacePower struct{}

func (RacePower) Danger(k *tracking.Kill, r *catalog.Race) int {
	d := r.Power * 10 * (100 - k.Injury) / 100
	if !k.Awake {
		d /= 2
	}
	return d
}

// Полосы страха вокруг монстра: каждая полоса, в которую попала клетка,
// добавляет свою долю (по расстоянию Чебышёва).
var bands = []struct {
	dist int
	div  int
}{
	{6, 8},
	{5, 5},
	{3, 3},
	{2, 2},
	{1, 1},
}

const bandReach = 6

// fearRange - монстры дальше этого не учитываются.
const fearRange = 20

// Monsters - точная карта страха, целиком пересобираемая каждый тик по
// известным монстрам.
type Monsters struct {
	cells [domain.DungeonHeight][domain.DungeonWidth]int
}

// Rebuild пересобирает карту. В городе карта пустая. Неподвижные, далекие
// и (при хранилище на уровне) сидящие у вечных стен монстры пропускаются.
func (m *Monsters) Rebuild(g *domain.GridMap, tr *tracking.Tracker, model DangerModel, vaultOnLevel bool) {
	m.Reset()
	player := tr.Player()
	if player.InTown() {
		return
	}
	cat := tr.Catalog()
	tr.Kills.Each(func(_ int, k *tracking.Kill) {
		r := cat.Race(k.Race)
		if r == nil || r.Flags.Has(catalog.RaceNeverMove) {
			return
		}
		if k.Pos.Distance(player.Pos) >= fearRange {
			return
		}
		if vaultOnLevel && g.HasPermWall(k.Pos, 1) {
			return
		}
		m.spread(g, k.Pos, model.Danger(k, r)/10)
	})
}

func (m *Monsters) spread(g *domain.GridMap, from domain.Position, k int) {
	if k <= 0 {
		return
	}
	for dy := -bandReach; dy <= bandReach; dy++ {
		for dx := -bandReach; dx <= bandReach; dx++ {
			x, y := from.X+dx, from.Y+dy
			if x <= 0 || y <= 0 || x >= domain.DungeonWidth-1 || y >= domain.DungeonHeight-1 {
				continue
			}
			if !systems.LineOfSight(g, from, domain.Position{X: x, Y: y}) {
				continue
			}
			d := max(abs(dx), abs(dy))
			for _, b := range bands {
				if d <= b.dist {
					m.cells[y][x] += k / b.div
				}
			}
		}
	}
}

// At возвращает страх клетки.
func (m *Monsters) At(x, y int) int {
	if !domain.InBounds(x, y) {
		return 0
	}
	return m.cells[y][x]
}

// Reset обнуляет карту.
func (m *Monsters) Reset() {
	m.cells = [domain.DungeonHeight][domain.DungeonWidth]int{}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
