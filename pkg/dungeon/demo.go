package dungeon

import (
	"math/rand"

	"borg-perception/internal/catalog"
	"borg-perception/internal/domain"
	"borg-perception/internal/ingest"
)

// Turn - что синтетический хост показал за один ход игрока.
type Turn struct {
	NewLevel bool // перед кадром игрок сменил уровень
	Depth    int
	Goal     domain.Position
	Frame    *ingest.Frame
	Messages []string // размеченные строки вида "HIT:the kobold"
}

// Demo - бесконечная прогулка по случайным уровням: игрок бродит,
// дерется с соседями и спускается по лестницам, которые находит.
type Demo struct {
	Level *Level
	Truth bool // кадры несут точные сведения хоста

	cat   *catalog.Catalog
	rng   *rand.Rand
	fresh bool
}

func NewDemo(cat *catalog.Catalog, depth int, seed int64, truth bool) *Demo {
	rng := rand.New(rand.NewSource(seed))
	return &Demo{
		Level: Generate(cat, depth, rng),
		Truth: truth,
		cat:   cat,
		rng:   rng,
		fresh: true,
	}
}

// Next делает один ход и рисует его результат.
func (d *Demo) Next() Turn {
	turn := Turn{NewLevel: d.fresh, Depth: d.Level.Depth}
	d.fresh = false

	l := d.Level
	if !turn.NewLevel {
		if target := d.adjacentMonster(); target != nil {
			turn.Goal = target.Pos
			turn.Messages = d.fight(target)
		} else {
			if c := l.Grid.At(l.Player.Pos); c != nil && c.Feat.IsStairs() && d.rng.Intn(3) == 0 {
				d.descend()
				return d.Next()
			}
			l.Wander(d.rng)
			turn.Goal = l.Player.Pos
		}
		l.Step(d.rng)
	}
	turn.Frame = l.RenderAround(d.Truth)
	return turn
}

func (d *Demo) adjacentMonster() *Monster {
	for _, dir := range domain.Directions8 {
		if m := d.Level.MonsterAt(d.Level.Player.Pos.Add(dir)); m != nil {
			return m
		}
	}
	return nil
}

// fight - обмен ударами с монстром. Возвращает сообщения хода.
func (d *Demo) fight(m *Monster) []string {
	name := d.subject(m.Race)
	var out []string
	if d.rng.Intn(4) == 0 {
		out = append(out, "MISS:"+name)
	} else {
		m.HP -= 1 + d.rng.Intn(8)
		if m.HP <= 0 {
			pos := m.Pos
			d.Level.RemoveMonster(pos)
			return append(out, "KILL:"+name)
		}
		out = append(out, "HIT:"+name)
	}
	m.Asleep = false
	if d.rng.Intn(2) == 0 {
		out = append(out, "HIT_BY:"+name)
	} else {
		out = append(out, "MISS_BY:"+name)
	}
	return out
}

// subject - имя монстра так, как его пишет игра в сообщениях.
func (d *Demo) subject(race int) string {
	r := d.cat.Race(race)
	if r == nil {
		return "it"
	}
	if r.IsUnique() {
		return r.Name
	}
	return "the " + r.Name
}

func (d *Demo) descend() {
	d.Level = Generate(d.cat, d.Level.Depth+1, d.rng)
	d.fresh = true
}
