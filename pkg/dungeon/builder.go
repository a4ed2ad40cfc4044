package dungeon

import (
	"math/rand"

	"borg-perception/internal/catalog"
	"borg-perception/internal/core/types/enums"
	"borg-perception/internal/domain"
)

// LevelBuilder предоставляет fluent API для создания уровней
type LevelBuilder struct {
	level *Level
	rooms []Rect
	rng   *rand.Rand
}

// NewLevel создает builder для уровня заданной глубины
func NewLevel(cat *catalog.Catalog, depth int, rng *rand.Rand) *LevelBuilder {
	return &LevelBuilder{
		level: NewBlankLevel(cat, depth),
		rng:   rng,
	}
}

func (b *LevelBuilder) randRange(min, max int) int {
	return b.rng.Intn(max-min+1) + min
}

// WithRooms генерирует комнаты и коридоры. Глубже комнаты реже освещены.
func (b *LevelBuilder) WithRooms(maxRooms int) *LevelBuilder {
	g := b.level.Grid
	b.rooms = make([]Rect, 0, maxRooms)
	for i := 0; i < maxRooms*3 && len(b.rooms) < maxRooms; i++ {
		w := b.randRange(MinSize, MaxSize*2)
		h := b.randRange(MinSize, MaxSize)
		x := b.randRange(1, domain.DungeonWidth-w-2)
		y := b.randRange(1, domain.DungeonHeight-h-2)

		newRoom := Rect{X: x, Y: y, W: w, H: h}

		// Проверяем пересечения
		failed := false
		for _, other := range b.rooms {
			if newRoom.Intersects(other) {
				failed = true
				break
			}
		}
		if failed {
			continue
		}

		lit := b.rng.Intn(b.level.Depth+1) <= b.randRange(1, 25)
		createRoom(g, newRoom, lit)

		// Соединяем с предыдущей комнатой
		if len(b.rooms) > 0 {
			prevX, prevY := b.rooms[len(b.rooms)-1].Center()
			currX, currY := newRoom.Center()

			if b.rng.Intn(2) == 0 {
				createHCorridor(g, prevX, currX, prevY)
				createVCorridor(g, prevY, currY, currX)
			} else {
				createVCorridor(g, prevY, currY, prevX)
				createHCorridor(g, prevX, currX, currY)
			}
		}
		b.rooms = append(b.rooms, newRoom)
	}
	b.level.Player.Pos = b.StartPos()
	return b
}

// WithVeins прокладывает жилы магмы и кварца в граните. Часть жил
// содержит сокровища.
func (b *LevelBuilder) WithVeins(count int) *LevelBuilder {
	g := b.level.Grid
	for i := 0; i < count; i++ {
		feat := enums.FeatMagma
		if b.rng.Intn(2) == 0 {
			feat = enums.FeatQuartz
		}
		p := domain.Position{X: b.randRange(1, domain.DungeonWidth-2), Y: b.randRange(1, domain.DungeonHeight-2)}
		for step := 0; step < 40; step++ {
			c := g.At(p)
			if c != nil && c.Feat == enums.FeatGranite {
				c.Feat = feat
				if b.rng.Intn(10) == 0 {
					c.Feat = treasureOf(feat)
				}
			}
			p = p.Add(domain.Directions8[b.rng.Intn(len(domain.Directions8))])
		}
	}
	return b
}

func treasureOf(f enums.Feat) enums.Feat {
	if f == enums.FeatQuartz {
		return enums.FeatQuartzK
	}
	return enums.FeatMagmaK
}

// WithStairs ставит лестницу вверх в первой комнате и вниз в последней.
func (b *LevelBuilder) WithStairs() *LevelBuilder {
	if len(b.rooms) == 0 {
		return b
	}
	first := b.rooms[0]
	up := domain.Position{X: first.X + 1, Y: first.Y + 1}
	b.level.Grid.At(up).Feat = enums.FeatLess

	lx, ly := b.rooms[len(b.rooms)-1].Center()
	down := domain.Position{X: lx, Y: ly}
	if len(b.rooms) == 1 {
		down = domain.Position{X: first.X + first.W - 1, Y: first.Y + first.H - 1}
	}
	b.level.Grid.At(down).Feat = enums.FeatMore
	return b
}

// WithMonsters расселяет монстров по комнатам, кроме первой.
func (b *LevelBuilder) WithMonsters(count int) *LevelBuilder {
	cat := b.level.cat
	for i := 0; i < count && len(b.rooms) > 1; i++ {
		race := PickRace(cat, b.level.Depth, b.rng)
		if race == 0 {
			break
		}
		room := b.rooms[b.rng.Intn(len(b.rooms)-1)+1]
		p, ok := b.freeCell(room)
		if !ok {
			continue
		}
		m := b.level.AddMonster(race, p)
		m.Asleep = b.rng.Intn(3) == 0
	}
	return b
}

// WithObjects раскладывает предметы по комнатам.
func (b *LevelBuilder) WithObjects(count int) *LevelBuilder {
	cat := b.level.cat
	for i := 0; i < count && len(b.rooms) > 0; i++ {
		kind := PickKind(cat, b.level.Depth, b.rng)
		if kind == 0 {
			break
		}
		room := b.rooms[b.rng.Intn(len(b.rooms))]
		if p, ok := b.freeCell(room); ok {
			b.level.AddObject(kind, p)
		}
	}
	return b
}

// freeCell ищет пустой пол в комнате (макс 20 попыток).
func (b *LevelBuilder) freeCell(room Rect) (domain.Position, bool) {
	for attempt := 0; attempt < 20; attempt++ {
		p := domain.Position{
			X: room.X + 1 + b.rng.Intn(room.W-1),
			Y: room.Y + 1 + b.rng.Intn(room.H-1),
		}
		c := b.level.Grid.At(p)
		if c == nil || c.Feat != enums.FeatFloor {
			continue
		}
		if b.level.occupied(p) || b.level.ObjectAt(p) != nil {
			continue
		}
		return p, true
	}
	return domain.Position{}, false
}

// Rooms возвращает комнаты уровня.
func (b *LevelBuilder) Rooms() []Rect {
	return b.rooms
}

// StartPos возвращает стартовую позицию (центр первой комнаты)
func (b *LevelBuilder) StartPos() domain.Position {
	if len(b.rooms) > 0 {
		cx, cy := b.rooms[0].Center()
		return domain.Position{X: cx, Y: cy}
	}
	return domain.Position{X: domain.DungeonWidth / 2, Y: domain.DungeonHeight / 2}
}

// Build возвращает готовый уровень
func (b *LevelBuilder) Build() *Level {
	return b.level
}
