// Package dungeon - синтетический хост: истинный уровень, который умеет
// рисовать себя в кадры экрана так же, как это делает игра. Используется
// демо-режимом и тестами движка восприятия.
package dungeon

import (
	"fmt"
	"math/rand"

	"borg-perception/internal/catalog"
	"borg-perception/internal/core/types/enums"
	"borg-perception/internal/domain"
)

// Monster - монстр на истинном уровне.
type Monster struct {
	Race      int
	Pos       domain.Position
	HostIndex int
	Asleep    bool
	HP        int
	MaxHP     int
}

// Object - предмет на полу.
type Object struct {
	Kind   int
	Pos    domain.Position
	Marked bool // игрок уже видел предмет
}

// Level - истинное состояние уровня. Grid хранит настоящий рельеф:
// FlagGlow у освещенных комнат, FlagMarked у клеток, которые игрок
// уже видел.
type Level struct {
	Depth    int
	Grid     *domain.GridMap
	Monsters []Monster
	Objects  []Object
	Player   domain.PlayerState

	cat    *catalog.Catalog
	nextID int
}

// NewBlankLevel создает уровень из гранита с вечной стеной по краю.
func NewBlankLevel(cat *catalog.Catalog, depth int) *Level {
	l := &Level{Depth: depth, Grid: domain.NewGridMap(), cat: cat}
	for y := 0; y < domain.DungeonHeight; y++ {
		for x := 0; x < domain.DungeonWidth; x++ {
			c := l.Grid.AtXY(x, y)
			c.Feat = enums.FeatGranite
			if x == 0 || y == 0 || x == domain.DungeonWidth-1 || y == domain.DungeonHeight-1 {
				c.Feat = enums.FeatPerm
			}
		}
	}
	l.Player = NewPlayer(depth)
	return l
}

// Catalog возвращает каталог, по которому заселен уровень.
func (l *Level) Catalog() *catalog.Catalog { return l.cat }

// ParseLayout строит уровень по текстовой схеме. Схема кладется в угол
// (1,1), остальное пространство остается гранитом. Буквы - монстры,
// прочие символы каталога - предметы, под ними пол. Все проходимые
// клетки схемы освещены.
func ParseLayout(cat *catalog.Catalog, depth int, rows []string) (*Level, error) {
	l := NewBlankLevel(cat, depth)
	start := false
	for dy, row := range rows {
		for dx := 0; dx < len(row); dx++ {
			p := domain.Position{X: dx + 1, Y: dy + 1}
			if !l.Grid.In(p) || p.X >= domain.DungeonWidth-1 || p.Y >= domain.DungeonHeight-1 {
				return nil, fmt.Errorf("layout cell %v outside the dungeon", p)
			}
			ch := row[dx]
			c := l.Grid.At(p)
			if feat, ok := layoutTerrain[ch]; ok {
				c.Feat = feat
				switch ch {
				case '^':
					c.Trap = true
				case ';':
					c.Warding = true
				}
				continue
			}
			c.Feat = enums.FeatFloor
			switch {
			case ch == '@':
				l.Player.Pos = p
				start = true
			case ch >= '1' && ch <= '8':
				c.Feat = enums.FeatShop
				c.Store = ch - '0'
			case cat.IsMonsterChar(ch):
				l.AddMonster(cat.RacesByChar(ch)[0], p)
			case cat.IsObjectChar(ch):
				l.AddObject(cat.KindsByChar(ch)[0], p)
			default:
				return nil, fmt.Errorf("unknown layout char %q at %v", ch, p)
			}
		}
	}
	if !start {
		return nil, fmt.Errorf("layout has no player start")
	}
	l.SetLit(true)
	return l, nil
}

var layoutTerrain = map[byte]enums.Feat{
	'#':  enums.FeatGranite,
	'%':  enums.FeatMagma,
	'*':  enums.FeatMagmaK,
	'.':  enums.FeatFloor,
	'+':  enums.FeatClosed,
	'\'': enums.FeatOpen,
	'<':  enums.FeatLess,
	'>':  enums.FeatMore,
	':':  enums.FeatRubble,
	'^':  enums.FeatFloor,
	';':  enums.FeatFloor,
	'=':  enums.FeatLava,
}

// SetLit зажигает или гасит все проходимые клетки уровня и стены рядом
// с ними.
func (l *Level) SetLit(lit bool) {
	for y := 0; y < domain.DungeonHeight; y++ {
		for x := 0; x < domain.DungeonWidth; x++ {
			p := domain.Position{X: x, Y: y}
			if !l.Passable(p) {
				continue
			}
			l.setGlow(p, lit)
			for _, d := range domain.Directions8 {
				if n := p.Add(d); !l.Passable(n) {
					l.setGlow(n, lit)
				}
			}
		}
	}
}

func (l *Level) setGlow(p domain.Position, lit bool) {
	c := l.Grid.At(p)
	if c == nil {
		return
	}
	if lit {
		c.Flags |= domain.FlagGlow
	} else {
		c.Flags &^= domain.FlagGlow
	}
}

// AddMonster ставит монстра и выдает ему номер хоста.
func (l *Level) AddMonster(race int, p domain.Position) *Monster {
	l.nextID++
	hp := 10
	if r := l.cat.Race(race); r != nil && r.HP > 0 {
		hp = r.HP
	}
	l.Monsters = append(l.Monsters, Monster{Race: race, Pos: p, HostIndex: l.nextID, HP: hp, MaxHP: hp})
	return &l.Monsters[len(l.Monsters)-1]
}

// AddObject кладет предмет на пол.
func (l *Level) AddObject(kind int, p domain.Position) {
	l.Objects = append(l.Objects, Object{Kind: kind, Pos: p})
}

// MonsterAt возвращает монстра в клетке или nil.
func (l *Level) MonsterAt(p domain.Position) *Monster {
	for i := range l.Monsters {
		if l.Monsters[i].Pos == p {
			return &l.Monsters[i]
		}
	}
	return nil
}

// ObjectAt возвращает верхний предмет в клетке или nil.
func (l *Level) ObjectAt(p domain.Position) *Object {
	for i := len(l.Objects) - 1; i >= 0; i-- {
		if l.Objects[i].Pos == p {
			return &l.Objects[i]
		}
	}
	return nil
}

// RemoveMonster убирает монстра (убит или ушел с уровня).
func (l *Level) RemoveMonster(p domain.Position) bool {
	for i := range l.Monsters {
		if l.Monsters[i].Pos == p {
			l.Monsters = append(l.Monsters[:i], l.Monsters[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveObject поднимает верхний предмет.
func (l *Level) RemoveObject(p domain.Position) bool {
	for i := len(l.Objects) - 1; i >= 0; i-- {
		if l.Objects[i].Pos == p {
			l.Objects = append(l.Objects[:i], l.Objects[i+1:]...)
			return true
		}
	}
	return false
}

// Passable - по клетке можно пройти.
func (l *Level) Passable(p domain.Position) bool {
	c := l.Grid.At(p)
	return c != nil && (c.Feat.IsFloor() || c.Feat == enums.FeatPassRubble)
}

func (l *Level) occupied(p domain.Position) bool {
	return p == l.Player.Pos || l.MonsterAt(p) != nil
}

// MovePlayer переставляет игрока, если клетка проходима и свободна.
func (l *Level) MovePlayer(p domain.Position) bool {
	if !l.Passable(p) || l.MonsterAt(p) != nil {
		return false
	}
	l.Player.Pos = p
	return true
}

// Wander делает шаг игрока в случайную доступную соседнюю клетку.
// Возвращает false, если идти некуда.
func (l *Level) Wander(rng *rand.Rand) bool {
	dirs := domain.Directions8
	for _, i := range rng.Perm(len(dirs)) {
		if l.MovePlayer(l.Player.Pos.Add(dirs[i])) {
			return true
		}
	}
	return false
}

// Step - ход монстров: спящие рядом с игроком просыпаются, бодрствующие
// делают случайный шаг.
func (l *Level) Step(rng *rand.Rand) {
	for i := range l.Monsters {
		m := &l.Monsters[i]
		r := l.cat.Race(m.Race)
		if m.Asleep {
			if m.Pos.Distance(l.Player.Pos) <= 3 && rng.Intn(2) == 0 {
				m.Asleep = false
			}
			continue
		}
		if r != nil && r.Flags.Has(catalog.RaceNeverMove) {
			continue
		}
		d := domain.Directions8[rng.Intn(len(domain.Directions8))]
		next := m.Pos.Add(d)
		if l.Passable(next) && !l.occupied(next) {
			m.Pos = next
		}
	}
}
