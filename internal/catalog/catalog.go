// Package catalog хранит статические таблицы рас монстров и видов предметов,
// по которым движок угадывает, что нарисовано на экране.
package catalog

import (
	"borg-perception/internal/core/types"

	"golang.org/x/text/cases"
)

// GhostName - раса-заглушка, когда по имени из сообщения ничего не нашлось.
const GhostName = "player ghost"

// Race - раса монстра.
type Race struct {
	ID     int
	Name   string
	Plural string
	Char   byte
	Attr   types.Attr
	Level  int
	Speed  int // 110 - нормальная
	HP     int
	Power  int // грубая оценка опасности
	Flags  RaceFlags
	Spells []string
}

// IsUnique - раса уникальна.
func (r *Race) IsUnique() bool { return r.Flags.Has(RaceUnique) }

// VariableAttr - цвет на экране не совпадает с каталожным.
func (r *Race) VariableAttr() bool { return r.Flags.Any(RaceAttrMulti | RaceAttrClear) }

// Kind - вид предмета.
type Kind struct {
	ID       int
	Name     string
	Char     byte
	Attr     types.Attr
	TVal     int
	Cost     int
	Gold     bool
	Flavored bool // цвет зависит от "вкуса" и меняется от игры к игре
	Aware    bool // вид опознан
}

// Catalog - загруженные таблицы. Нулевые индексы не используются.
type Catalog struct {
	Races []Race
	Kinds []Kind

	ghost   int
	fold    cases.Caser
	uniques map[string]int
	names   map[string][]int
	byChar  map[byte][]int
	kindsBy map[byte][]int
}

func newCatalog() *Catalog {
	return &Catalog{
		Races:   []Race{{Name: "<none>"}},
		Kinds:   []Kind{{Name: "<none>"}},
		fold:    cases.Fold(),
		uniques: make(map[string]int),
		names:   make(map[string][]int),
		byChar:  make(map[byte][]int),
		kindsBy: make(map[byte][]int),
	}
}

func (c *Catalog) addRace(r Race) int {
	r.ID = len(c.Races)
	c.Races = append(c.Races, r)
	key := c.key(r.Name)
	if r.IsUnique() {
		c.uniques[key] = r.ID
	} else {
		c.names[key] = append(c.names[key], r.ID)
		if r.Plural != "" {
			pk := c.key(r.Plural)
			c.names[pk] = append(c.names[pk], r.ID)
		}
	}
	if r.Name == GhostName {
		c.ghost = r.ID
	}
	c.byChar[r.Char] = append(c.byChar[r.Char], r.ID)
	return r.ID
}

func (c *Catalog) addKind(k Kind) int {
	k.ID = len(c.Kinds)
	c.Kinds = append(c.Kinds, k)
	c.kindsBy[k.Char] = append(c.kindsBy[k.Char], k.ID)
	return k.ID
}

// key приводит имя к сравнимому виду: "The Kobold" и "the kobold" совпадают.
func (c *Catalog) key(name string) string {
	return c.fold.String(name)
}

// Race возвращает расу по номеру или nil.
func (c *Catalog) Race(id int) *Race {
	if id <= 0 || id >= len(c.Races) {
		return nil
	}
	return &c.Races[id]
}

// Kind возвращает вид предмета по номеру или nil.
func (c *Catalog) Kind(id int) *Kind {
	if id <= 0 || id >= len(c.Kinds) {
		return nil
	}
	return &c.Kinds[id]
}

// Ghost - раса "призрак игрока", последняя попытка опознания.
func (c *Catalog) Ghost() int { return c.ghost }

// Unique ищет уникального монстра по точному имени.
func (c *Catalog) Unique(name string) (int, bool) {
	id, ok := c.uniques[c.key(name)]
	return id, ok
}

// ByName возвращает обычные расы, у которых имя или множественное число
// совпадает с name.
func (c *Catalog) ByName(name string) []int {
	return c.names[c.key(name)]
}

// RacesByChar - расы, рисуемые символом ch.
func (c *Catalog) RacesByChar(ch byte) []int {
	return c.byChar[ch]
}

// KindsByChar - виды предметов, рисуемые символом ch.
func (c *Catalog) KindsByChar(ch byte) []int {
	return c.kindsBy[ch]
}

// IsMonsterChar - символ принадлежит хотя бы одной расе.
func (c *Catalog) IsMonsterChar(ch byte) bool {
	return len(c.byChar[ch]) > 0
}

// IsObjectChar - символ принадлежит хотя бы одному виду предметов.
func (c *Catalog) IsObjectChar(ch byte) bool {
	return len(c.kindsBy[ch]) > 0
}

// RaceID ищет расу по точному имени (без учета регистра).
func (c *Catalog) RaceID(name string) (int, bool) {
	key := c.key(name)
	for i := 1; i < len(c.Races); i++ {
		if c.key(c.Races[i].Name) == key {
			return i, true
		}
	}
	return 0, false
}

// KindID ищет вид предмета по точному имени (без учета регистра).
func (c *Catalog) KindID(name string) (int, bool) {
	key := c.key(name)
	for i := 1; i < len(c.Kinds); i++ {
		if c.key(c.Kinds[i].Name) == key {
			return i, true
		}
	}
	return 0, false
}
