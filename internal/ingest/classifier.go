package ingest

import (
	"borg-perception/internal/catalog"
	"borg-perception/internal/core/types"
	"borg-perception/internal/core/types/enums"
)

// Class - чем оказался символ экрана.
type Class uint8

const (
	ClassUnknown Class = iota
	ClassTerrain
	ClassObject
	ClassMonster
	ClassPlayer
)

var classNames = [...]string{"unknown", "terrain", "object", "monster", "player"}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

// Classification - результат разбора одной клетки.
type Classification struct {
	Class    Class
	Feat     enums.Feat
	Lighting Lighting
	Trap     bool
	Warding  bool
	Store    int

	// Для клеток с существом или предметом.
	IsKill bool
	IsTake bool
}

type terrainRule struct {
	feat     enums.Feat
	lighting Lighting
	trap     bool
	warding  bool
}

// terrainByChar - стандартные символы рельефа. Цвет уточняет правило
// только там, где один символ означает разное.
var terrainByChar = map[byte]terrainRule{
	' ':  {feat: enums.FeatNone},
	'.':  {feat: enums.FeatFloor},
	'\'': {feat: enums.FeatOpen},
	'+':  {feat: enums.FeatClosed},
	'<':  {feat: enums.FeatLess},
	'>':  {feat: enums.FeatMore},
	':':  {feat: enums.FeatRubble},
	'%':  {feat: enums.FeatMagma},
	'*':  {feat: enums.FeatMagmaK},
	'#':  {feat: enums.FeatGranite},
	'^':  {feat: enums.FeatFloor, trap: true},
	';':  {feat: enums.FeatFloor, trap: true, warding: true},
}

// Classifier - чистая функция разбора символа по статическим таблицам.
type Classifier struct {
	cat *catalog.Catalog
}

// NewClassifier создает классификатор над каталогом рас и предметов.
func NewClassifier(cat *catalog.Catalog) *Classifier {
	return &Classifier{cat: cat}
}

// Classify разбирает клетку. Точные сведения хоста, если они есть,
// побеждают разбор по символу.
func (c *Classifier) Classify(g types.Glyph, truth *Truth) Classification {
	if truth != nil {
		return c.fromTruth(truth)
	}

	ch, attr := g.Char(), g.Attr()
	if ch == 0 {
		return Classification{Class: ClassTerrain, Feat: enums.FeatNone}
	}
	if ch == '@' {
		return Classification{Class: ClassPlayer, Feat: enums.FeatFloor}
	}
	if ch >= '1' && ch <= '8' {
		return Classification{Class: ClassTerrain, Feat: enums.FeatShop, Store: int(ch - '0')}
	}

	if rule, ok := terrainByChar[ch]; ok {
		out := Classification{
			Class:   ClassTerrain,
			Feat:    rule.feat,
			Trap:    rule.trap,
			Warding: rule.warding,
		}
		switch ch {
		case '.':
			out.Lighting = floorLighting(attr)
		case '%':
			if attr == types.AttrLightSlate {
				out.Feat = enums.FeatQuartz
			}
		case '*':
			if attr == types.AttrLightSlate || attr == types.AttrWhite {
				out.Feat = enums.FeatQuartzK
			}
		case '#':
			if attr == types.AttrRed || attr == types.AttrLightRed {
				out.Feat = enums.FeatLava
			}
		case ':':
			if attr == types.AttrLightUmber {
				out.Feat = enums.FeatPassRubble
			}
		case '\'':
			if attr == types.AttrUmber {
				out.Feat = enums.FeatOpen
			} else {
				out.Feat = enums.FeatBroken
			}
		}
		return out
	}

	// Символ существа важнее символа предмета.
	switch {
	case c.cat.IsMonsterChar(ch):
		return Classification{Class: ClassMonster, IsKill: true}
	case c.cat.IsObjectChar(ch):
		return Classification{Class: ClassObject, IsTake: true}
	}
	return Classification{Class: ClassUnknown}
}

func (c *Classifier) fromTruth(t *Truth) Classification {
	out := Classification{
		Class:    ClassTerrain,
		Feat:     t.Feat,
		Lighting: t.Lighting,
		Trap:     t.Trap || t.Warding,
		Warding:  t.Warding,
		Store:    t.Store,
		IsKill:   t.Monster != nil,
		IsTake:   t.Object != nil,
	}
	switch {
	case t.Player:
		out.Class = ClassPlayer
	case out.IsKill:
		out.Class = ClassMonster
	case out.IsTake:
		out.Class = ClassObject
	}
	return out
}

func floorLighting(a types.Attr) Lighting {
	switch a {
	case types.AttrWhite, types.AttrLightUmber:
		return LightLit
	case types.AttrYellow:
		return LightTorch
	default:
		return LightDark
	}
}
