package dungeon

import (
	"borg-perception/internal/catalog"
	"borg-perception/internal/core/types"
	"borg-perception/internal/core/types/enums"
	"borg-perception/internal/domain"
	"borg-perception/internal/ingest"
	"borg-perception/internal/systems"
	"borg-perception/internal/tracking"
)

// Размер карты на экране игры по умолчанию (80x24 минус рамки).
const (
	PanelWidth  = 66
	PanelHeight = 22
)

type featLook struct {
	char byte
	attr types.Attr
}

var featGlyphs = map[enums.Feat]featLook{
	enums.FeatFloor:      {'.', types.AttrWhite},
	enums.FeatOpen:       {'\'', types.AttrUmber},
	enums.FeatBroken:     {'\'', types.AttrLightUmber},
	enums.FeatLess:       {'<', types.AttrWhite},
	enums.FeatMore:       {'>', types.AttrWhite},
	enums.FeatClosed:     {'+', types.AttrUmber},
	enums.FeatSecret:     {'#', types.AttrWhite},
	enums.FeatRubble:     {':', types.AttrUmber},
	enums.FeatPassRubble: {':', types.AttrLightUmber},
	enums.FeatMagma:      {'%', types.AttrSlate},
	enums.FeatQuartz:     {'%', types.AttrLightSlate},
	enums.FeatMagmaK:     {'*', types.AttrOrange},
	enums.FeatQuartzK:    {'*', types.AttrWhite},
	enums.FeatGranite:    {'#', types.AttrWhite},
	enums.FeatPerm:       {'#', types.AttrWhite},
	enums.FeatLava:       {'#', types.AttrRed},
}

// PanelFor выбирает панель так, как это делает игра: сдвиг на полпанели,
// когда игрок подходит к краю.
func PanelFor(p domain.Position, w, h int) domain.Position {
	return domain.Position{
		X: clampPanel(p.X-w/4, w, domain.DungeonWidth),
		Y: clampPanel(p.Y-h/4, h, domain.DungeonHeight),
	}
}

func clampPanel(v, size, limit int) int {
	half := size / 2
	if half == 0 {
		return 0
	}
	v = (v / half) * half
	if v+size > limit {
		v = limit - size
	}
	if v < 0 {
		v = 0
	}
	return v
}

// Visible - игрок видит клетку сейчас: она в пределах взгляда, на прямой
// линии и освещена комнатой или светом игрока.
func (l *Level) Visible(p domain.Position) bool {
	c := l.Grid.At(p)
	if c == nil || l.Player.Blind {
		return false
	}
	d := p.Distance(l.Player.Pos)
	if d > domain.MaxSight {
		return false
	}
	if !c.Flags.Has(domain.FlagGlow) && d > l.Player.LightRadius {
		return false
	}
	return systems.LineOfSight(l.Grid, l.Player.Pos, p)
}

// Render рисует панель. Видимые клетки запоминаются; запомненные рисуются
// рельефом и замеченными предметами. С truth видимые клетки несут точные
// сведения хоста.
func (l *Level) Render(panel domain.Position, w, h int, truth bool) *ingest.Frame {
	f := ingest.NewFrame(panel, w, h)
	f.Player = l.Player
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			p := domain.Position{X: panel.X + dx, Y: panel.Y + dy}
			c := l.Grid.At(p)
			if c == nil {
				continue
			}
			fc := f.At(dx, dy)
			if p == l.Player.Pos {
				fc.Glyph = types.MakeGlyph(types.AttrWhite, '@')
				if truth {
					fc.Truth = &ingest.Truth{Feat: c.Feat, Lighting: l.lighting(p, c), InView: true, Player: true}
				}
				c.Flags |= domain.FlagMarked
				continue
			}
			if l.Visible(p) {
				c.Flags |= domain.FlagMarked
				fc.Glyph = l.visibleGlyph(p, c)
				if truth {
					fc.Truth = l.truth(p, c)
				}
				continue
			}
			if c.Flags.Has(domain.FlagMarked) {
				fc.Glyph = l.rememberedGlyph(p, c)
			} else {
				fc.Glyph = types.EmptyGlyph
			}
		}
	}
	return f
}

// RenderAround рисует панель вокруг игрока.
func (l *Level) RenderAround(truth bool) *ingest.Frame {
	return l.Render(PanelFor(l.Player.Pos, PanelWidth, PanelHeight), PanelWidth, PanelHeight, truth)
}

func (l *Level) lighting(p domain.Position, c *domain.Cell) ingest.Lighting {
	switch {
	case c.Flags.Has(domain.FlagGlow):
		return ingest.LightLit
	case p.Distance(l.Player.Pos) <= l.Player.LightRadius:
		return ingest.LightTorch
	}
	return ingest.LightDark
}

func (l *Level) monsterVisible(m *Monster) bool {
	r := l.cat.Race(m.Race)
	if r == nil {
		return false
	}
	return !r.Flags.Has(catalog.RaceInvisible) || l.Player.SeeInvisible
}

func (l *Level) visibleGlyph(p domain.Position, c *domain.Cell) types.Glyph {
	if m := l.MonsterAt(p); m != nil && l.monsterVisible(m) {
		r := l.cat.Race(m.Race)
		return types.MakeGlyph(r.Attr, r.Char)
	}
	if o := l.ObjectAt(p); o != nil {
		o.Marked = true
		if k := l.cat.Kind(o.Kind); k != nil {
			return types.MakeGlyph(k.Attr, k.Char)
		}
	}
	g := terrainGlyph(c)
	if c.Feat == enums.FeatFloor && !c.Trap && !c.Warding {
		switch l.lighting(p, c) {
		case ingest.LightTorch:
			g = types.MakeGlyph(types.AttrYellow, '.')
		case ingest.LightDark:
			g = types.MakeGlyph(types.AttrSlate, '.')
		}
	}
	return g
}

func (l *Level) rememberedGlyph(p domain.Position, c *domain.Cell) types.Glyph {
	if o := l.ObjectAt(p); o != nil && o.Marked {
		if k := l.cat.Kind(o.Kind); k != nil {
			return types.MakeGlyph(k.Attr, k.Char)
		}
	}
	g := terrainGlyph(c)
	if c.Feat == enums.FeatFloor && !c.Trap && !c.Warding && !c.Flags.Has(domain.FlagGlow) {
		g = types.MakeGlyph(types.AttrSlate, '.')
	}
	return g
}

func terrainGlyph(c *domain.Cell) types.Glyph {
	switch {
	case c.Warding:
		return types.MakeGlyph(types.AttrYellow, ';')
	case c.Trap:
		return types.MakeGlyph(types.AttrRed, '^')
	case c.Feat == enums.FeatShop:
		return types.MakeGlyph(types.AttrWhite, '0'+c.Store)
	}
	if look, ok := featGlyphs[c.Feat]; ok {
		return types.MakeGlyph(look.attr, look.char)
	}
	return types.EmptyGlyph
}

func (l *Level) truth(p domain.Position, c *domain.Cell) *ingest.Truth {
	t := &ingest.Truth{
		Feat:     c.Feat,
		Lighting: l.lighting(p, c),
		InView:   true,
		Store:    int(c.Store),
		Trap:     c.Trap,
		Warding:  c.Warding,
	}
	if m := l.MonsterAt(p); m != nil && l.monsterVisible(m) {
		hp := 100
		if m.MaxHP > 0 {
			hp = m.HP * 100 / m.MaxHP
		}
		speed := 110
		if r := l.cat.Race(m.Race); r != nil {
			speed = r.Speed
		}
		sleep := 0
		if m.Asleep {
			sleep = 10
		}
		t.Monster = &tracking.MonsterTruth{Race: m.Race, HostIndex: m.HostIndex, HPPercent: hp, Speed: speed, Sleep: sleep}
	}
	if o := l.ObjectAt(p); o != nil {
		t.Object = &tracking.ObjectTruth{Kind: o.Kind}
	}
	return t
}
