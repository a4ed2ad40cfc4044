package engine

import (
	"borg-perception/internal/core/types/enums"
	"borg-perception/internal/domain"
	"borg-perception/internal/tracking"
	"borg-perception/pkg/api"
)

var landmarkKinds = []domain.LandmarkKind{
	domain.LandmarkUpStairs,
	domain.LandmarkDownStairs,
	domain.LandmarkDoor,
	domain.LandmarkVein,
	domain.LandmarkWarding,
	domain.LandmarkShop,
}

// Snapshot создает полный снимок модели для внешних потребителей.
// Снимок - глубокая копия, его можно отдавать в другие горутины.
func (e *PerceptionEngine) Snapshot() api.Snapshot {
	snap := api.Snapshot{
		Type:    "SNAPSHOT",
		Session: e.ID.String(),
		Tick:    e.tick,
		Player: api.PlayerView{
			X: e.player.Pos.X, Y: e.player.Pos.Y,
			Depth: e.player.Depth, Level: e.player.Level,
			HP: e.player.HP, MaxHP: e.player.MaxHP,
			Blind:         e.player.Blind,
			Hallucinating: e.player.Hallucinating,
		},
		Grid: &api.GridMeta{Width: domain.DungeonWidth, Height: domain.DungeonHeight},
		Feelings: api.FeelingsView{
			Danger:           e.reactor.FeelingDanger,
			Stuff:            e.reactor.FeelingStuff,
			VaultOnLevel:     e.ingestor.VaultOnLevel,
			ScaryGuyOnLevel:  e.ingestor.ScaryGuyOnLevel,
			NeedSeeInvisible: e.tracker.NeedSeeInvisible,
		},
		Logs: e.journal.Entries(),
	}

	// 1. Карта: только распознанные клетки
	for y := 0; y < domain.DungeonHeight; y++ {
		for x := 0; x < domain.DungeonWidth; x++ {
			c := e.grid.AtXY(x, y)
			if c.Feat == enums.FeatNone {
				continue
			}
			snap.Map = append(snap.Map, tileView(x, y, c))
		}
	}

	// 2. Сущности
	e.tracker.Kills.Each(func(i int, k *tracking.Kill) {
		v := api.EntityView{
			Handle: e.tracker.Kills.Handle(i).String(),
			Type:   "MONSTER",
			Seen:   k.Seen,
			When:   k.When,
			Monster: &api.MonsterView{
				Speed: k.Speed, Injury: k.Injury,
				Awake: k.Awake, Afraid: k.Afraid, Confused: k.Confused,
				Known: k.Known,
			},
		}
		v.Pos.X, v.Pos.Y = k.Pos.X, k.Pos.Y
		if r := e.cat.Race(k.Race); r != nil {
			v.Name = r.Name
			v.Render.Symbol = string(rune(r.Char))
			v.Render.Color = r.Attr.Hex()
		}
		snap.Entities = append(snap.Entities, v)
	})
	e.tracker.Takes.Each(func(i int, tk *tracking.Take) {
		v := api.EntityView{
			Handle: e.tracker.Takes.Handle(i).String(),
			Type:   "OBJECT",
			Seen:   tk.Seen,
			When:   tk.When,
		}
		v.Pos.X, v.Pos.Y = tk.Pos.X, tk.Pos.Y
		if k := e.cat.Kind(tk.Kind); k != nil {
			v.Name = k.Name
		}
		v.Render.Symbol = string(rune(tk.Glyph.Char()))
		v.Render.Color = tk.Glyph.Attr().Hex()
		snap.Entities = append(snap.Entities, v)
	})

	// 3. Ориентиры
	for _, kind := range landmarkKinds {
		for _, p := range e.landmarks.List(kind) {
			snap.Landmarks = append(snap.Landmarks, api.LandmarkView{Kind: kind.String(), X: p.X, Y: p.Y})
		}
	}

	// 4. Грубый страх
	for row := 0; row < domain.RegionRows; row++ {
		for col := 0; col < domain.RegionCols; col++ {
			if v := e.regional.Block(row, col); v > 0 {
				snap.Fear = append(snap.Fear, api.FearView{Row: row, Col: col, Value: v})
			}
		}
	}

	return snap
}

// CellSnapshot отвечает на запрос одной клетки.
func (e *PerceptionEngine) CellSnapshot(x, y int) api.CellView {
	cv := e.CellAt(x, y)
	out := api.CellView{
		X: x, Y: y,
		Feat:         cv.Feat.String(),
		Flags:        uint8(cv.Flags),
		Trap:         cv.Trap,
		Store:        cv.Store,
		Glyph:        cv.Glyph.String(),
		DangerRegion: e.DangerRegion(x, y),
		DangerCell:   e.DangerCell(x, y),
	}
	if h := e.MonsterAt(x, y); !h.IsNil() {
		if v, err := e.Entity(h); err == nil {
			out.Monster = v.Name
		}
	}
	if h := e.ObjectAt(x, y); !h.IsNil() {
		if v, err := e.Entity(h); err == nil {
			out.Object = v.Name
		}
	}
	return out
}

func tileView(x, y int, c *domain.Cell) api.TileView {
	g := c.Glyph
	return api.TileView{
		X: x, Y: y,
		Symbol:    string(rune(g.Char())),
		Color:     g.Attr().Hex(),
		Feat:      c.Feat.String(),
		Trap:      c.Trap,
		Store:     int(c.Store),
		IsWall:    c.Feat.IsWall(),
		IsVisible: c.Flags.Has(domain.FlagInView),
		IsLit:     c.Flags.Any(domain.FlagGlow | domain.FlagTorchLit),
	}
}
