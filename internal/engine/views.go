package engine

import (
	"borg-perception/internal/core/types"
	"borg-perception/internal/core/types/enums"
	"borg-perception/internal/domain"
	"borg-perception/internal/tracking"
)

// CellView - то, что движок знает о клетке.
type CellView struct {
	Feat    enums.Feat       `json:"feat"`
	Flags   domain.CellFlags `json:"flags"`
	Trap    bool             `json:"trap,omitempty"`
	Warding bool             `json:"warding,omitempty"`
	Store   int              `json:"store,omitempty"`
	Glyph   types.Glyph      `json:"glyph"`
}

// EntityView - копия строки таблицы сущностей. Изменения копии на
// модель не влияют.
type EntityView struct {
	Handle types.Handle    `json:"handle"`
	Table  enums.TableKind `json:"table"`
	Name   string          `json:"name"`

	Kill *tracking.Kill `json:"kill,omitempty"`
	Take *tracking.Take `json:"take,omitempty"`
}

// Pos - клетка сущности.
func (v EntityView) Pos() domain.Position {
	if v.Kill != nil {
		return v.Kill.Pos
	}
	if v.Take != nil {
		return v.Take.Pos
	}
	return domain.Position{}
}

// CellAt возвращает знание о клетке; вне карты - нулевое значение.
func (e *PerceptionEngine) CellAt(x, y int) CellView {
	c := e.grid.AtXY(x, y)
	if c == nil {
		return CellView{}
	}
	return CellView{
		Feat:    c.Feat,
		Flags:   c.Flags,
		Trap:    c.Trap,
		Warding: c.Warding,
		Store:   int(c.Store),
		Glyph:   c.Glyph,
	}
}

// ObjectAt - ссылка на предмет в клетке или NilHandle.
func (e *PerceptionEngine) ObjectAt(x, y int) types.Handle {
	c := e.grid.AtXY(x, y)
	if c == nil || c.Take == 0 {
		return types.NilHandle
	}
	return e.tracker.Takes.Handle(int(c.Take))
}

// MonsterAt - ссылка на монстра в клетке или NilHandle.
func (e *PerceptionEngine) MonsterAt(x, y int) types.Handle {
	c := e.grid.AtXY(x, y)
	if c == nil || c.Kill == 0 {
		return types.NilHandle
	}
	return e.tracker.Kills.Handle(int(c.Kill))
}

// Entity разрешает ссылку. Для удаленной сущности или переиспользованной
// строки возвращает ErrStaleHandle.
func (e *PerceptionEngine) Entity(h types.Handle) (EntityView, error) {
	switch enums.TableKind(h.Table()) {
	case enums.TableKill:
		if _, k, ok := e.tracker.Kills.Resolve(h); ok {
			cp := *k
			cp.Spells = append([]string(nil), k.Spells...)
			name := ""
			if r := e.cat.Race(k.Race); r != nil {
				name = r.Name
			}
			return EntityView{Handle: h, Table: enums.TableKill, Name: name, Kill: &cp}, nil
		}
	case enums.TableTake:
		if _, tk, ok := e.tracker.Takes.Resolve(h); ok {
			cp := *tk
			name := ""
			if k := e.cat.Kind(tk.Kind); k != nil {
				name = k.Name
			}
			return EntityView{Handle: h, Table: enums.TableTake, Name: name, Take: &cp}, nil
		}
	}
	return EntityView{}, ErrStaleHandle
}

// DangerRegion - грубый страх блока, в котором лежит клетка.
func (e *PerceptionEngine) DangerRegion(x, y int) int { return e.regional.At(x, y) }

// DangerCell - точный страх клетки от известных монстров.
func (e *PerceptionEngine) DangerCell(x, y int) int { return e.monsters.At(x, y) }

// Landmarks возвращает копию списка ориентиров заданного вида.
func (e *PerceptionEngine) Landmarks(kind domain.LandmarkKind) []domain.Position {
	return e.landmarks.List(kind)
}

// RaceDeaths - сколько монстров расы убито за всю сессию.
func (e *PerceptionEngine) RaceDeaths(race int) int { return e.tracker.RaceDeaths(race) }

// Feelings - ощущения уровня из последних сообщений.
func (e *PerceptionEngine) Feelings() (danger, stuff int) {
	return e.reactor.FeelingDanger, e.reactor.FeelingStuff
}

// NeedSeeInvisible - тик последнего сообщения о невидимом монстре.
func (e *PerceptionEngine) NeedSeeInvisible() int { return e.tracker.NeedSeeInvisible }

// VaultOnLevel - на уровне замечены вечные стены хранилища.
func (e *PerceptionEngine) VaultOnLevel() bool { return e.ingestor.VaultOnLevel }

// Kills возвращает ссылки на всех отслеживаемых монстров.
func (e *PerceptionEngine) Kills() []types.Handle {
	var out []types.Handle
	e.tracker.Kills.Each(func(i int, _ *tracking.Kill) {
		out = append(out, e.tracker.Kills.Handle(i))
	})
	return out
}

// Takes возвращает ссылки на все отслеживаемые предметы.
func (e *PerceptionEngine) Takes() []types.Handle {
	var out []types.Handle
	e.tracker.Takes.Each(func(i int, _ *tracking.Take) {
		out = append(out, e.tracker.Takes.Handle(i))
	})
	return out
}
