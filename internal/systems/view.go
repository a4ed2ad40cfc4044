package systems

import (
	"borg-perception/internal/domain"
	"borg-perception/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Visibility пересчитывает поле зрения и свет игрока на GridMap.
// Хранит списки отмеченных клеток, чтобы снимать флаги без обхода всей карты.
type Visibility struct {
	grid  *domain.GridMap
	view  []domain.Position
	light []domain.Position
	log   *logrus.Entry

	// Sight - дальность зрения, LightLimit - предел радиуса света.
	Sight      int
	LightLimit int
}

// NewVisibility создает движок видимости для карты g.
func NewVisibility(g *domain.GridMap) *Visibility {
	return &Visibility{
		grid:  g,
		view:  make([]domain.Position, 0, 1536),
		light: make([]domain.Position, 0, 128),
		log:   logger.Component("visibility"),

		Sight:      domain.MaxSight,
		LightLimit: domain.MaxLightRadius,
	}
}

// Forget снимает отметки без пересчета (смена уровня).
func (v *Visibility) Forget() {
	v.clear(&v.view, domain.FlagInView)
	v.clear(&v.light, domain.FlagTorchLit)
}

// ViewSize - количество клеток в поле зрения.
func (v *Visibility) ViewSize() int { return len(v.view) }

// InView возвращает копию списка клеток в поле зрения.
func (v *Visibility) InView() []domain.Position {
	return append([]domain.Position(nil), v.view...)
}

// MarkHost добавляет в поле зрения клетки, которые хост назвал видимыми.
// Они снимаются вместе с остальными при следующем пересчете.
func (v *Visibility) MarkHost(ps []domain.Position) {
	for _, p := range ps {
		v.mark(p.X, p.Y, false)
	}
}

func (v *Visibility) clear(list *[]domain.Position, mask domain.CellFlags) {
	for _, p := range *list {
		if c := v.grid.At(p); c != nil {
			c.Flags &^= mask
		}
	}
	*list = (*list)[:0]
}

func (v *Visibility) mark(x, y int, easy bool) {
	c := v.grid.AtXY(x, y)
	if c == nil || c.Flags.Has(domain.FlagInView) {
		return
	}
	c.Flags |= domain.FlagInView
	if easy {
		c.Flags |= domain.FlagEasyView
	}
	v.view = append(v.view, domain.Position{X: x, Y: y})
}

// RecomputeView пересчитывает поле зрения из origin.
//
// Сначала трассируются четыре диагонали и четыре оси до первой
// преграды. Затем для каждого кольца n каждый октант делится на полосы;
// полоса сканируется до своей преграды, а дальность последней
// свободной клетки ограничивает ту же полосу на следующем кольце.
// Границы полос только сужаются.
func (v *Visibility) RecomputeView(origin domain.Position) {
	v.clear(&v.view, domain.FlagInView)

	full := v.Sight
	over := full * 3 / 2
	y, x := origin.Y, origin.X

	if !v.grid.In(origin) {
		v.log.WithField("pos", origin).Warn("view origin outside the dungeon")
		return
	}

	// Клетка игрока
	v.mark(x, y, true)

	// Главные диагонали
	z := full * 2 / 3
	for _, dir := range [4][2]int{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}} {
		v.scanRay(x, y, dir[0], dir[1], z)
	}

	// Главные оси: дальность определяет начальные границы полос
	se := v.scanRay(x, y, 0, 1, full)
	sw := se
	ne := v.scanRay(x, y, 0, -1, full)
	nw := ne
	es := v.scanRay(x, y, 1, 0, full)
	en := es
	ws := v.scanRay(x, y, -1, 0, full)
	wn := ws

	maxY := domain.DungeonHeight - 1
	maxX := domain.DungeonWidth - 1

	for n := 1; n <= over/2; n++ {
		// Граница описанного восьмиугольника для этого кольца
		z = over - n - n
		if z > full-n {
			z = full - n
		}
		for z+n+(n>>1) > full {
			z--
		}

		ypn, ymn := y+n, y-n
		xpn, xmn := x+n, x-n

		// Юг
		if ypn < maxY {
			m := min(z, maxY-ypn)
			if xpn <= maxX && n < se {
				se = v.strip(n, m, se, func(d int) bool {
					return v.aux(ypn+d, xpn, ypn+d-1, xpn-1, ypn+d-1, xpn)
				})
			}
			if xmn >= 0 && n < sw {
				sw = v.strip(n, m, sw, func(d int) bool {
					return v.aux(ypn+d, xmn, ypn+d-1, xmn+1, ypn+d-1, xmn)
				})
			}
		}

		// Север
		if ymn > 0 {
			m := min(z, ymn)
			if xpn <= maxX && n < ne {
				ne = v.strip(n, m, ne, func(d int) bool {
					return v.aux(ymn-d, xpn, ymn-d+1, xpn-1, ymn-d+1, xpn)
				})
			}
			if xmn >= 0 && n < nw {
				nw = v.strip(n, m, nw, func(d int) bool {
					return v.aux(ymn-d, xmn, ymn-d+1, xmn+1, ymn-d+1, xmn)
				})
			}
		}

		// Восток
		if xpn < maxX {
			m := min(z, maxX-xpn)
			if ypn <= maxY && n < es {
				es = v.strip(n, m, es, func(d int) bool {
					return v.aux(ypn, xpn+d, ypn-1, xpn+d-1, ypn, xpn+d-1)
				})
			}
			if ymn >= 0 && n < en {
				en = v.strip(n, m, en, func(d int) bool {
					return v.aux(ymn, xpn+d, ymn+1, xpn+d-1, ymn, xpn+d-1)
				})
			}
		}

		// Запад
		if xmn > 0 {
			m := min(z, xmn)
			if ypn <= maxY && n < ws {
				ws = v.strip(n, m, ws, func(d int) bool {
					return v.aux(ypn, xmn-d, ypn-1, xmn-d+1, ypn, xmn-d+1)
				})
			}
			if ymn >= 0 && n < wn {
				wn = v.strip(n, m, wn, func(d int) bool {
					return v.aux(ymn, xmn-d, ymn+1, xmn-d+1, ymn, xmn-d+1)
				})
			}
		}
	}

	// EasyView нужен только во время пересчета
	for _, p := range v.view {
		v.grid.At(p).Flags &^= domain.FlagEasyView
	}

	v.log.WithFields(logrus.Fields{"pos": origin, "cells": len(v.view)}).Debug("view recomputed")
}

// scanRay идет от (x,y) в направлении (dx,dy) не дальше limit, отмечая
// клетки, и останавливается на первой непрозрачной. Возвращает номер шага,
// на котором остановился (limit+1, если преград не было).
func (v *Visibility) scanRay(x, y, dx, dy, limit int) int {
	d := 1
	for ; d <= limit; d++ {
		tx, ty := x+dx*d, y+dy*d
		if !fullyInBounds(tx, ty) {
			continue
		}
		v.mark(tx, ty, true)
		if !v.grid.IsFloor(tx, ty) {
			break
		}
	}
	return d
}

// strip сканирует одну полосу кольца n на глубину m. blocked(d) сообщает,
// что клетка d закрывает обзор дальше. Возвращает новую границу полосы.
func (v *Visibility) strip(n, m, limit int, blocked func(d int) bool) int {
	k := n
	for d := 1; d <= m; d++ {
		if blocked(d) {
			if n+d >= limit {
				break
			}
			continue
		}
		k = n + d
	}
	return k + 1
}

// aux решает, видна ли клетка (x,y), по двум ее соседям в сторону
// наблюдателя g1=(x1,y1) и g2=(x2,y2). Возвращает true, если сквозь
// клетку дальше не видно.
func (v *Visibility) aux(y, x, y1, x1, y2, x2 int) bool {
	f1 := v.grid.IsFloor(x1, y1)
	f2 := v.grid.IsFloor(x2, y2)

	// Обе стороны закрыты стенами
	if !f1 && !f2 {
		return true
	}

	v1 := f1 && v.grid.HasFlags(x1, y1, domain.FlagInView)
	v2 := f2 && v.grid.HasFlags(x2, y2, domain.FlagInView)

	// Ни один сосед не виден
	if !v1 && !v2 {
		return true
	}

	wall := !v.grid.IsFloor(x, y)
	vis1 := v1 && v.grid.HasFlags(x1, y1, domain.FlagEasyView)
	vis2 := v2 && v.grid.HasFlags(x2, y2, domain.FlagEasyView)

	switch {
	case vis1 && vis2:
		v.mark(x, y, true)
		return wall
	case vis1, v1 && v2, wall:
		// Стены всегда отмечаются видимыми, но взгляд сквозь них не проходит
		v.mark(x, y, false)
		return wall
	}

	if LineOfSight(v.grid, v.origin(), domain.Position{X: x, Y: y}) {
		v.mark(x, y, false)
		return wall
	}
	return true
}

func (v *Visibility) origin() domain.Position {
	return v.view[0]
}
