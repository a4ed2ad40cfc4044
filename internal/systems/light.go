package systems

import (
	"borg-perception/internal/domain"

	"github.com/sirupsen/logrus"
)

// RecomputeLight пересчитывает клетки, освещенные светом игрока.
//
//	radius 0  - только клетка игрока
//	radius 1  - квадрат 3x3
//	radius 2  - плюс клетки на расстоянии 2 по осям, если промежуточная клетка проходима
//	radius 3+ - плюс диагонали (2,2) и все клетки поля зрения в пределах radius
func (v *Visibility) RecomputeLight(origin domain.Position, radius int) {
	v.clear(&v.light, domain.FlagTorchLit)

	if radius < 0 || !v.grid.In(origin) {
		return
	}
	y, x := origin.Y, origin.X

	v.lite(x, y)
	if radius >= 1 {
		for _, d := range domain.Directions8 {
			v.lite(x+d.X, y+d.Y)
		}
	}

	if radius >= 2 {
		// Юг и север
		for _, sy := range [2]int{1, -1} {
			if v.grid.IsFloor(x, y+sy) {
				v.lite(x, y+2*sy)
				v.lite(x+1, y+2*sy)
				v.lite(x-1, y+2*sy)
			}
		}
		// Восток и запад
		for _, sx := range [2]int{1, -1} {
			if v.grid.IsFloor(x+sx, y) {
				v.lite(x+2*sx, y)
				v.lite(x+2*sx, y+1)
				v.lite(x+2*sx, y-1)
			}
		}
	}

	if radius >= 3 {
		for _, sy := range [2]int{1, -1} {
			for _, sx := range [2]int{1, -1} {
				if v.grid.IsFloor(x+sx, y+sy) {
					v.lite(x+2*sx, y+2*sy)
				}
			}
		}

		p := min(radius, v.LightLimit)
		for dy := -p; dy <= p; dy++ {
			for dx := -p; dx <= p; dx++ {
				ady, adx := abs(dy), abs(dx)
				if ady <= 2 && adx <= 2 {
					continue
				}
				d := max(ady, adx) + min(ady, adx)/2
				if d > p {
					continue
				}
				if v.grid.HasFlags(x+dx, y+dy, domain.FlagInView) {
					v.lite(x+dx, y+dy)
				}
			}
		}
	}

	v.log.WithFields(logrus.Fields{"pos": origin, "radius": radius, "cells": len(v.light)}).Debug("light recomputed")
}

func (v *Visibility) lite(x, y int) {
	c := v.grid.AtXY(x, y)
	if c == nil || c.Flags.Has(domain.FlagTorchLit) {
		return
	}
	c.Flags |= domain.FlagTorchLit
	v.light = append(v.light, domain.Position{X: x, Y: y})
}

// Lit возвращает копию списка освещенных клеток.
func (v *Visibility) Lit() []domain.Position {
	return append([]domain.Position(nil), v.light...)
}
