package tracking

import (
	"borg-perception/internal/catalog"
	"borg-perception/internal/domain"

	"github.com/sirupsen/logrus"
)

// Reconcile сопоставляет наблюдения кадра с таблицами. Проходы идут
// строго по порядку, каждый удаляет найденные наблюдения:
//
//  1. монстры на месте (включая опознанных хостом по номеру);
//  2. предметы на месте;
//  3. монстры, сдвинувшиеся на 1, 2, 3 клетки;
//  4. монстры в пределах FlickerDistance со сменой расы;
//  5. новые предметы;
//  6. новые монстры.
func (t *Tracker) Reconcile(s *Sightings) {
	s.pass(func(sg *Sighting) bool {
		if sg.IsKill && (t.observeKillByHost(sg) || t.observeKillMove(sg, 0, false)) {
			sg.IsKill = false
			return true
		}
		return false
	})
	s.pass(func(sg *Sighting) bool {
		if sg.IsTake && t.observeTakeMove(sg, 0) {
			sg.IsTake = false
			return true
		}
		return false
	})
	for _, d := range t.cfg.MoveMatchDistances {
		s.pass(func(sg *Sighting) bool {
			if sg.IsKill && t.observeKillMove(sg, d, false) {
				sg.IsKill = false
				return true
			}
			return false
		})
	}
	s.pass(func(sg *Sighting) bool {
		if sg.IsKill && t.observeKillMove(sg, t.cfg.FlickerDistance, true) {
			sg.IsKill = false
			return true
		}
		return false
	})
	s.pass(func(sg *Sighting) bool {
		if sg.IsTake && t.observeTakeDiff(sg) {
			sg.IsTake = false
			return true
		}
		return false
	})
	s.pass(func(sg *Sighting) bool {
		if sg.IsKill && t.observeKillDiff(sg) {
			sg.IsKill = false
			return true
		}
		return false
	})

	t.EnforceTerrain()
}

// observeKillByHost - хост назвал номер монстра, и такой монстр у нас
// уже есть: переносим его без учета расстояния.
func (t *Tracker) observeKillByHost(sg *Sighting) bool {
	if sg.Monster == nil || sg.Monster.HostIndex == 0 {
		return false
	}
	found := 0
	t.Kills.Each(func(i int, k *Kill) {
		if found == 0 && !k.Seen && k.HostIndex == sg.Monster.HostIndex {
			found = i
		}
	})
	if found == 0 {
		return false
	}
	k := t.Kills.Get(found)
	if sg.Monster.Race != 0 && sg.Monster.Race != k.Race {
		k.Race = sg.Monster.Race
	}
	if k.Pos != sg.Pos {
		t.moveKill(found, k, sg.Pos)
	}
	k.When = t.tick
	t.updateKill(k, sg.Monster)
	k.Seen = true
	return true
}

// observeKillMove ищет монстра, который мог оказаться в клетке наблюдения,
// сдвинувшись не дальше d. flag разрешает смену расы при несовпадении цвета
// на расу с переменным цветом.
func (t *Tracker) observeKillMove(sg *Sighting, d int, flag bool) bool {
	ch, attr := sg.Glyph.Char(), sg.Glyph.Attr()
	hallucinating := t.player.Hallucinating

	best, bestDist, bestRace := 0, 0, 0
	t.Kills.Each(func(i int, k *Kill) {
		if k.Seen {
			return
		}
		r := t.cat.Race(k.Race)
		if r == nil {
			return
		}

		limit := d
		if r.IsUnique() {
			limit *= 2
		}
		z := k.Pos.Distance(sg.Pos)
		if z > limit {
			return
		}
		if sg.Monster != nil && k.HostIndex != 0 && sg.Monster.HostIndex != 0 && k.HostIndex != sg.Monster.HostIndex {
			return
		}
		// Монстр не успел бы дойти.
		if !flag && z > k.Moves/10+1 {
			return
		}
		if r.Char != ch && !hallucinating {
			return
		}

		race := 0
		if (r.Attr != attr || hallucinating) && !r.VariableAttr() {
			if !flag || k.Known {
				return
			}
			race = t.flickerRace(sg)
			if race == 0 {
				return
			}
		}

		if best == 0 || z < bestDist {
			best, bestDist, bestRace = i, z, race
		}
	})
	if best == 0 {
		return false
	}

	k := t.Kills.Get(best)
	if bestRace != 0 && bestRace != k.Race {
		t.log.WithFields(logrus.Fields{
			"tick": t.tick, "slot": best, "from": t.raceName(k.Race), "to": t.raceName(bestRace),
		}).Debug("flicker: changing monster race")
		k.Race = bestRace
	}
	if bestDist > 0 {
		t.moveKill(best, k, sg.Pos)
	}
	k.When = t.tick
	if bestRace != 0 || sg.Monster != nil {
		t.updateKill(k, sg.Monster)
	}
	k.Seen = true
	return true
}

// flickerRace - новая раса для монстра с "мерцающим" цветом. Точный
// канал важнее догадки; догадка допускает только расы с переменным цветом.
func (t *Tracker) flickerRace(sg *Sighting) int {
	if sg.Monster != nil && sg.Monster.Race != 0 {
		return sg.Monster.Race
	}
	return t.guessRace(sg.Glyph, true, false)
}

func (t *Tracker) observeKillDiff(sg *Sighting) bool {
	race := 0
	if sg.Monster != nil {
		race = sg.Monster.Race
	}
	if race == 0 {
		race = t.guessRace(sg.Glyph, false, true)
	}
	if race == 0 {
		return false
	}
	i := t.newKill(race, sg.Pos, sg.Monster)
	if k := t.Kills.Get(i); k != nil {
		k.Seen = true
	}
	return true
}

func (t *Tracker) takeMatches(tk *Take, sg *Sighting) bool {
	if t.player.Hallucinating {
		return true
	}
	ch, attr := sg.Glyph.Char(), sg.Glyph.Attr()
	k := t.cat.Kind(tk.Kind)
	if k == nil {
		return tk.Glyph == sg.Glyph
	}
	if k.Char != ch {
		return false
	}
	return k.Attr == attr || k.Flavored || tk.Glyph.Attr() == attr
}

func (t *Tracker) observeTakeMove(sg *Sighting, d int) bool {
	best, bestDist := 0, 0
	t.Takes.Each(func(i int, tk *Take) {
		if tk.Seen {
			return
		}
		if sg.Object != nil && sg.Object.Kind != 0 && sg.Object.Kind != tk.Kind {
			return
		}
		z := tk.Pos.Distance(sg.Pos)
		if z > d || !t.takeMatches(tk, sg) {
			return
		}
		if best == 0 || z < bestDist {
			best, bestDist = i, z
		}
	})
	if best == 0 {
		return false
	}
	tk := t.Takes.Get(best)
	if bestDist > 0 {
		t.moveTake(best, tk, sg.Pos)
	}
	tk.When = t.tick
	tk.Seen = true
	return true
}

func (t *Tracker) observeTakeDiff(sg *Sighting) bool {
	kind := 0
	if sg.Object != nil {
		kind = sg.Object.Kind
	}
	if kind == 0 {
		kind = t.guessKind(sg.Glyph)
	}
	if kind == 0 {
		return false
	}
	t.newTake(kind, sg.Pos, sg)
	return true
}

// raceFlags - флаги расы или 0 для неизвестной.
func (t *Tracker) raceFlags(race int) catalog.RaceFlags {
	if r := t.cat.Race(race); r != nil {
		return r.Flags
	}
	return 0
}

// Visible сообщает, видел бы игрок монстра расы race в клетке p.
func (t *Tracker) Visible(p domain.Position, race int) bool {
	d := p.Distance(t.player.Pos)
	if d > domain.MaxSight {
		return false
	}
	c := t.grid.At(p)
	if c == nil || !c.Flags.Has(domain.FlagOnScreen) {
		return false
	}
	flags := t.raceFlags(race)
	if c.Flags.Has(domain.FlagInView) {
		if c.Flags.Any(domain.FlagTorchLit|domain.FlagGlow) &&
			(t.player.SeeInvisible || !flags.Has(catalog.RaceInvisible)) {
			return true
		}
		if d <= t.player.Infravision && !flags.Has(catalog.RaceColdBlood) {
			return true
		}
	}
	return t.player.Telepathy && !flags.Any(catalog.RaceEmptyMind|catalog.RaceWeirdMind)
}
