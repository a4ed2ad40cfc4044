package tracking

import (
	"strings"

	"borg-perception/internal/catalog"
	"borg-perception/internal/core/types"
	"borg-perception/internal/domain"
	"borg-perception/internal/systems"

	"github.com/sirupsen/logrus"
)

const offscreenSuffix = " (offscreen)"

// guessRace подбирает расу по символу и цвету, когда хост не сообщил ее.
// multi - цвет на экране "мерцает", годятся только расы с переменным цветом.
// ghost - вернуть призрака, если ничего не подошло (иначе 0).
func (t *Tracker) guessRace(g types.Glyph, multi, ghost bool) int {
	ch, attr := g.Char(), g.Attr()
	depth := t.player.Depth

	best, bestScore := 0, 0
	for _, id := range t.cat.RacesByChar(ch) {
		r := t.cat.Race(id)
		if id == t.cat.Ghost() {
			continue
		}
		s := 10000
		if r.VariableAttr() {
			if !multi {
				s -= 1000
			}
		} else {
			if multi || r.Attr != attr {
				continue
			}
		}
		if r.IsUnique() {
			if t.RaceDeaths(id) > 0 {
				continue
			}
			s -= 10
		}

		switch {
		case r.Level > depth+50:
			continue
		case r.Level > depth+15:
			s -= 100
		case r.Level > depth+5:
			s -= 50
		case r.Level > depth:
			s -= 10
		}
		s -= abs(r.Level - depth)

		if r.Flags.Has(catalog.RaceMultiply) {
			s += 10
		}
		n := t.RaceCount(id)
		s += n/100 + min(n, 100)/10 + min(n, 10)

		if best == 0 || s > bestScore {
			best, bestScore = id, s
		}
	}
	if best != 0 || !ghost {
		return best
	}
	t.log.WithFields(logrus.Fields{"tick": t.tick, "glyph": g}).Debug("assuming player ghost")
	return t.cat.Ghost()
}

// guessKind подбирает вид предмета по символу и цвету.
func (t *Tracker) guessKind(g types.Glyph) int {
	ch, attr := g.Char(), g.Attr()
	best, bestScore := 0, 0
	for _, id := range t.cat.KindsByChar(ch) {
		k := t.cat.Kind(id)
		s := 100
		switch {
		case k.Attr == attr:
			s += 20
		case k.Flavored:
		default:
			continue
		}
		if k.Aware {
			s += 5
		}
		if best == 0 || s > bestScore {
			best, bestScore = id, s
		}
	}
	return best
}

// GuessRaceName находит расу по подлежащему сообщения ("The cave orc").
// Уникальные ищутся по точному имени; без артикля "The" монстр не может
// быть обычным, и остается призрак. Среди обычных выигрывает раса,
// ближайшая по уровню к глубине.
func (t *Tracker) GuessRaceName(who string) int {
	who = strings.TrimSuffix(strings.TrimSpace(who), offscreenSuffix)
	if id, ok := t.cat.Unique(who); ok {
		return id
	}

	var rest string
	switch {
	case strings.HasPrefix(who, "The "):
		rest = who[4:]
	case strings.HasPrefix(who, "the "):
		rest = who[4:]
	default:
		return t.cat.Ghost()
	}
	if id, ok := t.cat.Unique(rest); ok {
		return id
	}

	best, bestScore := 0, 0
	for _, id := range t.cat.ByName(rest) {
		r := t.cat.Race(id)
		s := 1000 - abs(r.Level-t.player.Depth)
		if best == 0 || s > bestScore {
			best, bestScore = id, s
		}
	}
	if best == 0 {
		t.log.WithFields(logrus.Fields{"tick": t.tick, "who": who}).Info("unknown monster name, assuming player ghost")
		return t.cat.Ghost()
	}
	return best
}

// LocateKill связывает подлежащее сообщения с монстром в радиусе r от
// точки c. Возвращает номер монстра или 0.
//
// Порядок: похожий предмет превращается в монстра; похожий монстр другой
// расы меняет расу; монстр той же расы в радиусе r+3 с прямой линией огня;
// монстр той же расы в радиусе r+20. r == 0 означает однозначное
// опознание. Счетчик расы растет, только когда раса появилась у
// монстра: при создании или смене расы.
func (t *Tracker) LocateKill(who string, c domain.Position, r int) int {
	fields := logrus.Fields{"tick": t.tick, "who": who, "anchor": c, "radius": r}
	if invisibleSubject(who) {
		t.log.WithFields(fields).Debug("invisible monster nearby")
		if t.NeedSeeInvisible < t.tick {
			t.NeedSeeInvisible = t.tick
		}
		return 0
	}
	if strings.HasSuffix(who, offscreenSuffix) {
		t.log.WithFields(fields).Debug("offscreen monster nearby")
		t.NeedShiftPanel = true
		return 0
	}

	race := t.GuessRaceName(who)
	rc := t.cat.Race(race)
	if rc == nil {
		return 0
	}
	known := r == 0

	// Предмет, оказавшийся мимиком.
	best, bestDist := 0, 0
	t.Takes.Each(func(i int, tk *Take) {
		k := t.cat.Kind(tk.Kind)
		if k == nil || k.Char != rc.Char {
			return
		}
		if !rc.VariableAttr() && !k.Flavored && k.Attr != rc.Attr {
			return
		}
		if d := tk.Pos.Distance(c); d <= r && (best == 0 || d < bestDist) {
			best, bestDist = i, d
		}
	})
	if best != 0 {
		p := t.Takes.Get(best).Pos
		t.log.WithFields(fields).WithField("pos", p).Info("converting an object into a monster")
		t.DeleteTake(best)
		i := t.newKill(race, p, nil)
		k := t.Kills.Get(i)
		k.When = t.tick
		k.Known = known
		return i
	}

	// Монстр другой расы с тем же символом.
	best = 0
	t.Kills.Each(func(i int, k *Kill) {
		if k.Race == race {
			return
		}
		kr := t.cat.Race(k.Race)
		if kr == nil || kr.Char != rc.Char {
			return
		}
		if !rc.VariableAttr() && kr.Attr != rc.Attr {
			return
		}
		if d := k.Pos.Distance(c); d <= r && (best == 0 || d < bestDist) {
			best, bestDist = i, d
		}
	})
	if best != 0 {
		k := t.Kills.Get(best)
		t.log.WithFields(fields).WithFields(logrus.Fields{"from": t.raceName(k.Race), "pos": k.Pos}).
			Info("converting a monster")
		k.Race = race
		t.raceCount[race]++
		t.updateKill(k, nil)
		if known {
			k.Known = true
		}
		return best
	}

	if i := t.nearestOfRace(race, c, r+3, true); i != 0 {
		if known {
			t.Kills.Get(i).Known = true
		}
		return i
	}
	if i := t.nearestOfRace(race, c, r+20, false); i != 0 {
		if known {
			t.Kills.Get(i).Known = true
		}
		return i
	}

	t.log.WithFields(fields).WithField("race", rc.Name).Info("cannot locate monster")
	return 0
}

func (t *Tracker) nearestOfRace(race int, c domain.Position, r int, projectable bool) int {
	best, bestDist := 0, 0
	t.Kills.Each(func(i int, k *Kill) {
		if k.Race != race {
			return
		}
		d := k.Pos.Distance(c)
		if d > r || (best != 0 && d >= bestDist) {
			return
		}
		if projectable && !systems.Projectable(t.grid, k.Pos, c) {
			return
		}
		best, bestDist = i, d
	})
	return best
}

// invisibleSubject - "Something", "Someone", "It": монстра не видно.
func invisibleSubject(who string) bool {
	first, _, _ := strings.Cut(strings.TrimSpace(who), " ")
	switch strings.ToLower(first) {
	case "it", "something", "someone":
		return true
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
