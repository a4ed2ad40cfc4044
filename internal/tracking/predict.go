package tracking

import (
	"borg-perception/internal/catalog"
	"borg-perception/internal/domain"

	"github.com/sirupsen/logrus"
)

// Predict разбирается с сущностями, которых в этом тике не нашли.
// Слепой или галлюцинирующий игрок ничего не предсказывает.
func (t *Tracker) Predict() {
	if t.player.Impaired() {
		return
	}
	t.Kills.Each(func(i int, k *Kill) {
		if k.When == t.tick || k.Seen {
			return
		}
		t.followKill(i, k)
	})
	t.Takes.Each(func(i int, tk *Take) {
		if tk.When >= t.tick-2 {
			return
		}
		t.followTake(i, tk)
	})
}

// followKill: монстр вне поля зрения остается где был; пропавший из
// поля зрения ушел в соседнюю невидимую клетку пола. Если такой клетки
// нет, монстр удаляется.
func (t *Tracker) followKill(i int, k *Kill) {
	from := k.Pos
	if !t.Visible(from, k.Race) {
		return
	}
	fields := logrus.Fields{"tick": t.tick, "slot": i, "race": t.raceName(k.Race), "pos": from}

	if !t.grid.IsFloor(from.X, from.Y) {
		t.log.WithFields(fields).Debug("missing monster was in a wall")
		t.DeleteKill(i)
		return
	}

	if t.raceFlags(k.Race).Has(catalog.RaceNeverMove) || !k.Awake {
		if from == t.player.Pos {
			t.DeleteKill(i)
		}
		return
	}

	dx, dy, n := 0, 0, 0
	for _, dir := range domain.Directions8 {
		p := from.Add(dir)
		if p.X < 1 || p.Y < 1 || p.X >= domain.DungeonWidth-1 || p.Y >= domain.DungeonHeight-1 {
			continue
		}
		c := t.grid.At(p)
		if !c.Feat.IsFloor() || c.Kill != 0 || p == t.player.Pos {
			continue
		}
		if t.Visible(p, k.Race) {
			continue
		}
		dx += dir.X
		dy += dir.Y
		n++
	}

	to := from.Shift(domain.Sign(dx), domain.Sign(dy))
	if n == 0 || to == from {
		t.log.WithFields(fields).Debug("missing monster has nowhere to go")
		t.DeleteKill(i)
		return
	}
	if c := t.grid.At(to); c == nil || !c.Feat.IsFloor() || (c.Kill != 0 && int(c.Kill) != i) {
		t.DeleteKill(i)
		return
	}

	t.moveKill(i, k, to)
	t.log.WithFields(fields).WithField("to", to).Debug("following missing monster")
}

// followTake: предмет, пропавший с видимой клетки, кто-то забрал.
// Монстры, не подбирающие и не уничтожающие вещи, его только заслоняют.
func (t *Tracker) followTake(i int, tk *Take) {
	if tk.Pos == t.player.Pos {
		t.DeleteTake(i)
		return
	}
	c := t.grid.At(tk.Pos)
	if c == nil || !c.Flags.Has(domain.FlagOnScreen) {
		return
	}
	if c.Kill != 0 {
		if k := t.Kills.Get(int(c.Kill)); k != nil &&
			!t.raceFlags(k.Race).Any(catalog.RaceTakeItem|catalog.RaceKillItem) {
			return
		}
	}
	t.log.WithFields(logrus.Fields{"tick": t.tick, "slot": i, "kind": t.kindName(tk.Kind), "pos": tk.Pos}).
		Debug("object is gone")
	t.DeleteTake(i)
}
