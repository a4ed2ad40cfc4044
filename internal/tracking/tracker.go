// Package tracking ведет таблицы предметов ("takes") и монстров ("kills"),
// сопоставляя с ними наблюдения экрана и события из сообщений.
package tracking

import (
	"math/rand"

	"borg-perception/internal/catalog"
	"borg-perception/internal/core/types/enums"
	"borg-perception/internal/domain"
	"borg-perception/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Config - настраиваемые пороги трекера.
type Config struct {
	KillTableSize       int
	TakeTableSize       int
	ExpiryTicks         int
	ImpairedExpiryTicks int

	// MoveMatchDistances - допуски проходов сопоставления движущихся монстров.
	MoveMatchDistances []int
	// FlickerDistance - допуск прохода со сменой расы.
	FlickerDistance int
}

// DefaultConfig возвращает исторические значения порогов.
func DefaultConfig() Config {
	return Config{
		KillTableSize:       255,
		TakeTableSize:       256,
		ExpiryTicks:         2000,
		ImpairedExpiryTicks: 2,
		MoveMatchDistances:  []int{1, 2, 3},
		FlickerDistance:     7,
	}
}

// FearMap - грубая карта страха; трекер очищает ее вокруг игрока,
// когда невидимая угроза обрела тело.
type FearMap interface {
	ClearAround(p domain.Position)
}

// Tracker владеет таблицами сущностей и счетчиками рас.
type Tracker struct {
	cfg  Config
	cat  *catalog.Catalog
	grid *domain.GridMap
	rng  *rand.Rand
	fear FearMap
	log  *logrus.Entry

	Kills *Table[Kill]
	Takes *Table[Take]

	raceCount  []int
	raceDeaths []int

	tick   int
	player domain.PlayerState
	oldPos domain.Position

	// UniqueOnLevel - раса уникального монстра, замеченного на уровне.
	UniqueOnLevel int
	// LastMultiplierKill - тик последнего убийства размножающегося монстра.
	LastMultiplierKill int
	// NeedSeeInvisible - тик последнего сообщения о невидимом монстре.
	NeedSeeInvisible int
	// NeedShiftPanel - монстр говорит из-за края экрана.
	NeedShiftPanel bool
}

// New создает трекер над картой grid.
func New(cfg Config, cat *catalog.Catalog, grid *domain.GridMap, rng *rand.Rand) *Tracker {
	return &Tracker{
		cfg:        cfg,
		cat:        cat,
		grid:       grid,
		rng:        rng,
		log:        logger.Component("tracking"),
		Kills:      NewTable[Kill](enums.TableKill, cfg.KillTableSize),
		Takes:      NewTable[Take](enums.TableTake, cfg.TakeTableSize),
		raceCount:  make([]int, len(cat.Races)),
		raceDeaths: make([]int, len(cat.Races)),
	}
}

// SetFear подключает карту страха.
func (t *Tracker) SetFear(f FearMap) { t.fear = f }

// Catalog возвращает таблицы рас и предметов.
func (t *Tracker) Catalog() *catalog.Catalog { return t.cat }

// Tick - текущий тик.
func (t *Tracker) Tick() int { return t.tick }

// Player - состояние игрока на текущем тике.
func (t *Tracker) Player() domain.PlayerState { return t.player }

// RaceCount - сколько раз раса встречалась на уровне.
func (t *Tracker) RaceCount(race int) int {
	if race <= 0 || race >= len(t.raceCount) {
		return 0
	}
	return t.raceCount[race]
}

// RaceDeaths - подтвержденные убийства расы за сессию.
func (t *Tracker) RaceDeaths(race int) int {
	if race <= 0 || race >= len(t.raceDeaths) {
		return 0
	}
	return t.raceDeaths[race]
}

// Begin открывает тик: снимает отметки "видели", выбрасывает устаревшие
// сущности и предметы под игроком.
func (t *Tracker) Begin(tick int, player domain.PlayerState, oldPos domain.Position) {
	t.tick = tick
	t.player = player
	t.oldPos = oldPos

	window := t.cfg.ExpiryTicks
	if player.Impaired() {
		window = t.cfg.ImpairedExpiryTicks
	}

	t.Kills.Each(func(i int, k *Kill) {
		k.Seen = false
		if t.tick-k.When > window {
			t.log.WithFields(logrus.Fields{"tick": tick, "slot": i, "race": t.raceName(k.Race)}).
				Debug("expiring monster")
			t.DeleteKill(i)
		}
	})

	t.Takes.Each(func(i int, tk *Take) {
		tk.Seen = false
		switch {
		case t.tick-tk.When > window:
			t.log.WithFields(logrus.Fields{"tick": tick, "slot": i, "kind": t.kindName(tk.Kind)}).
				Debug("expiring object")
			t.DeleteTake(i)
		case player.Hallucinating, tk.Pos == player.Pos, tk.Pos == oldPos:
			t.DeleteTake(i)
		}
	})
}

// NewLevel забывает все сущности и счетчики появлений. Счетчики смертей
// переживают смену уровня.
func (t *Tracker) NewLevel(tick int) {
	t.Kills.Reset()
	t.Takes.Reset()
	clear(t.raceCount)
	t.tick = tick
	t.UniqueOnLevel = 0
	t.LastMultiplierKill = 0
	t.NeedSeeInvisible = 1
	t.NeedShiftPanel = false
}

// KillAt возвращает номер монстра в клетке или 0.
func (t *Tracker) KillAt(p domain.Position) int {
	if c := t.grid.At(p); c != nil {
		return int(c.Kill)
	}
	return 0
}

// TakeAt возвращает номер предмета в клетке или 0.
func (t *Tracker) TakeAt(p domain.Position) int {
	if c := t.grid.At(p); c != nil {
		return int(c.Take)
	}
	return 0
}

// DeleteKill удаляет монстра и ссылку на него из клетки.
func (t *Tracker) DeleteKill(i int) {
	k := t.Kills.Get(i)
	if k == nil {
		return
	}
	if c := t.grid.At(k.Pos); c != nil && int(c.Kill) == i {
		c.Kill = 0
	}
	if r := t.cat.Race(k.Race); r != nil && r.Flags.Has(catalog.RaceMultiply) {
		t.LastMultiplierKill = t.tick
	}
	t.Kills.Delete(i)
}

// DeleteTake удаляет предмет и ссылку на него из клетки.
func (t *Tracker) DeleteTake(i int) {
	tk := t.Takes.Get(i)
	if tk == nil {
		return
	}
	if c := t.grid.At(tk.Pos); c != nil && int(c.Take) == i {
		c.Take = 0
	}
	t.Takes.Delete(i)
}

// CountDeath учитывает подтвержденное убийство монстра i.
func (t *Tracker) CountDeath(i int) {
	k := t.Kills.Get(i)
	if k == nil {
		return
	}
	if k.Race > 0 && k.Race < len(t.raceDeaths) {
		t.raceDeaths[k.Race]++
	}
	if r := t.cat.Race(k.Race); r != nil && r.IsUnique() && t.UniqueOnLevel == k.Race {
		t.UniqueOnLevel = 0
	}
}

// SleepKill отмечает, что монстр уснул.
func (t *Tracker) SleepKill(i int) {
	if k := t.Kills.Get(i); k != nil {
		k.Awake = false
	}
}

// CreateKill заводит монстра расы race в клетке p и возвращает его номер.
func (t *Tracker) CreateKill(race int, p domain.Position) int {
	return t.newKill(race, p, nil)
}

func (t *Tracker) newKill(race int, p domain.Position, truth *MonsterTruth) int {
	i, ok := t.Kills.Free()
	if !ok {
		i = t.Kills.Victim(t.rng)
		t.log.WithFields(logrus.Fields{"tick": t.tick, "slot": i}).Warn("too many monsters, evicting one")
		t.DeleteKill(i)
	}

	if c := t.grid.At(p); c != nil && c.Kill != 0 {
		t.DeleteKill(int(c.Kill))
	}

	t.Kills.Put(i, Kill{
		Race:   race,
		Pos:    p,
		OldPos: p,
		Born:   t.tick,
		When:   t.tick,
	})
	k := t.Kills.Get(i)
	t.updateKill(k, truth)
	if c := t.grid.At(p); c != nil {
		c.Kill = int16(i)
	}
	if race > 0 && race < len(t.raceCount) {
		t.raceCount[race]++
	}

	// Невидимка, о котором недавно говорили, наконец показался.
	if t.fear != nil && t.tick < t.NeedSeeInvisible+5 {
		t.fear.ClearAround(t.player.Pos)
	}

	t.forceTerrain(k)

	t.log.WithFields(logrus.Fields{"tick": t.tick, "slot": i, "race": t.raceName(race), "pos": p}).
		Debug("creating monster")
	return i
}

func (t *Tracker) newTake(kind int, p domain.Position, sg *Sighting) int {
	i, ok := t.Takes.Free()
	if !ok {
		i = t.Takes.Victim(t.rng)
		t.log.WithFields(logrus.Fields{"tick": t.tick, "slot": i}).Warn("too many objects, evicting one")
		t.DeleteTake(i)
	}
	if c := t.grid.At(p); c != nil && c.Take != 0 {
		t.DeleteTake(int(c.Take))
	}

	tk := Take{Kind: kind, Pos: p, Born: t.tick, When: t.tick, Seen: true}
	if k := t.cat.Kind(kind); k != nil {
		tk.TVal = k.TVal
		switch {
		case k.Gold:
			tk.Value = 30
		case k.Aware:
			tk.Value = k.Cost
		default:
			tk.Value = 1
		}
	}
	if sg != nil {
		tk.Glyph = sg.Glyph
		if sg.Object != nil && sg.Object.Worthless {
			tk.Value = -10
		}
	}
	t.Takes.Put(i, tk)

	if c := t.grid.At(p); c != nil {
		c.Take = int16(i)
		if !c.Feat.IsFloor() {
			t.setFeat(c, enums.FeatFloor)
		}
	}

	t.log.WithFields(logrus.Fields{"tick": t.tick, "slot": i, "kind": t.kindName(kind), "pos": p}).
		Debug("creating object")
	return i
}

// updateKill пересчитывает производные поля монстра из расы и точных сведений.
func (t *Tracker) updateKill(k *Kill, truth *MonsterTruth) {
	r := t.cat.Race(k.Race)
	if r == nil {
		return
	}
	k.Level = r.Level
	k.Spells = r.Spells
	k.Ranged = len(r.Spells)
	k.Speed = r.Speed
	k.Power = r.HP
	k.Injury = 0
	k.Awake = true

	if truth != nil {
		k.HostIndex = truth.HostIndex
		if truth.Speed > 0 {
			k.Speed = truth.Speed
		}
		pct := min(max(truth.HPPercent, 0), 100)
		k.Power = r.HP * pct / 100
		k.Injury = 100 - pct
		k.Awake = truth.Sleep == 0
		k.Afraid = truth.Fear != 0
		k.Confused = truth.Confused != 0
		k.Stunned = truth.Stun != 0
	}
	if r.Flags.Has(catalog.RaceNeverMove) {
		k.Awake = true
	}

	k.Moves = MovesPerTurn(t.playerSpeed(), k.Speed)

	if r.IsUnique() {
		t.UniqueOnLevel = k.Race
	}
}

func (t *Tracker) playerSpeed() int {
	if t.player.Speed == 0 {
		return 110
	}
	return t.player.Speed
}

// forceTerrain: под обычным монстром пол, под проходящим сквозь стены -
// гранит, если пол не доказан.
func (t *Tracker) forceTerrain(k *Kill) {
	c := t.grid.At(k.Pos)
	r := t.cat.Race(k.Race)
	if c == nil || r == nil || c.Feat.IsFloor() {
		return
	}
	if r.Flags.Has(catalog.RacePassWall) {
		if c.Feat != enums.FeatGranite {
			t.setFeat(c, enums.FeatGranite)
		}
		return
	}
	t.setFeat(c, enums.FeatFloor)
}

func (t *Tracker) setFeat(c *domain.Cell, f enums.Feat) {
	if c.Feat.IsFloor() != f.IsFloor() {
		c.PathCost = domain.PathCostUnknown
	}
	c.Feat = f
}

// EnforceTerrain повторно утверждает пол под живыми монстрами, не
// проходящими сквозь стены.
func (t *Tracker) EnforceTerrain() {
	t.Kills.Each(func(_ int, k *Kill) {
		r := t.cat.Race(k.Race)
		if r == nil || r.Flags.Has(catalog.RacePassWall) {
			return
		}
		if c := t.grid.At(k.Pos); c != nil && !c.Feat.IsFloor() {
			t.setFeat(c, enums.FeatFloor)
		}
	})
}

func (t *Tracker) raceName(id int) string {
	if r := t.cat.Race(id); r != nil {
		return r.Name
	}
	return "?"
}

func (t *Tracker) kindName(id int) string {
	if k := t.cat.Kind(id); k != nil {
		return k.Name
	}
	return "?"
}

func (t *Tracker) moveKill(i int, k *Kill, to domain.Position) {
	if c := t.grid.At(k.Pos); c != nil && int(c.Kill) == i {
		c.Kill = 0
	}
	k.OldPos = k.Pos
	k.Pos = to
	if c := t.grid.At(to); c != nil {
		c.Kill = int16(i)
	}
}

func (t *Tracker) moveTake(i int, tk *Take, to domain.Position) {
	if c := t.grid.At(tk.Pos); c != nil && int(c.Take) == i {
		c.Take = 0
	}
	tk.Pos = to
	if c := t.grid.At(to); c != nil {
		c.Take = int16(i)
	}
}
