package messages

import (
	"strconv"
	"strings"

	"borg-perception/internal/core/types/enums"
	"borg-perception/internal/domain"
	"borg-perception/internal/fear"
	"borg-perception/internal/tracking"
	"borg-perception/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Config - веса страха для сообщений, не привязанных к монстру.
type Config struct {
	SpellFear        map[string]int
	UnknownSpellFear int
}

// DefaultConfig возвращает таблицу заклинаний по умолчанию.
func DefaultConfig() Config {
	return Config{SpellFear: DefaultSpellFear(), UnknownSpellFear: 50}
}

// Anchors - опорные точки поиска подлежащего.
type Anchors struct {
	Goal domain.Position // цель, выбранная на прошлом ходу
	Old  domain.Position // позиция игрока в прошлом тике
	Now  domain.Position
	// OldPanel - левый верхний угол панели экрана в прошлом тике.
	OldPanel domain.Position
}

type anchor uint8

const (
	atGoal anchor = iota
	atOld
	atNow
)

type effect uint8

const (
	effectState  effect = iota // обновить состояние монстра
	effectDeath                // засчитать смерть и удалить
	effectRemove               // удалить (телепортирован, исчез)
)

// radiusHit - радиус зависит от событий тика (телепорт, землетрясение).
const radiusHit = -1

type rule struct {
	at     anchor
	radius int
	effect effect
}

type passTable map[enums.MessageCategory]rule

func statePass(at anchor) passTable {
	t := passTable{}
	for _, c := range []enums.MessageCategory{
		enums.MsgPain, enums.MsgStateSleep, enums.MsgStateAwake, enums.MsgStateFear,
		enums.MsgStateBold, enums.MsgStateConfused, enums.MsgSpell,
	} {
		t[c] = rule{at, 20, effectState}
	}
	t[enums.MsgDied] = rule{at, 20, effectDeath}
	return t
}

// Второй проход: события вокруг цели, однозначные привязки.
var passGoal = passTable{
	enums.MsgHit:       {atGoal, 0, effectState},
	enums.MsgMiss:      {atGoal, 0, effectState},
	enums.MsgStateFear: {atGoal, 0, effectState},
	enums.MsgStateBold: {atGoal, 0, effectState},
	enums.MsgKill:      {atGoal, 0, effectDeath},
	enums.MsgDied:      {atGoal, 3, effectDeath},
	enums.MsgBlink:     {atGoal, 0, effectRemove},
	enums.MsgPain:      {atGoal, 3, effectState},
}

// Третий проход: шире вокруг цели и вокруг прежней позиции игрока.
var passOld = func() passTable {
	t := statePass(atOld)
	t[enums.MsgHit] = rule{atGoal, radiusHit, effectState}
	t[enums.MsgMiss] = rule{atGoal, radiusHit, effectState}
	t[enums.MsgKill] = rule{atGoal, 1, effectDeath}
	t[enums.MsgBlink] = rule{atGoal, 1, effectRemove}
	t[enums.MsgHitBy] = rule{atOld, 1, effectState}
	t[enums.MsgMissBy] = rule{atOld, 1, effectState}
	return t
}()

// Четвертый проход: вокруг текущей позиции игрока.
var passNow = func() passTable {
	t := statePass(atNow)
	t[enums.MsgHitBy] = rule{atNow, radiusHit, effectState}
	t[enums.MsgMissBy] = rule{atNow, radiusHit, effectState}
	return t
}()

// Report - итог разбора очереди.
type Report struct {
	// ByPass[i] - сколько сообщений разобрал проход i (1..5).
	ByPass  [6]int
	HitDist int
	// Fear - суммарный региональный страх от неразобранных сообщений.
	Fear int
}

// Reactor разбирает очередь сообщений тика.
type Reactor struct {
	cfg    Config
	tr     *tracking.Tracker
	grid   *domain.GridMap
	detect *domain.DetectMap
	fear   *fear.Regional
	log    *logrus.Entry

	oldHP int

	// Ощущения уровня из последних FEELING_* сообщений.
	FeelingDanger int
	FeelingStuff  int
}

// NewReactor создает разборщик над трекером и картами движка.
func NewReactor(cfg Config, tr *tracking.Tracker, g *domain.GridMap, detect *domain.DetectMap, f *fear.Regional) *Reactor {
	if cfg.SpellFear == nil {
		cfg.SpellFear = DefaultSpellFear()
	}
	return &Reactor{
		cfg:    cfg,
		tr:     tr,
		grid:   g,
		detect: detect,
		fear:   f,
		log:    logger.Component("messages"),
	}
}

// NewLevel забывает ощущения прошлого уровня.
func (r *Reactor) NewLevel() {
	r.FeelingDanger = 0
	r.FeelingStuff = 0
}

// Resolve прогоняет очередь через пять проходов. Сообщения, которые не
// удалось привязать ни к одному монстру, превращаются в региональный
// страх у текущей позиции игрока.
func (r *Reactor) Resolve(q *Queue, a Anchors) Report {
	player := r.tr.Player()
	rep := Report{HitDist: 1}
	msgs := q.msgs

	for i := range msgs {
		m := &msgs[i]
		switch m.Category {
		case enums.MsgSelf:
			r.handleSelf(m.Subject, a, player)
		case enums.MsgFeelingDanger:
			r.FeelingDanger = r.feeling(m)
		case enums.MsgFeelingStuff:
			r.FeelingStuff = r.feeling(m)
		default:
			continue
		}
		r.claim(m, 1, &rep)
	}

	for i := range msgs {
		m := &msgs[i]
		if m.Claimed != 0 {
			continue
		}
		if m.Category == enums.MsgAfraid {
			if r.tr.KillAt(a.Goal) == 0 {
				race := r.tr.GuessRaceName(m.Subject)
				r.tr.CreateKill(race, a.Goal)
			}
			r.claim(m, 2, &rep)
			continue
		}
		r.bind(m, passGoal, 2, a, rep.HitDist, &rep)
	}

	rep.HitDist = r.hitDist(msgs)

	for i := range msgs {
		m := &msgs[i]
		if m.Claimed != 0 {
			continue
		}
		r.bind(m, passOld, 3, a, rep.HitDist, &rep)
		if m.Category == enums.MsgSpell && m.Spell == "TRAPS" {
			r.trapsCreated(a, player)
		}
	}

	for i := range msgs {
		m := &msgs[i]
		if m.Claimed != 0 {
			continue
		}
		r.bind(m, passNow, 4, a, rep.HitDist, &rep)
	}

	for i := range msgs {
		m := &msgs[i]
		if m.Claimed != 0 || !m.Category.HasSubject() {
			continue
		}
		k := r.fearOf(m, player)
		r.fear.Add(a.Now, k)
		r.tr.NeedShiftPanel = true
		rep.Fear += k
		r.log.WithFields(logrus.Fields{
			"tick": r.tr.Tick(), "msg": m.String(), "pos": a.Now, "fear": k,
		}).Debug("unresolved message, fearing region")
		r.claim(m, 5, &rep)
	}

	if r.log.Logger.IsLevelEnabled(logrus.TraceLevel) {
		for _, m := range msgs {
			r.log.WithFields(logrus.Fields{"tick": r.tr.Tick(), "pass": m.Claimed}).Trace(m.String())
		}
	}
	r.oldHP = player.HP
	return rep
}

func (r *Reactor) claim(m *Message, pass int, rep *Report) {
	m.Claimed = pass
	rep.ByPass[pass]++
}

func (r *Reactor) bind(m *Message, table passTable, pass int, a Anchors, hitDist int, rep *Report) {
	ru, ok := table[m.Category]
	if !ok {
		return
	}
	radius := ru.radius
	if radius == radiusHit {
		radius = hitDist
	}
	var at domain.Position
	switch ru.at {
	case atGoal:
		at = a.Goal
	case atOld:
		at = a.Old
	case atNow:
		at = a.Now
	}

	i := r.tr.LocateKill(m.Subject, at, radius)
	if i == 0 {
		return
	}
	switch ru.effect {
	case effectDeath:
		r.tr.CountDeath(i)
		r.tr.DeleteKill(i)
	case effectRemove:
		r.tr.DeleteKill(i)
	default:
		r.applyState(i, m)
	}
	r.claim(m, pass, rep)
}

func (r *Reactor) applyState(i int, m *Message) {
	k := r.tr.Kills.Get(i)
	if k == nil {
		return
	}
	switch m.Category {
	case enums.MsgHit, enums.MsgMiss, enums.MsgHitBy, enums.MsgMissBy, enums.MsgSpell, enums.MsgStateAwake:
		k.Awake = true
	case enums.MsgStateSleep:
		r.tr.SleepKill(i)
	case enums.MsgStateFear:
		k.Afraid = true
	case enums.MsgStateBold:
		k.Afraid = false
	case enums.MsgStateConfused:
		k.Confused = true
	case enums.MsgPain:
		k.Injury = min(k.Injury+10, 99)
	}
}

// hitDist: после телепорта игрока к монстру (или монстра прочь) удар
// может прийти откуда угодно, после землетрясения - с трех клеток.
// Решает первое такое событие в очереди.
func (r *Reactor) hitDist(msgs []Message) int {
	for _, m := range msgs {
		if m.Claimed != 0 {
			continue
		}
		switch m.Category {
		case enums.MsgSpell:
			if relocates(m.Spell) {
				return 100
			}
			return 1
		case enums.MsgQuake:
			return 3
		}
	}
	return 1
}

func (r *Reactor) fearOf(m *Message, player domain.PlayerState) int {
	scale := player.Depth/5 + 1
	switch m.Category {
	case enums.MsgHitBy:
		return 4 * scale
	case enums.MsgMissBy:
		return 2 * scale
	case enums.MsgSpell:
		return r.spellFear(m.Spell, player)
	}
	return scale
}

func (r *Reactor) spellFear(spell string, player domain.PlayerState) int {
	p, ok := r.cfg.SpellFear[spell]
	if !ok {
		p = r.cfg.UnknownSpellFear
		r.log.WithField("spell", spell).Info("unknown monster spell")
	}
	if damaging(spell) && r.oldHP > player.HP {
		p += (r.oldHP - player.HP) * 2
	}
	return p + player.Depth*2
}

func (r *Reactor) feeling(m *Message) int {
	v, err := strconv.Atoi(strings.TrimSpace(m.Subject))
	if err != nil {
		r.log.WithError(err).WithField("msg", m.String()).Info("bad level feeling")
		return 0
	}
	return v
}

// handleSelf - результат собственного заклинания игрока: свет или
// обнаружение на панели прошлого тика.
func (r *Reactor) handleSelf(what string, a Anchors, player domain.PlayerState) {
	row, col := a.OldPanel.Region()
	fields := logrus.Fields{"tick": r.tr.Tick(), "what": what, "row": row, "col": col}

	switch {
	case strings.HasPrefix(what, "lite"):
		if player.LightRadius == 0 {
			for _, p := range square(a.Now, 1) {
				r.glow(p)
			}
		}
		for _, p := range square(a.Now, domain.MaxLightRadius) {
			if c := r.grid.At(p); c != nil && c.Flags.Has(domain.FlagTorchLit) {
				r.glow(p)
			}
		}
	case strings.HasPrefix(what, "wall"):
		r.detect.MarkAround(domain.DetectWalls, row, col)
	case strings.HasPrefix(what, "trap"):
		r.detect.MarkAround(domain.DetectTraps, row, col)
	case strings.HasPrefix(what, "door"):
		r.detect.MarkAround(domain.DetectDoors, row, col)
	case strings.HasPrefix(what, "both"):
		r.detect.MarkAround(domain.DetectTraps, row, col)
		r.detect.MarkAround(domain.DetectDoors, row, col)
	case strings.HasPrefix(what, "TDE"):
		r.detect.MarkAround(domain.DetectTraps, row, col)
		r.detect.MarkAround(domain.DetectDoors, row, col)
		r.detect.MarkAround(domain.DetectEvil, row, col)
	case strings.HasPrefix(what, "evil"):
		r.detect.MarkAround(domain.DetectEvil, row, col)
	case strings.HasPrefix(what, "obj"):
		r.detect.MarkAround(domain.DetectObjects, row, col)
	default:
		r.log.WithFields(fields).Info("unknown self message")
		return
	}
	r.log.WithFields(fields).Debug("self")
}

func (r *Reactor) glow(p domain.Position) {
	if c := r.grid.At(p); c != nil {
		c.Flags |= domain.FlagGlow
		c.Flags &^= domain.FlagDark
	}
}

// trapsCreated: монстр наколдовал ловушки вокруг игрока. Прежнее
// обнаружение ловушек на панели больше не действует, а известный пол
// рядом считается заминированным.
func (r *Reactor) trapsCreated(a Anchors, player domain.PlayerState) {
	row, col := a.OldPanel.Region()
	for dr := 0; dr < 2; dr++ {
		for dc := 0; dc < 2; dc++ {
			r.detect.Clear(domain.DetectTraps, row+dr, col+dc)
		}
	}
	for _, d := range domain.Directions8 {
		c := r.grid.At(player.Pos.Add(d))
		if c == nil || c.Feat == enums.FeatNone || !c.Feat.IsFloor() {
			continue
		}
		c.Trap = true
	}
	r.log.WithFields(logrus.Fields{"tick": r.tr.Tick(), "pos": player.Pos}).Info("traps created around the player")
}

func square(c domain.Position, r int) []domain.Position {
	out := make([]domain.Position, 0, (2*r+1)*(2*r+1))
	for y := c.Y - r; y <= c.Y+r; y++ {
		for x := c.X - r; x <= c.X+r; x++ {
			out = append(out, domain.Position{X: x, Y: y})
		}
	}
	return out
}
