package messages

import (
	"math/rand"
	"testing"

	"borg-perception/internal/catalog"
	"borg-perception/internal/core/types/enums"
	"borg-perception/internal/domain"
	"borg-perception/internal/fear"
	"borg-perception/internal/tracking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	cat    *catalog.Catalog
	grid   *domain.GridMap
	tr     *tracking.Tracker
	detect *domain.DetectMap
	fear   *fear.Regional
	r      *Reactor
	q      *Queue
	player domain.PlayerState
}

func newEnv(t *testing.T) *env {
	t.Helper()
	cat := catalog.Default()
	g := domain.NewGridMap()
	for y := 3; y <= 20; y++ {
		for x := 3; x <= 40; x++ {
			c := g.AtXY(x, y)
			c.Feat = enums.FeatFloor
			c.Flags |= domain.FlagOnScreen | domain.FlagInView | domain.FlagGlow
		}
	}
	tr := tracking.New(tracking.DefaultConfig(), cat, g, rand.New(rand.NewSource(1)))
	e := &env{
		cat:    cat,
		grid:   g,
		tr:     tr,
		detect: &domain.DetectMap{},
		fear:   &fear.Regional{},
		q:      NewQueue(256, 4096),
		player: domain.PlayerState{Pos: domain.Position{X: 10, Y: 10}, Depth: 5, Level: 10, Speed: 110, HP: 50},
	}
	e.r = NewReactor(DefaultConfig(), tr, g, e.detect, e.fear)
	tr.Begin(10, e.player, e.player.Pos)
	return e
}

func (e *env) race(t *testing.T, name string) int {
	t.Helper()
	id, ok := e.cat.RaceID(name)
	require.True(t, ok, name)
	return id
}

func (e *env) push(t *testing.T, raw string) {
	t.Helper()
	m, err := ParseRaw(raw)
	require.NoError(t, err)
	require.True(t, e.q.Push(m))
}

func (e *env) resolve(goal domain.Position) Report {
	return e.r.Resolve(e.q, Anchors{Goal: goal, Old: e.player.Pos, Now: e.player.Pos})
}

func TestParseRaw(t *testing.T) {
	tests := []struct {
		raw     string
		cat     enums.MessageCategory
		subject string
		spell   string
		wantErr bool
	}{
		{raw: "HIT:the kobold", cat: enums.MsgHit, subject: "the kobold"},
		{raw: "STATE__FEAR:the jackal", cat: enums.MsgStateFear, subject: "the jackal"},
		{raw: "SPELL_BR_FIRE:the baby blue dragon", cat: enums.MsgSpell, subject: "the baby blue dragon", spell: "BR_FIRE"},
		{raw: "FEELING_DANGER:4", cat: enums.MsgFeelingDanger, subject: "4"},
		{raw: "SELF:lite", cat: enums.MsgSelf, subject: "lite"},
		{raw: "no tag here", wantErr: true},
		{raw: "BOGUS:x", wantErr: true},
		{raw: "SPELL_:x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			m, err := ParseRaw(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cat, m.Category)
			assert.Equal(t, tt.subject, m.Subject)
			assert.Equal(t, tt.spell, m.Spell)
		})
	}
}

func TestQueue_OverflowDrops(t *testing.T) {
	q := NewQueue(2, 4096)
	assert.True(t, q.Push(Message{Category: enums.MsgHit, Subject: "the kobold"}))
	assert.True(t, q.Push(Message{Category: enums.MsgHit, Subject: "the kobold"}))
	assert.False(t, q.Push(Message{Category: enums.MsgHit, Subject: "the kobold"}))
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, 1, q.Dropped())

	q = NewQueue(10, 16)
	assert.True(t, q.Push(Message{Category: enums.MsgHit, Subject: "the kobold"}))
	assert.False(t, q.Push(Message{Category: enums.MsgHit, Subject: "the kobold"}), "byte budget")

	q.Reset()
	assert.Zero(t, q.Len())
	assert.Zero(t, q.Dropped())
}

func TestResolve_KillCountsDeath(t *testing.T) {
	e := newEnv(t)
	kobold := e.race(t, "kobold")
	goal := domain.Position{X: 11, Y: 10}
	e.tr.CreateKill(kobold, goal)
	e.push(t, "KILL:the kobold")

	rep := e.resolve(goal)

	assert.Equal(t, 1, rep.ByPass[2])
	assert.Equal(t, 1, e.tr.RaceDeaths(kobold))
	assert.Zero(t, e.tr.Kills.Len())
	assert.Zero(t, rep.Fear)
}

func TestResolve_UnlocatedDeathBecomesFear(t *testing.T) {
	e := newEnv(t)
	kobold := e.race(t, "kobold")
	e.push(t, "KILL:The kobold")

	rep := e.resolve(domain.Position{X: 12, Y: 10})

	assert.Equal(t, 1, rep.ByPass[5])
	assert.Equal(t, 2, rep.Fear, "depth 5 scales fear by 2")
	assert.Equal(t, 2, e.fear.At(10, 10))
	assert.Zero(t, e.tr.Kills.Len())
	assert.Zero(t, e.tr.RaceDeaths(kobold))
	assert.True(t, e.tr.NeedShiftPanel)
}

func TestResolve_StateChanges(t *testing.T) {
	e := newEnv(t)
	orc := e.race(t, "cave orc")
	goal := domain.Position{X: 12, Y: 10}
	i := e.tr.CreateKill(orc, goal)
	k := e.tr.Kills.Get(i)
	k.Awake = true

	e.push(t, "STATE__FEAR:the cave orc")
	e.push(t, "PAIN:the cave orc")
	e.resolve(goal)
	assert.True(t, k.Afraid)
	assert.Equal(t, 10, k.Injury)

	e.q.Reset()
	e.push(t, "STATE__BOLD:the cave orc")
	e.push(t, "STATE_SLEEP:the cave orc")
	e.push(t, "STATE_CONFUSED:the cave orc")
	rep := e.resolve(goal)
	assert.False(t, k.Afraid)
	assert.False(t, k.Awake)
	assert.True(t, k.Confused)
	assert.Zero(t, rep.ByPass[5])
}

func TestResolve_PainInjuryIsCapped(t *testing.T) {
	e := newEnv(t)
	orc := e.race(t, "cave orc")
	goal := domain.Position{X: 12, Y: 10}
	k := e.tr.Kills.Get(e.tr.CreateKill(orc, goal))
	k.Injury = 95

	e.push(t, "PAIN:the cave orc")
	e.resolve(goal)

	assert.Equal(t, 99, k.Injury)
}

func TestResolve_AfraidCreatesKillAtGoal(t *testing.T) {
	e := newEnv(t)
	goal := domain.Position{X: 11, Y: 11}
	e.push(t, "AFRAID:the jackal")

	rep := e.resolve(goal)

	assert.Equal(t, 1, rep.ByPass[2])
	i := e.tr.KillAt(goal)
	require.NotZero(t, i)
	assert.Equal(t, e.race(t, "jackal"), e.tr.Kills.Get(i).Race)
}

func TestResolve_HitDist(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want int
	}{
		{"default", []string{"HIT_BY:the kobold"}, 1},
		{"teleport to", []string{"SPELL_TELE_TO:Wormtongue, Agent of Saruman", "HIT_BY:the kobold"}, 100},
		{"quake", []string{"QUAKE:", "HIT_BY:the kobold"}, 3},
		{"first event decides", []string{"SPELL_BLIND:the dark elven priest", "QUAKE:"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			for _, raw := range tt.raw {
				e.push(t, raw)
			}
			rep := e.resolve(domain.Position{X: 30, Y: 15})
			assert.Equal(t, tt.want, rep.HitDist)
		})
	}
}

func TestResolve_InvisibleAttacker(t *testing.T) {
	e := newEnv(t)
	e.push(t, "HIT_BY:It")

	rep := e.resolve(domain.Position{X: 30, Y: 15})

	assert.Equal(t, 10, e.tr.NeedSeeInvisible)
	assert.Equal(t, 8, rep.Fear, "hit by something unseen at depth 5")
}

func TestResolve_SpellFearIncludesDamage(t *testing.T) {
	e := newEnv(t)
	e.resolve(domain.Position{}) // запоминает хиты прошлого тика

	e.player.HP = 40
	e.tr.Begin(11, e.player, e.player.Pos)
	e.push(t, "SPELL_BR_ELEC:the baby blue dragon")
	rep := e.resolve(domain.Position{X: 30, Y: 15})

	// 20 за дыхание, 2*10 за потерянные хиты, 2*5 за глубину.
	assert.Equal(t, 50, rep.Fear)
}

func TestResolve_TrapsSpell(t *testing.T) {
	e := newEnv(t)
	e.detect.MarkAround(domain.DetectTraps, 0, 0)
	e.push(t, "SPELL_TRAPS:Wormtongue, Agent of Saruman")

	e.resolve(domain.Position{X: 30, Y: 15})

	for _, d := range domain.Directions8 {
		assert.True(t, e.grid.At(e.player.Pos.Add(d)).Trap, "trap at %v", d)
	}
	assert.False(t, e.grid.At(e.player.Pos).Trap)
	assert.False(t, e.detect.Detected(domain.DetectTraps, 0, 0))
	assert.False(t, e.detect.Detected(domain.DetectTraps, 1, 1))
}

func TestResolve_SelfAndFeelings(t *testing.T) {
	e := newEnv(t)
	e.grid.AtXY(9, 9).Flags = domain.FlagDark
	e.push(t, "SELF:both")
	e.push(t, "SELF:lite")
	e.push(t, "FEELING_DANGER:4")
	e.push(t, "FEELING_STUFF:7")

	rep := e.resolve(domain.Position{})

	assert.Equal(t, 4, rep.ByPass[1])
	assert.True(t, e.detect.Detected(domain.DetectTraps, 1, 1))
	assert.True(t, e.detect.Detected(domain.DetectDoors, 0, 1))
	assert.False(t, e.detect.Detected(domain.DetectEvil, 0, 0))
	assert.Equal(t, 4, e.r.FeelingDanger)
	assert.Equal(t, 7, e.r.FeelingStuff)

	c := e.grid.AtXY(9, 9)
	assert.True(t, c.Flags.Has(domain.FlagGlow), "no light source: 3x3 glows")
	assert.False(t, c.Flags.Has(domain.FlagDark))
}
