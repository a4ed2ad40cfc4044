package tracking

import (
	"math/rand"
	"testing"

	"borg-perception/internal/catalog"
	"borg-perception/internal/core/types"
	"borg-perception/internal/core/types/enums"
	"borg-perception/internal/domain"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	tr   *Tracker
	grid *domain.GridMap
	cat  *catalog.Catalog
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	cat := catalog.Default()
	g := domain.NewGridMap()
	// Освещенная комната на экране, целиком в поле зрения.
	for y := 3; y <= 20; y++ {
		for x := 3; x <= 40; x++ {
			c := g.AtXY(x, y)
			c.Feat = enums.FeatFloor
			c.Flags |= domain.FlagOnScreen | domain.FlagInView | domain.FlagGlow
		}
	}
	return &fixture{
		tr:   New(cfg, cat, g, rand.New(rand.NewSource(1))),
		grid: g,
		cat:  cat,
	}
}

func (f *fixture) race(t *testing.T, name string) int {
	t.Helper()
	id, ok := f.cat.RaceID(name)
	require.True(t, ok, "race %q", name)
	return id
}

func (f *fixture) kind(t *testing.T, name string) int {
	t.Helper()
	id, ok := f.cat.KindID(name)
	require.True(t, ok, "kind %q", name)
	return id
}

func (f *fixture) begin(tick int, player domain.PlayerState) {
	f.tr.Begin(tick, player, player.Pos)
}

func (f *fixture) monster(race int, x, y int) Sighting {
	r := f.cat.Race(race)
	return Sighting{Pos: pos(x, y), Glyph: types.MakeGlyph(r.Attr, r.Char), IsKill: true}
}

func (f *fixture) object(kind int, x, y int) Sighting {
	k := f.cat.Kind(kind)
	return Sighting{Pos: pos(x, y), Glyph: types.MakeGlyph(k.Attr, k.Char), IsTake: true}
}

func (f *fixture) reconcile(list ...Sighting) *Sightings {
	s := NewSightings(100)
	for _, sg := range list {
		s.Add(sg)
	}
	f.tr.Reconcile(s)
	return s
}

func pos(x, y int) domain.Position {
	return domain.Position{X: x, Y: y}
}

func player(x, y int) domain.PlayerState {
	return domain.PlayerState{Pos: pos(x, y), Depth: 5, Speed: 110}
}
