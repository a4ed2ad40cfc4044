package systems

import (
	"testing"

	"borg-perception/internal/core/types/enums"
	"borg-perception/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecomputeView_OpenRoom(t *testing.T) {
	g := domain.NewGridMap()
	room(g, 10, 10, 20, 20)
	v := NewVisibility(g)

	v.RecomputeView(pos(15, 15))

	for y := 10; y <= 20; y++ {
		for x := 10; x <= 20; x++ {
			assert.True(t, g.HasFlags(x, y, domain.FlagInView), "floor (%d,%d) not in view", x, y)
		}
	}
	for _, p := range []domain.Position{pos(9, 15), pos(21, 15), pos(15, 9), pos(15, 21), pos(9, 9), pos(21, 21)} {
		assert.True(t, g.HasFlags(p.X, p.Y, domain.FlagInView), "wall %v should be drawn", p)
	}
	for _, p := range []domain.Position{pos(8, 15), pos(15, 22), pos(30, 30)} {
		assert.False(t, g.HasFlags(p.X, p.Y, domain.FlagInView), "%v is behind a wall", p)
	}

	assert.Equal(t, v.ViewSize(), countFlag(g, domain.FlagInView))
	assert.Zero(t, countFlag(g, domain.FlagEasyView), "easy-view is scratch state")
}

func TestRecomputeView_PillarShadow(t *testing.T) {
	g := domain.NewGridMap()
	room(g, 10, 10, 30, 20)
	setFeat(g, 17, 15, enums.FeatGranite)
	v := NewVisibility(g)

	v.RecomputeView(pos(15, 15))

	assert.True(t, g.HasFlags(17, 15, domain.FlagInView), "pillar itself is visible")
	assert.False(t, g.HasFlags(19, 15, domain.FlagInView))
	assert.False(t, g.HasFlags(25, 15, domain.FlagInView))
	assert.True(t, g.HasFlags(15, 11, domain.FlagInView))
}

func TestRecomputeView_MoveClearsOldCells(t *testing.T) {
	g := domain.NewGridMap()
	room(g, 10, 10, 20, 20)
	room(g, 40, 10, 50, 20)
	v := NewVisibility(g)

	v.RecomputeView(pos(15, 15))
	require.True(t, g.HasFlags(12, 12, domain.FlagInView))

	v.RecomputeView(pos(45, 15))
	assert.False(t, g.HasFlags(12, 12, domain.FlagInView))
	assert.True(t, g.HasFlags(42, 12, domain.FlagInView))
	assert.Equal(t, v.ViewSize(), countFlag(g, domain.FlagInView))

	v.Forget()
	assert.Zero(t, countFlag(g, domain.FlagInView))
}

func TestRecomputeView_Idempotent(t *testing.T) {
	g := domain.NewGridMap()
	room(g, 10, 10, 30, 20)
	setFeat(g, 20, 14, enums.FeatGranite)
	v := NewVisibility(g)

	v.RecomputeView(pos(12, 15))
	first := v.InView()
	v.RecomputeView(pos(12, 15))

	assert.ElementsMatch(t, first, v.InView())
}

func TestMarkHost_ClearedByNextRecompute(t *testing.T) {
	g := domain.NewGridMap()
	room(g, 10, 10, 20, 20)
	room(g, 40, 10, 50, 20)
	v := NewVisibility(g)

	v.RecomputeView(pos(15, 15))
	size := v.ViewSize()
	v.MarkHost([]domain.Position{pos(45, 15), pos(15, 15)})

	assert.True(t, g.HasFlags(45, 15, domain.FlagInView))
	assert.Equal(t, size+1, v.ViewSize(), "already visible cell is not listed twice")

	v.RecomputeView(pos(15, 15))
	assert.False(t, g.HasFlags(45, 15, domain.FlagInView))
	assert.Equal(t, size, v.ViewSize())
}
