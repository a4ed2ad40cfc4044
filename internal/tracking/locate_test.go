package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuessRaceName(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.begin(1, player(10, 10))

	tests := []struct {
		who  string
		want string
	}{
		{who: "The cave orc", want: "cave orc"},
		{who: "the Cave Orc", want: "cave orc"},
		{who: "Grip, Farmer Maggot's Dog", want: "Grip, Farmer Maggot's Dog"},
		{who: "The jackal (offscreen)", want: "jackal"},
		{who: "Bob", want: "player ghost"},
		{who: "The unheard-of beast", want: "player ghost"},
	}
	for _, tt := range tests {
		t.Run(tt.who, func(t *testing.T) {
			got := f.tr.GuessRaceName(tt.who)
			assert.Equal(t, tt.want, f.cat.Race(got).Name)
		})
	}
}

func TestLocateKill(t *testing.T) {
	t.Run("same race nearby is bound and confirmed", func(t *testing.T) {
		f := newFixture(t, DefaultConfig())
		orc := f.race(t, "cave orc")
		f.begin(1, player(10, 10))
		i := f.tr.CreateKill(orc, pos(12, 10))

		got := f.tr.LocateKill("The cave orc", pos(11, 10), 0)
		require.Equal(t, i, got)
		assert.True(t, f.tr.Kills.Get(i).Known)
		assert.Equal(t, 1, f.tr.Kills.Len())
	})

	t.Run("nearest wins", func(t *testing.T) {
		f := newFixture(t, DefaultConfig())
		orc := f.race(t, "cave orc")
		f.begin(1, player(10, 10))
		f.tr.CreateKill(orc, pos(25, 10))
		near := f.tr.CreateKill(orc, pos(14, 10))

		assert.Equal(t, near, f.tr.LocateKill("The cave orc", pos(10, 10), 1))
	})

	t.Run("similar race is converted", func(t *testing.T) {
		f := newFixture(t, DefaultConfig())
		white := f.race(t, "white worm mass")
		clearWorm := f.race(t, "clear worm mass")
		f.begin(1, player(10, 10))
		i := f.tr.CreateKill(white, pos(11, 10))

		require.Equal(t, i, f.tr.LocateKill("The clear worm mass", pos(10, 10), 1))
		assert.Equal(t, clearWorm, f.tr.Kills.Get(i).Race)
		assert.False(t, f.tr.Kills.Get(i).Known)
	})

	t.Run("race is counted once per monster", func(t *testing.T) {
		f := newFixture(t, DefaultConfig())
		orc := f.race(t, "cave orc")
		white := f.race(t, "white worm mass")
		clearWorm := f.race(t, "clear worm mass")
		f.begin(1, player(10, 10))
		i := f.tr.CreateKill(orc, pos(12, 10))
		f.tr.CreateKill(white, pos(20, 15))
		require.Equal(t, 1, f.tr.RaceCount(orc))

		for radius := 0; radius < 3; radius++ {
			require.Equal(t, i, f.tr.LocateKill("The cave orc", pos(11, 10), radius))
		}
		assert.Equal(t, 1, f.tr.RaceCount(orc))

		assert.Zero(t, f.tr.LocateKill("The kobold", pos(10, 10), 0))
		assert.Zero(t, f.tr.RaceCount(f.race(t, "kobold")))

		require.NotZero(t, f.tr.LocateKill("The clear worm mass", pos(20, 15), 1))
		assert.Equal(t, 1, f.tr.RaceCount(clearWorm))
	})

	t.Run("invisible subject", func(t *testing.T) {
		f := newFixture(t, DefaultConfig())
		f.begin(42, player(10, 10))

		assert.Zero(t, f.tr.LocateKill("It", pos(10, 10), 20))
		assert.Zero(t, f.tr.LocateKill("Something", pos(10, 10), 20))
		assert.Equal(t, 42, f.tr.NeedSeeInvisible)
	})

	t.Run("offscreen subject", func(t *testing.T) {
		f := newFixture(t, DefaultConfig())
		f.begin(1, player(10, 10))

		assert.Zero(t, f.tr.LocateKill("The kobold (offscreen)", pos(10, 10), 20))
		assert.True(t, f.tr.NeedShiftPanel)
	})

	t.Run("nothing to bind", func(t *testing.T) {
		f := newFixture(t, DefaultConfig())
		orc := f.race(t, "cave orc")
		f.begin(1, player(10, 10))
		f.tr.CreateKill(orc, pos(38, 18))

		assert.Zero(t, f.tr.LocateKill("The kobold", pos(10, 10), 0))
		assert.Equal(t, 1, f.tr.Kills.Len())
	})
}
