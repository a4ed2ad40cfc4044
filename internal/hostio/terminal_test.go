package hostio

import (
	"testing"

	"borg-perception/internal/catalog"
	"borg-perception/internal/core/types"
	"borg-perception/internal/domain"
	"borg-perception/internal/engine"
	"borg-perception/pkg/dungeon"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	scr := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, scr.Init())
	scr.SetSize(80, 24)
	t.Cleanup(scr.Fini)
	return scr
}

func testLevel(t *testing.T) *dungeon.Level {
	t.Helper()
	level, err := dungeon.ParseLayout(catalog.Default(), 1, []string{
		"##########",
		"#@...k...#",
		"#..$..%..#",
		"#....<...#",
		"##########",
	})
	require.NoError(t, err)
	return level
}

func TestTerminal_DrawCaptureRoundTrip(t *testing.T) {
	term := NewTerminal(newScreen(t), DefaultLayout())
	level := testLevel(t)

	want := level.Render(domain.Position{}, 66, 22, false)
	term.Draw(want)
	got := term.Capture(domain.Position{}, level.Player)

	require.Equal(t, want.Width, got.Width)
	for y := 0; y < 7; y++ {
		for x := 0; x < 12; x++ {
			assert.Equal(t, want.At(x, y).Glyph, got.At(x, y).Glyph, "cell %d,%d", x, y)
		}
	}
	assert.Equal(t, types.MakeGlyph(types.AttrGreen, 'k'), got.At(6, 2).Glyph)
	assert.Equal(t, level.Player, got.Player)
}

func TestTerminal_Lines(t *testing.T) {
	term := NewTerminal(newScreen(t), DefaultLayout())

	term.WriteLine(0, "You hit the kobold. -more-")
	assert.Equal(t, "You hit the kobold. -more-", term.Line(0))

	term.WriteLine(0, "Ok")
	assert.Equal(t, "Ok", term.Line(0))
	assert.Equal(t, "", term.Line(5))
}

func TestTerminal_Press(t *testing.T) {
	scr := newScreen(t)
	term := NewTerminal(scr, DefaultLayout())

	require.NoError(t, term.Press(' '))
	require.NoError(t, term.Press(engine.KeyEscape))
	require.NoError(t, term.Press(engine.KeyNone))

	ev, ok := scr.PollEvent().(*tcell.EventKey)
	require.True(t, ok)
	assert.Equal(t, tcell.KeyRune, ev.Key())
	assert.Equal(t, ' ', ev.Rune())

	ev, ok = scr.PollEvent().(*tcell.EventKey)
	require.True(t, ok)
	assert.Equal(t, tcell.KeyEscape, ev.Key())
	assert.False(t, scr.HasPendingEvent())
}

func TestGlyphOf_DefaultColorIsWhite(t *testing.T) {
	assert.Equal(t, types.MakeGlyph(types.AttrWhite, 'k'), glyphOf('k', tcell.StyleDefault))
	assert.Equal(t, types.EmptyGlyph, glyphOf('─', tcell.StyleDefault))
}

func TestHost_Sync(t *testing.T) {
	scr := newScreen(t)
	term := NewTerminal(scr, DefaultLayout())
	level := testLevel(t)

	e, err := engine.New(engine.NewConfig(), catalog.Default())
	require.NoError(t, err)
	host := NewHost(term, e)

	term.Draw(level.Render(domain.Position{}, 66, 22, false))
	rep, err := host.Sync(domain.Position{}, level.Player)
	require.NoError(t, err)
	assert.True(t, rep.Framed)
	assert.Equal(t, level.Player.Pos, e.Player().Pos)
	assert.Equal(t, 1, rep.Kills)

	// Запрос в строке сообщений: клавиша нажата, кадр пропущен
	term.WriteLine(0, "The kobold hits you. -more-")
	rep, err = host.Sync(domain.Position{}, level.Player)
	require.NoError(t, err)
	assert.False(t, rep.Framed)

	ev, ok := scr.PollEvent().(*tcell.EventKey)
	require.True(t, ok)
	assert.Equal(t, ' ', ev.Rune())
}
