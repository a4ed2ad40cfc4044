// Package hostio читает экран игры через tcell и отвечает на запросы
// хоста нажатиями клавиш.
package hostio

import (
	"strings"

	"borg-perception/internal/core/types"
	"borg-perception/internal/domain"
	"borg-perception/internal/engine"
	"borg-perception/internal/ingest"
	"borg-perception/pkg/logger"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
)

// Layout - где на экране игры лежат карта и служебные строки.
type Layout struct {
	MapLeft   int `yaml:"mapLeft" json:"mapLeft"`
	MapTop    int `yaml:"mapTop" json:"mapTop"`
	Width     int `yaml:"width" json:"width"`
	Height    int `yaml:"height" json:"height"`
	PromptRow int `yaml:"promptRow" json:"promptRow"` // строка сообщений и запросов
}

// DefaultLayout - стандартный экран 80x24: боковая панель 13 колонок,
// сообщения в первой строке.
func DefaultLayout() Layout {
	return Layout{MapLeft: 13, MapTop: 1, Width: 66, Height: 22, PromptRow: 0}
}

// Terminal - экран хоста.
type Terminal struct {
	screen tcell.Screen
	layout Layout
	log    *logrus.Entry
}

func NewTerminal(s tcell.Screen, l Layout) *Terminal {
	return &Terminal{screen: s, layout: l, log: logger.Component("hostio")}
}

// Capture снимает область карты в кадр. panel - координаты подземелья
// левого верхнего угла карты на экране.
func (t *Terminal) Capture(panel domain.Position, player domain.PlayerState) *ingest.Frame {
	f := ingest.NewFrame(panel, t.layout.Width, t.layout.Height)
	f.Player = player
	for dy := 0; dy < t.layout.Height; dy++ {
		for dx := 0; dx < t.layout.Width; dx++ {
			r, _, style, _ := t.screen.GetContent(t.layout.MapLeft+dx, t.layout.MapTop+dy)
			f.At(dx, dy).Glyph = glyphOf(r, style)
		}
	}
	return f
}

// Draw выводит кадр на экран. Используется синтетическим хостом.
func (t *Terminal) Draw(f *ingest.Frame) {
	for dy := 0; dy < f.Height && dy < t.layout.Height; dy++ {
		for dx := 0; dx < f.Width && dx < t.layout.Width; dx++ {
			r, style := styleOf(f.At(dx, dy).Glyph)
			t.screen.SetContent(t.layout.MapLeft+dx, t.layout.MapTop+dy, r, nil, style)
		}
	}
}

// Line возвращает текст строки экрана без хвостовых пробелов.
func (t *Terminal) Line(row int) string {
	w, _ := t.screen.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := t.screen.GetContent(x, row)
		sb.WriteRune(r)
	}
	return strings.TrimRight(sb.String(), " ")
}

// WriteLine печатает текст в строке, затирая остаток строки.
func (t *Terminal) WriteLine(row int, text string) {
	w, _ := t.screen.Size()
	style := tcell.StyleDefault.Foreground(attrColor(types.AttrWhite))
	x := 0
	for _, r := range text {
		if x >= w {
			break
		}
		t.screen.SetContent(x, row, r, nil, style)
		x++
	}
	for ; x < w; x++ {
		t.screen.SetContent(x, row, ' ', nil, tcell.StyleDefault)
	}
}

// Press отправляет нажатие клавиши в очередь событий экрана.
func (t *Terminal) Press(key rune) error {
	var ev *tcell.EventKey
	switch key {
	case engine.KeyNone:
		return nil
	case engine.KeyEscape:
		ev = tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)
	default:
		ev = tcell.NewEventKey(tcell.KeyRune, key, tcell.ModNone)
	}
	if err := t.screen.PostEvent(ev); err != nil {
		t.log.WithError(err).WithField("key", string(key)).Warn("key press dropped")
		return err
	}
	return nil
}

func attrColor(a types.Attr) tcell.Color {
	c := types.Palette[a%types.AttrCount]
	return tcell.NewRGBColor(int32(c[0]), int32(c[1]), int32(c[2]))
}

func styleOf(g types.Glyph) (rune, tcell.Style) {
	ch := g.Char()
	if ch == 0 {
		ch = ' '
	}
	return rune(ch), tcell.StyleDefault.Foreground(attrColor(g.Attr()))
}

// glyphOf переводит клетку экрана в символ и ближайший цвет палитры.
// Символы вне ASCII считаются пустыми.
func glyphOf(r rune, style tcell.Style) types.Glyph {
	if r <= ' ' || r > '~' {
		return types.EmptyGlyph
	}
	fg, _, _ := style.Decompose()
	attr := types.AttrWhite
	if red, green, blue := fg.RGB(); red >= 0 {
		attr = types.NearestAttr(red, green, blue)
	}
	return types.MakeGlyph(attr, byte(r))
}
