// Package ingest превращает снимок экрана в записи рельефа и список
// неразобранных наблюдений для трекера.
package ingest

import (
	"fmt"

	"borg-perception/internal/core/types"
	"borg-perception/internal/core/types/enums"
	"borg-perception/internal/domain"
	"borg-perception/internal/tracking"
)

// Lighting - освещенность клетки по данным хоста.
type Lighting uint8

const (
	LightUnknown Lighting = iota
	LightDark
	LightLit   // постоянно освещена
	LightTorch // освещена светом игрока или в прямой видимости
)

var lightingNames = map[Lighting]string{
	LightUnknown: "",
	LightDark:    "dark",
	LightLit:     "lit",
	LightTorch:   "torch",
}

func (l Lighting) String() string { return lightingNames[l] }

// MarshalText/UnmarshalText - для JSON и YAML записей сессий.
func (l Lighting) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *Lighting) UnmarshalText(b []byte) error {
	for k, v := range lightingNames {
		if v == string(b) {
			*l = k
			return nil
		}
	}
	return fmt.Errorf("unknown lighting %q", b)
}

// Truth - точные сведения хоста о клетке в прямой видимости. Если они
// есть, классификация по символу не нужна.
type Truth struct {
	Feat     enums.Feat `json:"feat"`
	Lighting Lighting   `json:"lighting,omitempty"`
	InView   bool       `json:"inView,omitempty"`
	Store    int        `json:"store,omitempty"`
	Trap     bool       `json:"trap,omitempty"`
	Warding  bool       `json:"warding,omitempty"`
	Player   bool       `json:"player,omitempty"`

	Monster *tracking.MonsterTruth `json:"monster,omitempty"`
	Object  *tracking.ObjectTruth  `json:"object,omitempty"`
}

// FrameCell - одна клетка экрана.
type FrameCell struct {
	Glyph types.Glyph `json:"glyph"`
	Truth *Truth      `json:"truth,omitempty"`
}

// Frame - снимок видимой части карты. Panel - координаты подземелья,
// соответствующие левому верхнему углу области; Cells идут построчно.
type Frame struct {
	Panel  domain.Position    `json:"panel"`
	Width  int                `json:"width"`
	Height int                `json:"height"`
	Cells  []FrameCell        `json:"cells"`
	Player domain.PlayerState `json:"player"`
}

// NewFrame создает пустой кадр заданного размера.
func NewFrame(panel domain.Position, w, h int) *Frame {
	return &Frame{Panel: panel, Width: w, Height: h, Cells: make([]FrameCell, w*h)}
}

// At возвращает клетку кадра по экранным координатам или nil.
func (f *Frame) At(dx, dy int) *FrameCell {
	if dx < 0 || dy < 0 || dx >= f.Width || dy >= f.Height {
		return nil
	}
	return &f.Cells[dy*f.Width+dx]
}

// Set записывает символ по координатам подземелья.
func (f *Frame) Set(p domain.Position, g types.Glyph) {
	if c := f.At(p.X-f.Panel.X, p.Y-f.Panel.Y); c != nil {
		c.Glyph = g
	}
}

// Contains - клетка подземелья попадает в кадр.
func (f *Frame) Contains(p domain.Position) bool {
	return f.At(p.X-f.Panel.X, p.Y-f.Panel.Y) != nil
}
