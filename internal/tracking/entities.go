package tracking

import (
	"borg-perception/internal/core/types"
	"borg-perception/internal/domain"
)

// Kill - отслеживаемый монстр.
type Kill struct {
	Race   int
	Pos    domain.Position
	OldPos domain.Position

	// HostIndex - номер монстра у хоста, если известен из точного канала.
	HostIndex int

	Speed int
	Moves int // десятые доли ходов монстра за ход игрока
	Power int // оценка оставшихся хитов
	Injury int
	Level  int

	Awake    bool
	Afraid   bool
	Confused bool
	Stunned  bool

	Spells []string
	Ranged int

	// Known - личность подтверждена однозначным событием, переугадывать нельзя.
	Known bool

	Born int
	When int
	Seen bool
}

// Take - отслеживаемый предмет на полу.
type Take struct {
	Kind  int
	TVal  int
	Pos   domain.Position
	Value int
	Glyph types.Glyph

	Born int
	When int
	Seen bool
}

// MonsterTruth - точные сведения о монстре от хоста.
type MonsterTruth struct {
	Race      int `json:"race"`
	HostIndex int `json:"hostIndex"`
	HPPercent int `json:"hpPercent"`
	Speed     int `json:"speed"`
	Sleep     int `json:"sleep"`
	Fear      int `json:"fear"`
	Confused  int `json:"confused"`
	Stun      int `json:"stun"`
}

// ObjectTruth - точные сведения о верхнем предмете в клетке.
type ObjectTruth struct {
	Kind      int  `json:"kind"`
	Worthless bool `json:"worthless,omitempty"`
}

// Sighting - неразобранное наблюдение одной клетки экрана в текущем тике.
// IsKill и IsTake снимаются по мере того, как проходы находят пару.
type Sighting struct {
	Pos    domain.Position
	Glyph  types.Glyph
	IsKill bool
	IsTake bool

	Monster *MonsterTruth
	Object  *ObjectTruth
}

func (s *Sighting) done() bool { return !s.IsKill && !s.IsTake }

// Sightings - рабочий список наблюдений тика с ограниченной емкостью.
type Sightings struct {
	list    []Sighting
	limit   int
	dropped int
}

// NewSightings создает список емкостью limit.
func NewSightings(limit int) *Sightings {
	return &Sightings{list: make([]Sighting, 0, 256), limit: limit}
}

// Add добавляет наблюдение; при переполнении новое отбрасывается.
func (s *Sightings) Add(sg Sighting) bool {
	if len(s.list) >= s.limit {
		s.dropped++
		return false
	}
	s.list = append(s.list, sg)
	return true
}

// Len - число оставшихся наблюдений.
func (s *Sightings) Len() int { return len(s.list) }

// Dropped - сколько наблюдений не поместилось с последнего Reset.
func (s *Sightings) Dropped() int { return s.dropped }

// List возвращает копию оставшихся наблюдений.
func (s *Sightings) List() []Sighting {
	return append([]Sighting(nil), s.list...)
}

// Reset очищает список перед новым кадром.
func (s *Sightings) Reset() {
	s.list = s.list[:0]
	s.dropped = 0
}

// pass обходит наблюдения с конца; если fn нашла пару, наблюдение
// удаляется, как только оба признака сняты.
func (s *Sightings) pass(fn func(sg *Sighting) bool) {
	for i := len(s.list) - 1; i >= 0; i-- {
		if !fn(&s.list[i]) {
			continue
		}
		if s.list[i].done() {
			last := len(s.list) - 1
			s.list[i] = s.list[last]
			s.list = s.list[:last]
		}
	}
}
