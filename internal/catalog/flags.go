package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFlag - в файле каталога встретился неизвестный флаг расы.
var ErrUnknownFlag = errors.New("unknown race flag")

// RaceFlags - свойства расы, влияющие на восприятие.
type RaceFlags uint32

const (
	RaceUnique     RaceFlags = 1 << iota
	RaceAttrMulti            // цвет меняется каждый кадр
	RaceAttrClear            // прозрачный: цвет берется от клетки
	RaceCharClear            // прозрачный символ
	RacePassWall             // проходит сквозь стены
	RaceKillWall             // прокапывает стены
	RaceNeverMove            // не двигается
	RaceInvisible            // невидим без "видеть невидимое"
	RaceColdBlood            // не виден в инфразрении
	RaceEmptyMind            // не виден телепатией
	RaceWeirdMind            // телепатией виден не всегда
	RaceTakeItem             // подбирает предметы
	RaceKillItem             // уничтожает предметы
	RaceMultiply             // размножается
	RaceEvil                 // злой
)

var raceFlagNames = map[string]RaceFlags{
	"UNIQUE":     RaceUnique,
	"ATTR_MULTI": RaceAttrMulti,
	"ATTR_CLEAR": RaceAttrClear,
	"CHAR_CLEAR": RaceCharClear,
	"PASS_WALL":  RacePassWall,
	"KILL_WALL":  RaceKillWall,
	"NEVER_MOVE": RaceNeverMove,
	"INVISIBLE":  RaceInvisible,
	"COLD_BLOOD": RaceColdBlood,
	"EMPTY_MIND": RaceEmptyMind,
	"WEIRD_MIND": RaceWeirdMind,
	"TAKE_ITEM":  RaceTakeItem,
	"KILL_ITEM":  RaceKillItem,
	"MULTIPLY":   RaceMultiply,
	"EVIL":       RaceEvil,
}

// Has проверяет все биты mask.
func (f RaceFlags) Has(mask RaceFlags) bool {
	return f&mask == mask
}

// Any проверяет хотя бы один бит mask.
func (f RaceFlags) Any(mask RaceFlags) bool {
	return f&mask != 0
}

// ParseRaceFlags собирает маску из списка имен.
func ParseRaceFlags(names []string) (RaceFlags, error) {
	var f RaceFlags
	for _, n := range names {
		bit, ok := raceFlagNames[strings.ToUpper(strings.TrimSpace(n))]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownFlag, n)
		}
		f |= bit
	}
	return f, nil
}

// String перечисляет флаги через '|'.
func (f RaceFlags) String() string {
	if f == 0 {
		return "NONE"
	}
	var parts []string
	for bit := RaceUnique; bit <= RaceEvil; bit <<= 1 {
		if f&bit == 0 {
			continue
		}
		for name, b := range raceFlagNames {
			if b == bit {
				parts = append(parts, name)
				break
			}
		}
	}
	return strings.Join(parts, "|")
}
