package domain

import (
	"borg-perception/internal/core/types"
	"borg-perception/internal/core/types/enums"
)

// CellFlags - битовые флаги знания о клетке.
type CellFlags uint8

const (
	FlagMarked   CellFlags = 1 << iota // клетка запомнена
	FlagGlow                           // освещена постоянно
	FlagDark                           // известно, что не освещена
	FlagOnScreen                       // видна на текущей панели экрана
	FlagTorchLit                       // освещена светом игрока
	FlagInView                         // в поле зрения
	FlagTemp                           // служебная отметка пересчета
	FlagEasyView                       // видна "без сомнений" (оба диагональных соседа в зоне)
)

// Has проверяет все биты mask.
func (f CellFlags) Has(mask CellFlags) bool {
	return f&mask == mask
}

// Any проверяет хотя бы один бит mask.
func (f CellFlags) Any(mask CellFlags) bool {
	return f&mask != 0
}

// Cell - знание движка об одной клетке подземелья.
//
// Take и Kill - номера строк в таблицах предметов и монстров (0 - пусто).
// Монстр скрывает рельеф и предметы под собой, поэтому на практике
// занято не более одного из полей.
type Cell struct {
	Feat    enums.Feat
	Flags   CellFlags
	Trap    bool
	Warding bool
	Store   uint8
	Glyph   types.Glyph
	Take    int16
	Kill    int16

	// PathCost - кеш стоимости пути; PathCostUnknown после смены проходимости.
	PathCost uint8
}
