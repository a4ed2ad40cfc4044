package types

import (
	"fmt"
	"strconv"
)

// Handle - 64-битная ссылка на строку таблицы отслеживаемых сущностей.
//
// Формат битов (от старших к младшим):
//
//	[ Table (8) | Generation (24) | Index (32) ]
//
// Где:
//   - Table - таблица (предметы или монстры), см. enums.TableKind
//   - Generation - версия слота (защита от устаревших ссылок)
//   - Index - номер слота в таблице
//
// Слот переиспользуется после удаления сущности, поколение при этом растет,
// поэтому старый Handle перестает разрешаться.
type Handle uint64

// NilHandle - отсутствие сущности в клетке.
const NilHandle Handle = 0

const (
	bitsIndex = 32
	bitsGen   = 24
	bitsTable = 8

	shiftGen   = bitsIndex
	shiftTable = bitsIndex + bitsGen

	maskIndex = (1 << bitsIndex) - 1
	maskGen   = (1 << bitsGen) - 1
	maskTable = (1 << bitsTable) - 1
)

// PackHandle собирает Handle из составных частей.
// Поколение усекается до 24 бит.
func PackHandle(table uint8, gen uint32, index uint32) Handle {
	return Handle(
		(uint64(table) << shiftTable) |
			(uint64(gen&maskGen) << shiftGen) |
			uint64(index),
	)
}

// Index возвращает номер слота.
func (h Handle) Index() uint32 {
	return uint32(h & maskIndex)
}

// Generation возвращает поколение слота.
func (h Handle) Generation() uint32 {
	return uint32((h >> shiftGen) & maskGen)
}

// Table возвращает код таблицы.
func (h Handle) Table() uint8 {
	return uint8((h >> shiftTable) & maskTable)
}

// IsNil проверяет, является ли ссылка пустой.
func (h Handle) IsNil() bool {
	return h == NilHandle
}

// String возвращает строковое представление для логов.
func (h Handle) String() string {
	if h.IsNil() {
		return "<nil>"
	}
	return fmt.Sprintf("[table=%d gen=%d idx=%d]", h.Table(), h.Generation(), h.Index())
}

// MarshalJSON сериализует Handle строкой: JavaScript не держит uint64.
func (h Handle) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(h), 10) + `"`), nil
}

// UnmarshalJSON принимает и строку, и число.
func (h *Handle) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) > 1 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*h = NilHandle
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	*h = Handle(v)
	return nil
}
