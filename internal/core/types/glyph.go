package types

import (
	"fmt"
	"strings"
)

// Attr - один из 16 цветов терминала игры.
type Attr uint8

const (
	AttrDark Attr = iota
	AttrWhite
	AttrSlate
	AttrOrange
	AttrRed
	AttrGreen
	AttrBlue
	AttrUmber
	AttrLightDark
	AttrLightSlate
	AttrViolet
	AttrYellow
	AttrLightRed
	AttrLightGreen
	AttrLightBlue
	AttrLightUmber

	// AttrCount - количество цветов палитры.
	AttrCount = 16
)

var attrNames = [AttrCount]string{
	"dark", "white", "slate", "orange", "red", "green", "blue", "umber",
	"light_dark", "light_slate", "violet", "yellow", "light_red", "light_green", "light_blue", "light_umber",
}

// String возвращает имя цвета (для логов и YAML каталогов).
func (a Attr) String() string {
	if int(a) < AttrCount {
		return attrNames[a]
	}
	return fmt.Sprintf("attr(%d)", uint8(a))
}

// ParseAttr разбирает имя цвета. Допускаются пробелы и дефисы вместо '_'.
func ParseAttr(s string) (Attr, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	for i, name := range attrNames {
		if name == norm {
			return Attr(i), true
		}
	}
	return AttrDark, false
}

// Glyph представляет упакованное представление цветного символа экрана.
// Использует 16 бит (uint16) для хранения в формате:
//
//	[0:8]  - символ (8 бит) - маска 0xFF
//	[8:16] - цвет палитры Attr (8 бит) - маска 0xFF
type Glyph uint16

// Константы для битовых операций с Glyph
const (
	bitsChar = 8
	bitsAttr = 8

	shiftAttr = bitsChar

	maskChar = (1 << bitsChar) - 1 // 0xFF
	maskAttr = (1 << bitsAttr) - 1 // 0xFF
)

// EmptyGlyph - пустая клетка экрана (черный пробел).
const EmptyGlyph = Glyph(' ')

// MakeGlyph создает новый Glyph из цвета и символа.
//
// Пример:
//
//	glyph := MakeGlyph(AttrGreen, 'k')
//	// Внутреннее представление: 0x056B
func MakeGlyph(attr Attr, char byte) Glyph {
	return Glyph(uint16(attr&maskAttr)<<shiftAttr | uint16(char))
}

// Attr извлекает цвет из Glyph.
func (g Glyph) Attr() Attr {
	return Attr((g >> shiftAttr) & maskAttr)
}

// Char извлекает символ из Glyph.
func (g Glyph) Char() byte {
	return byte(g & maskChar)
}

// IsBlank сообщает, что на экране ничего не нарисовано.
func (g Glyph) IsBlank() bool {
	c := g.Char()
	return c == ' ' || c == 0
}

// String возвращает человеко-читаемое представление Glyph.
// Формат: "Glyph{char='k', attr=green}"
func (g Glyph) String() string {
	char := g.Char()
	charStr := string([]byte{char})

	// Для непечатаемых символов показываем hex
	if char < 32 || char > 126 {
		charStr = fmt.Sprintf("\\x%02X", char)
	}
	return fmt.Sprintf("Glyph{char='%s', attr=%s}", charStr, g.Attr())
}
