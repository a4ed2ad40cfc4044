package domain

import "strings"

// InputKind - вид внешнего входа движка. Каждый вход записывается в
// сессию и при воспроизведении подается в движок в том же порядке.
type InputKind uint8

const (
	InputUnknown InputKind = iota
	InputFrame             // снимок экрана
	InputMessage           // строка сообщения с категорией
	InputStatus            // строка состояния
	InputGoal              // цель, выбранная решателем
	InputTick              // конец тика: разбор сообщений и страх
	InputNewLevel          // смена уровня
)

// Маппинг для конвертации JSON -> Domain
var inputStringToKind = map[string]InputKind{
	"FRAME":     InputFrame,
	"MESSAGE":   InputMessage,
	"STATUS":    InputStatus,
	"GOAL":      InputGoal,
	"TICK":      InputTick,
	"NEW_LEVEL": InputNewLevel,
}

// Маппинг для логов Domain -> String
var inputKindToString = map[InputKind]string{
	InputFrame:    "FRAME",
	InputMessage:  "MESSAGE",
	InputStatus:   "STATUS",
	InputGoal:     "GOAL",
	InputTick:     "TICK",
	InputNewLevel: "NEW_LEVEL",
}

// ParseInput конвертирует строку в InputKind
func ParseInput(s string) InputKind {
	upper := strings.ToUpper(s)
	if val, ok := inputStringToKind[upper]; ok {
		return val
	}
	return InputUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (k InputKind) String() string {
	if val, ok := inputKindToString[k]; ok {
		return val
	}
	return "UNKNOWN"
}
