package enums

import "strings"

// MessageCategory - грубая категория строки сообщения игры.
// Присваивается один раз при поступлении сообщения внешним тегировщиком.
type MessageCategory uint8

const (
	MsgUnknown MessageCategory = iota
	MsgSelf
	MsgFeelingDanger
	MsgFeelingStuff
	MsgHit
	MsgMiss
	MsgAfraid
	MsgKill
	MsgDied
	MsgBlink
	MsgPain
	MsgHitBy
	MsgMissBy
	MsgStateSleep
	MsgStateAwake
	MsgStateFear
	MsgStateBold
	MsgStateConfused
	MsgSpell
	MsgQuake
)

var messageCategoryToString = map[MessageCategory]string{
	MsgSelf:          "SELF",
	MsgFeelingDanger: "FEELING_DANGER",
	MsgFeelingStuff:  "FEELING_STUFF",
	MsgHit:           "HIT",
	MsgMiss:          "MISS",
	MsgAfraid:        "AFRAID",
	MsgKill:          "KILL",
	MsgDied:          "DIED",
	MsgBlink:         "BLINK",
	MsgPain:          "PAIN",
	MsgHitBy:         "HIT_BY",
	MsgMissBy:        "MISS_BY",
	MsgStateSleep:    "STATE_SLEEP",
	MsgStateAwake:    "STATE_AWAKE",
	MsgStateFear:     "STATE__FEAR",
	MsgStateBold:     "STATE__BOLD",
	MsgStateConfused: "STATE_CONFUSED",
	MsgSpell:         "SPELL",
	MsgQuake:         "QUAKE",
}

var messageCategoryStringToType = func() map[string]MessageCategory {
	m := make(map[string]MessageCategory, len(messageCategoryToString))
	for k, v := range messageCategoryToString {
		m[v] = k
	}
	return m
}()

// String возвращает строковое представление (для логов и дебага)
func (c MessageCategory) String() string {
	if val, ok := messageCategoryToString[c]; ok {
		return val
	}
	return "UNKNOWN"
}

// ParseMessageCategory конвертирует тег в категорию.
func ParseMessageCategory(s string) MessageCategory {
	if val, ok := messageCategoryStringToType[strings.ToUpper(s)]; ok {
		return val
	}
	return MsgUnknown
}

// HasSubject - у сообщения есть неявный субъект (монстр), которого надо найти.
func (c MessageCategory) HasSubject() bool {
	switch c {
	case MsgUnknown, MsgSelf, MsgFeelingDanger, MsgFeelingStuff, MsgQuake:
		return false
	}
	return true
}

// IsState - одна из категорий изменения состояния монстра.
func (c MessageCategory) IsState() bool {
	switch c {
	case MsgStateSleep, MsgStateAwake, MsgStateFear, MsgStateBold, MsgStateConfused:
		return true
	}
	return false
}
