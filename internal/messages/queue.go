// Package messages связывает строки сообщений игры с отслеживаемыми
// монстрами. Подлежащее сообщения не указано явно, поэтому его ищут
// несколькими проходами со все большим радиусом.
package messages

import (
	"fmt"
	"strings"

	"borg-perception/internal/core/types/enums"
	"borg-perception/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Message - одно сообщение тика.
type Message struct {
	Category enums.MessageCategory `json:"category"`
	// Subject - подлежащее ("the kobold") или аргумент для SELF и FEELING_*.
	Subject string `json:"subject"`
	// Spell - имя заклинания для SPELL ("BR_FIRE").
	Spell string `json:"spell,omitempty"`

	// Claimed - номер прохода, разобравшего сообщение (0 - не разобрано).
	Claimed int `json:"-"`
}

func (m Message) String() string {
	if m.Category == enums.MsgSpell {
		return fmt.Sprintf("SPELL_%s:%s", m.Spell, m.Subject)
	}
	return m.Category.String() + ":" + m.Subject
}

// ParseRaw разбирает строку вида "HIT:the kobold" или
// "SPELL_BR_FIRE:the baby red dragon".
func ParseRaw(raw string) (Message, error) {
	tag, subject, ok := strings.Cut(raw, ":")
	if !ok {
		return Message{}, fmt.Errorf("message %q has no category tag", raw)
	}
	if spell, isSpell := strings.CutPrefix(tag, "SPELL_"); isSpell {
		if spell == "" {
			return Message{}, fmt.Errorf("message %q has empty spell name", raw)
		}
		return Message{Category: enums.MsgSpell, Spell: strings.ToUpper(spell), Subject: subject}, nil
	}
	cat := enums.ParseMessageCategory(tag)
	if cat == enums.MsgUnknown {
		return Message{}, fmt.Errorf("message %q: unknown category %q", raw, tag)
	}
	return Message{Category: cat, Subject: subject}, nil
}

// Queue - ограниченная очередь сообщений одного тика: не больше limit
// сообщений и не больше bytes байт текста.
type Queue struct {
	msgs    []Message
	limit   int
	bytes   int
	used    int
	dropped int
	log     *logrus.Entry
}

// NewQueue создает очередь.
func NewQueue(limit, bytes int) *Queue {
	return &Queue{
		msgs:  make([]Message, 0, limit),
		limit: limit,
		bytes: bytes,
		log:   logger.Component("messages"),
	}
}

// Push ставит сообщение в очередь. При переполнении сообщение
// отбрасывается, ошибкой это не считается.
func (q *Queue) Push(m Message) bool {
	size := len(m.Subject) + len(m.Spell) + 1
	if len(q.msgs) >= q.limit || q.used+size > q.bytes {
		q.dropped++
		q.log.WithFields(logrus.Fields{"msg": m.String(), "queued": len(q.msgs)}).Warn("message queue is full, dropping")
		return false
	}
	m.Claimed = 0
	q.msgs = append(q.msgs, m)
	q.used += size
	return true
}

// Len - число сообщений в очереди.
func (q *Queue) Len() int { return len(q.msgs) }

// Dropped - сколько сообщений отброшено с последнего Reset.
func (q *Queue) Dropped() int { return q.dropped }

// Messages возвращает копию очереди вместе с отметками разбора.
func (q *Queue) Messages() []Message {
	return append([]Message(nil), q.msgs...)
}

// Reset очищает очередь в конце тика.
func (q *Queue) Reset() {
	q.msgs = q.msgs[:0]
	q.used = 0
	q.dropped = 0
}
