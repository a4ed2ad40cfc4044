package engine

import (
	"fmt"
	"time"

	"borg-perception/pkg/api"
	"borg-perception/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Типы записей журнала.
const (
	LogBound   = "BOUND"
	LogFear    = "FEAR"
	LogSelf    = "SELF"
	LogDropped = "DROPPED"
	LogPrompt  = "PROMPT"
)

// Journal - последние разобранные сообщения для снимков.
type Journal struct {
	log     *logrus.Entry
	limit   int
	seq     int
	entries []api.LogEntry
}

func newJournal(session string, limit int) *Journal {
	return &Journal{
		log:   logger.Component("journal").WithField("session", session),
		limit: limit,
	}
}

// AddLog добавляет запись в журнал и дублирует ее в лог.
func (j *Journal) AddLog(tick int, text, logType string) {
	j.seq++
	j.entries = append(j.entries, api.LogEntry{
		ID:        fmt.Sprintf("%d_%d", tick, j.seq),
		Text:      text,
		Type:      logType,
		Timestamp: time.Now().UnixMilli(),
	})
	if over := len(j.entries) - j.limit; over > 0 {
		j.entries = append(j.entries[:0], j.entries[over:]...)
	}
	j.log.WithFields(logrus.Fields{
		"tick":     tick,
		"log_type": logType,
	}).Debug(text)
}

// Entries возвращает копию журнала.
func (j *Journal) Entries() []api.LogEntry {
	return append([]api.LogEntry(nil), j.entries...)
}
