package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ReplayInput - это запись одного внешнего входа движка
type ReplayInput struct {
	Tick    int             `json:"tick"`    // Тик движка в момент входа
	Kind    InputKind       `json:"kind"`    // Что пришло
	Payload json.RawMessage `json:"payload"` // С какими данными
}

// ReplaySession - полная запись сессии восприятия
type ReplaySession struct {
	ID        uuid.UUID       `json:"id"`
	Seed      int64           `json:"seed"` // Зерно генератора вытеснения из таблиц
	Timestamp int64           `json:"timestamp"`
	Config    json.RawMessage `json:"config,omitempty"`
	Inputs    []ReplayInput   `json:"inputs"`
}

// NewReplaySession создает пустую запись.
func NewReplaySession(id uuid.UUID, seed, timestamp int64) *ReplaySession {
	return &ReplaySession{
		ID:        id,
		Seed:      seed,
		Timestamp: timestamp,
		Inputs:    make([]ReplayInput, 0, 256),
	}
}

// Append добавляет вход в конец записи.
func (s *ReplaySession) Append(tick int, kind InputKind, payload json.RawMessage) {
	s.Inputs = append(s.Inputs, ReplayInput{Tick: tick, Kind: kind, Payload: payload})
}
