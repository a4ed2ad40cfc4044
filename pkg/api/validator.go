package api

import "errors"

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

// Размеры карты хоста. Дублируются здесь, чтобы пакет api не зависел
// от внутренних пакетов.
const (
	MapWidth  = 198
	MapHeight = 66
)

func (p PositionPayload) Validate() error {
	if p.X < 0 || p.Y < 0 || p.X >= MapWidth || p.Y >= MapHeight {
		return errors.New("position is out of the dungeon")
	}
	return nil
}
