package dungeon

import "borg-perception/internal/domain"

// NewPlayer создает состояние персонажа с начальным снаряжением:
// факел с радиусом 1, обычная скорость.
func NewPlayer(depth int) domain.PlayerState {
	return domain.PlayerState{
		Depth:       depth,
		Level:       max(1, depth),
		LightRadius: 1,
		Speed:       110,
		HP:          20 + depth*10,
		MaxHP:       20 + depth*10,
	}
}
