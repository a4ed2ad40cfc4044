package engine

import "errors"

var (
	// ErrDimensionMismatch - размеры подземелья хоста не совпадают с картой движка.
	ErrDimensionMismatch = errors.New("dungeon dimensions do not match the host")
	// ErrPromptPending - на экране висит запрос; кадр в этом тике не разбирается.
	ErrPromptPending = errors.New("host prompt is pending")
	// ErrStaleHandle - сущность удалена или ее строка переиспользована.
	ErrStaleHandle = errors.New("stale entity handle")
)
