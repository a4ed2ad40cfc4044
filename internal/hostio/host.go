package hostio

import (
	"errors"

	"borg-perception/internal/domain"
	"borg-perception/internal/engine"
)

// Host связывает экран с движком. Один вызов Sync - один тик.
type Host struct {
	Terminal *Terminal
	Engine   *engine.PerceptionEngine
}

func NewHost(t *Terminal, e *engine.PerceptionEngine) *Host {
	return &Host{Terminal: t, Engine: e}
}

// Sync читает строку запросов, отвечает на запрос, снимает карту и
// закрывает тик. Пока висит запрос, кадр движком не разбирается.
func (h *Host) Sync(panel domain.Position, player domain.PlayerState) (engine.TickReport, error) {
	row := h.Terminal.layout.PromptRow
	if in, ok := h.Engine.StatusLine(row, h.Terminal.Line(row)); ok {
		if err := h.Terminal.Press(in.Key); err != nil {
			return engine.TickReport{}, err
		}
	}

	f := h.Terminal.Capture(panel, player)
	if err := h.Engine.IngestFrame(f); err != nil && !errors.Is(err, engine.ErrPromptPending) {
		return engine.TickReport{}, err
	}
	return h.Engine.Tick(), nil
}
