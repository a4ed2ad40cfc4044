package engine

import (
	"encoding/json"
	"errors"
	"fmt"

	"borg-perception/internal/catalog"
	"borg-perception/internal/domain"
	"borg-perception/internal/ingest"
)

// Input - один внешний вход движка в разобранном виде.
type Input struct {
	Kind  domain.InputKind
	Frame *ingest.Frame
	Raw   string // сообщение "HIT:the kobold"
	Row   int    // строка состояния
	Text  string
	Goal  domain.Position
	Depth int
}

// Dispatch подает вход в движок. Для InputTick возвращает отчет тика.
// Висящий запрос хоста ошибкой не считается: кадр просто пропускается.
func (e *PerceptionEngine) Dispatch(in Input) (*TickReport, error) {
	switch in.Kind {
	case domain.InputFrame:
		if in.Frame == nil {
			return nil, errors.New("frame input without a frame")
		}
		if err := e.IngestFrame(in.Frame); err != nil && !errors.Is(err, ErrPromptPending) {
			return nil, err
		}
	case domain.InputMessage:
		return nil, e.IngestRaw(in.Raw)
	case domain.InputStatus:
		e.StatusLine(in.Row, in.Text)
	case domain.InputGoal:
		e.SetGoal(in.Goal)
	case domain.InputTick:
		rep := e.Tick()
		return &rep, nil
	case domain.InputNewLevel:
		e.NewLevel(in.Depth)
	default:
		return nil, fmt.Errorf("unknown input kind %d", in.Kind)
	}
	return nil, nil
}

// DecodeInput разбирает записанный вход.
func DecodeInput(r domain.ReplayInput) (Input, error) {
	in := Input{Kind: r.Kind}
	var err error
	switch r.Kind {
	case domain.InputFrame:
		in.Frame = &ingest.Frame{}
		err = json.Unmarshal(r.Payload, in.Frame)
	case domain.InputMessage:
		err = json.Unmarshal(r.Payload, &in.Raw)
	case domain.InputStatus:
		var s statusLine
		err = json.Unmarshal(r.Payload, &s)
		in.Row, in.Text = s.Row, s.Text
	case domain.InputGoal:
		err = json.Unmarshal(r.Payload, &in.Goal)
	case domain.InputNewLevel:
		var l levelChange
		err = json.Unmarshal(r.Payload, &l)
		in.Depth = l.Depth
	case domain.InputTick:
	default:
		err = fmt.Errorf("unknown input kind %d", r.Kind)
	}
	if err != nil {
		return in, fmt.Errorf("decode %s input at tick %d: %w", r.Kind, r.Tick, err)
	}
	return in, nil
}

// Replay создает движок с конфигурацией и идентификатором записи и
// прогоняет через него все входы. Движок детерминирован: те же входы
// и то же зерно дают ту же модель.
func Replay(s *domain.ReplaySession, cat *catalog.Catalog, opts ...Option) (*PerceptionEngine, []TickReport, error) {
	cfg := NewConfig()
	if len(s.Config) > 0 {
		if err := json.Unmarshal(s.Config, &cfg); err != nil {
			return nil, nil, fmt.Errorf("recorded config: %w", err)
		}
	}
	cfg.Seed = s.Seed

	e, err := New(cfg, cat, append(opts, WithSessionID(s.ID))...)
	if err != nil {
		return nil, nil, err
	}

	var reports []TickReport
	for i, r := range s.Inputs {
		in, err := DecodeInput(r)
		if err != nil {
			return e, reports, err
		}
		rep, err := e.Dispatch(in)
		if err != nil {
			return e, reports, fmt.Errorf("input %d: %w", i, err)
		}
		if rep != nil {
			reports = append(reports, *rep)
		}
	}
	e.log.WithField("inputs", len(s.Inputs)).WithField("ticks", len(reports)).Info("replay finished")
	return e, reports, nil
}
