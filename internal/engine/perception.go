// Package engine собирает слой восприятия в один объект: карту уровня,
// таблицы сущностей, очередь сообщений и карты страха. Движок
// однопоточный и работает потиково: хост подает кадр, строку состояния
// и сообщения, затем вызывает Tick.
package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"borg-perception/internal/catalog"
	"borg-perception/internal/core/types/enums"
	"borg-perception/internal/domain"
	"borg-perception/internal/fear"
	"borg-perception/internal/ingest"
	"borg-perception/internal/messages"
	"borg-perception/internal/systems"
	"borg-perception/internal/tracking"
	"borg-perception/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LevelStartTick - тик, с которого начинается каждый уровень.
const LevelStartTick = 1000

// Option настраивает движок при создании.
type Option func(*PerceptionEngine)

// WithIntents задает получателя просьб нажать клавишу.
func WithIntents(fn func(Intent)) Option {
	return func(e *PerceptionEngine) { e.intents = fn }
}

// WithDangerModel заменяет оценку опасности монстра для точной карты страха.
func WithDangerModel(m fear.DangerModel) Option {
	return func(e *PerceptionEngine) { e.danger = m }
}

// WithRecording включает запись всех входов движка.
func WithRecording() Option {
	return func(e *PerceptionEngine) { e.recordInputs = true }
}

// WithSessionID задает идентификатор сессии (воспроизведение записи).
func WithSessionID(id uuid.UUID) Option {
	return func(e *PerceptionEngine) { e.ID = id }
}

// TickReport - итог одного тика.
type TickReport struct {
	Tick     int             `json:"tick"`
	Framed   bool            `json:"framed"`
	Ingest   ingest.Result   `json:"ingest"`
	Messages messages.Report `json:"messages"`
	Kills    int             `json:"kills"`
	Takes    int             `json:"takes"`
	Fear     int             `json:"fear"`
}

// PerceptionEngine владеет всей моделью мира. Внешние потребители
// получают только чтение через методы-представления и снимки.
type PerceptionEngine struct {
	ID  uuid.UUID
	cfg Config
	cat *catalog.Catalog
	rng *rand.Rand
	log *logrus.Entry

	grid      *domain.GridMap
	landmarks *domain.Landmarks
	detect    *domain.DetectMap
	vis       *systems.Visibility
	ingestor  *ingest.Ingestor
	sightings *tracking.Sightings
	tracker   *tracking.Tracker
	queue     *messages.Queue
	reactor   *messages.Reactor
	regional  *fear.Regional
	monsters  *fear.Monsters
	danger    fear.DangerModel
	journal   *Journal

	intents      func(Intent)
	recordInputs bool
	recording    *domain.ReplaySession

	tick     int
	player   domain.PlayerState
	oldPos   domain.Position
	panel    domain.Position
	oldPanel domain.Position
	goal     domain.Position

	// Состояние текущего тика.
	prompt     *Intent
	framed     bool
	lastFrame  ingest.Result
	viewDirty  bool
	lightDirty bool
	lastLight  int

	expectDirection rune
}

// New создает движок. Ошибка возможна только здесь: неверная
// конфигурация или пустой каталог.
func New(cfg Config, cat *catalog.Catalog, opts ...Option) (*PerceptionEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cat == nil {
		cat = catalog.Default()
	}
	if len(cat.Races) < 2 || len(cat.Kinds) < 2 {
		return nil, errors.New("catalog has no races or no kinds")
	}

	e := &PerceptionEngine{
		ID:        uuid.New(),
		cfg:       cfg,
		cat:       cat,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		grid:      domain.NewGridMap(),
		landmarks: &domain.Landmarks{},
		detect:    &domain.DetectMap{},
		regional:  &fear.Regional{},
		monsters:  &fear.Monsters{},
		danger:    fear.RacePower{},
		sightings: tracking.NewSightings(cfg.SightingCap),
		queue:     messages.NewQueue(cfg.MessageQueueSize, cfg.MessageBufferBytes),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.log = logger.Component("engine").WithField("session", e.ID.String())
	e.journal = newJournal(e.ID.String(), cfg.JournalSize)

	e.vis = systems.NewVisibility(e.grid)
	e.vis.Sight = cfg.MaxSight
	e.vis.LightLimit = cfg.MaxLightRadius
	e.ingestor = ingest.NewIngestor(e.grid, e.landmarks, ingest.NewClassifier(cat))
	e.tracker = tracking.New(cfg.trackerConfig(), cat, e.grid, e.rng)
	e.tracker.SetFear(e.regional)
	e.reactor = messages.NewReactor(cfg.reactorConfig(), e.tracker, e.grid, e.detect, e.regional)

	if e.recordInputs {
		e.recording = domain.NewReplaySession(e.ID, cfg.Seed, time.Now().Unix())
		if raw, err := json.Marshal(cfg); err == nil {
			e.recording.Config = raw
		}
	}

	e.resetLevel()
	e.log.WithFields(logrus.Fields{
		"seed":  cfg.Seed,
		"races": len(cat.Races) - 1,
		"kinds": len(cat.Kinds) - 1,
	}).Info("perception engine ready")
	return e, nil
}

// Recording возвращает запись входов или nil, если запись выключена.
func (e *PerceptionEngine) Recording() *domain.ReplaySession { return e.recording }

// CurrentTick - номер текущего (еще не закрытого) тика.
func (e *PerceptionEngine) CurrentTick() int { return e.tick }

// Player - состояние персонажа по последнему кадру.
func (e *PerceptionEngine) Player() domain.PlayerState { return e.player }

func (e *PerceptionEngine) record(kind domain.InputKind, payload any) {
	if e.recording == nil {
		return
	}
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			e.log.WithError(err).WithField("kind", kind.String()).Warn("input is not recordable")
			return
		}
		raw = b
	}
	e.recording.Append(e.tick, kind, raw)
}

// statusLine - полезная нагрузка записи строки состояния.
type statusLine struct {
	Row  int    `json:"row"`
	Text string `json:"text"`
}

// StatusLine разбирает строку состояния хоста. Если в ней висит запрос,
// о нем сообщается через Intents, и кадр этого тика не разбирается.
func (e *PerceptionEngine) StatusLine(row int, text string) (Intent, bool) {
	e.record(domain.InputStatus, statusLine{Row: row, Text: text})

	in, ok := detectPrompt(row, text, e.expectDirection)
	if !ok {
		return Intent{}, false
	}
	if in.Note == "expected direction" {
		e.expectDirection = KeyNone
	}
	e.prompt = &in
	e.journal.AddLog(e.tick, fmt.Sprintf("%s -> %q", in.Prompt, in.Key), LogPrompt)

	entry := e.log.WithFields(logrus.Fields{"tick": e.tick, "prompt": in.Prompt, "key": string(in.Key)})
	if in.Key == KeyEscape && in.Note == "unexpected request for direction" {
		entry.Warn(in.Note)
	} else {
		entry.Info(in.Note)
	}
	if e.intents != nil {
		e.intents(in)
	}
	return in, true
}

// ExpectDirection сообщает, что решатель сам запросил направление и
// ответ на запрос Direction уже известен.
func (e *PerceptionEngine) ExpectDirection(key rune) { e.expectDirection = key }

// IngestFrame применяет кадр экрана: рельеф, ориентиры и наблюдения.
// Пока висит запрос хоста, кадр отбрасывается с ErrPromptPending.
func (e *PerceptionEngine) IngestFrame(f *ingest.Frame) error {
	e.record(domain.InputFrame, f)

	if e.prompt != nil {
		return ErrPromptPending
	}

	// Кадр вызывающего не меняем: нормализуем копию.
	local := *f
	player := local.Player
	player.LightRadius = min(max(player.LightRadius, 0), e.cfg.MaxLightRadius)
	local.Player = player

	e.sightings.Reset()
	res := e.ingestor.Apply(&local, e.sightings)
	player.Pos = res.PlayerPos

	moved := player.Pos != e.player.Pos
	// Видимость от хоста действует только до следующего кадра.
	e.viewDirty = e.viewDirty || moved || res.ViewDirty || res.Truth
	e.lightDirty = e.lightDirty || moved || res.LightDirty || player.LightRadius != e.lastLight

	e.player = player
	e.panel = f.Panel
	e.framed = true
	e.lastFrame = res
	return nil
}

// IngestMessage ставит разобранное сообщение в очередь тика.
func (e *PerceptionEngine) IngestMessage(m messages.Message) bool {
	e.record(domain.InputMessage, m.String())
	return e.queue.Push(m)
}

// IngestRaw разбирает строку вида "HIT:the kobold" и ставит ее в очередь.
// Строка без категории - ошибка разметчика, а не движка.
func (e *PerceptionEngine) IngestRaw(raw string) error {
	m, err := messages.ParseRaw(raw)
	if err != nil {
		return err
	}
	e.IngestMessage(m)
	return nil
}

// SetGoal запоминает клетку, которую решатель выбрал целью хода.
func (e *PerceptionEngine) SetGoal(p domain.Position) {
	e.record(domain.InputGoal, p)
	e.goal = p
}

// Tick закрывает тик: видимость, сопоставление наблюдений, предсказание
// пропавших, разбор сообщений и карты страха.
func (e *PerceptionEngine) Tick() TickReport {
	e.record(domain.InputTick, nil)

	rep := TickReport{Tick: e.tick, Framed: e.framed, Ingest: e.lastFrame}

	if e.framed {
		if e.viewDirty {
			e.vis.RecomputeView(e.player.Pos)
			e.vis.MarkHost(e.lastFrame.HostView)
		}
		if e.viewDirty || e.lightDirty {
			e.vis.RecomputeLight(e.player.Pos, e.player.LightRadius)
			e.lastLight = e.player.LightRadius
		}
		e.viewDirty, e.lightDirty = false, false
	}

	e.tracker.Begin(e.tick, e.player, e.oldPos)
	if e.framed {
		e.tracker.Reconcile(e.sightings)
		e.tracker.Predict()
	}

	rep.Messages = e.reactor.Resolve(e.queue, messages.Anchors{
		Goal:     e.goal,
		Old:      e.oldPos,
		Now:      e.player.Pos,
		OldPanel: e.oldPanel,
	})
	e.journalMessages()

	e.monsters.Rebuild(e.grid, e.tracker, e.danger, e.ingestor.VaultOnLevel)
	if e.tick%e.cfg.FearDecayInterval == 0 {
		e.regional.Decay(e.cfg.FearDecayAmount)
	}

	rep.Kills = e.tracker.Kills.Len()
	rep.Takes = e.tracker.Takes.Len()
	rep.Fear = e.regional.Total()

	e.log.WithFields(logrus.Fields{
		"tick":  e.tick,
		"pos":   e.player.Pos,
		"kills": rep.Kills,
		"takes": rep.Takes,
		"fear":  rep.Fear,
	}).Trace("tick closed")

	e.queue.Reset()
	e.oldPos = e.player.Pos
	e.oldPanel = e.panel
	e.prompt = nil
	e.framed = false
	e.lastFrame = ingest.Result{}
	e.tick++
	return rep
}

func (e *PerceptionEngine) journalMessages() {
	if n := e.queue.Dropped(); n > 0 {
		e.journal.AddLog(e.tick, fmt.Sprintf("%d messages dropped", n), LogDropped)
	}
	for _, m := range e.queue.Messages() {
		switch {
		case m.Category == enums.MsgSelf || m.Category == enums.MsgFeelingDanger || m.Category == enums.MsgFeelingStuff:
			e.journal.AddLog(e.tick, m.String(), LogSelf)
		case m.Claimed == 5:
			e.journal.AddLog(e.tick, m.String(), LogFear)
		case m.Claimed > 0:
			e.journal.AddLog(e.tick, fmt.Sprintf("%s (pass %d)", m, m.Claimed), LogBound)
		}
	}
}

// levelChange - полезная нагрузка записи смены уровня.
type levelChange struct {
	Depth int `json:"depth"`
}

// NewLevel забывает уровень: карту, таблицы, ориентиры, отметки
// обнаружения и обе карты страха. Счетчики смертей рас сохраняются.
func (e *PerceptionEngine) NewLevel(depth int) {
	e.record(domain.InputNewLevel, levelChange{Depth: depth})
	e.log.WithFields(logrus.Fields{"depth": depth, "from": e.player.Depth, "tick": e.tick}).Info("new level")
	e.player.Depth = depth
	e.resetLevel()
}

func (e *PerceptionEngine) resetLevel() {
	e.tick = LevelStartTick
	e.vis.Forget()
	e.grid.Reset()
	e.landmarks.Reset()
	e.detect.Reset()
	e.regional.Reset()
	e.monsters.Reset()
	e.tracker.NewLevel(e.tick)
	e.ingestor.NewLevel()
	e.reactor.NewLevel()
	e.queue.Reset()
	e.sightings.Reset()

	e.goal = domain.Position{}
	e.oldPos = e.player.Pos
	e.oldPanel = domain.Position{}
	e.prompt = nil
	e.framed = false
	e.viewDirty = true
	e.lightDirty = true
}
