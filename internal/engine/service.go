package engine

import (
	"context"
	"errors"
	"sync"

	"borg-perception/internal/network"
	"borg-perception/pkg/api"
	"borg-perception/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ErrServiceStopped - цикл сервиса уже завершен.
var ErrServiceStopped = errors.New("perception service stopped")

// Service владеет движком и выполняет его в одной горутине. Входы
// приходят по каналу, после каждого тика снимок рассылается
// подписчикам Hub. Запросы к модели тоже проходят через цикл, поэтому
// движок никогда не читается и не пишется из двух горутин сразу.
type Service struct {
	Engine *PerceptionEngine
	Hub    *network.Broadcaster

	inputs  chan Input
	queries chan func(*PerceptionEngine)
	closing chan struct{}
	done    chan struct{}
	once    sync.Once

	mu     sync.RWMutex
	latest api.Snapshot
	ticks  []func(TickReport)

	log *logrus.Entry
}

func NewService(e *PerceptionEngine, hub *network.Broadcaster) *Service {
	return &Service{
		Engine:  e,
		Hub:     hub,
		inputs:  make(chan Input, 256),
		queries: make(chan func(*PerceptionEngine)),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
		latest:  e.Snapshot(),
		log:     logger.Component("service").WithField("session", e.ID.String()),
	}
}

// OnTick добавляет наблюдателя отчетов тика. Вызывается до Run.
func (s *Service) OnTick(fn func(TickReport)) {
	s.ticks = append(s.ticks, fn)
}

// Submit ставит вход в очередь цикла. Блокируется, если очередь полна.
// После Close возвращает ErrServiceStopped.
func (s *Service) Submit(ctx context.Context, in Input) error {
	select {
	case <-s.closing:
		return ErrServiceStopped
	default:
	}
	select {
	case <-s.closing:
		return ErrServiceStopped
	case s.inputs <- in:
		return nil
	case <-s.done:
		return ErrServiceStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Query выполняет fn в горутине движка и ждет завершения.
func (s *Service) Query(ctx context.Context, fn func(*PerceptionEngine)) error {
	finished := make(chan struct{})
	wrapped := func(e *PerceptionEngine) {
		fn(e)
		close(finished)
	}
	select {
	case s.queries <- wrapped:
	case <-s.done:
		return ErrServiceStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-s.done:
		return ErrServiceStopped
	}
}

// Latest - последний опубликованный снимок.
func (s *Service) Latest() api.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Run крутит цикл до отмены ctx или закрытия входов через Close.
func (s *Service) Run(ctx context.Context) {
	defer close(s.done)
	s.log.Info("perception loop started")

	for {
		select {
		case <-ctx.Done():
			s.log.Info("perception loop stopped")
			return

		case fn := <-s.queries:
			fn(s.Engine)

		case in := <-s.inputs:
			s.handle(in)

		case <-s.closing:
			s.drain()
			s.log.Info("input stream closed")
			return
		}
	}
}

func (s *Service) handle(in Input) {
	rep, err := s.Engine.Dispatch(in)
	if err != nil {
		s.log.WithError(err).WithField("kind", in.Kind.String()).Warn("input rejected")
		return
	}
	if rep != nil {
		s.publish(*rep)
	}
}

// drain доделывает входы, принятые до Close.
func (s *Service) drain() {
	for {
		select {
		case in := <-s.inputs:
			s.handle(in)
		default:
			return
		}
	}
}

// Close прекращает прием входов; цикл доработает очередь и завершится.
// Повторный вызов ничего не делает.
func (s *Service) Close() {
	s.once.Do(func() { close(s.closing) })
}

// Done закрывается, когда цикл завершен.
func (s *Service) Done() <-chan struct{} { return s.done }

func (s *Service) publish(rep TickReport) {
	snap := s.Engine.Snapshot()
	s.mu.Lock()
	s.latest = snap
	s.mu.Unlock()

	if s.Hub != nil && s.Hub.SubscriberCount() > 0 {
		s.Hub.Broadcast(snap)
	}
	for _, fn := range s.ticks {
		fn(rep)
	}
}
