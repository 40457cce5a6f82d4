// Package simulator владеет состоянием дашборда и жизненным циклом симулированного инцидента.
package simulator

import (
	"sync"
	"time"

	"github.com/dreschagin/chaos-dashboard/internal/application/port"
	"github.com/dreschagin/chaos-dashboard/internal/domain/entity"
	"github.com/dreschagin/chaos-dashboard/internal/domain/service"
	"github.com/dreschagin/chaos-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/chaos-dashboard/pkg/logger"
)

// Command - команда, изменяющая состояние
type Command string

const (
	CommandTrigger          Command = "trigger"
	CommandStartRecovery    Command = "start-recovery"
	CommandCompleteRecovery Command = "complete-recovery"
	CommandTick             Command = "tick"
)

// Transition описывает примененный переход
type Transition struct {
	Command  Command
	Previous entity.DashboardState
	State    entity.DashboardState
	At       time.Time
}

// TargetPod возвращает имя pod'а, затронутого переходом
func (t Transition) TargetPod() string {
	switch t.Command {
	case CommandTrigger, CommandCompleteRecovery:
		if len(t.State.Events) > 0 {
			return t.State.Events[0].TargetPod()
		}
	case CommandStartRecovery:
		if restarting := t.State.PodsWithStatus(valueobject.PodRestarting); len(restarting) > 0 {
			return restarting[0].Name()
		}
	}
	return ""
}

// RecoverySeconds возвращает измеренную длительность восстановления
func (t Transition) RecoverySeconds() int {
	if t.Command != CommandCompleteRecovery || len(t.State.Events) == 0 {
		return 0
	}
	return t.State.Events[0].RecoveryDuration()
}

// Listener получает переходы в порядке их применения.
// Listener вызывается синхронно и не должен отправлять команды симулятору.
type Listener func(Transition)

// Config - задержки жизненного цикла и размер журнала
type Config struct {
	RecoveryStartDelay    time.Duration
	RecoveryCompleteDelay time.Duration
	LatencyTickInterval   time.Duration
	MaxEvents             int
}

// DefaultConfig возвращает задержки оригинального дашборда
func DefaultConfig() Config {
	return Config{
		RecoveryStartDelay:    time.Second,
		RecoveryCompleteDelay: 3 * time.Second,
		LatencyTickInterval:   5 * time.Second,
	}
}

// Simulator - единственный владелец DashboardState.
// Все изменения проходят через сериализованный dispatch; снаружи доступны только копии.
type Simulator struct {
	reducer *service.IncidentReducer
	clock   port.Clock
	rnd     service.RandomSource
	cfg     Config
	logger  *logger.Logger

	mu            sync.Mutex
	state         entity.DashboardState
	recoveryTimer port.Timer
	tickTimer     port.Timer
	started       bool
	closed        bool

	commitSeq uint64

	// Слушатели вызываются вне mu; очередь по номеру коммита сохраняет порядок
	notifyMu   sync.Mutex
	notifyCond *sync.Cond
	notifySeq  uint64
	listeners  []Listener
}

// New создает симулятор с начальным состоянием на момент clock.Now().
// Отсутствие обязательной зависимости - ошибка сборки приложения, поэтому panic.
func New(clock port.Clock, rnd service.RandomSource, cfg Config, log *logger.Logger) *Simulator {
	if clock == nil {
		panic("simulator: clock is required")
	}
	if rnd == nil {
		panic("simulator: random source is required")
	}
	if log == nil {
		panic("simulator: logger is required")
	}

	defaults := DefaultConfig()
	if cfg.RecoveryStartDelay <= 0 {
		cfg.RecoveryStartDelay = defaults.RecoveryStartDelay
	}
	if cfg.RecoveryCompleteDelay <= 0 {
		cfg.RecoveryCompleteDelay = defaults.RecoveryCompleteDelay
	}
	if cfg.LatencyTickInterval <= 0 {
		cfg.LatencyTickInterval = defaults.LatencyTickInterval
	}

	s := &Simulator{
		reducer: service.NewIncidentReducer(cfg.MaxEvents),
		clock:   clock,
		rnd:     rnd,
		cfg:     cfg,
		logger:  log,
		state:   service.InitialState(clock.Now()),
	}
	s.notifyCond = sync.NewCond(&s.notifyMu)
	return s
}

// Subscribe регистрирует слушателя переходов
func (s *Simulator) Subscribe(listener Listener) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// Start запускает фоновый дрейф задержки
func (s *Simulator) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.closed {
		return
	}
	s.started = true
	s.tickTimer = s.clock.AfterFunc(s.cfg.LatencyTickInterval, s.onTick)
}

// Close останавливает все таймеры. Незавершенный инцидент остается в текущем состоянии.
func (s *Simulator) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.recoveryTimer != nil {
		s.recoveryTimer.Stop()
		s.recoveryTimer = nil
	}
	if s.tickTimer != nil {
		s.tickTimer.Stop()
		s.tickTimer = nil
	}
}

// Snapshot возвращает копию текущего состояния
func (s *Simulator) Snapshot() entity.DashboardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Trigger запускает симуляцию падения pod'а.
// false - симуляция уже идет или система не в штатном состоянии.
func (s *Simulator) Trigger() bool {
	return s.dispatch(CommandTrigger, func(state entity.DashboardState, now time.Time) (entity.DashboardState, bool) {
		return s.reducer.TriggerSimulation(state, s.rnd, now)
	}, func() {
		s.scheduleRecovery(s.cfg.RecoveryStartDelay, s.StartRecovery)
	})
}

// StartRecovery переводит упавшие pod'ы в restarting
func (s *Simulator) StartRecovery() bool {
	return s.dispatch(CommandStartRecovery, func(state entity.DashboardState, _ time.Time) (entity.DashboardState, bool) {
		return s.reducer.StartRecovery(state)
	}, func() {
		s.scheduleRecovery(s.cfg.RecoveryCompleteDelay, s.CompleteRecovery)
	})
}

// CompleteRecovery возвращает систему в healthy
func (s *Simulator) CompleteRecovery() bool {
	return s.dispatch(CommandCompleteRecovery, func(state entity.DashboardState, now time.Time) (entity.DashboardState, bool) {
		return s.reducer.CompleteRecovery(state, now)
	}, func() {
		if s.recoveryTimer != nil {
			s.recoveryTimer.Stop()
			s.recoveryTimer = nil
		}
	})
}

// Tick применяет случайный дрейф задержки
func (s *Simulator) Tick() bool {
	return s.dispatch(CommandTick, func(state entity.DashboardState, _ time.Time) (entity.DashboardState, bool) {
		return s.reducer.UpdateLatency(state, service.LatencyDelta(s.rnd))
	}, nil)
}

// dispatch применяет reducer под mu и уведомляет слушателей в порядке коммита.
// afterCommit выполняется под mu только для примененного перехода.
// Ожидание очереди уведомлений идет без mu: медленный слушатель не блокирует Snapshot.
func (s *Simulator) dispatch(
	cmd Command,
	reduce func(entity.DashboardState, time.Time) (entity.DashboardState, bool),
	afterCommit func(),
) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}

	now := s.clock.Now()
	previous := s.state
	next, applied := reduce(previous, now)
	if !applied {
		s.mu.Unlock()
		s.logger.Debug("Command ignored", "command", cmd, "status", previous.SystemStatus)
		return false
	}

	s.state = next
	if afterCommit != nil {
		afterCommit()
	}

	transition := Transition{
		Command:  cmd,
		Previous: previous.Clone(),
		State:    next.Clone(),
		At:       now,
	}

	seq := s.commitSeq
	s.commitSeq++
	s.mu.Unlock()

	s.notify(seq, transition)
	return true
}

// notify ждет, пока будут доставлены все более ранние коммиты, и вызывает слушателей
func (s *Simulator) notify(seq uint64, transition Transition) {
	s.notifyMu.Lock()
	for s.notifySeq != seq {
		s.notifyCond.Wait()
	}
	listeners := s.listeners
	s.notifyMu.Unlock()

	defer func() {
		s.notifyMu.Lock()
		s.notifySeq++
		s.notifyCond.Broadcast()
		s.notifyMu.Unlock()
	}()

	for _, listener := range listeners {
		listener(transition)
	}
}

// scheduleRecovery заменяет отложенный шаг восстановления. Caller holds mu.
func (s *Simulator) scheduleRecovery(delay time.Duration, step func() bool) {
	if s.recoveryTimer != nil {
		s.recoveryTimer.Stop()
	}
	s.recoveryTimer = s.clock.AfterFunc(delay, func() { step() })
}

func (s *Simulator) onTick() {
	s.Tick()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.tickTimer = s.clock.AfterFunc(s.cfg.LatencyTickInterval, s.onTick)
}
