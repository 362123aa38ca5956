// Package monitor polls the executions feed on a cron schedule.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dukex/flowbit/pkg/models"
	"github.com/dukex/flowbit/pkg/services"
	"github.com/robfig/cron/v3"
)

const DefaultSchedule = "@every 30s"

var ErrAlreadyStarted = errors.New("monitor already started")

// Lister produces the aggregated executions feed.
type Lister interface {
	List(ctx context.Context) services.ExecutionList
}

// Snapshot summarizes one poll.
type Snapshot struct {
	At            time.Time                      `json:"at"`
	Count         int                            `json:"count"`
	UsingMockData bool                           `json:"usingMockData"`
	Message       string                         `json:"message"`
	StatusCounts  map[models.ExecutionStatus]int `json:"statusCounts"`
	Executions    []models.ExecutionSummary      `json:"-"`
}

type Option func(*Monitor)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Monitor) {
		m.logger = logger
	}
}

// WithNotify registers a function called after every poll.
func WithNotify(notify func(Snapshot)) Option {
	return func(m *Monitor) {
		m.notify = notify
	}
}

type Monitor struct {
	lister   Lister
	schedule string
	logger   *slog.Logger
	notify   func(Snapshot)
	now      func() time.Time

	mu   sync.RWMutex
	cron *cron.Cron
	last *Snapshot
}

func New(lister Lister, schedule string, opts ...Option) (*Monitor, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}

	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid poll schedule %q: %w", schedule, err)
	}

	m := &Monitor{
		lister:   lister,
		schedule: schedule,
		logger:   slog.Default(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.logger = m.logger.With("module", "monitor", "schedule", schedule)

	return m, nil
}

// Start schedules polling until ctx is done or Stop is called.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cron != nil {
		return ErrAlreadyStarted
	}

	m.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	id, err := m.cron.AddFunc(m.schedule, func() {
		m.Poll(ctx)
	})
	if err != nil {
		m.cron = nil

		return fmt.Errorf("failed to add poll job: %w", err)
	}

	m.logger.InfoContext(ctx, "Starting monitor", "job_id", id)
	m.cron.Start()

	go func() {
		<-ctx.Done()
		_ = m.Stop(context.Background())
	}()

	return nil
}

// Stop halts scheduling and waits for a running poll up to ctx's deadline.
func (m *Monitor) Stop(ctx context.Context) error {
	m.mu.Lock()
	scheduler := m.cron
	m.cron = nil
	m.mu.Unlock()

	if scheduler == nil {
		return nil
	}

	m.logger.InfoContext(ctx, "Stopping monitor")

	select {
	case <-scheduler.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Poll lists executions once and records the snapshot.
func (m *Monitor) Poll(ctx context.Context) Snapshot {
	list := m.lister.List(ctx)

	snapshot := Snapshot{
		At:            m.now(),
		Count:         len(list.Executions),
		UsingMockData: list.UsingMockData,
		Message:       list.Message,
		StatusCounts:  map[models.ExecutionStatus]int{},
		Executions:    list.Executions,
	}

	for _, execution := range list.Executions {
		snapshot.StatusCounts[execution.Status]++
	}

	m.mu.Lock()
	m.last = &snapshot
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "executions polled",
		"count", snapshot.Count,
		"using_mock_data", snapshot.UsingMockData,
		"success", snapshot.StatusCounts[models.ExecutionStatusSuccess],
		"error", snapshot.StatusCounts[models.ExecutionStatusError],
		"running", snapshot.StatusCounts[models.ExecutionStatusRunning],
	)

	if m.notify != nil {
		m.notify(snapshot)
	}

	return snapshot
}

// Last returns the most recent snapshot, if any poll has completed.
func (m *Monitor) Last() (Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.last == nil {
		return Snapshot{}, false
	}

	return *m.last, true
}
