package timer

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler starts repeating callbacks.
type Scheduler interface {
	// Every calls fn once per interval until the returned handle is cancelled.
	Every(interval time.Duration, fn func()) (Handle, error)
}

// Handle is a cancellable registration returned by Scheduler.Every.
type Handle interface {
	Cancel() error
}

// GocronScheduler runs ticks on a gocron scheduler.
type GocronScheduler struct {
	scheduler gocron.Scheduler
}

// NewGocronScheduler creates and starts a gocron-backed Scheduler.
func NewGocronScheduler(opts ...gocron.SchedulerOption) (*GocronScheduler, error) {
	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	s.Start()
	return &GocronScheduler{scheduler: s}, nil
}

// Every implements Scheduler. A slow callback delays the next run instead of
// overlapping it.
func (g *GocronScheduler) Every(interval time.Duration, fn func()) (Handle, error) {
	job, err := g.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(fn),
		gocron.WithName("pomo-tick"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tick job: %w", err)
	}
	return &gocronHandle{scheduler: g.scheduler, job: job}, nil
}

// Shutdown stops the scheduler and all of its jobs.
func (g *GocronScheduler) Shutdown() error {
	return g.scheduler.Shutdown()
}

type gocronHandle struct {
	scheduler gocron.Scheduler
	job       gocron.Job
}

func (h *gocronHandle) Cancel() error {
	return h.scheduler.RemoveJob(h.job.ID())
}

// ManualScheduler is a Scheduler driven by explicit Fire calls.
type ManualScheduler struct {
	mu     sync.Mutex
	nextID int
	jobs   map[int]func()
}

// NewManualScheduler creates an empty ManualScheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{jobs: make(map[int]func())}
}

// Every implements Scheduler. The interval is ignored.
func (m *ManualScheduler) Every(_ time.Duration, fn func()) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	m.jobs[id] = fn
	return &manualHandle{m: m, id: id}, nil
}

// Fire runs every active callback once, n times over.
func (m *ManualScheduler) Fire(n int) {
	for i := 0; i < n; i++ {
		m.mu.Lock()
		fns := make([]func(), 0, len(m.jobs))
		for id := 1; id <= m.nextID; id++ {
			if fn, ok := m.jobs[id]; ok {
				fns = append(fns, fn)
			}
		}
		m.mu.Unlock()

		for _, fn := range fns {
			fn()
		}
	}
}

// Active returns the number of registered callbacks.
func (m *ManualScheduler) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

type manualHandle struct {
	m  *ManualScheduler
	id int
}

func (h *manualHandle) Cancel() error {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	delete(h.m.jobs, h.id)
	return nil
}
