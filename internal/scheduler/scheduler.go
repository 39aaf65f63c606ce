package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// Task describes a recurring background job.
type Task struct {
	ID          string
	Name        string
	Description string
	Cron        string // standard five-field cron expression
	RunOnStart  bool   // execute once immediately when the scheduler starts
	Run         func(ctx context.Context) error
}

// Info is the task state reported on the API.
type Info struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Cron        string     `json:"cron"`
	LastRun     *time.Time `json:"lastRun,omitempty"`
	NextRun     *time.Time `json:"nextRun,omitempty"`
	Running     bool       `json:"running"`
}

type entry struct {
	task    Task
	job     gocron.Job
	lastRun *time.Time
	running bool
}

// Scheduler runs registered tasks on their cron schedules.
type Scheduler struct {
	gocron  gocron.Scheduler
	logger  zerolog.Logger
	mu      sync.RWMutex
	entries map[string]*entry
}

// New creates a stopped scheduler. Call Start after registering tasks.
func New(logger zerolog.Logger) (*Scheduler, error) {
	gs, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Scheduler{
		gocron:  gs,
		logger:  logger.With().Str("component", "scheduler").Logger(),
		entries: make(map[string]*entry),
	}, nil
}

// Register adds a task to the schedule. Task IDs must be unique.
func (s *Scheduler) Register(task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[task.ID]; exists {
		return fmt.Errorf("task %q already registered", task.ID)
	}

	job, err := s.gocron.NewJob(
		gocron.CronJob(task.Cron, false),
		gocron.NewTask(func() { s.run(task.ID) }),
		gocron.WithName(task.Name),
		gocron.WithTags(task.ID),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule task %q: %w", task.ID, err)
	}

	s.entries[task.ID] = &entry{task: task, job: job}

	s.logger.Info().
		Str("id", task.ID).
		Str("cron", task.Cron).
		Bool("runOnStart", task.RunOnStart).
		Msg("Registered task")

	return nil
}

func (s *Scheduler) run(id string) {
	s.mu.Lock()
	e, exists := s.entries[id]
	if !exists {
		s.mu.Unlock()
		return
	}
	e.running = true
	s.mu.Unlock()

	started := time.Now()
	s.logger.Info().Str("id", id).Msg("Starting task")

	err := e.task.Run(context.Background())

	s.mu.Lock()
	e.running = false
	e.lastRun = &started
	s.mu.Unlock()

	if err != nil {
		s.logger.Error().
			Err(err).
			Str("id", id).
			Dur("duration", time.Since(started)).
			Msg("Task failed")
		return
	}
	s.logger.Info().
		Str("id", id).
		Dur("duration", time.Since(started)).
		Msg("Task completed")
}

// Start begins cron dispatch and fires any RunOnStart tasks.
func (s *Scheduler) Start() {
	s.logger.Info().Msg("Starting scheduler")
	s.gocron.Start()

	s.mu.RLock()
	var startup []string
	for id, e := range s.entries {
		if e.task.RunOnStart {
			startup = append(startup, id)
		}
	}
	s.mu.RUnlock()

	for _, id := range startup {
		go s.run(id)
	}
}

// Stop shuts the scheduler down, waiting for running tasks.
func (s *Scheduler) Stop() error {
	s.logger.Info().Msg("Stopping scheduler")
	return s.gocron.Shutdown()
}

// RunNow triggers a task outside its schedule.
func (s *Scheduler) RunNow(id string) error {
	s.mu.RLock()
	e, exists := s.entries[id]
	s.mu.RUnlock()

	if !exists {
		return fmt.Errorf("task %q not found", id)
	}
	if e.running {
		return fmt.Errorf("task %q is already running", id)
	}

	go s.run(id)
	return nil
}

// Tasks reports all registered tasks sorted by ID.
func (s *Scheduler) Tasks() []Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]Info, 0, len(s.entries))
	for _, e := range s.entries {
		info := Info{
			ID:          e.task.ID,
			Name:        e.task.Name,
			Description: e.task.Description,
			Cron:        e.task.Cron,
			LastRun:     e.lastRun,
			Running:     e.running,
		}
		if next, err := e.job.NextRun(); err == nil {
			info.NextRun = &next
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}
