// Package capture decouples "item captured" from "item fully enriched":
// Enqueue creates a provisional item synchronously so the capturing UI can
// close at once, while title/type/metadata refinement runs on background
// workers. Enrichment failure never invalidates the capture.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/memexlabs/memex/backend"
	"github.com/memexlabs/memex/enrich"
	"github.com/memexlabs/memex/internal/urlutil"
	"github.com/memexlabs/memex/store"
)

var (
	ErrEmptyURL    = errors.New("empty url")
	ErrNoUser      = errors.New("no authenticated user")
	ErrQueueClosed = errors.New("queue is closed")
	ErrQueueFull   = errors.New("queue is full")
)

type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

type Request struct {
	URL     string
	SpaceID string
	Source  string
}

// Task is the handle for one enqueued capture. Callers may ignore it; the
// item is already in the store when Enqueue returns.
type Task struct {
	ID      string
	ItemID  string
	URL     string
	SpaceID string
	Source  string

	CreatedAt  time.Time
	StartedAt  time.Time
	FinishedAt time.Time

	mu     sync.Mutex
	status Status
	err    error
	done   chan struct{}
}

func (t *Task) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Err reports the terminal enrichment error, nil while running or on
// success.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Done is closed when enrichment reaches a terminal state.
func (t *Task) Done() <-chan struct{} { return t.done }

type Config struct {
	Workers   int
	MaxQueue  int
	Attempts  int
	BaseDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		Workers:  2,
		MaxQueue: 100,
		Attempts: 1, // one enrichment attempt per item unless configured
	}
}

type Queue struct {
	store    *store.Store
	svc      backend.Service
	dispatch *backend.Dispatcher
	pipeline *enrich.Pipeline
	cfg      Config
	log      *slog.Logger

	mu         sync.Mutex
	processing map[string]*Task // keyed by item id

	tasks     chan *Task
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

type Option func(*Queue)

func WithLogger(log *slog.Logger) Option {
	return func(q *Queue) {
		if log != nil {
			q.log = log
		}
	}
}

func New(st *store.Store, svc backend.Service, dispatch *backend.Dispatcher, pipeline *enrich.Pipeline, cfg Config, opts ...Option) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.MaxQueue <= 0 {
		cfg.MaxQueue = 100
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = 1
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 500 * time.Millisecond
	}
	q := &Queue{
		store:      st,
		svc:        svc,
		dispatch:   dispatch,
		pipeline:   pipeline,
		cfg:        cfg,
		log:        slog.Default(),
		processing: make(map[string]*Task),
		tasks:      make(chan *Task, cfg.MaxQueue),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	for i := 0; i < cfg.Workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	return q
}

// Enqueue validates, creates the provisional item synchronously, and hands
// enrichment to the workers. Validation failures reject the capture before
// any state mutation.
func (q *Queue) Enqueue(ctx context.Context, req Request) (*Task, error) {
	_ = ctx

	select {
	case <-q.done:
		return nil, ErrQueueClosed
	default:
	}

	host, err := urlutil.HostTitle(req.URL)
	if err != nil {
		if req.URL == "" {
			return nil, ErrEmptyURL
		}
		return nil, fmt.Errorf("invalid capture url: %w", err)
	}
	userID := q.svc.CurrentUserID()
	if userID == "" {
		return nil, ErrNoUser
	}

	now := time.Now()
	item := store.Item{
		ID:        uuid.NewString(),
		OwnerID:   userID,
		Title:     host,
		URL:       req.URL,
		Type:      store.ContentTypeBookmark,
		CreatedAt: now.UnixMilli(),
		UpdatedAt: now.UnixMilli(),
	}

	task := &Task{
		ID:        uuid.NewString(),
		ItemID:    item.ID,
		URL:       req.URL,
		SpaceID:   req.SpaceID,
		Source:    req.Source,
		CreatedAt: now,
		status:    StatusQueued,
		done:      make(chan struct{}),
	}

	q.store.AddItem(item)
	if req.SpaceID != "" {
		q.store.AddItemToSpace(item.ID, req.SpaceID)
	}

	q.mu.Lock()
	q.processing[item.ID] = task
	q.mu.Unlock()

	q.dispatch.Go("create_item", func(ctx context.Context) error {
		return q.svc.CreateItem(ctx, item)
	})
	if req.SpaceID != "" {
		q.dispatch.Go("add_item_to_space", func(ctx context.Context) error {
			return q.svc.AddItemToSpace(ctx, item.ID, req.SpaceID)
		})
	}

	select {
	case q.tasks <- task:
		return task, nil
	default:
		// Queue saturated: the capture stays valid, only enrichment is
		// skipped.
		q.finish(task, ErrQueueFull)
		return task, nil
	}
}

// Processing reports the item ids currently queued or running.
func (q *Queue) Processing() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]string, 0, len(q.processing))
	for id := range q.processing {
		out = append(out, id)
	}
	return out
}

// Close stops accepting work and waits for in-flight enrichment to
// finish. Tasks still buffered when the workers exit are failed with
// ErrQueueClosed so their waiters are released and the processing-set
// entries cleared.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.done)
	})
	q.wg.Wait()
	for {
		select {
		case task := <-q.tasks:
			q.finish(task, ErrQueueClosed)
		default:
			return
		}
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for {
		select {
		case <-q.done:
			return
		case task := <-q.tasks:
			q.run(task)
		}
	}
}

func (q *Queue) run(task *Task) {
	task.mu.Lock()
	task.status = StatusRunning
	task.StartedAt = time.Now()
	task.mu.Unlock()

	// Enrichment deliberately ignores caller cancellation: a capture that
	// navigated away still gets its result written.
	var (
		res enrich.Result
		err error
	)
	for attempt := 1; attempt <= q.cfg.Attempts; attempt++ {
		res, err = q.pipeline.Enrich(context.Background(), task.URL)
		if err == nil {
			break
		}
		if attempt < q.cfg.Attempts {
			time.Sleep(q.cfg.BaseDelay << (attempt - 1))
		}
	}
	if err != nil {
		q.log.Warn("enrichment failed, keeping provisional item",
			"item_id", task.ItemID, "url", task.URL, "error", err)
		q.finish(task, err)
		return
	}

	item, ok := q.store.ItemByID(task.ItemID)
	if !ok {
		// Deleted while enriching; nothing to update.
		q.finish(task, store.ErrNotFound)
		return
	}
	if res.Title != "" {
		item.Title = res.Title
	}
	item.Type = res.Type
	if res.Meta != nil {
		item.Meta = res.Meta
	}
	if err := q.store.UpdateItem(item); err != nil {
		q.finish(task, err)
		return
	}
	q.dispatch.Go("update_item", func(ctx context.Context) error {
		return q.svc.UpdateItem(ctx, item)
	})
	q.finish(task, nil)
}

// finish moves the task to its terminal state and clears the
// processing-set entry, for success and failure alike.
func (q *Queue) finish(task *Task, err error) {
	q.mu.Lock()
	delete(q.processing, task.ItemID)
	q.mu.Unlock()

	task.mu.Lock()
	if err != nil {
		task.status = StatusFailed
		task.err = err
	} else {
		task.status = StatusSucceeded
	}
	task.FinishedAt = time.Now()
	task.mu.Unlock()
	close(task.done)
}
