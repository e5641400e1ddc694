package schedule

import (
	"log/slog"
	"sync"
)

// Queue runs deferred one-shot callbacks on the tick they are due. Tick is
// expected to be called once per tick from the goroutine that owns the world
// the callbacks operate on, so that callbacks run on that goroutine too.
type Queue struct {
	log *slog.Logger

	mu      sync.Mutex
	current int64
	tasks   []task
}

type task struct {
	due int64
	f   func()
}

// NewQueue returns an empty Queue. A nil logger is replaced with
// slog.Default().
func NewQueue(log *slog.Logger) *Queue {
	if log == nil {
		log = slog.Default()
	}
	return &Queue{log: log}
}

// After schedules f to run ticks ticks from now. A delay of less than one
// tick is run on the next Tick. Callbacks due on the same tick run in the
// order they were scheduled.
func (q *Queue) After(ticks int, f func()) {
	if f == nil {
		return
	}
	if ticks < 1 {
		ticks = 1
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, task{due: q.current + int64(ticks), f: f})
	q.mu.Unlock()
}

// Tick advances the Queue by one tick and runs every callback that became
// due. Callbacks scheduled by a running callback run on a later tick. A
// callback that panics is logged and does not prevent the others from
// running.
func (q *Queue) Tick() {
	q.mu.Lock()
	q.current++
	now := q.current
	var due []task
	kept := q.tasks[:0]
	for _, t := range q.tasks {
		if t.due <= now {
			due = append(due, t)
			continue
		}
		kept = append(kept, t)
	}
	clear(q.tasks[len(kept):])
	q.tasks = kept
	q.mu.Unlock()

	for _, t := range due {
		q.run(now, t.f)
	}
}

func (q *Queue) run(tick int64, f func()) {
	defer func() {
		if r := recover(); r != nil {
			q.log.Error("scheduled task panicked", "tick", tick, "panic", r)
		}
	}()
	f()
}

// Pending returns the number of callbacks that have not yet run.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Current returns the number of ticks the Queue has advanced.
func (q *Queue) Current() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.current
}
