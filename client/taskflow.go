package client

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Phase of a task-category tab.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseLoading   Phase = "loading"
	PhaseLoaded    Phase = "loaded"
	PhaseLoadError Phase = "load_error"
)

// TaskState of a single task within the current session.
type TaskState string

const (
	TaskAvailable TaskState = "available"
	TaskAwaiting  TaskState = "awaiting_external_action"
	TaskClaiming  TaskState = "claiming"
	TaskCompleted TaskState = "completed"
	TaskFailed    TaskState = "claim_failed"
)

var ErrTaskNotListed = errors.New("task not on the current board")

// DefaultGraceDelay between opening a task link and claiming it.
const DefaultGraceDelay = 10 * time.Second

// TaskBoard drives one Earn-screen tab. Every load bumps an epoch; a
// response is applied only if its epoch is still current, so a slow fetch
// for a tab the user left can never overwrite the active tab's list.
type TaskBoard struct {
	api *Client

	// OpenLink hands the external action to the host (Telegram WebApp
	// opens the link in a new context).
	OpenLink func(url string)

	// GraceDelay is the wait between the external action and the claim.
	GraceDelay time.Duration

	mu       sync.Mutex
	epoch    uint64
	phase    Phase
	category int
	tasks    []Task
	states   map[string]TaskState
}

func NewTaskBoard(api *Client) *TaskBoard {
	return &TaskBoard{
		api:        api,
		OpenLink:   func(string) {},
		GraceDelay: DefaultGraceDelay,
		phase:      PhaseIdle,
		states:     make(map[string]TaskState),
	}
}

// LoadCategory fetches the open tasks for a tab. Safe to call while a
// previous load is still in flight; the stale response is discarded.
func (b *TaskBoard) LoadCategory(ctx context.Context, taskTypeID int) error {
	b.mu.Lock()
	b.epoch++
	epoch := b.epoch
	b.phase = PhaseLoading
	b.category = taskTypeID
	b.mu.Unlock()

	tasks, err := b.api.TasksWithType(ctx, taskTypeID)

	b.mu.Lock()
	defer b.mu.Unlock()
	if epoch != b.epoch {
		// The user switched tabs while this request was in flight.
		return nil
	}
	if err != nil {
		b.phase = PhaseLoadError
		return err
	}

	b.phase = PhaseLoaded
	b.tasks = tasks
	states := make(map[string]TaskState, len(tasks))
	for _, task := range tasks {
		// Completed is terminal for the session even across reloads.
		if b.states[task.ID] == TaskCompleted {
			states[task.ID] = TaskCompleted
			continue
		}
		states[task.ID] = TaskAvailable
	}
	b.states = states
	return nil
}

// CompleteTask runs the full per-task interaction: open the external link,
// wait out the grace delay, then claim. Completed is terminal; repeated
// calls for a completed task are no-ops.
func (b *TaskBoard) CompleteTask(ctx context.Context, taskID string) (*ClaimResult, error) {
	b.mu.Lock()
	task, ok := b.findTask(taskID)
	if !ok {
		b.mu.Unlock()
		return nil, ErrTaskNotListed
	}
	if b.states[taskID] == TaskCompleted {
		b.mu.Unlock()
		return nil, nil
	}
	b.states[taskID] = TaskAwaiting
	b.mu.Unlock()

	b.OpenLink(task.Link)

	select {
	case <-time.After(b.GraceDelay):
	case <-ctx.Done():
		b.setState(taskID, TaskAvailable)
		return nil, ctx.Err()
	}

	b.setState(taskID, TaskClaiming)

	result, err := b.api.ClaimTask(ctx, taskID)
	switch {
	case err == nil:
		b.setState(taskID, TaskCompleted)
		return result, nil
	case errors.Is(err, ErrAlreadyClaimed):
		// Already credited earlier; show the checkmark, not an error.
		b.setState(taskID, TaskCompleted)
		return nil, nil
	case errors.Is(err, ErrTaskClosed):
		b.removeTask(taskID)
		return nil, err
	default:
		b.setState(taskID, TaskFailed)
		return nil, err
	}
}

// Phase returns the tab's load phase.
func (b *TaskBoard) Phase() Phase {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.phase
}

// Category returns the currently displayed tab.
func (b *TaskBoard) Category() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.category
}

// Tasks returns a copy of the displayed task list.
func (b *TaskBoard) Tasks() []Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	tasks := make([]Task, len(b.tasks))
	copy(tasks, b.tasks)
	return tasks
}

// State returns the session state of one task.
func (b *TaskBoard) State(taskID string) TaskState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.states[taskID]
}

func (b *TaskBoard) findTask(taskID string) (Task, bool) {
	for _, task := range b.tasks {
		if task.ID == taskID {
			return task, true
		}
	}
	return Task{}, false
}

func (b *TaskBoard) setState(taskID string, state TaskState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.states[taskID] == TaskCompleted && state != TaskCompleted {
		return
	}
	b.states[taskID] = state
}

func (b *TaskBoard) removeTask(taskID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	tasks := b.tasks[:0]
	for _, task := range b.tasks {
		if task.ID != taskID {
			tasks = append(tasks, task)
		}
	}
	b.tasks = tasks
	delete(b.states, taskID)
}
