package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTasks(w http.ResponseWriter, tasks []Task) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(tasks)
}

func writeAPIError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code, "code": code})
}

func TestLoadCategoryDiscardsStaleResponse(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var startedOnce sync.Once

	mux := http.NewServeMux()
	mux.HandleFunc("/api/task/get_tasks_with_type", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("task_type_id") {
		case "1":
			startedOnce.Do(func() { close(started) })
			<-release
			writeTasks(w, []Task{{ID: "task-cat1", TaskTypeID: 1, Name: "slow"}})
		default:
			writeTasks(w, []Task{{ID: "task-cat2", TaskTypeID: 2, Name: "fast"}})
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	board := NewTaskBoard(NewClient(srv.URL, 42))

	done := make(chan error, 1)
	go func() { done <- board.LoadCategory(context.Background(), 1) }()
	<-started

	// The user switches tabs while category 1 is still in flight.
	require.NoError(t, board.LoadCategory(context.Background(), 2))

	close(release)
	require.NoError(t, <-done)

	// The late category-1 response must not overwrite the active tab.
	tasks := board.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "task-cat2", tasks[0].ID)
	assert.Equal(t, 2, board.Category())
	assert.Equal(t, PhaseLoaded, board.Phase())
}

func TestLoadCategoryError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusInternalServerError, "internal_error")
	}))
	defer srv.Close()

	board := NewTaskBoard(NewClient(srv.URL, 42))

	err := board.LoadCategory(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, PhaseLoadError, board.Phase())
}

func newLoadedBoard(t *testing.T, srvURL string) *TaskBoard {
	t.Helper()

	board := NewTaskBoard(NewClient(srvURL, 42))
	board.GraceDelay = time.Millisecond
	require.NoError(t, board.LoadCategory(context.Background(), 1))
	return board
}

func singleTaskMux(claim http.HandlerFunc) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/task/get_tasks_with_type", func(w http.ResponseWriter, r *http.Request) {
		writeTasks(w, []Task{{ID: "task-1", TaskTypeID: 1, Name: "Join", Link: "https://t.me/x", RewardPoints: 50}})
	})
	mux.HandleFunc("/api/task/claim_task", claim)
	return mux
}

func TestCompleteTaskSuccess(t *testing.T) {
	srv := httptest.NewServer(singleTaskMux(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ClaimResult{
			Task:    Task{ID: "task-1", CompletedClicks: 1, RewardPoints: 50},
			Balance: 50,
		})
	}))
	defer srv.Close()

	board := newLoadedBoard(t, srv.URL)
	var openedLink string
	board.OpenLink = func(url string) { openedLink = url }

	result, err := board.CompleteTask(context.Background(), "task-1")
	require.NoError(t, err)
	assert.Equal(t, "https://t.me/x", openedLink)
	assert.Equal(t, 50, result.Balance)
	assert.Equal(t, TaskCompleted, board.State("task-1"))

	// Completed is terminal for the session.
	result, err = board.CompleteTask(context.Background(), "task-1")
	require.NoError(t, err)
	assert.Nil(t, result)

	// A reload keeps the completion mark.
	require.NoError(t, board.LoadCategory(context.Background(), 1))
	assert.Equal(t, TaskCompleted, board.State("task-1"))
}

func TestCompleteTaskAlreadyClaimedShowsCompleted(t *testing.T) {
	srv := httptest.NewServer(singleTaskMux(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusConflict, "already_claimed")
	}))
	defer srv.Close()

	board := newLoadedBoard(t, srv.URL)

	result, err := board.CompleteTask(context.Background(), "task-1")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, TaskCompleted, board.State("task-1"))
}

func TestCompleteTaskClosedRemovesTask(t *testing.T) {
	srv := httptest.NewServer(singleTaskMux(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusGone, "task_closed")
	}))
	defer srv.Close()

	board := newLoadedBoard(t, srv.URL)

	_, err := board.CompleteTask(context.Background(), "task-1")
	assert.ErrorIs(t, err, ErrTaskClosed)
	assert.Empty(t, board.Tasks())
}

func TestCompleteTaskFailureIsRetryable(t *testing.T) {
	srv := httptest.NewServer(singleTaskMux(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusInternalServerError, "internal_error")
	}))
	defer srv.Close()

	board := newLoadedBoard(t, srv.URL)

	_, err := board.CompleteTask(context.Background(), "task-1")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, TaskFailed, board.State("task-1"))

	_, err = board.CompleteTask(context.Background(), "unknown-task")
	assert.ErrorIs(t, err, ErrTaskNotListed)
}
