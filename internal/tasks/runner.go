// Package tasks runs background work and records its outcome in the task
// table so callers can poll for it.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/robertobuso/legal-evidence-organizer/internal/models"
	"github.com/robertobuso/legal-evidence-organizer/internal/repository"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
)

// Func is one unit of background work. The returned value is stored as the
// task's JSON result.
type Func func(ctx context.Context) (any, error)

type Runner struct {
	store  repository.TaskStore
	logger *utils.Logger
	wg     sync.WaitGroup
}

func NewRunner(store repository.TaskStore, logger *utils.Logger) *Runner {
	return &Runner{store: store, logger: logger}
}

// Submit records a pending task and starts fn. The caller's context only
// bounds the insert; fn runs on a fresh context and is never cancelled.
func (r *Runner) Submit(ctx context.Context, kind string, targetID *int64, fn Func) (*models.Task, error) {
	task := &models.Task{
		ID:       utils.GenerateID(),
		Kind:     kind,
		Status:   models.TaskPending,
		TargetID: targetID,
	}
	if err := r.store.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.run(task, fn)
	}()

	return task, nil
}

func (r *Runner) run(task *models.Task, fn Func) {
	log := r.logger.With("task_id", task.ID, "kind", task.Kind)
	start := time.Now()
	log.Info("task started")

	result, err := r.call(fn)

	status := models.TaskSucceeded
	var body []byte
	errMsg := ""
	if err != nil {
		status = models.TaskFailed
		errMsg = err.Error()
	} else if result != nil {
		var mErr error
		if body, mErr = json.Marshal(result); mErr != nil {
			log.Error("failed to encode task result", "error", mErr)
			body = nil
		}
	}

	if ferr := r.store.FinishTask(context.Background(), task.ID, status, body, errMsg); ferr != nil {
		log.Error("failed to record task outcome", "error", ferr, "status", status)
		return
	}

	if err != nil {
		log.Error("task failed", "error", err, "duration", time.Since(start))
		return
	}
	log.Info("task finished", "duration", time.Since(start))
}

func (r *Runner) call(fn Func) (result any, err error) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("task panicked", "panic", p, "stack", string(debug.Stack()))
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn(context.Background())
}

// Wait blocks until every submitted task has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}
