package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tasklane/tasklane-api/internal/api/shared"
	"github.com/tasklane/tasklane-api/internal/domain"
	"github.com/tasklane/tasklane-api/internal/store"
)

// TaskHandler serves the task CRUD, the state shortcuts, and the
// per-user statistics. Every operation is scoped to the authenticated
// user; another user's task reads as nonexistent.
type TaskHandler struct {
	tasks    store.TaskStore
	timeFunc func() time.Time // Injectable for testing
}

// NewTaskHandler creates a TaskHandler backed by the given store.
func NewTaskHandler(tasks store.TaskStore) *TaskHandler {
	return &TaskHandler{
		tasks:    tasks,
		timeFunc: time.Now,
	}
}

// Create handles POST /task/.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := MustUserID(w, r)
	if !ok {
		return
	}

	var req TaskIn
	if !DecodeValidated(w, r, &req) {
		return
	}

	tag, ok := h.parseTag(w, r, req.Tag)
	if !ok {
		return
	}

	task, err := domain.NewTask(userID, req.Title, req.Description, req.DueDate, tag)
	if err != nil {
		shared.RespondValidationError(w, r, err.Error())
		return
	}

	if err := h.tasks.Create(r.Context(), task); err != nil {
		shared.RespondEnvelope(w, r, TaskOut{
			Envelope: shared.NewEnvelope(http.StatusBadRequest, "Failed to add task"),
		})
		return
	}

	shared.RespondCreated(w, r, TaskOut{
		Envelope: shared.NewEnvelope(http.StatusCreated, "Task added successfully"),
		Task:     newTaskPayload(task),
	})
}

// List handles GET /task/ with filtering, search, sorting, and paging.
// An invalid state or tag filter fails the whole call with an empty page.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := MustUserID(w, r)
	if !ok {
		return
	}

	pageSize, ok := QueryInt(w, r, "page_size", store.DefaultPageSize)
	if !ok {
		return
	}
	pageNumber, ok := QueryInt(w, r, "page_number", 1)
	if !ok {
		return
	}

	q := r.URL.Query()
	params := store.TaskListParams{
		State:      q.Get("state"),
		Tag:        q.Get("tag"),
		Search:     q.Get("search"),
		SortBy:     q.Get("sort_by"),
		SortOrder:  q.Get("sort_order"),
		PageSize:   pageSize,
		PageNumber: pageNumber,
	}
	params.Normalize()

	page, err := h.tasks.List(r.Context(), userID, params)
	if err != nil {
		var message string
		switch {
		case errors.Is(err, domain.ErrInvalidTaskState):
			message = fmt.Sprintf("Invalid state: %s", params.State)
		case errors.Is(err, domain.ErrInvalidTaskTag):
			message = fmt.Sprintf("Invalid tag: %s", params.Tag)
		default:
			message = "Failed to retrieve tasks"
		}
		shared.RespondEnvelope(w, r, TasksOut{
			Envelope:   shared.NewEnvelope(http.StatusBadRequest, message),
			PageNumber: params.PageNumber,
			PageSize:   params.PageSize,
			List:       []TaskPayload{},
		})
		return
	}

	shared.RespondEnvelope(w, r,
		newTasksOut(shared.NewEnvelope(http.StatusOK, "Tasks retrieved successfully"), params, page))
}

// GetByID handles GET /task/{id}.
func (h *TaskHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.taskTarget(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.GetByID(r.Context(), userID, id)
	if err != nil {
		h.respondLookupFailure(w, r, id, err, "Failed to retrieve tasks")
		return
	}

	shared.RespondEnvelope(w, r, TaskOut{
		Envelope: shared.NewEnvelope(http.StatusOK, "Task retrieved successfully"),
		Task:     newTaskPayload(task),
	})
}

// Update handles PUT /task/{id}: a free-form replacement of the mutable
// fields. Concurrent updates are last-write-wins.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.taskTarget(w, r)
	if !ok {
		return
	}

	var req TaskIn
	if !DecodeValidated(w, r, &req) {
		return
	}

	tag, ok := h.parseTag(w, r, req.Tag)
	if !ok {
		return
	}

	task, err := h.tasks.GetByID(r.Context(), userID, id)
	if err != nil {
		h.respondLookupFailure(w, r, id, err, "Failed to update task")
		return
	}

	task.Title = req.Title
	task.Description = req.Description
	task.DueDate = req.DueDate
	task.Tag = tag
	task.UpdatedOn = h.timeFunc().UTC()

	if err := h.tasks.Update(r.Context(), task); err != nil {
		shared.RespondEnvelope(w, r, TaskOut{
			Envelope: shared.NewEnvelope(http.StatusBadRequest, "Failed to update task"),
		})
		return
	}

	shared.RespondEnvelope(w, r, TaskOut{
		Envelope: shared.NewEnvelope(http.StatusOK, "Task updated successfully"),
		Task:     newTaskPayload(task),
	})
}

// Delete handles DELETE /task/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.taskTarget(w, r)
	if !ok {
		return
	}

	err := h.tasks.Delete(r.Context(), userID, id)
	if err != nil {
		h.respondLookupFailure(w, r, id, err, "Failed to delete task")
		return
	}

	shared.RespondEnvelope(w, r, TaskOut{
		Envelope: shared.NewEnvelope(http.StatusOK, "Task deleted successfully"),
	})
}

// MarkAsDone handles PUT /task/mark_as_done/{id}. Marking an already
// done task is a no-op success.
func (h *TaskHandler) MarkAsDone(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.taskTarget(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.GetByID(r.Context(), userID, id)
	if err != nil {
		h.respondLookupFailure(w, r, id, err, "Failed to mark task as done")
		return
	}

	task.MarkDone()
	if err := h.tasks.UpdateState(r.Context(), userID, id, task.State); err != nil {
		shared.RespondEnvelope(w, r, TaskOut{
			Envelope: shared.NewEnvelope(http.StatusBadRequest, "Failed to mark task as done"),
		})
		return
	}

	shared.RespondEnvelope(w, r, TaskOut{
		Envelope: shared.NewEnvelope(http.StatusOK, "Task marked as done successfully"),
		Task:     newTaskPayload(task),
	})
}

// ToggleState handles PUT /task/toggle_state/{id}: the cycle
// todo, doing, done, and back to todo.
func (h *TaskHandler) ToggleState(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.taskTarget(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.GetByID(r.Context(), userID, id)
	if err != nil {
		h.respondLookupFailure(w, r, id, err, "Failed to toggle task state")
		return
	}

	newState := task.Toggle()
	if err := h.tasks.UpdateState(r.Context(), userID, id, newState); err != nil {
		shared.RespondEnvelope(w, r, TaskOut{
			Envelope: shared.NewEnvelope(http.StatusBadRequest, "Failed to toggle task state"),
		})
		return
	}

	shared.RespondEnvelope(w, r, TaskOut{
		Envelope: shared.NewEnvelope(http.StatusOK,
			fmt.Sprintf("Task state changed to %s", newState)),
		Task: newTaskPayload(task),
	})
}

// Stats handles GET /task/stats/summary.
func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := MustUserID(w, r)
	if !ok {
		return
	}

	stats, err := h.tasks.Stats(r.Context(), userID, h.timeFunc().UTC())
	if err != nil {
		shared.RespondEnvelope(w, r,
			shared.NewEnvelope(http.StatusBadRequest, "Failed to retrieve statistics"))
		return
	}

	shared.RespondEnvelope(w, r, StatsOut{
		Envelope: shared.NewEnvelope(http.StatusOK, "Statistics retrieved successfully"),
		Data:     stats,
	})
}

// taskTarget resolves the authenticated user and the task id path
// parameter, writing the failure response itself when either is missing.
func (h *TaskHandler) taskTarget(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := MustUserID(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	id, ok := PathUUID(w, r, "id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}

// parseTag validates an optional tag value, writing the 400 envelope on
// an unknown tag.
func (h *TaskHandler) parseTag(w http.ResponseWriter, r *http.Request, raw *string) (*domain.TaskTag, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	tag, err := domain.ParseTaskTag(*raw)
	if err != nil {
		shared.RespondEnvelope(w, r, TaskOut{
			Envelope: shared.NewEnvelope(http.StatusBadRequest,
				fmt.Sprintf("Invalid tag: %s", *raw)),
		})
		return nil, false
	}
	return &tag, true
}

func (h *TaskHandler) respondLookupFailure(w http.ResponseWriter, r *http.Request, id uuid.UUID, err error, fallback string) {
	if errors.Is(err, store.ErrTaskNotFound) {
		shared.RespondEnvelope(w, r, TaskOut{
			Envelope: shared.NewEnvelope(http.StatusNotFound,
				fmt.Sprintf("Task with id: %s does not exist", id)),
		})
		return
	}
	shared.RespondEnvelope(w, r, TaskOut{
		Envelope: shared.NewEnvelope(http.StatusBadRequest, fallback),
	})
}
