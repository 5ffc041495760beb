// Copyright (c) 2026 Taskora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// HTTP delivery layer for the task domain.
//
// All routes are nested under /api/v1/projects/{projectId}/tasks, so every
// handler resolves both the projectId and taskId URL parameters.
package task

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/taskora/internal/platform/request"
	"github.com/taibuivan/taskora/internal/platform/respond"
	"github.com/taibuivan/taskora/internal/platform/validate"
	"github.com/taibuivan/taskora/pkg/pagination"
	"github.com/taibuivan/taskora/pkg/pointer"
)

// Handler implements task-related HTTP endpoints.
type Handler struct {
	taskService *Service
}

// NewHandler constructs a new task [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{taskService: service}
}

// Routes returns a [chi.Router] with the task endpoints, intended to be
// mounted at /projects/{projectId}/tasks.
//
// # Endpoints
//   - GET    /                   : Paginated listing, optional status filter.
//   - POST   /                   : Create a task.
//   - GET    /{taskId}           : Fetch a single task.
//   - PATCH  /{taskId}           : Partial update.
//   - PATCH  /{taskId}/{action}  : Lifecycle transition (open|block|close).
//   - DELETE /{taskId}           : Soft delete (default).
//   - DELETE /{taskId}/{type}    : Explicit soft|hard delete.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{taskId}", handler.get)
	router.Patch("/{taskId}", handler.update)
	router.Patch("/{taskId}/{action}", handler.transition)
	router.Delete("/{taskId}", handler.softDelete)
	router.Delete("/{taskId}/{type}", handler.delete)

	return router
}

/*
GET /api/v1/projects/{projectId}/tasks.

Request (query):
  - status: string (open | blocked | closed), optional
  - page, limit: pagination

Response:
  - 200: []Task with pagination metadata
  - 400: Validation: unknown status value
  - 404: ErrNotFound: Unknown parent project
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	filter := Filter{}
	if raw := request.URL.Query().Get("status"); raw != "" {
		status := Status(raw)
		if !status.IsValid() {
			respond.Error(writer, request, validate.RequiredError("status", "must be one of open, blocked, closed"))
			return
		}
		filter.Status = &status
	}

	page := pagination.FromRequest(request)

	tasks, total, err := handler.taskService.List(request.Context(), requestutil.Param(request, "projectId"), filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, tasks, pagination.NewMeta(page.Page, page.Limit, total))
}

// createTaskRequest represents the JSON payload for task creation.
type createTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	Difficulty  string  `json:"difficulty"`
	AssigneeID  *string `json:"assignee_id"`
}

/*
POST /api/v1/projects/{projectId}/tasks.

Response:
  - 201: Task: The created task (status open)
  - 400: Validation failure, closed parent project, or unknown assignee
  - 404: ErrNotFound: Unknown parent project
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createTaskRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.
		Required("title", input.Title).
		MaxLen("title", input.Title, 255).
		MaxLen("description", input.Description, 5000).
		Custom("priority", input.Priority != "" && !Priority(input.Priority).IsValid(), "Unknown priority value").
		Custom("difficulty", input.Difficulty != "" && !Difficulty(input.Difficulty).IsValid(), "Unknown difficulty value")
	if input.AssigneeID != nil {
		validator.UUID("assignee_id", *input.AssigneeID)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	task, err := handler.taskService.Create(request.Context(), requestutil.Param(request, "projectId"), CreateInput{
		Title:       input.Title,
		Description: input.Description,
		Priority:    Priority(input.Priority),
		Difficulty:  Difficulty(input.Difficulty),
		AssigneeID:  input.AssigneeID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, task)
}

/*
GET /api/v1/projects/{projectId}/tasks/{taskId}.

Response:
  - 200: Task
  - 404: ErrNotFound: Unknown project or task
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	task, err := handler.taskService.Get(request.Context(),
		requestutil.Param(request, "projectId"),
		requestutil.Param(request, "taskId"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, task)
}

// updateTaskRequest defines the expected JSON payload for partial updates.
//
// AssigneeID is a raw message so "absent", "null" (unassign), and "uuid"
// (reassign) can be told apart.
type updateTaskRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Priority    *string         `json:"priority"`
	Difficulty  *string         `json:"difficulty"`
	AssigneeID  json.RawMessage `json:"assignee_id"`
}

/*
PATCH /api/v1/projects/{projectId}/tasks/{taskId}.

Response:
  - 200: Task: The updated task
  - 400: Validation failure, closed parent project, or unknown assignee
  - 404: ErrNotFound: Unknown project or task
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input updateTaskRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	serviceInput := UpdateInput{}

	v := &validate.Validator{}
	if input.Title != nil {
		v.Required("title", *input.Title).MaxLen("title", *input.Title, 255)
		serviceInput.Title = input.Title
	}
	if input.Description != nil {
		v.MaxLen("description", *input.Description, 5000)
		serviceInput.Description = input.Description
	}
	if input.Priority != nil {
		v.Custom("priority", !Priority(*input.Priority).IsValid(), "Unknown priority value")
		serviceInput.Priority = pointer.To(Priority(*input.Priority))
	}
	if input.Difficulty != nil {
		v.Custom("difficulty", !Difficulty(*input.Difficulty).IsValid(), "Unknown difficulty value")
		serviceInput.Difficulty = pointer.To(Difficulty(*input.Difficulty))
	}

	if len(input.AssigneeID) > 0 {
		serviceInput.AssigneeSet = true
		if string(input.AssigneeID) != "null" {
			var assigneeID string
			if err := json.Unmarshal(input.AssigneeID, &assigneeID); err != nil {
				respond.Error(writer, request, validate.ErrInvalidJSON)
				return
			}
			v.UUID("assignee_id", assigneeID)
			serviceInput.AssigneeID = &assigneeID
		}
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	task, err := handler.taskService.Update(request.Context(),
		requestutil.Param(request, "projectId"),
		requestutil.Param(request, "taskId"),
		serviceInput,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, task)
}

/*
PATCH /api/v1/projects/{projectId}/tasks/{taskId}/{action}.

Description: Applies a lifecycle transition. The action segment must be
"open", "block", or "close".

Response:
  - 200: Task: With the resulting status
  - 400: Unknown action or closed parent project
  - 404: ErrNotFound: Unknown project or task
*/
func (handler *Handler) transition(writer http.ResponseWriter, request *http.Request) {
	action, err := ParseAction(requestutil.Param(request, "action"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	task, err := handler.taskService.Transition(request.Context(),
		requestutil.Param(request, "projectId"),
		requestutil.Param(request, "taskId"),
		action,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, task)
}

/*
DELETE /api/v1/projects/{projectId}/tasks/{taskId}.

Description: Soft delete shorthand; equivalent to DELETE .../{taskId}/soft.
*/
func (handler *Handler) softDelete(writer http.ResponseWriter, request *http.Request) {
	handler.deleteWithMode(writer, request, DeleteModeSoft)
}

/*
DELETE /api/v1/projects/{projectId}/tasks/{taskId}/{type}.

Description: Deletes a task. The type segment selects "soft" or "hard".

Response:
  - 204: No Content
  - 400: Unknown delete type or closed parent project
  - 404: ErrNotFound: Unknown project or task
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	mode, err := ParseDeleteMode(requestutil.Param(request, "type"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.deleteWithMode(writer, request, mode)
}

func (handler *Handler) deleteWithMode(writer http.ResponseWriter, request *http.Request, mode DeleteMode) {
	if err := handler.taskService.Delete(request.Context(),
		requestutil.Param(request, "projectId"),
		requestutil.Param(request, "taskId"),
		mode,
	); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
