// Copyright (c) 2026 Taskora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// HTTP delivery layer for the project domain.
//
// # Security
//
// All endpoints sit behind the Authenticate middleware; an unauthenticated
// request never reaches these handlers.
package project

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/taskora/internal/platform/request"
	"github.com/taibuivan/taskora/internal/platform/respond"
	"github.com/taibuivan/taskora/internal/platform/validate"
	"github.com/taibuivan/taskora/pkg/pagination"
)

// Handler implements project-related HTTP endpoints.
type Handler struct {
	projectService *Service
}

// NewHandler constructs a new project [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{projectService: service}
}

// Routes returns a [chi.Router] configured with the project domain's endpoints.
//
// # Endpoints
//   - GET    /                      : Paginated, filtered, sorted listing.
//   - POST   /                      : Create a project.
//   - GET    /{projectId}           : Fetch a single project.
//   - PATCH  /{projectId}           : Partial metadata update.
//   - PATCH  /{projectId}/{action}  : Lifecycle transition (open|close).
//   - DELETE /{projectId}           : Soft delete (default).
//   - DELETE /{projectId}/{type}    : Explicit soft|hard delete.
//
// The parameter is named projectId (not id) so the nested task routes can
// be mounted on the same router without a wildcard-name conflict.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{projectId}", handler.get)
	router.Patch("/{projectId}", handler.update)
	router.Patch("/{projectId}/{action}", handler.transition)
	router.Delete("/{projectId}", handler.softDelete)
	router.Delete("/{projectId}/{type}", handler.delete)

	return router
}

/*
GET /api/v1/projects.

Description: Lists projects with pagination, closed-project visibility
filters, and sorting.

Request (query):
  - withClosed: bool ("true" includes closed projects)
  - onlyClosed: bool ("true" lists closed projects only; wins over withClosed)
  - sortBy: string (alpha_asc | alpha_desc | create | update)
  - page, limit: pagination

Response:
  - 200: []Project with pagination metadata
  - 400: Validation: unknown sortBy value
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	filter := Filter{
		WithClosed: query.Get("withClosed") == "true",
		OnlyClosed: query.Get("onlyClosed") == "true",
		SortBy:     query.Get("sortBy"),
	}

	if filter.SortBy != "" && !IsValidSort(filter.SortBy) {
		respond.Error(writer, request, validate.RequiredError("sortBy", "must be one of alpha_asc, alpha_desc, create, update"))
		return
	}

	page := pagination.FromRequest(request)

	projects, total, err := handler.projectService.List(request.Context(), filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, projects, pagination.NewMeta(page.Page, page.Limit, total))
}

// createProjectRequest represents the JSON payload for project creation.
type createProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

/*
POST /api/v1/projects.

Response:
  - 201: Project: The created project (status open, fresh slug)
  - 400: ErrInvalidJSON/Validation: Invalid input data
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createProjectRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.
		Required("title", input.Title).
		MaxLen("title", input.Title, 255).
		MaxLen("description", input.Description, 5000)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	project, err := handler.projectService.Create(request.Context(), CreateInput{
		Title:       input.Title,
		Description: input.Description,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, project)
}

/*
GET /api/v1/projects/{projectId}.

Response:
  - 200: Project: With hydrated task counts
  - 404: ErrNotFound: Unknown or soft-deleted project
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	project, err := handler.projectService.Get(request.Context(), requestutil.Param(request, "projectId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, project)
}

// updateProjectRequest defines the expected JSON payload for partial updates.
type updateProjectRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

/*
PATCH /api/v1/projects/{projectId}.

Description: Applies partial updates to project metadata. Closed projects
are frozen and reject updates.

Response:
  - 200: Project: The updated project
  - 400: Validation failure or closed-project rejection
  - 404: ErrNotFound: Unknown project
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input updateProjectRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if input.Title != nil {
		v.Required("title", *input.Title).MaxLen("title", *input.Title, 255)
	}
	if input.Description != nil {
		v.MaxLen("description", *input.Description, 5000)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	project, err := handler.projectService.Update(request.Context(), requestutil.Param(request, "projectId"), UpdateInput{
		Title:       input.Title,
		Description: input.Description,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, project)
}

/*
PATCH /api/v1/projects/{projectId}/{action}.

Description: Applies a lifecycle transition. The action segment must be
"open" or "close"; anything else is a 400 before the service is invoked.

Response:
  - 200: Project: With the resulting status
  - 400: Unknown action, reopen-after-close, or open tasks remain
  - 404: ErrNotFound: Unknown project
*/
func (handler *Handler) transition(writer http.ResponseWriter, request *http.Request) {
	action, err := ParseAction(requestutil.Param(request, "action"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	project, err := handler.projectService.Transition(request.Context(), requestutil.Param(request, "projectId"), action)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, project)
}

/*
DELETE /api/v1/projects/{projectId}.

Description: Soft delete shorthand; equivalent to DELETE .../{projectId}/soft.

Response:
  - 204: No Content
  - 404: ErrNotFound: Unknown project
*/
func (handler *Handler) softDelete(writer http.ResponseWriter, request *http.Request) {
	handler.deleteWithMode(writer, request, DeleteModeSoft)
}

/*
DELETE /api/v1/projects/{projectId}/{type}.

Description: Deletes a project. The type segment selects "soft" (recoverable)
or "hard" (permanent, cascades to tasks).

Response:
  - 204: No Content
  - 400: Unknown delete type
  - 404: ErrNotFound: Unknown project
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
	if err := handler.projectService.Delete(request.Context(), requestutil.Param(request, "projectId"), mode); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
