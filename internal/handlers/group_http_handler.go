package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/asakaida/groupperm/internal/entities"
	"github.com/asakaida/groupperm/internal/repositories"
	"github.com/asakaida/groupperm/internal/services"
	"github.com/asakaida/groupperm/pkg/response"
	"github.com/go-chi/chi/v5"
)

// SaveGroupRequest is the body of PUT /groups/{name}.
// At most one of Permissions and Mask may be set; neither saves the empty set.
type SaveGroupRequest struct {
	Permissions []string `json:"permissions,omitempty"`
	Mask        *uint32  `json:"mask,omitempty"`
}

// GroupResponse is the JSON form of a group
type GroupResponse struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
	Mask        uint32   `json:"mask"`
}

// PermissionResponse describes one permission bit
type PermissionResponse struct {
	Name   string `json:"name"`
	Bit    int    `json:"bit"`
	Column string `json:"column"`
}

func toGroupResponse(group *entities.Group) GroupResponse {
	return GroupResponse{
		Name:        group.Name,
		Permissions: group.Permissions.Names(),
		Mask:        group.Mask(),
	}
}

// GroupHTTPHandler handles HTTP requests for group operations
type GroupHTTPHandler struct {
	groupService services.GroupServiceInterface
}

// NewGroupHTTPHandler creates a new GroupHTTPHandler
func NewGroupHTTPHandler(groupService services.GroupServiceInterface) *GroupHTTPHandler {
	return &GroupHTTPHandler{groupService: groupService}
}

// Routes returns the router for group endpoints
func (h *GroupHTTPHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{name}", h.Get)
	r.Put("/{name}", h.Save)
	r.Delete("/{name}", h.Delete)

	return r
}

// PermissionRoutes returns the router for the permission catalogue
func (h *GroupHTTPHandler) PermissionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListPermissions)
	return r
}

// Get handles GET /groups/{name}
func (h *GroupHTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	group, err := h.groupService.GetGroup(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeGroupError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toGroupResponse(group))
}

// Save handles PUT /groups/{name}?upsert=false
func (h *GroupHTTPHandler) Save(w http.ResponseWriter, r *http.Request) {
	upsert := true
	if v := r.URL.Query().Get("upsert"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			response.BadRequest(w, "upsert must be a boolean")
			return
		}
		upsert = parsed
	}

	var req SaveGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request body")
		return
	}

	perms, err := req.permissionSet()
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	group := &entities.Group{Name: chi.URLParam(r, "name"), Permissions: perms}
	if err := h.groupService.SaveGroup(r.Context(), group, upsert); err != nil {
		writeGroupError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toGroupResponse(group))
}

// Delete handles DELETE /groups/{name}
func (h *GroupHTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	deleted, err := h.groupService.DeleteGroup(r.Context(), name)
	if err != nil {
		writeGroupError(w, err)
		return
	}
	if !deleted {
		response.NotFound(w, "group not found: "+name)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /groups
func (h *GroupHTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groupService.ListGroups(r.Context())
	if err != nil {
		writeGroupError(w, err)
		return
	}

	resp := make([]GroupResponse, len(groups))
	for i, group := range groups {
		resp[i] = toGroupResponse(group)
	}
	response.JSON(w, http.StatusOK, resp)
}

// ListPermissions handles GET /permissions
func (h *GroupHTTPHandler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	perms := entities.AllPermissions()
	resp := make([]PermissionResponse, len(perms))
	for i, p := range perms {
		resp[i] = PermissionResponse{Name: p.String(), Bit: int(p), Column: p.Column()}
	}
	response.JSON(w, http.StatusOK, resp)
}

func (req *SaveGroupRequest) permissionSet() (entities.PermissionSet, error) {
	switch {
	case req.Mask != nil && req.Permissions != nil:
		return 0, errMaskAndPermissions
	case req.Mask != nil:
		return entities.Decode(*req.Mask), nil
	default:
		return entities.ParsePermissionSet(req.Permissions)
	}
}

// writeGroupError maps service and repository errors to HTTP responses
func writeGroupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrGroupNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, repositories.ErrDuplicateName):
		response.Conflict(w, err.Error())
	case errors.Is(err, repositories.ErrInvalidGroup):
		response.BadRequest(w, err.Error())
	case errors.Is(err, repositories.ErrStoreUnavailable):
		log.Printf("group store unavailable: %v", err)
		response.ServiceUnavailable(w, "group store unavailable")
	default:
		log.Printf("group operation failed: %v", err)
		response.InternalError(w, "group operation failed")
	}
}
