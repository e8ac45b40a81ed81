package handler

import (
	"encoding/json"
	"net/http"

	"staybook/internal/rooms/service"
	httputil "staybook/pkg/http"
	"staybook/pkg/logger"
	"staybook/pkg/middleware"
	"staybook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type RoomHandler struct {
	service service.RoomService
	log     *logger.Logger
}

func NewRoomHandler(service service.RoomService, log *logger.Logger) *RoomHandler {
	return &RoomHandler{
		service: service,
		log:     log,
	}
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var room model.Room
	if err := json.NewDecoder(r.Body).Decode(&room); err != nil {
		h.writeJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "Invalid request body"}, "Create")
		return
	}

	caller := middleware.CallerFromContext(r.Context())
	if err := h.service.Create(r.Context(), caller, &room); err != nil {
		h.writeError(w, err, "Create")
		return
	}

	if err := httputil.WriteCreated(w, room); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *RoomHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	room, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, err, "GetByID")
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *RoomHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err, "GetAll")
		return
	}

	caller := middleware.CallerFromContext(r.Context())
	includeArchived := r.URL.Query().Get("include_archived") == "true" && caller.IsAdmin()

	rooms, total, err := h.service.GetAll(r.Context(), includeArchived, limit, offset)
	if err != nil {
		h.writeError(w, err, "GetAll")
		return
	}

	if err := httputil.WritePaginated(w, rooms, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
	}
}

func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.RoomUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "Invalid request body"}, "Update")
		return
	}

	caller := middleware.CallerFromContext(r.Context())
	room, err := h.service.Update(r.Context(), caller, ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, err, "Update")
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *RoomHandler) Archive(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller := middleware.CallerFromContext(r.Context())
	if err := h.service.Archive(r.Context(), caller, ps.ByName("id")); err != nil {
		h.writeError(w, err, "Archive")
		return
	}

	httputil.WriteNoContent(w)
}

func (h *RoomHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/rooms", h.Create)
	router.GET("/api/v1/rooms", h.GetAll)
	router.GET("/api/v1/rooms/id/:id", h.GetByID)
	router.PATCH("/api/v1/rooms/id/:id", h.Update)
	router.DELETE("/api/v1/rooms/id/:id", h.Archive)
}

func (h *RoomHandler) writeError(w http.ResponseWriter, err error, handlerName string) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *RoomHandler) writeJSON(w http.ResponseWriter, status int, body any, handlerName string) {
	if err := httputil.WriteJSON(w, status, body); err != nil {
		h.log.Error("failed to write JSON response", "handler", handlerName, "error", err)
	}
}
