package handler

import (
	"encoding/json"
	"net/http"

	"staybook/internal/bookings/service"
	httputil "staybook/pkg/http"
	"staybook/pkg/logger"
	"staybook/pkg/middleware"
	"staybook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "Invalid request body"}, "Create")
		return
	}

	caller := middleware.CallerFromContext(r.Context())
	booking, err := h.service.Admit(r.Context(), caller, &req)
	if err != nil {
		h.writeError(w, err, "Create")
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller := middleware.CallerFromContext(r.Context())
	booking, err := h.service.GetByID(r.Context(), caller, ps.ByName("id"))
	if err != nil {
		h.writeError(w, err, "GetByID")
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller := middleware.CallerFromContext(r.Context())
	booking, err := h.service.Cancel(r.Context(), caller, ps.ByName("id"))
	if err != nil {
		h.writeError(w, err, "Cancel")
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "error", err)
	}
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller := middleware.CallerFromContext(r.Context())
	booking, err := h.service.Complete(r.Context(), caller, ps.ByName("id"))
	if err != nil {
		h.writeError(w, err, "Complete")
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Complete", "error", err)
	}
}

func (h *BookingHandler) GetByGuest(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err, "GetByGuest")
		return
	}

	caller := middleware.CallerFromContext(r.Context())
	bookings, total, err := h.service.GetByGuest(r.Context(), caller, ps.ByName("guestID"), limit, offset)
	if err != nil {
		h.writeError(w, err, "GetByGuest")
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetByGuest", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.POST("/api/v1/bookings/id/:id/cancel", h.Cancel)
	router.POST("/api/v1/bookings/id/:id/complete", h.Complete)
	router.GET("/api/v1/bookings/guest/:guestID", h.GetByGuest)
}

func (h *BookingHandler) writeError(w http.ResponseWriter, err error, handlerName string) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *BookingHandler) writeJSON(w http.ResponseWriter, status int, body any, handlerName string) {
	if err := httputil.WriteJSON(w, status, body); err != nil {
		h.log.Error("failed to write JSON response", "handler", handlerName, "error", err)
	}
}
