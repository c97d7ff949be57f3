package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"bullscows/internal/api/apierr"
	"bullscows/internal/api/response"
	"bullscows/internal/model"
	"bullscows/internal/services/registry"
)

// RoomHandler serves read-only room snapshots
type RoomHandler struct {
	registry *registry.Controller
}

// NewRoomHandler creates a new RoomHandler
func NewRoomHandler(registry *registry.Controller) *RoomHandler {
	return &RoomHandler{registry: registry}
}

// Get returns a secret-free snapshot of a room
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if code == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("room code is required"))
		return
	}

	room, err := h.registry.GetRoom(r.Context(), model.RoomCode(code))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(room))
}
