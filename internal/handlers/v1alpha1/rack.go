package v1alpha1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	api "github.com/kubev2v/rack-planner/api/v1alpha1"
	"github.com/kubev2v/rack-planner/internal/handlers/v1alpha1/mappers"
	"github.com/kubev2v/rack-planner/internal/service"
)

// (GET /api/v1/rooms)
func (h *ServiceHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.inv.Rooms.ListRooms(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.RoomListToApi(rooms))
}

// (POST /api/v1/rooms)
func (h *ServiceHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var form api.RoomCreate
	if err := h.decode(r, &form); err != nil {
		writeError(w, r, err)
		return
	}

	room, err := h.inv.Rooms.CreateRoom(r.Context(), mappers.RoomFormApi(form))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, mappers.RoomToApi(*room))
}

// (GET /api/v1/rooms/{id})
func (h *ServiceHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.inv.Rooms.GetRoom(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.RoomToApi(*room))
}

// (DELETE /api/v1/rooms/{id})
func (h *ServiceHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	if err := h.inv.Rooms.DeleteRoom(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// (GET /api/v1/racks)
func (h *ServiceHandler) ListRacks(w http.ResponseWriter, r *http.Request) {
	page, err := parsePagination(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	filter := service.RackFilter{
		RoomID:   r.URL.Query().Get("roomId"),
		Page:     page.Page,
		PageSize: page.PageSize,
	}
	racks, total, err := h.inv.Racks.ListRacks(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.RackListToApi(racks, page.meta(total)))
}

// (POST /api/v1/racks)
func (h *ServiceHandler) CreateRack(w http.ResponseWriter, r *http.Request) {
	var form api.RackCreate
	if err := h.decode(r, &form); err != nil {
		writeError(w, r, err)
		return
	}

	rack, err := h.inv.Racks.CreateRack(r.Context(), mappers.RackFormApi(form))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, mappers.RackToApi(*rack))
}

// (GET /api/v1/racks/{id})
func (h *ServiceHandler) GetRack(w http.ResponseWriter, r *http.Request) {
	rack, err := h.inv.Racks.GetRack(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.RackToApi(*rack))
}

// (PUT /api/v1/racks/{id})
func (h *ServiceHandler) UpdateRack(w http.ResponseWriter, r *http.Request) {
	var form api.RackUpdate
	if err := h.decode(r, &form); err != nil {
		writeError(w, r, err)
		return
	}

	rack, err := h.inv.Racks.UpdateRack(r.Context(), chi.URLParam(r, "id"), mappers.RackUpdateFormApi(form))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.RackToApi(*rack))
}

// (DELETE /api/v1/racks/{id})
func (h *ServiceHandler) DeleteRack(w http.ResponseWriter, r *http.Request) {
	if err := h.inv.Racks.DeleteRack(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// (GET /api/v1/racks/{id}/view)
func (h *ServiceHandler) GetRackView(w http.ResponseWriter, r *http.Request) {
	view, err := h.inv.Racks.GetRackView(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.RackViewToApi(*view))
}
