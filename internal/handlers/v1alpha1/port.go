package v1alpha1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	api "github.com/kubev2v/rack-planner/api/v1alpha1"
	"github.com/kubev2v/rack-planner/internal/handlers/v1alpha1/mappers"
	"github.com/kubev2v/rack-planner/internal/service"
)

// (GET /api/v1/ports)
func (h *ServiceHandler) ListPorts(w http.ResponseWriter, r *http.Request) {
	page, err := parsePagination(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	filter := service.PortFilter{
		DeviceID: q.Get("deviceId"),
		NicID:    q.Get("nicId"),
		Status:   q.Get("status"),
		Type:     q.Get("portType"),
		Speed:    q.Get("speed"),
		Page:     page.Page,
		PageSize: page.PageSize,
	}
	ports, total, err := h.inv.Hierarchy.ListPorts(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.PortListToApi(ports, page.meta(total)))
}

// (POST /api/v1/ports)
func (h *ServiceHandler) CreatePort(w http.ResponseWriter, r *http.Request) {
	var form api.PortCreate
	if err := h.decode(r, &form); err != nil {
		writeError(w, r, err)
		return
	}

	port, err := h.inv.Hierarchy.CreatePort(r.Context(), mappers.PortFormApi(form))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, mappers.PortToApi(*port))
}

// (POST /api/v1/ports/batch)
func (h *ServiceHandler) CreatePortsBatch(w http.ResponseWriter, r *http.Request) {
	var form api.PortBatchCreate
	if err := h.decode(r, &form); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.checkBatchSize(len(form.Ports)); err != nil {
		writeError(w, r, err)
		return
	}

	result := h.inv.Hierarchy.CreatePortsBatch(r.Context(), mappers.PortFormsApi(form.Ports))
	writeJSON(w, r, http.StatusOK, mappers.BatchResultToApi(result))
}

// (DELETE /api/v1/ports/batch)
func (h *ServiceHandler) DeletePortsBatch(w http.ResponseWriter, r *http.Request) {
	var form api.BatchDelete
	if err := h.decode(r, &form); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.checkBatchSize(len(form.Ids)); err != nil {
		writeError(w, r, err)
		return
	}

	result := h.inv.Hierarchy.DeletePortsBatch(r.Context(), form.Ids)
	writeJSON(w, r, http.StatusOK, mappers.BatchDeleteResultToApi(result))
}

// (GET /api/v1/ports/{id})
func (h *ServiceHandler) GetPort(w http.ResponseWriter, r *http.Request) {
	port, err := h.inv.Hierarchy.GetPort(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.PortToApi(*port))
}

// (PUT /api/v1/ports/{id})
func (h *ServiceHandler) UpdatePort(w http.ResponseWriter, r *http.Request) {
	var form api.PortUpdate
	if err := h.decode(r, &form); err != nil {
		writeError(w, r, err)
		return
	}

	port, err := h.inv.Hierarchy.UpdatePort(r.Context(), chi.URLParam(r, "id"), mappers.PortUpdateFormApi(form))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.PortToApi(*port))
}

// (DELETE /api/v1/ports/{id})
func (h *ServiceHandler) DeletePort(w http.ResponseWriter, r *http.Request) {
	if err := h.inv.Hierarchy.DeletePort(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
