package v1alpha1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	api "github.com/kubev2v/rack-planner/api/v1alpha1"
	"github.com/kubev2v/rack-planner/internal/handlers/v1alpha1/mappers"
)

// (GET /api/v1/nics)
func (h *ServiceHandler) ListNetworkCards(w http.ResponseWriter, r *http.Request) {
	nics, err := h.inv.Hierarchy.ListNetworkCards(r.Context(), r.URL.Query().Get("deviceId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.NetworkCardListToApi(nics))
}

// (POST /api/v1/nics)
func (h *ServiceHandler) CreateNetworkCard(w http.ResponseWriter, r *http.Request) {
	var form api.NetworkCardCreate
	if err := h.decode(r, &form); err != nil {
		writeError(w, r, err)
		return
	}

	nic, err := h.inv.Hierarchy.CreateNetworkCard(r.Context(), mappers.NetworkCardFormApi(form))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, mappers.NetworkCardToApi(*nic))
}

// (GET /api/v1/nics/{id})
func (h *ServiceHandler) GetNetworkCard(w http.ResponseWriter, r *http.Request) {
	nic, err := h.inv.Hierarchy.GetNetworkCard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.NetworkCardToApi(*nic))
}

// (PUT /api/v1/nics/{id})
func (h *ServiceHandler) UpdateNetworkCard(w http.ResponseWriter, r *http.Request) {
	var form api.NetworkCardUpdate
	if err := h.decode(r, &form); err != nil {
		writeError(w, r, err)
		return
	}

	nic, err := h.inv.Hierarchy.UpdateNetworkCard(r.Context(), chi.URLParam(r, "id"), mappers.NetworkCardUpdateFormApi(form))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.NetworkCardToApi(*nic))
}

// (DELETE /api/v1/nics/{id})
func (h *ServiceHandler) DeleteNetworkCard(w http.ResponseWriter, r *http.Request) {
	if err := h.inv.Hierarchy.DeleteNetworkCard(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// (GET /api/v1/nics/{id}/ports)
func (h *ServiceHandler) ListNetworkCardPorts(w http.ResponseWriter, r *http.Request) {
	ports, err := h.inv.Hierarchy.ListNetworkCardPorts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.PortsToApi(ports))
}
