package v1alpha1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	api "github.com/kubev2v/rack-planner/api/v1alpha1"
	"github.com/kubev2v/rack-planner/internal/handlers/v1alpha1/mappers"
	"github.com/kubev2v/rack-planner/internal/service"
)

// (GET /api/v1/devices)
func (h *ServiceHandler) ListDevices(w http.ResponseWriter, r *http.Request) {
	page, err := parsePagination(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	filter := service.DeviceFilter{
		Keyword:  q.Get("keyword"),
		Status:   q.Get("status"),
		Type:     q.Get("type"),
		RackID:   q.Get("rackId"),
		Page:     page.Page,
		PageSize: page.PageSize,
	}
	devices, total, err := h.inv.Devices.ListDevices(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.DeviceListToApi(devices, page.meta(total)))
}

// (POST /api/v1/devices)
func (h *ServiceHandler) CreateDevice(w http.ResponseWriter, r *http.Request) {
	var form api.DeviceCreate
	if err := h.decode(r, &form); err != nil {
		writeError(w, r, err)
		return
	}

	device, err := h.inv.Devices.CreateDevice(r.Context(), mappers.DeviceFormApi(form))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, mappers.DeviceToApi(*device))
}

// (GET /api/v1/devices/{id})
func (h *ServiceHandler) GetDevice(w http.ResponseWriter, r *http.Request) {
	device, err := h.inv.Devices.GetDevice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.DeviceToApi(*device))
}

// (PUT /api/v1/devices/{id})
func (h *ServiceHandler) UpdateDevice(w http.ResponseWriter, r *http.Request) {
	var form api.DeviceUpdate
	if err := h.decode(r, &form); err != nil {
		writeError(w, r, err)
		return
	}

	device, err := h.inv.Devices.UpdateDevice(r.Context(), chi.URLParam(r, "id"), mappers.DeviceUpdateFormApi(form))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.DeviceToApi(*device))
}

// (DELETE /api/v1/devices/{id})
func (h *ServiceHandler) DeleteDevice(w http.ResponseWriter, r *http.Request) {
	cascade, err := parseBool(r, "cascade")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.inv.Devices.DeleteDevice(r.Context(), chi.URLParam(r, "id"), service.DeleteDeviceOptions{Cascade: cascade}); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// (GET /api/v1/devices/{id}/ports)
func (h *ServiceHandler) ListDevicePorts(w http.ResponseWriter, r *http.Request) {
	ports, err := h.inv.Hierarchy.ListDevicePorts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.PortsToApi(ports))
}

// (GET /api/v1/devices/{id}/nics)
func (h *ServiceHandler) ListDeviceNetworkCards(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.inv.Devices.GetDevice(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	nics, err := h.inv.Hierarchy.ListNetworkCards(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.NetworkCardListToApi(nics))
}

// (GET /api/v1/devices/{id}/nics/with-ports)
func (h *ServiceHandler) ListDevicePortsGrouped(w http.ResponseWriter, r *http.Request) {
	groups, err := h.inv.Hierarchy.ListPortsGroupedByNIC(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.PortGroupsToApi(groups))
}

// (GET /api/v1/devices/{id}/cables)
func (h *ServiceHandler) ListDeviceCables(w http.ResponseWriter, r *http.Request) {
	cables, err := h.inv.Cables.ListCablesForDevice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.CablesToApi(cables))
}
