package v1alpha1

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	api "github.com/kubev2v/rack-planner/api/v1alpha1"
	"github.com/kubev2v/rack-planner/internal/handlers/v1alpha1/mappers"
	"github.com/kubev2v/rack-planner/internal/handlers/validator"
	"github.com/kubev2v/rack-planner/internal/service"
	"github.com/kubev2v/rack-planner/internal/sheets"
	"go.uber.org/zap"
)

// 32 MiB is enough for well over the batch limit of rows.
const maxImportSize = 32 << 20

// (GET /api/v1/cables)
func (h *ServiceHandler) ListCables(w http.ResponseWriter, r *http.Request) {
	page, err := parsePagination(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	filter := service.CableFilter{
		SourceDeviceID: q.Get("sourceDeviceId"),
		TargetDeviceID: q.Get("targetDeviceId"),
		DeviceID:       q.Get("deviceId"),
		Status:         q.Get("status"),
		Type:           q.Get("cableType"),
		Page:           page.Page,
		PageSize:       page.PageSize,
	}
	cables, total, err := h.inv.Cables.ListCables(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.CableListToApi(cables, page.meta(total)))
}

// (POST /api/v1/cables)
func (h *ServiceHandler) CreateCable(w http.ResponseWriter, r *http.Request) {
	var form api.CableCreate
	if err := h.decode(r, &form); err != nil {
		writeError(w, r, err)
		return
	}

	cable, err := h.inv.Cables.CreateCable(r.Context(), mappers.CableFormApi(form))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, mappers.CableToApi(*cable))
}

// (POST /api/v1/cables/batch)
func (h *ServiceHandler) CreateCablesBatch(w http.ResponseWriter, r *http.Request) {
	var form api.CableBatchCreate
	if err := h.decode(r, &form); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.checkBatchSize(len(form.Cables)); err != nil {
		writeError(w, r, err)
		return
	}

	result := h.inv.Cables.CreateCablesBatch(r.Context(), mappers.CableFormsApi(form.Cables))
	writeJSON(w, r, http.StatusOK, mappers.BatchResultToApi(result))
}

// (DELETE /api/v1/cables/batch)
func (h *ServiceHandler) DeleteCablesBatch(w http.ResponseWriter, r *http.Request) {
	var form api.BatchDelete
	if err := h.decode(r, &form); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.checkBatchSize(len(form.Ids)); err != nil {
		writeError(w, r, err)
		return
	}

	result := h.inv.Cables.DeleteCablesBatch(r.Context(), form.Ids)
	writeJSON(w, r, http.StatusOK, mappers.BatchDeleteResultToApi(result))
}

// (POST /api/v1/cables/import)
// The body is an xlsx workbook, raw or as the "file" field of a multipart form.
func (h *ServiceHandler) ImportCables(w http.ResponseWriter, r *http.Request) {
	content, err := readUpload(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	forms, err := sheets.ParseCables(content)
	if err != nil {
		writeError(w, r, validator.NewErrInvalidRequest("%s", err))
		return
	}
	if err := h.checkBatchSize(len(forms)); err != nil {
		writeError(w, r, err)
		return
	}

	result := h.inv.Cables.CreateCablesBatch(r.Context(), forms)
	zap.S().Named("handler").Infow("cables imported", "total", result.Total, "success", result.Success, "failed", result.Failed)
	writeJSON(w, r, http.StatusOK, mappers.BatchResultToApi(result))
}

// (GET /api/v1/cables/export)
func (h *ServiceHandler) ExportCables(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := service.CableFilter{
		DeviceID: q.Get("deviceId"),
		Status:   q.Get("status"),
		Type:     q.Get("cableType"),
	}
	cables, _, err := h.inv.Cables.ListCables(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	attachment(w, "cables.xlsx")
	if err := sheets.WriteCables(w, cables); err != nil {
		zap.S().Named("handler").Errorw("failed to export cables", "error", err)
	}
}

// (GET /api/v1/cables/{id})
func (h *ServiceHandler) GetCable(w http.ResponseWriter, r *http.Request) {
	cable, err := h.inv.Cables.GetCable(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.CableToApi(*cable))
}

// (PUT /api/v1/cables/{id})
func (h *ServiceHandler) UpdateCable(w http.ResponseWriter, r *http.Request) {
	var form api.CableUpdate
	if err := h.decode(r, &form); err != nil {
		writeError(w, r, err)
		return
	}

	cable, err := h.inv.Cables.UpdateCable(r.Context(), chi.URLParam(r, "id"), mappers.CableUpdateFormApi(form))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.CableToApi(*cable))
}

// (DELETE /api/v1/cables/{id})
func (h *ServiceHandler) DeleteCable(w http.ResponseWriter, r *http.Request) {
	if err := h.inv.Cables.DeleteCable(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func readUpload(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, validator.NewErrInvalidRequest("empty body")
	}

	reader := io.Reader(http.MaxBytesReader(nil, r.Body, maxImportSize))
	if err := r.ParseMultipartForm(maxImportSize); err == nil {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, validator.NewErrInvalidRequest("missing file field: %s", err)
		}
		defer file.Close()
		reader = file
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, validator.NewErrInvalidRequest("failed to read upload: %s", err)
	}
	if len(content) == 0 {
		return nil, validator.NewErrInvalidRequest("empty body")
	}
	return content, nil
}
