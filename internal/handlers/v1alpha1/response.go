package v1alpha1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/render"
	api "github.com/kubev2v/rack-planner/api/v1alpha1"
	"github.com/kubev2v/rack-planner/internal/handlers/validator"
	"github.com/kubev2v/rack-planner/internal/service"
	"github.com/kubev2v/rack-planner/pkg/requestid"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	writeJSON(w, r, http.StatusBadRequest, api.NewError(message, service.KindValidation, requestid.FromContextPtr(r.Context())))
}

// writeError maps a service error to its status code. Invariant rejections
// are 400, missing resources 404 and everything else 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *validator.ErrInvalidRequest
	if errors.As(err, &invalid) {
		writeBadRequest(w, r, err.Error())
		return
	}

	kind := service.Kind(err)
	reqID := requestid.FromContextPtr(r.Context())
	switch {
	case kind == service.KindNotFound:
		writeJSON(w, r, http.StatusNotFound, api.NewError(err.Error(), kind, reqID))
	case service.IsRejection(err):
		writeJSON(w, r, http.StatusBadRequest, api.NewError(err.Error(), kind, reqID))
	default:
		zap.S().Named("handler").Errorw("request failed", "method", r.Method, "path", r.URL.Path, "error", err, "request_id", requestid.FromContext(r.Context()))
		writeJSON(w, r, http.StatusInternalServerError, api.NewError("internal server error", service.KindInternal, reqID))
	}
}

// decode reads the JSON body into v and validates it.
func (h *ServiceHandler) decode(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return validator.NewErrInvalidRequest("empty body")
	}
	if err := render.DecodeJSON(r.Body, v); err != nil {
		return validator.NewErrInvalidRequest("invalid body: %s", err)
	}
	return h.validator.Struct(v)
}

func (h *ServiceHandler) checkBatchSize(size int) error {
	if size > h.maxBatchSize {
		return validator.NewErrInvalidRequest("batch of %d items exceeds the limit of %d", size, h.maxBatchSize)
	}
	return nil
}

type pagination struct {
	Page     int
	PageSize int
}

func (p pagination) meta(total int64) api.ListMeta {
	meta := api.ListMeta{Total: total}
	if p.PageSize > 0 {
		meta.Page = api.PageOrDefault(p.Page)
		meta.PageSize = p.PageSize
	}
	return meta
}

// parsePagination reads page and pageSize. A missing pageSize returns every item.
func parsePagination(r *http.Request) (pagination, error) {
	p := pagination{}
	q := r.URL.Query()
	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return p, validator.NewErrInvalidRequest("invalid page %q", raw)
		}
		p.Page = page
	}
	if raw := q.Get("pageSize"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return p, validator.NewErrInvalidRequest("invalid pageSize %q", raw)
		}
		p.PageSize = size
	}
	if p.PageSize > 0 {
		p.Page = api.PageOrDefault(p.Page)
	}
	return p, nil
}

func parseBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, validator.NewErrInvalidRequest("invalid %s %q", name, raw)
	}
	return v, nil
}

func attachment(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}
