package v1alpha1

import (
	"net/http"

	api "github.com/kubev2v/rack-planner/api/v1alpha1"
)

// (GET /api/v1/health)
func (h *ServiceHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, api.Health{Status: "ok"})
}
