package api

import (
	"net/http"

	"github.com/okian/toca/pkg/logger"
)

// AdminHandler handles operational requests.
type AdminHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(deps Dependencies, l logger.Logger) *AdminHandler {
	return &AdminHandler{deps: deps, logger: l}
}

// HandleReload handles POST /admin/reload.
func (h *AdminHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.reload"
	if err := h.deps.Reload(r.Context()); err != nil {
		h.logger.Error(r.Context(), "reload failed", logger.Error(err))
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.GetStats())
}
