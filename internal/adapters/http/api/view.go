package api

import "net/http"

// ViewHandler serves the dashboard description as JSON.
type ViewHandler struct {
	deps Dependencies
}

// NewViewHandler creates a new view handler.
func NewViewHandler(deps Dependencies) *ViewHandler {
	return &ViewHandler{deps: deps}
}

// HandleGetView handles GET /api/v1/view requests.
func (h *ViewHandler) HandleGetView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sess := sessionFor(r, h.deps)
	view := h.deps.Render(r.Context(), sess)
	setSessionCookie(w, r, sess)
	writeJSON(w, http.StatusOK, view)
}
