package api

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/okian/energy-analytics/internal/adapters/repository"
	service "github.com/okian/energy-analytics/internal/app"
	"github.com/okian/energy-analytics/internal/domain/dataset"
	"github.com/okian/energy-analytics/pkg/logger"
)

// UploadField is the multipart form field holding the CSV.
const UploadField = "file"

// multipartSlack leaves room for boundaries and part headers on top of the
// CSV limit.
const multipartSlack = 64 << 10

// UploadHandler accepts CSV uploads for the caller's session.
type UploadHandler struct {
	deps     Dependencies
	dash     *dashboardHandler
	maxBytes int64
	log      logger.Logger
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(deps Dependencies, dash *dashboardHandler, maxBytes int64, log logger.Logger) *UploadHandler {
	return &UploadHandler{deps: deps, dash: dash, maxBytes: maxBytes, log: log}
}

// HandleUpload handles POST and DELETE /api/v1/upload requests.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handlePost(w, r)
	case http.MethodDelete:
		h.handleDelete(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *UploadHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	const op = "api.upload"
	ctx := r.Context()
	sess := sessionFor(r, h.deps)
	fromForm := wantsHTML(r)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartSlack)
	updated, err := h.upload(r, sess)
	if err != nil {
		status, code := classify(err)
		h.log.Info(ctx, "upload failed",
			logger.String("session", sess.ID),
			logger.Int("status", status),
			logger.Error(err),
		)
		if fromForm {
			view := h.deps.Render(ctx, sess)
			view.Notices = append([]service.Notice{{Level: service.LevelError, Message: err.Error()}}, view.Notices...)
			setSessionCookie(w, r, sess)
			h.dash.renderPage(w, r, status, view)
			return
		}
		if code == codeInternalError {
			err = WrapKind(op, ErrUploadFailed, err)
		}
		writeError(w, status, code, err)
		return
	}

	setSessionCookie(w, r, updated)
	if fromForm {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Render(ctx, updated))
}

// upload extracts the CSV from either a multipart form or a raw body.
func (h *UploadHandler) upload(r *http.Request, sess repository.Session) (repository.Session, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return h.deps.Upload(r.Context(), sess, r.Body, r.URL.Query().Get("name"))
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return sess, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return sess, ErrNoFile
		}
		if err != nil {
			return sess, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		if part.FormName() != UploadField {
			_ = part.Close()
			continue
		}
		defer part.Close()
		return h.deps.Upload(r.Context(), sess, part, part.FileName())
	}
}

func (h *UploadHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.clear_upload"
	sess := sessionFor(r, h.deps)
	cleared, err := h.deps.ClearUpload(r.Context(), sess)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternalError, WrapKind(op, ErrUploadFailed, err))
		return
	}
	setSessionCookie(w, r, cleared)
	writeJSON(w, http.StatusOK, h.deps.Render(r.Context(), cleared))
}

// classify maps an upload error to a status and API error code.
func classify(err error) (int, string) {
	var tooBig *http.MaxBytesError
	switch {
	case errors.Is(err, service.ErrUploadTooLarge), errors.As(err, &tooBig):
		return http.StatusRequestEntityTooLarge, codeTooLarge
	case errors.Is(err, dataset.ErrDataFormat):
		return http.StatusBadRequest, codeDataFormat
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrNoFile):
		return http.StatusBadRequest, codeBadRequest
	default:
		return http.StatusInternalServerError, codeInternalError
	}
}

// wantsHTML reports whether the request came from the dashboard form.
func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// uploadLimit renders the limit for the form hint.
func uploadLimit(n int64) string {
	return humanize.IBytes(uint64(n))
}
