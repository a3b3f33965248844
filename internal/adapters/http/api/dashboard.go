package api

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"strings"
	"time"

	service "github.com/okian/energy-analytics/internal/app"
	"github.com/okian/energy-analytics/pkg/logger"
)

// Plot area of the consumption chart, in SVG user units.
const (
	plotWidth   = 800
	plotHeight  = 280
	plotPadding = 12
)

// dashboardHandler renders the HTML dashboard from a View.
type dashboardHandler struct {
	deps     Dependencies
	maxBytes int64
	log      logger.Logger
	tmpl     *template.Template
}

func newDashboardHandler(deps Dependencies, maxBytes int64, log logger.Logger) *dashboardHandler {
	tmpl := template.Must(template.New("dashboard.html").ParseFS(dashboardFS, "static/dashboard.html"))
	return &dashboardHandler{deps: deps, maxBytes: maxBytes, log: log, tmpl: tmpl}
}

// HandleRoot serves the dashboard at "/" and 404s every other unmatched path.
func (h *dashboardHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	h.HandleDashboard(w, r)
}

// HandleDashboard handles GET /dashboard requests. Every request is one rerun
// of the pipeline for the caller's session.
func (h *dashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	sess := sessionFor(r, h.deps)
	view := h.deps.Render(r.Context(), sess)
	setSessionCookie(w, r, sess)
	h.renderPage(w, r, http.StatusOK, view)
}

type page struct {
	View
	Plot        *plot
	UploadField string
	UploadLimit string
}

type plot struct {
	Width, Height int
	Points        string
	MinLabel      string
	MaxLabel      string
	FromLabel     string
	ToLabel       string
}

func (h *dashboardHandler) renderPage(w http.ResponseWriter, r *http.Request, status int, view View) {
	p := page{
		View:        view,
		Plot:        buildPlot(view.Chart),
		UploadField: UploadField,
		UploadLimit: uploadLimit(h.maxBytes),
	}

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, p); err != nil {
		h.log.Error(r.Context(), "dashboard render failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, NewKind("api.dashboard", ErrTemplate))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// buildPlot projects chart points onto the SVG plot area, x by timestamp and
// y by consumption. Points are drawn in time order.
func buildPlot(c *service.Chart) *plot {
	if c == nil || len(c.Points) == 0 {
		return nil
	}
	pts := make([]service.Point, len(c.Points))
	copy(pts, c.Points)
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].T.Before(pts[j].T) })

	first, last := pts[0].T, pts[len(pts)-1].T
	span := last.Sub(first)
	yRange := c.Max - c.Min

	innerW := float64(plotWidth - 2*plotPadding)
	innerH := float64(plotHeight - 2*plotPadding)

	var b strings.Builder
	for i, pt := range pts {
		x := innerW / 2
		if span > 0 {
			x = innerW * float64(pt.T.Sub(first)) / float64(span)
		}
		y := innerH / 2
		if yRange > 0 {
			y = innerH * (1 - (pt.V-c.Min)/yRange)
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.1f,%.1f", x+plotPadding, y+plotPadding)
	}

	return &plot{
		Width:     plotWidth,
		Height:    plotHeight,
		Points:    b.String(),
		MinLabel:  fmt.Sprintf("%.2f kWh", c.Min),
		MaxLabel:  fmt.Sprintf("%.2f kWh", c.Max),
		FromLabel: first.Format(time.DateTime),
		ToLabel:   last.Format(time.DateTime),
	}
}
