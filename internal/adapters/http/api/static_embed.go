package api

import (
	"embed"
)

// dashboardFS holds the HTML template for the dashboard page.
//
//go:embed static/dashboard.html
var dashboardFS embed.FS
