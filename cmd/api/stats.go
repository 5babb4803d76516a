// cmd/api/stats.go
package main

import "net/http"

// statsHandler handles GET /stats.
// It returns the aggregate dashboard figures: page-count extremes,
// averages, and the chart-ready status and rating distributions. With an
// empty catalog the averages are 0 and the distributions are empty.
func (app *applicationDependencies) statsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := app.models.Stats.Summary()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"stats": stats}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
