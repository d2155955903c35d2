package web

import (
	"net/http"
	"pcluster/pcui/features"
	"pcluster/pcui/pcluster"
	"time"
)

const costCacheMaxAge = 12 * time.Hour

// costsEnabled answers 404 when no cost backend is configured or the
// selected version has no cost monitoring.
func (env *Environ) costsEnabled(rw http.ResponseWriter, req *http.Request) bool {
	if env.services.Costs == nil {
		env.error(rw, req, nil, "cost monitoring is not configured", http.StatusNotFound)
		return false
	}
	version, err := env.apiVersion(req)
	if err != nil {
		env.fail(rw, req, err, "failed to get api version")
		return false
	}
	if !env.services.Features.Enabled(version, env.region(req), features.CostMonitoring) {
		env.error(rw, req, nil, "cost monitoring is not available", http.StatusNotFound)
		return false
	}
	return true
}

func (env *Environ) CostStatus(rw http.ResponseWriter, req *http.Request) {
	if !env.costsEnabled(rw, req) {
		return
	}
	active, err := env.services.Costs.IsActive(req.Context())
	if err != nil {
		env.fail(rw, req, err, "failed to check cost monitoring")
		return
	}
	env.render.JSON(rw, http.StatusOK, map[string]bool{"active": active})
}

func (env *Environ) CostActivate(rw http.ResponseWriter, req *http.Request) {
	if !env.costsEnabled(rw, req) {
		return
	}
	if err := env.services.Costs.Activate(req.Context()); err != nil {
		env.fail(rw, req, err, "failed to activate cost monitoring")
		return
	}
	env.logger.Info().Str("user", env.currentUser(req).Id).Msg("cost monitoring activated")
	rw.WriteHeader(http.StatusNoContent)
}

type costDataResponse struct {
	Costs     []pcluster.CostData  `json:"costs"`
	Series    []pcluster.CostPoint `json:"series"`
	Total     string               `json:"total"`
	AllZeroes bool                 `json:"allZeroes"`
}

// CostData returns the monthly costs of a cluster. Results are cached by
// the browser for half a day.
func (env *Environ) CostData(rw http.ResponseWriter, req *http.Request) {
	if !env.costsEnabled(rw, req) {
		return
	}
	now := env.now().UTC()
	query := req.URL.Query()
	start := query.Get("start")
	end := query.Get("end")
	if start == "" {
		timeRange := pcluster.ComposeTimeRange(now)
		start, end = timeRange.FromDate, timeRange.ToDate
	}
	for _, value := range []string{start, end} {
		if value == "" {
			continue
		}
		if _, err := pcluster.ParseTime(value); err != nil {
			env.error(rw, req, err, "invalid time range", http.StatusBadRequest)
			return
		}
	}
	data, err := env.services.Costs.Data(req.Context(), env.vars(req)["name"], start, end)
	if err != nil {
		env.fail(rw, req, err, "failed to fetch cost data")
		return
	}
	total := 0.0
	for _, point := range data {
		total += point.Amount
	}
	if data == nil {
		data = []pcluster.CostData{}
	}
	rw.Header().Set("Cache-Control", "private, immutable, max-age=43200")
	rw.Header().Set("Expires", now.Add(costCacheMaxAge).Format(http.TimeFormat))
	rw.Header().Set("Last-Modified", now.Format(http.TimeFormat))
	env.render.JSON(rw, http.StatusOK, costDataResponse{
		Costs:     data,
		Series:    pcluster.CostSeries(data, now),
		Total:     pcluster.ToFullDollarAmount(total),
		AllZeroes: pcluster.AllZeroes(data),
	})
}
