package apiv1

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/timewalk/plugin/nlp/codec"
	"github.com/hrygo/timewalk/plugin/nlp/output"
	"github.com/hrygo/timewalk/plugin/nlp/resolve"
	"github.com/hrygo/timewalk/server/service/resolution"
)

type resolveRequest struct {
	// ReferenceSecs anchors resolution; absent means the current time.
	ReferenceSecs *int64 `json:"reference_secs,omitempty"`
	// Timezone is an IANA identifier; absent means the server default.
	Timezone string            `json:"timezone,omitempty"`
	Values   []json.RawMessage `json:"values"`
}

type resolveResult struct {
	Resolved bool          `json:"resolved"`
	Kind     string        `json:"kind,omitempty"`
	Output   output.Output `json:"output,omitempty"`
}

type resolveResponse struct {
	ReferenceSecs int64           `json:"reference_secs"`
	Timezone      string          `json:"timezone"`
	Results       []resolveResult `json:"results"`
}

// resolveBatch anchors and resolves a batch of declarative values. Values
// that cannot be resolved come back with resolved=false; only a malformed
// request is an error.
func (s *APIV1Service) resolveBatch(c echo.Context) error {
	var req resolveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}
	if len(req.Values) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "values must not be empty")
	}

	tzName := req.Timezone
	if tzName == "" {
		tzName = s.Profile.DefaultTimezone
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid timezone "+tzName).SetInternal(err)
	}

	refSecs := time.Now().Unix()
	if req.ReferenceSecs != nil {
		refSecs = *req.ReferenceSecs
	}
	rctx := resolve.FromSecs(refSecs, loc)

	dims, err := codec.DecodeValues(req.Values)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}

	values := make([]resolution.Value, len(dims))
	for i, dim := range dims {
		values[i] = resolution.Value{Dimension: dim, Payload: string(req.Values[i])}
	}

	results := s.service.ResolveBatch(c.Request().Context(), rctx, values)
	resp := resolveResponse{
		ReferenceSecs: refSecs,
		Timezone:      tzName,
		Results:       make([]resolveResult, len(results)),
	}
	for i, r := range results {
		resp.Results[i] = resolveResult{Resolved: r.Resolved}
		if r.Resolved {
			resp.Results[i].Kind = output.KindName(r.Output)
			resp.Results[i].Output = r.Output
		}
	}
	return c.JSON(http.StatusOK, resp)
}

type statsResponse struct {
	Total      int64            `json:"total"`
	Resolved   int64            `json:"resolved"`
	Unresolved int64            `json:"unresolved"`
	ByKind     map[string]int64 `json:"by_kind"`
}

// stats reports audit-log aggregates.
func (s *APIV1Service) stats(c echo.Context) error {
	if s.Store == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "audit store disabled")
	}
	stats, err := s.Store.GetResolutionStats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "query stats").SetInternal(err)
	}
	return c.JSON(http.StatusOK, statsResponse{
		Total:      stats.Total,
		Resolved:   stats.Resolved,
		Unresolved: stats.Unresolved,
		ByKind:     stats.ByKind,
	})
}
