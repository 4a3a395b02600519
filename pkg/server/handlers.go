package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codeGROOVE-dev/peoplesearch/pkg/aggregate"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/enrich"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/profile"
)

// Client-facing error messages.
const (
	msgQueryParamRequired = "Query parameter is required"
	msgQueryRequired      = "Query is required"
	msgEnrichRequired     = "Profile ID and raw data are required"
	msgProfileIDRequired  = "Profile ID is required"
	msgInternal           = "Internal server error"
	msgEnrichFailed       = "Failed to enrich profile data"
)

// Texts of the GET /enrich placeholder payload.
const (
	pendingSummary  = "AI analysis temporarily unavailable. Please try again later."
	pendingInsights = "Verification analysis temporarily unavailable."
)

func errorBody(msg string) gin.H {
	return gin.H{"error": msg}
}

type searchRequest struct {
	Filters *filterRequest `json:"filters"`
	Query   string         `json:"query"`
}

type filterRequest struct {
	VerificationLevel string `json:"verificationLevel"`
	HasEmail          bool   `json:"hasEmail"`
	HasSocialProfiles bool   `json:"hasSocialProfiles"`
}

func (f *filterRequest) filters() profile.Filters {
	if f == nil {
		return profile.Filters{}
	}
	out := profile.Filters{HasEmail: f.HasEmail, HasSocialProfiles: f.HasSocialProfiles}
	if f.VerificationLevel != "" {
		level := profile.Level(f.VerificationLevel)
		out.VerificationLevel = &level
	}
	return out
}

func (s *Server) handleSearchGet(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, errorBody(msgQueryParamRequired))
		return
	}
	s.runSearch(c, query, profile.Filters{}, msgQueryParamRequired)
}

func (s *Server) handleSearchPost(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.DebugContext(c.Request.Context(), "invalid search body", "error", err)
		c.JSON(http.StatusBadRequest, errorBody(msgQueryRequired))
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		c.JSON(http.StatusBadRequest, errorBody(msgQueryRequired))
		return
	}
	s.runSearch(c, query, req.Filters.filters(), msgQueryRequired)
}

func (s *Server) runSearch(c *gin.Context, query string, filters profile.Filters, emptyMsg string) {
	ctx := c.Request.Context()
	start := time.Now()

	profiles, err := s.search.Aggregate(ctx, query)
	switch {
	case errors.Is(err, profile.ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, errorBody(emptyMsg))
		return
	case err != nil:
		s.logger.ErrorContext(ctx, "search failed", "error", err, "request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusInternalServerError, errorBody(msgInternal))
		return
	}

	c.JSON(http.StatusOK, profile.NewSearchResult(filters.Apply(profiles), time.Since(start)))
}

type enrichRequest struct {
	ProfileID string          `json:"profileId"`
	RawData   json.RawMessage `json:"rawData"`
	Sources   []string        `json:"sources"`
}

func (r enrichRequest) complete() bool {
	return strings.TrimSpace(r.ProfileID) != "" && present(r.RawData)
}

// present reports whether raw holds a value other than null, false, 0 or "".
func present(raw json.RawMessage) bool {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	default:
		return true
	}
}

func (s *Server) handleEnrichPost(c *gin.Context) {
	ctx := c.Request.Context()
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "enrichment panicked", "panic", r, "request_id", c.GetString(requestIDKey))
			c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody(msgEnrichFailed))
		}
	}()

	var req enrichRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.complete() {
		c.JSON(http.StatusBadRequest, errorBody(msgEnrichRequired))
		return
	}

	res := s.enricher.Enrich(ctx, enrich.Request{
		ProfileID: req.ProfileID,
		RawData:   req.RawData,
		Sources:   req.Sources,
	})
	c.JSON(http.StatusOK, res)
}

// handleEnrichGet answers with a placeholder; stored enrichments do not exist.
func (s *Server) handleEnrichGet(c *gin.Context) {
	id := strings.TrimSpace(c.Query("profileId"))
	if id == "" {
		c.JSON(http.StatusBadRequest, errorBody(msgProfileIDRequired))
		return
	}
	c.JSON(http.StatusOK, enrich.Result{
		ProfileID:            id,
		AISummary:            pendingSummary,
		VerificationInsights: pendingInsights,
		EnrichedAt:           s.clock(),
		Sources:              aggregate.SourceNames(),
	})
}
