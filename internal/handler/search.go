package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"atlas-api/internal/models"
	"atlas-api/internal/query"
	"atlas-api/internal/service"

	"github.com/gin-gonic/gin"
)

// SearchHandler handles place search requests
type SearchHandler struct {
	service     SearchService
	defaultMode query.Mode
}

// Service interface for dependency injection
type SearchService interface {
	Search(context.Context, service.Request) (*models.SearchResult, error)
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(svc SearchService, defaultMode query.Mode) *SearchHandler {
	return &SearchHandler{service: svc, defaultMode: defaultMode}
}

// Search handles GET /atlas requests
//
//	@Summary		Search places by name
//	@Description	Matches a place name, optionally qualified by state, country or postal code, against the local corpus and the remote geocoders.
//	@Tags			atlas
//	@Produce		json
//	@Param			q		query		string	true	"Place name, e.g. 'Springfield, IL' or '90210'"
//	@Param			limit	query		int		false	"Maximum number of matches"
//	@Param			lang	query		string	false	"Language for place names"
//	@Param			mode	query		string	false	"Parse mode"	Enums(loose, strict)
//	@Param			extend	query		bool	false	"Extended search: include the update tier and always ask the remote sources"
//	@Param			remote	query		string	false	"Remote sources to ask"	Enums(all, a, b, none)
//	@Param			sound	query		bool	false	"Allow phonetic matching"	default(true)
//	@Success		200		{object}	models.SearchResult
//	@Failure		400		{object}	map[string]string
//	@Failure		503		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/atlas [get]
func (h *SearchHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'q'"})
		return
	}

	req := service.Request{
		Query:    q,
		Language: strings.ToLower(c.Query("lang")),
		Mode:     h.defaultMode,
	}

	if s := c.Query("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit format"})
			return
		}
		req.Limit = limit
	}

	if s := c.Query("mode"); s != "" {
		req.Mode = query.ParseMode(s)
	}

	var err error
	if req.Extend, err = boolParam(c, "extend", false); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid extend format"})
		return
	}
	if req.SoundsLike, err = boolParam(c, "sound", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sound format"})
		return
	}

	switch strings.ToLower(c.DefaultQuery("remote", "all")) {
	case "all":
		req.UseA, req.UseB = true, true
	case "a":
		req.UseA = true
	case "b":
		req.UseB = true
	case "none":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid remote value, expected all, a, b or none"})
		return
	}

	result, err := h.service.Search(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyQuery):
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'q'"})
		case errors.Is(err, service.ErrCorpusUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "place corpus unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

func boolParam(c *gin.Context, name string, def bool) (bool, error) {
	s := c.Query(name)
	if s == "" {
		return def, nil
	}
	return strconv.ParseBool(s)
}
