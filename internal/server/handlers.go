package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guiyumin/animelink/internal/core/darki"
	"github.com/guiyumin/animelink/internal/core/extractor"
	"github.com/guiyumin/animelink/internal/core/resolver"
	"github.com/guiyumin/animelink/internal/core/site"
	"github.com/guiyumin/animelink/internal/core/version"
)

// debugResult is an extraction result with the selector's reasoning attached
type debugResult struct {
	extractor.Result
	Selector resolver.Diagnostics `json:"selector"`
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   msg,
	})
}

// nextPage renders an empty next page as null
func nextPage(next string) any {
	if next == "" {
		return nil
	}
	return next
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"service":       serviceName,
		"version":       version.Version,
		"hosters_ready": s.services.Hosters.Ready(),
	})
}

func (s *Server) handleAnimes(c *gin.Context) {
	category := c.DefaultQuery("category", "news")

	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequest(c, "page must be a positive integer")
			return
		}
		page = n
	}

	listing, err := s.services.Site.Animes(c.Request.Context(), category, page)
	if errors.Is(err, site.ErrUnknownCategory) {
		badRequest(c, err.Error())
		return
	}
	s.writeListing(c, listing, err)
}

func (s *Server) handleSearch(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))

	listing, err := s.services.Site.Search(c.Request.Context(), q)
	if errors.Is(err, site.ErrQueryTooShort) {
		badRequest(c, err.Error())
		return
	}
	s.writeListing(c, listing, err)
}

// writeListing answers 200 either way: upstream failures are reported in the body
func (s *Server) writeListing(c *gin.Context, listing *site.Listing, err error) {
	if err != nil {
		s.logger.Warn("listing failed", "err", err, "request_id", c.GetString("request_id"))
		body := gin.H{
			"success": false,
			"error":   err.Error(),
			"results": []site.AnimeEntry{},
		}
		if listing != nil {
			body["source_url"] = listing.SourceURL
		}
		c.JSON(http.StatusOK, body)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"source_url": listing.SourceURL,
		"count":      len(listing.Results),
		"results":    listing.Results,
		"next_page":  nextPage(listing.NextPage),
	})
}

func (s *Server) handleAnimeDetails(c *gin.Context) {
	animeURL := strings.TrimSpace(c.Query("url"))
	if animeURL == "" {
		badRequest(c, "missing url parameter")
		return
	}

	episodes, err := s.services.Site.Episodes(c.Request.Context(), animeURL)
	if err != nil {
		status := http.StatusOK
		if errors.Is(err, site.ErrEpisodesNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"success":   false,
			"error":     err.Error(),
			"anime_url": animeURL,
			"episodes":  []site.Episode{},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"anime_url":      animeURL,
		"episodes":       episodes,
		"total_episodes": len(episodes),
	})
}

func (s *Server) handleGenres(c *gin.Context) {
	genres, err := s.services.Site.Genres(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"error":   err.Error(),
			"genres":  []site.Genre{},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"genres":  genres,
		"count":   len(genres),
	})
}

func (s *Server) handleExtract(c *gin.Context) {
	rawURL := strings.TrimSpace(c.Query("url"))
	if rawURL == "" {
		badRequest(c, "missing url parameter")
		return
	}

	res, _ := s.services.Resolver.Resolve(c.Request.Context(), rawURL)
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleExtractDebug(c *gin.Context) {
	rawURL := strings.TrimSpace(c.Query("url"))
	if rawURL == "" {
		badRequest(c, "missing url parameter")
		return
	}

	res, diag := s.services.Resolver.Resolve(c.Request.Context(), rawURL)
	c.JSON(http.StatusOK, debugResult{Result: res, Selector: diag})
}

func (s *Server) handleExtractHoster(c *gin.Context) {
	rawURL := strings.TrimSpace(c.Query("url"))
	if rawURL == "" {
		badRequest(c, "missing url parameter")
		return
	}

	res := s.services.Hosters.Extract(c.Request.Context(), rawURL)
	switch res.ErrorKind {
	case extractor.ErrorUnavailable:
		c.JSON(http.StatusServiceUnavailable, res)
	case extractor.ErrorUnsupported:
		c.JSON(http.StatusNotFound, res)
	default:
		c.JSON(http.StatusOK, res)
	}
}

func (s *Server) handleHosters(c *gin.Context) {
	c.JSON(http.StatusOK, s.services.Hosters.Status())
}

func (s *Server) handleDownload(c *gin.Context) {
	id := c.Param("id")

	link, err := s.services.Darki.Resolve(c.Request.Context(), id)
	if err != nil {
		status := http.StatusOK
		switch {
		case errors.Is(err, darki.ErrInvalidID):
			status = http.StatusBadRequest
		case errors.Is(err, darki.ErrNotFound):
			status = http.StatusNotFound
		default:
			s.logger.Warn("download lookup failed", "id", id, "err", err, "request_id", c.GetString("request_id"))
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
			"id":      id,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"id":        link.ID,
		"url":       link.URL,
		"quality":   link.Quality,
		"languages": link.Languages,
		"headers":   link.Headers,
	})
}
