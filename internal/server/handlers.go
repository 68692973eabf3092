package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fashionpod/fashionpod/internal/fashion"
	"github.com/fashionpod/fashionpod/internal/logger"
	"github.com/fashionpod/fashionpod/internal/types"
	"github.com/fashionpod/fashionpod/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// bindPayload reads a JSON object body. It writes the 400 itself.
func bindPayload(c *gin.Context) (map[string]any, bool) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object"})
		return nil, false
	}
	return body, true
}

func writeValidationError(c *gin.Context, err error) {
	var verrs *validation.Errors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, verrs)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

type searchResponse struct {
	Results []types.SearchResult `json:"results"`
	Total   int                  `json:"total"`
	Limit   int                  `json:"limit"`
	Offset  int                  `json:"offset"`
}

func (s *Server) search(c *gin.Context) {
	body, ok := bindPayload(c)
	if !ok {
		return
	}
	q, err := validation.ParseSearchQuery(body)
	if err != nil {
		writeValidationError(c, err)
		return
	}

	ctx := c.Request.Context()
	results, vec, err := s.ai.SearchWithEmbedding(ctx, q.Query, q.VectorFilter())
	if err != nil {
		if errors.Is(err, fashion.ErrInvalidFilter) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if s.searchLog != nil {
		var userID *uuid.UUID
		if id, err := uuid.Parse(c.GetHeader("X-User-ID")); err == nil {
			userID = &id
		}
		if err := s.searchLog.Record(ctx, q.Query, userID, len(results), vec); err != nil {
			logger.FromContext(ctx).Warn("Failed to record search query", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, searchResponse{
		Results: page(results, q.Offset, q.Limit),
		Total:   len(results),
		Limit:   q.Limit,
		Offset:  q.Offset,
	})
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func (s *Server) recommendations(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > validation.MaxSearchLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer between 1 and 100"})
			return
		}
		limit = n
	}

	products := s.ai.GetPersonalizedRecommendations(c.Request.Context(), c.Param("id"), limit)
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (s *Server) productDescription(c *gin.Context) {
	body, ok := bindPayload(c)
	if !ok {
		return
	}
	p, err := validation.ParseProduct(body)
	if err != nil {
		writeValidationError(c, err)
		return
	}

	text, err := s.ai.GenerateProductDescription(c.Request.Context(), fashion.DescriptionInput{
		Name:       p.Name,
		Categories: p.Categories,
		Price:      *p.Price,
		Tags:       p.Tags,
	})
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("Description generation failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "description generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"description": text})
}

func (s *Server) validateProduct(c *gin.Context) {
	body, ok := bindPayload(c)
	if !ok {
		return
	}
	p, err := validation.ParseProduct(body)
	if err != nil {
		writeValidationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}
