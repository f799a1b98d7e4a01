package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/fortune-service/internal/history"
	"github.com/PratikDhanave/fortune-service/internal/models"
)

// RegisterHistoryRoutes registers the persistence endpoints.
//
// POST /api/fortunes       save a generated fortune for the caller
// GET  /api/fortunes       list ?userId=... newest first; anonymous callers get []
// GET  /api/fortunes/:id   fetch one record owned by the caller
func RegisterHistoryRoutes(r gin.IRoutes, svc *history.Service) {
	r.POST("/api/fortunes", func(c *gin.Context) {
		var req models.SaveFortuneRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid JSON payload"})
			return
		}

		id, err := svc.Save(c.Request.Context(), history.SaveInput{
			UserID:     req.UserID,
			Name:       req.Name,
			BirthDate:  req.BirthDate,
			Topic:      req.Topic,
			TopicLabel: req.TopicLabel,
			Fortune:    req.Fortune,
		})
		if err != nil {
			writeHistoryError(c, err)
			return
		}

		c.JSON(http.StatusCreated, models.SaveFortuneResponse{ID: id})
	})

	r.GET("/api/fortunes", func(c *gin.Context) {
		recs, err := svc.ListByOwner(c.Request.Context(), c.Query("userId"))
		if err != nil {
			writeHistoryError(c, err)
			return
		}

		out := make([]models.FortuneRecordResponse, len(recs))
		for i, r := range recs {
			out[i] = r.ToResponse()
		}
		c.JSON(http.StatusOK, models.FortuneListResponse{Fortunes: out})
	})

	r.GET("/api/fortunes/:id", func(c *gin.Context) {
		rec, found, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeHistoryError(c, err)
			return
		}
		if !found {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "fortune not found"})
			return
		}

		c.JSON(http.StatusOK, rec.ToResponse())
	})
}

func writeHistoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, history.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "not authenticated"})
	case errors.Is(err, history.ErrUnauthorized):
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "unauthorized"})
	case errors.Is(err, history.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "name, birthDate, topic and fortune are required"})
	case errors.Is(err, history.ErrDisabled):
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "history is not available"})
	default:
		slog.ErrorContext(c.Request.Context(), "history store failure", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "db query failed"})
	}
}
