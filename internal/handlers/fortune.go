package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/fortune-service/internal/fortune"
	"github.com/PratikDhanave/fortune-service/internal/models"
)

// RegisterFortuneRoutes registers the generation endpoint and the topic catalogue.
//
// POST /api/fortune
// - Body {name, birthDate, topic}; all required
// - 200 {fortune} or {error} with 400/401/429/500
// - Exactly one provider call per accepted request
func RegisterFortuneRoutes(r gin.IRoutes, svc *fortune.Service) {
	r.POST("/api/fortune", func(c *gin.Context) {
		// An unconfigured provider wins over any problem with the body.
		if err := svc.RequireConfigured(c.Request.Context()); err != nil {
			writeFortuneError(c, err)
			return
		}

		var req models.FortuneRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid JSON payload"})
			return
		}

		text, err := svc.Generate(c.Request.Context(), req.Name, req.BirthDate, req.Topic)
		if err != nil {
			writeFortuneError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.FortuneResponse{Fortune: text})
	})

	r.GET("/api/topics", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"topics": fortune.Topics()})
	})
}

func writeFortuneError(c *gin.Context, err error) {
	var ferr *fortune.Error
	if errors.As(err, &ferr) {
		c.JSON(ferr.Kind.HTTPStatus(), models.ErrorResponse{Error: ferr.Message})
		return
	}
	slog.ErrorContext(c.Request.Context(), "unexpected generation error", "error", err)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal error"})
}
