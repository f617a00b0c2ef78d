package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/pricecheck/models"
)

// Searcher runs product searches.
type Searcher interface {
	Search(ctx context.Context, query, platform string, dedupe bool) ([]models.Listing, error)
}

// ProductFetcher looks up a single product page.
type ProductFetcher interface {
	ProductDetail(ctx context.Context, url, format string) (*models.ProductDetail, error)
}

// respondError logs err and writes the error envelope. userMsg is the
// localized text for upstream and parse failures; input errors keep their
// own message.
func respondError(c *gin.Context, err error, userMsg string) {
	var se *models.ScrapeError
	if !errors.As(err, &se) {
		se = models.NewScrapeError(models.ErrCodeInternal, err.Error(), err)
	}

	status := mapErrorToStatus(se)
	if status == http.StatusBadRequest {
		userMsg = models.MsgInvalidInput
	}

	slog.Error("request failed",
		"path", c.Request.URL.Path,
		"status", status,
		"code", se.Code,
		"error", err,
	)
	_ = c.Error(err)

	c.JSON(status, models.ErrorResponse{
		Error:   userMsg,
		Message: err.Error(),
		Code:    se.Code,
	})
}

// badRequest writes a 400 for a client input problem.
func badRequest(c *gin.Context, userMsg, detail string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   userMsg,
		Message: detail,
		Code:    models.ErrCodeInvalidInput,
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
// Only caller mistakes are 4xx; every fetch or parse failure is a 500.
func mapErrorToStatus(e *models.ScrapeError) int {
	switch e.Code {
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
