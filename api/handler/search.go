package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/pricecheck/models"
)

// Search returns a handler for GET /api/search.
//
//  1. Bind the query string; a missing q is rejected before anything else.
//  2. Run the search on the selected platform.
//  3. Wrap the sorted listings in the response envelope.
func Search(s Searcher, defaultPlatform string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SearchRequest
		bindErr := c.ShouldBindQuery(&req)

		req.Query = strings.TrimSpace(req.Query)
		if req.Query == "" {
			badRequest(c, models.MsgMissingQuery, "")
			return
		}
		if bindErr != nil {
			badRequest(c, models.MsgInvalidInput, bindErr.Error())
			return
		}
		req.Defaults(defaultPlatform)

		results, err := s.Search(c.Request.Context(), req.Query, req.Platform, req.Dedupe)
		if err != nil {
			respondError(c, err, models.MsgSearchFailed)
			return
		}
		if results == nil {
			results = []models.Listing{}
		}

		c.JSON(http.StatusOK, models.SearchResponse{
			Success:   true,
			Query:     req.Query,
			Count:     len(results),
			Timestamp: models.Timestamp(time.Now()),
			Results:   results,
		})
	}
}
