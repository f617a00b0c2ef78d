package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/pricecheck/models"
)

// Product returns a handler for GET /api/product.
func Product(p ProductFetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ProductRequest
		bindErr := c.ShouldBindQuery(&req)

		req.URL = strings.TrimSpace(req.URL)
		if req.URL == "" {
			badRequest(c, models.MsgMissingURL, "")
			return
		}
		if bindErr != nil {
			badRequest(c, models.MsgInvalidInput, bindErr.Error())
			return
		}
		req.Defaults()

		detail, err := p.ProductDetail(c.Request.Context(), req.URL, req.Format)
		if err != nil {
			respondError(c, err, models.MsgProductFailed)
			return
		}

		c.JSON(http.StatusOK, models.ProductResponse{
			Success: true,
			Data:    detail,
		})
	}
}
