// File: handlers/fairvalue.go
package handlers

import (
	"net/http"

	"ravmarket/services/fairvalue"

	"github.com/gin-gonic/gin"
)

// FairValueHandler classifies a listing's asking price against comparable
// accepted bids.
func FairValueHandler(svc fairvalue.FairValueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := svc.ClassifyListing(c.Request.Context(), c.Param("listingID"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
