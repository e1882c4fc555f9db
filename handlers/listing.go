// File: handlers/listing.go
package handlers

import (
	"net/http"
	"time"

	listingRepo "ravmarket/database/repository/listing"
	"ravmarket/middleware"
	"ravmarket/models"
	"ravmarket/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// createListingInput is the owner-supplied slice of a new listing. Pricing
// above the owner's take is computed server-side.
type createListingInput struct {
	PropertyID   string    `json:"property_id" binding:"required"`
	Destination  string    `json:"destination" binding:"required"`
	Bedrooms     int       `json:"bedrooms"`
	CheckInDate  time.Time `json:"check_in_date" binding:"required"`
	CheckOutDate time.Time `json:"check_out_date" binding:"required"`

	OwnerPrice         float64                   `json:"owner_price" binding:"required"`
	CancellationPolicy models.CancellationPolicy `json:"cancellation_policy" binding:"required"`
	Notes              string                    `json:"notes"`
}

// CreateListingHandler creates a draft-free active listing with the platform
// markup applied on top of the owner's price.
func CreateListingHandler(repo listingRepo.ListingRepository, markupPct float64) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input createListingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
			return
		}
		if !input.CheckOutDate.After(input.CheckInDate) {
			utils.JSONError(c, http.StatusBadRequest, "Invalid input", "check-out must be after check-in")
			return
		}
		if input.OwnerPrice <= 0 {
			utils.JSONError(c, http.StatusBadRequest, "Invalid input", "owner price must be positive")
			return
		}
		switch input.CancellationPolicy {
		case models.PolicyFlexible, models.PolicyModerate, models.PolicyStrict, models.PolicySuperStrict:
		default:
			utils.JSONError(c, http.StatusBadRequest, "Invalid input", "unknown cancellation policy")
			return
		}

		nights := int(input.CheckOutDate.Sub(input.CheckInDate).Hours() / 24)
		if nights < 1 {
			nights = 1
		}
		markup := utils.RoundCents(input.OwnerPrice * markupPct / 100)

		now := time.Now()
		listing := &models.Listing{
			ID:                 uuid.New().String(),
			PropertyID:         input.PropertyID,
			OwnerID:            middleware.CallerID(c),
			Destination:        input.Destination,
			Bedrooms:           input.Bedrooms,
			CheckInDate:        input.CheckInDate,
			CheckOutDate:       input.CheckOutDate,
			NightlyRate:        utils.RoundCents(input.OwnerPrice / float64(nights)),
			OwnerPrice:         input.OwnerPrice,
			RavMarkup:          markup,
			FinalPrice:         input.OwnerPrice + markup,
			Status:             models.ListingActive,
			CancellationPolicy: input.CancellationPolicy,
			Notes:              input.Notes,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := repo.Create(c.Request.Context(), listing); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, listing)
	}
}

// GetListingHandler returns one listing.
func GetListingHandler(repo listingRepo.ListingRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		listing, err := repo.GetByID(c.Request.Context(), c.Param("listingID"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, listing)
	}
}
