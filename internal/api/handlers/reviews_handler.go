package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/umorjyoti/trip-sub006/internal/places"
)

// IReviewFetcher is implemented by *places.ReviewFetcher.
type IReviewFetcher interface {
	FetchReviews(ctx context.Context, placeID, placeName string) ([]places.Review, error)
}

// ReviewsHandler proxies public Google reviews.
type ReviewsHandler struct {
	fetcher IReviewFetcher
}

// NewReviewsHandler creates a new ReviewsHandler.
func NewReviewsHandler(fetcher IReviewFetcher) *ReviewsHandler {
	return &ReviewsHandler{fetcher: fetcher}
}

// GetReviews handles GET /api/google/reviews?placeId=...|placeName=...
func (h *ReviewsHandler) GetReviews(c *gin.Context) {
	reviews, err := h.fetcher.FetchReviews(c.Request.Context(), c.Query("placeId"), c.Query("placeName"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reviews": reviews})
}
