package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/umorjyoti/trip-sub006/internal/api/handlers"
	"github.com/umorjyoti/trip-sub006/internal/apperr"
	"github.com/umorjyoti/trip-sub006/internal/places"
)

func setupReviewRoutes(f *MockReviewFetcher) http.Handler {
	h := handlers.NewReviewsHandler(f)
	r := newTestEngine()
	r.GET("/api/google/reviews", h.GetReviews)
	return r
}

func TestReviewsHandler_OK(t *testing.T) {
	f := new(MockReviewFetcher)
	f.On("FetchReviews", mock.Anything, "ChIJ123", "").Return([]places.Review{{AuthorName: "Asha", Rating: 5}}, nil)

	w := doRequest(setupReviewRoutes(f), "GET", "/api/google/reviews?placeId=ChIJ123", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["reviews"], 1)
}

func TestReviewsHandler_ErrorMapping(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
		code   string
	}{
		"no place":     {fmt.Errorf("%w for name %q", places.ErrNoPlaceFound, "Nowhere"), http.StatusNotFound, handlers.CodeNotFound},
		"missing key":  {&apperr.ConfigError{Key: "GOOGLE_PLACES_API_KEY"}, http.StatusInternalServerError, handlers.CodeConfig},
		"denied":       {&apperr.UpstreamError{Service: "google_places", Code: "REQUEST_DENIED"}, http.StatusBadGateway, handlers.CodeUpstream},
		"no arguments": {apperr.Invalid("placeId", "placeId or placeName is required"), http.StatusBadRequest, handlers.CodeValidation},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := new(MockReviewFetcher)
			f.On("FetchReviews", mock.Anything, "", "Nowhere").Return(nil, tc.err)

			w := doRequest(setupReviewRoutes(f), "GET", "/api/google/reviews?placeName=Nowhere", "")

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, decodeBody(t, w)["code"])
		})
	}
}
