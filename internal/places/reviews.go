// Package places fetches public reviews for the business listing from Google Places.
package places

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"googlemaps.github.io/maps"

	"github.com/umorjyoti/trip-sub006/internal/apperr"
	"github.com/umorjyoti/trip-sub006/internal/config"
)

const serviceName = "google_places"

// ErrNoPlaceFound is returned when a text search for a place name has no results.
var ErrNoPlaceFound = errors.New("no place found")

// Review is one public review of a place.
type Review struct {
	AuthorName string `json:"author_name"`
	AuthorURL  string `json:"author_url,omitempty"`
	Language   string `json:"language,omitempty"`
	Rating     int    `json:"rating"`
	Text       string `json:"text"`
	Time       int    `json:"time"`
}

// PlacesAPI is the part of *maps.Client the fetcher uses.
type PlacesAPI interface {
	TextSearch(ctx context.Context, r *maps.TextSearchRequest) (maps.PlacesSearchResponse, error)
	PlaceDetails(ctx context.Context, r *maps.PlaceDetailsRequest) (maps.PlaceDetailsResult, error)
}

// ReviewFetcher looks a place up and returns its reviews. The client is built on
// first use, so a missing API key only fails review requests.
type ReviewFetcher struct {
	apiKey  string
	baseURL string
	log     logr.Logger

	mu     sync.Mutex
	client PlacesAPI
}

// NewReviewFetcher creates a fetcher from the Google Places settings in cfg.
func NewReviewFetcher(cfg *config.Config, log logr.Logger) *ReviewFetcher {
	return &ReviewFetcher{apiKey: cfg.GooglePlacesAPIKey, baseURL: cfg.GooglePlacesBaseURL, log: log}
}

// NewReviewFetcherWithClient wires an existing client, mainly for tests.
func NewReviewFetcherWithClient(client PlacesAPI, log logr.Logger) *ReviewFetcher {
	return &ReviewFetcher{client: client, log: log}
}

func (f *ReviewFetcher) api() (PlacesAPI, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.client != nil {
		return f.client, nil
	}
	if f.apiKey == "" {
		return nil, &apperr.ConfigError{Key: "GOOGLE_PLACES_API_KEY"}
	}
	opts := []maps.ClientOption{maps.WithAPIKey(f.apiKey)}
	if f.baseURL != "" {
		opts = append(opts, maps.WithBaseURL(f.baseURL))
	}
	c, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create places client: %w", err)
	}
	f.client = c
	return c, nil
}

// FetchReviews returns the reviews of placeID, or of the first text search hit for
// placeName when placeID is empty. A place without reviews yields an empty slice.
func (f *ReviewFetcher) FetchReviews(ctx context.Context, placeID, placeName string) ([]Review, error) {
	placeID = strings.TrimSpace(placeID)
	placeName = strings.TrimSpace(placeName)
	if placeID == "" && placeName == "" {
		return nil, apperr.Invalid("placeId", "placeId or placeName is required")
	}

	client, err := f.api()
	if err != nil {
		return nil, err
	}

	if placeID == "" {
		res, err := client.TextSearch(ctx, &maps.TextSearchRequest{Query: placeName})
		if err != nil {
			return nil, upstream("text search", err)
		}
		if len(res.Results) == 0 {
			return nil, fmt.Errorf("%w for name %q", ErrNoPlaceFound, placeName)
		}
		placeID = res.Results[0].PlaceID
		f.log.V(1).Info("place resolved", "name", placeName, "placeId", placeID)
	}

	details, err := client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID: placeID,
		Fields:  []maps.PlaceDetailsFieldMask{maps.PlaceDetailsFieldMask("reviews")},
	})
	if err != nil {
		return nil, upstream("place details", err)
	}

	reviews := make([]Review, 0, len(details.Reviews))
	for _, r := range details.Reviews {
		reviews = append(reviews, Review{
			AuthorName: r.AuthorName,
			AuthorURL:  r.AuthorURL,
			Language:   r.Language,
			Rating:     r.Rating,
			Text:       r.Text,
			Time:       r.Time,
		})
	}
	return reviews, nil
}

// upstream turns a "maps: STATUS - message" error into an UpstreamError.
func upstream(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	msg := strings.TrimPrefix(err.Error(), "maps: ")
	code := ""
	if status, rest, ok := strings.Cut(msg, " - "); ok && status == strings.ToUpper(status) {
		code, msg = status, rest
	}
	return &apperr.UpstreamError{Service: serviceName, Code: code, Message: op + ": " + msg, Err: err}
}
