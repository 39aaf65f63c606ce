package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinescout/cinescout/internal/config"
)

var (
	ErrTokenMissing  = errors.New("TMDB API token is not configured")
	ErrMovieNotFound = errors.New("movie not found")
	ErrUnauthorized  = errors.New("TMDB API token rejected")
	ErrRateLimited   = errors.New("TMDB API rate limited")
	ErrAPIError      = errors.New("TMDB API error")
)

// TrendingRevalidate is how long a trending response may be reused
// before a fresh upstream fetch. It is sent as a cache hint on the
// trending request and drives the trending cache TTL.
const TrendingRevalidate = 60 * time.Second

// Client is a TMDB API client authenticating with a v4 read access
// token sent as a Bearer credential.
type Client struct {
	httpClient *http.Client
	config     config.TMDBConfig
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client.
func NewClient(cfg config.TMDBConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "tmdb").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "tmdb"
}

// IsConfigured returns true if the API token is set.
func (c *Client) IsConfigured() bool {
	return c.config.Token != ""
}

// Test verifies connectivity to the TMDB API by making a configuration request.
func (c *Client) Test(ctx context.Context) error {
	if !c.IsConfigured() {
		return ErrTokenMissing
	}

	endpoint := fmt.Sprintf("%s/configuration", c.config.BaseURL)

	var result struct {
		Images struct {
			BaseURL string `json:"base_url"`
		} `json:"images"`
	}

	return c.doRequest(ctx, endpoint, nil, &result)
}

// GetTrending fetches the movies trending today. The request carries a
// cache hint asking for revalidation after TrendingRevalidate.
func (c *Client) GetTrending(ctx context.Context) (*MovieListResponse, error) {
	if !c.IsConfigured() {
		return nil, ErrTokenMissing
	}

	endpoint := fmt.Sprintf("%s/trending/movie/day", c.config.BaseURL)

	var response MovieListResponse
	if err := c.doRequest(ctx, endpoint, nil, &response, withCacheHint(TrendingRevalidate)); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("results", len(response.Results)).
		Msg("Got trending movies")

	return &response, nil
}

// SearchMovies searches for movies by query.
func (c *Client) SearchMovies(ctx context.Context, query string) (*MovieListResponse, error) {
	if !c.IsConfigured() {
		return nil, ErrTokenMissing
	}

	endpoint := fmt.Sprintf("%s/search/movie", c.config.BaseURL)
	params := url.Values{}
	params.Set("query", query)

	var response MovieListResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("query", query).
		Int("results", len(response.Results)).
		Msg("Movie search completed")

	return &response, nil
}

// GetRecommendations fetches movies recommended for the given movie.
func (c *Client) GetRecommendations(ctx context.Context, id int) (*MovieListResponse, error) {
	if !c.IsConfigured() {
		return nil, ErrTokenMissing
	}

	endpoint := fmt.Sprintf("%s/movie/%d/recommendations", c.config.BaseURL, id)

	var response MovieListResponse
	if err := c.doRequest(ctx, endpoint, nil, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("id", id).
		Int("results", len(response.Results)).
		Msg("Got movie recommendations")

	return &response, nil
}

// GetMovie gets detailed movie info by TMDB ID.
func (c *Client) GetMovie(ctx context.Context, id int) (*MovieDetails, error) {
	if !c.IsConfigured() {
		return nil, ErrTokenMissing
	}

	endpoint := fmt.Sprintf("%s/movie/%d", c.config.BaseURL, id)

	var details MovieDetails
	if err := c.doRequest(ctx, endpoint, nil, &details); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("id", id).
		Str("title", details.Title).
		Msg("Got movie details")

	return &details, nil
}

// GetCredits fetches the cast list for a movie.
func (c *Client) GetCredits(ctx context.Context, id int) (*CreditsResponse, error) {
	if !c.IsConfigured() {
		return nil, ErrTokenMissing
	}

	endpoint := fmt.Sprintf("%s/movie/%d/credits", c.config.BaseURL, id)

	var response CreditsResponse
	if err := c.doRequest(ctx, endpoint, nil, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("id", id).
		Int("cast", len(response.Cast)).
		Msg("Got movie credits")

	return &response, nil
}

// GetVideos fetches the videos attached to a movie.
func (c *Client) GetVideos(ctx context.Context, id int) (*VideosResponse, error) {
	if !c.IsConfigured() {
		return nil, ErrTokenMissing
	}

	endpoint := fmt.Sprintf("%s/movie/%d/videos", c.config.BaseURL, id)

	var response VideosResponse
	if err := c.doRequest(ctx, endpoint, nil, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// GetReviews fetches the first page of reviews for a movie.
func (c *Client) GetReviews(ctx context.Context, id int) (*ReviewsResponse, error) {
	if !c.IsConfigured() {
		return nil, ErrTokenMissing
	}

	endpoint := fmt.Sprintf("%s/movie/%d/reviews", c.config.BaseURL, id)

	var response ReviewsResponse
	if err := c.doRequest(ctx, endpoint, nil, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("id", id).
		Int("results", len(response.Results)).
		Msg("Got movie reviews")

	return &response, nil
}

// withCacheHint sets a max-age cache directive on the outgoing request.
func withCacheHint(maxAge time.Duration) func(*http.Request) {
	return func(req *http.Request) {
		req.Header.Set("Cache-Control", fmt.Sprintf("max-age=%d", int(maxAge.Seconds())))
	}
}

// doRequest performs an HTTP GET request and decodes the JSON response.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}, opts ...func(*http.Request)) error {
	reqURL := endpoint
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", endpoint).Msg("HTTP request failed")
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	// Handle error responses
	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			c.logger.Error().
				Int("status", resp.StatusCode).
				Str("message", errResp.StatusMessage).
				Msg("TMDB API error")
		}

		switch resp.StatusCode {
		case http.StatusNotFound:
			return ErrMovieNotFound
		case http.StatusUnauthorized:
			return ErrUnauthorized
		case http.StatusTooManyRequests:
			return ErrRateLimited
		default:
			return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
