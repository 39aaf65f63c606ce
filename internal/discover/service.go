package discover

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/cinescout/cinescout/internal/config"
	"github.com/cinescout/cinescout/internal/discover/tmdb"
)

// ErrNotFound is returned by Detail when the movie does not exist upstream.
var ErrNotFound = errors.New("movie not found")

const trendingCacheKey = "movies:trending"

// Service exposes the movie discovery operations backed by an upstream
// catalogue. List-style lookups absorb upstream failures and return an
// empty result; only Detail propagates errors to its caller.
type Service struct {
	source    Source
	cache     *Cache
	logger    zerolog.Logger
	imageBase string
}

// NewService creates a discover service backed by the TMDB API.
func NewService(cfg config.TMDBConfig, logger zerolog.Logger) *Service {
	return NewServiceWithSource(tmdb.NewClient(cfg, logger), cfg.ImageBaseURL, logger)
}

// NewServiceWithSource creates a discover service with a custom source
// (for testing/mocking).
func NewServiceWithSource(source Source, imageBase string, logger zerolog.Logger) *Service {
	return &Service{
		source:    source,
		cache:     NewCache(tmdb.TrendingRevalidate),
		logger:    logger.With().Str("component", "discover").Logger(),
		imageBase: imageBase,
	}
}

// SourceName returns the name of the upstream source.
func (s *Service) SourceName() string {
	return s.source.Name()
}

// IsConfigured returns true if the upstream source has a credential.
func (s *Service) IsConfigured() bool {
	return s.source.IsConfigured()
}

// Probe tests connectivity to the upstream source.
func (s *Service) Probe(ctx context.Context) error {
	return s.source.Test(ctx)
}

// Trending returns the movies trending today, served from the trending
// cache while fresh.
func (s *Service) Trending(ctx context.Context) []MovieSummary {
	if results, ok := s.cache.GetMovieSummaries(trendingCacheKey); ok {
		s.logger.Debug().Msg("Trending cache hit")
		return results
	}

	page, err := s.source.GetTrending(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Trending fetch failed")
		return []MovieSummary{}
	}

	results := s.toSummaries(page.Results)
	s.cache.Set(trendingCacheKey, results)

	s.logger.Info().Int("results", len(results)).Msg("Trending fetched")
	return results
}

// RefreshTrending forces a trending fetch and re-primes the cache.
// Unlike Trending it reports the failure, so scheduled refreshes
// surface in task logs.
func (s *Service) RefreshTrending(ctx context.Context) error {
	page, err := s.source.GetTrending(ctx)
	if err != nil {
		return fmt.Errorf("trending refresh failed: %w", err)
	}

	s.cache.Set(trendingCacheKey, s.toSummaries(page.Results))
	s.logger.Debug().Int("results", len(page.Results)).Msg("Trending cache refreshed")
	return nil
}

// Search returns movies matching the query.
func (s *Service) Search(ctx context.Context, query string) []MovieSummary {
	page, err := s.source.SearchMovies(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("Movie search failed")
		return []MovieSummary{}
	}

	results := s.toSummaries(page.Results)

	s.logger.Info().
		Str("query", query).
		Int("results", len(results)).
		Msg("Movie search completed")

	return results
}

// Recommendations returns movies recommended for the given movie.
func (s *Service) Recommendations(ctx context.Context, id int) []MovieSummary {
	page, err := s.source.GetRecommendations(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int("id", id).Msg("Recommendations fetch failed")
		return []MovieSummary{}
	}

	return s.toSummaries(page.Results)
}

// Detail returns full movie details by ID. This is the one lookup that
// propagates upstream failures instead of degrading to an empty result.
func (s *Service) Detail(ctx context.Context, id int) (*MovieDetail, error) {
	details, err := s.source.GetMovie(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int("id", id).Msg("Movie detail fetch failed")
		if errors.Is(err, tmdb.ErrMovieNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get movie failed: %w", err)
	}

	detail := s.toDetail(details)

	s.logger.Info().
		Int("id", id).
		Str("title", detail.Title).
		Msg("Got movie details")

	return detail, nil
}

// Credits returns the cast of a movie.
func (s *Service) Credits(ctx context.Context, id int) []CastMember {
	credits, err := s.source.GetCredits(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int("id", id).Msg("Credits fetch failed")
		return []CastMember{}
	}

	cast := make([]CastMember, len(credits.Cast))
	for i := range credits.Cast {
		cast[i] = toCastMember(credits.Cast[i])
	}
	return cast
}

// Trailer returns the first video attached to a movie, or nil when the
// movie has none.
func (s *Service) Trailer(ctx context.Context, id int) *Trailer {
	videos, err := s.source.GetVideos(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int("id", id).Msg("Trailer fetch failed")
		return nil
	}

	if len(videos.Results) == 0 {
		return nil
	}

	first := videos.Results[0]
	return &Trailer{Key: first.Key, Site: first.Site}
}

// Reviews returns the reviews of a movie.
func (s *Service) Reviews(ctx context.Context, id int) []Review {
	page, err := s.source.GetReviews(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int("id", id).Msg("Reviews fetch failed")
		return []Review{}
	}

	reviews := make([]Review, len(page.Results))
	for i := range page.Results {
		reviews[i] = toReview(page.Results[i])
	}
	return reviews
}

// ClearCache clears the discover cache.
func (s *Service) ClearCache() {
	s.cache.Clear()
	s.logger.Info().Msg("Discover cache cleared")
}

// posterURL joins the image base with the upstream path fragment
// verbatim. A nil fragment yields the bare base URL; clients expect the
// concatenation untouched.
func (s *Service) posterURL(path *string) string {
	if path == nil {
		return s.imageBase
	}
	return s.imageBase + *path
}

// toSummary converts a TMDB list entry to a discover.MovieSummary.
func (s *Service) toSummary(m tmdb.MovieResult) MovieSummary {
	return MovieSummary{
		ID:        strconv.Itoa(m.ID),
		Title:     m.Title,
		PosterURL: s.posterURL(m.PosterPath),
		Rating:    m.VoteAverage,
	}
}

func (s *Service) toSummaries(results []tmdb.MovieResult) []MovieSummary {
	summaries := make([]MovieSummary, len(results))
	for i := range results {
		summaries[i] = s.toSummary(results[i])
	}
	return summaries
}

// toDetail converts TMDB movie details to a discover.MovieDetail.
func (s *Service) toDetail(d *tmdb.MovieDetails) *MovieDetail {
	genres := make([]Genre, len(d.Genres))
	for i, g := range d.Genres {
		genres[i] = Genre{ID: g.ID, Name: g.Name}
	}

	languages := make([]SpokenLanguage, len(d.SpokenLanguages))
	for i, l := range d.SpokenLanguages {
		languages[i] = SpokenLanguage{
			Code:        l.Iso6391,
			Name:        l.Name,
			EnglishName: l.EnglishName,
		}
	}

	return &MovieDetail{
		ID:              strconv.Itoa(d.ID),
		Title:           d.Title,
		PosterURL:       s.posterURL(d.PosterPath),
		Rating:          d.VoteAverage,
		Overview:        d.Overview,
		ReleaseDate:     d.ReleaseDate,
		Runtime:         d.Runtime,
		Genres:          genres,
		SpokenLanguages: languages,
	}
}

// toCastMember converts a TMDB cast entry to a discover.CastMember.
// The profile path stays a raw fragment, not a full URL.
func toCastMember(m tmdb.CastMember) CastMember {
	member := CastMember{
		ID:        strconv.Itoa(m.ID),
		Name:      m.Name,
		Character: m.Character,
		KnownFor:  m.KnownForDepartment,
	}
	if m.ProfilePath != nil {
		member.ProfilePath = *m.ProfilePath
	}
	return member
}

// toReview converts a TMDB review to a discover.Review. Rating and
// avatar stay null when the reviewer profile is absent.
func toReview(r tmdb.ReviewResult) Review {
	review := Review{
		ID:        r.ID,
		Author:    r.Author,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
		URL:       r.URL,
	}
	if r.AuthorDetails != nil {
		review.Rating = r.AuthorDetails.Rating
		review.AvatarPath = r.AuthorDetails.AvatarPath
	}
	return review
}
