package discover

import (
	"context"

	"github.com/cinescout/cinescout/internal/discover/tmdb"
)

// Source defines the upstream movie catalogue operations the discover
// service depends on.
type Source interface {
	Name() string
	IsConfigured() bool
	Test(ctx context.Context) error
	GetTrending(ctx context.Context) (*tmdb.MovieListResponse, error)
	SearchMovies(ctx context.Context, query string) (*tmdb.MovieListResponse, error)
	GetRecommendations(ctx context.Context, id int) (*tmdb.MovieListResponse, error)
	GetMovie(ctx context.Context, id int) (*tmdb.MovieDetails, error)
	GetCredits(ctx context.Context, id int) (*tmdb.CreditsResponse, error)
	GetVideos(ctx context.Context, id int) (*tmdb.VideosResponse, error)
	GetReviews(ctx context.Context, id int) (*tmdb.ReviewsResponse, error)
}
