package discover

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cinescout/cinescout/internal/config"
	"github.com/cinescout/cinescout/internal/discover/tmdb"
)

const testImageBase = "https://image.tmdb.org/t/p/original"

func newTestService(server *httptest.Server) *Service {
	cfg := config.TMDBConfig{
		Token:        "test-token",
		BaseURL:      server.URL,
		ImageBaseURL: testImageBase,
		Timeout:      5,
	}
	return NewService(cfg, zerolog.Nop())
}

func setupTestServer(t *testing.T) *httptest.Server {
	poster := "/matrix.jpg"
	profile := "/keanu.jpg"
	rating := 9.0

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/trending/movie/day":
			json.NewEncoder(w).Encode(tmdb.MovieListResponse{
				Results: []tmdb.MovieResult{
					{ID: 603, Title: "The Matrix", PosterPath: &poster, VoteAverage: 8.2},
					{ID: 604, Title: "The Matrix Reloaded", VoteAverage: 7.0},
				},
			})
		case "/search/movie":
			json.NewEncoder(w).Encode(tmdb.MovieListResponse{
				Results: []tmdb.MovieResult{
					{ID: 603, Title: "The Matrix", PosterPath: &poster, VoteAverage: 8.2},
				},
			})
		case "/movie/603":
			json.NewEncoder(w).Encode(tmdb.MovieDetails{
				ID:          603,
				Title:       "The Matrix",
				Overview:    "A computer hacker learns about the true nature of reality.",
				ReleaseDate: "1999-03-30",
				Runtime:     136,
				PosterPath:  &poster,
				VoteAverage: 8.2,
				Genres: []tmdb.Genre{
					{ID: 28, Name: "Action"},
				},
				SpokenLanguages: []tmdb.SpokenLanguage{
					{Iso6391: "en", Name: "English", EnglishName: "English"},
				},
			})
		case "/movie/603/recommendations":
			json.NewEncoder(w).Encode(tmdb.MovieListResponse{
				Results: []tmdb.MovieResult{
					{ID: 604, Title: "The Matrix Reloaded", VoteAverage: 7.0},
				},
			})
		case "/movie/603/credits":
			json.NewEncoder(w).Encode(tmdb.CreditsResponse{
				ID: 603,
				Cast: []tmdb.CastMember{
					{ID: 6384, Name: "Keanu Reeves", Character: "Neo", ProfilePath: &profile, KnownForDepartment: "Acting"},
					{ID: 2975, Name: "Laurence Fishburne", Character: "Morpheus"},
				},
			})
		case "/movie/603/videos":
			json.NewEncoder(w).Encode(tmdb.VideosResponse{
				Results: []tmdb.Video{
					{Key: "vKQi3bBA1y8", Site: "YouTube", Type: "Trailer"},
					{Key: "m8e-FF8MsqU", Site: "YouTube", Type: "Teaser"},
				},
			})
		case "/movie/604/videos":
			json.NewEncoder(w).Encode(tmdb.VideosResponse{Results: []tmdb.Video{}})
		case "/movie/603/reviews":
			json.NewEncoder(w).Encode(tmdb.ReviewsResponse{
				Results: []tmdb.ReviewResult{
					{
						ID:            "r1",
						Author:        "critic",
						AuthorDetails: &tmdb.AuthorDetails{Rating: &rating},
						Content:       "Still holds up.",
						CreatedAt:     "2017-11-17T11:27:31.403Z",
						URL:           "https://www.themoviedb.org/review/r1",
					},
					{ID: "r2", Author: "anonymous", Content: "No profile."},
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(tmdb.ErrorResponse{StatusCode: 34})
		}
	}))
}

// failingServer responds with a server error to every request.
func failingServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
}

func TestService_Trending(t *testing.T) {
	server := setupTestServer(t)
	defer server.Close()

	svc := newTestService(server)

	results := svc.Trending(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if results[0].ID != "603" {
		t.Errorf("ID = %q, want %q", results[0].ID, "603")
	}
	if results[0].Title != "The Matrix" {
		t.Errorf("Title = %q, want %q", results[0].Title, "The Matrix")
	}
	if results[0].PosterURL != testImageBase+"/matrix.jpg" {
		t.Errorf("PosterURL = %q", results[0].PosterURL)
	}
	if results[0].Rating != 8.2 {
		t.Errorf("Rating = %v, want 8.2", results[0].Rating)
	}

	// A movie without a poster still gets the image base joined verbatim
	if results[1].PosterURL != testImageBase {
		t.Errorf("PosterURL without fragment = %q, want %q", results[1].PosterURL, testImageBase)
	}
}

func TestService_Trending_Caching(t *testing.T) {
	callCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		json.NewEncoder(w).Encode(tmdb.MovieListResponse{
			Results: []tmdb.MovieResult{{ID: 603, Title: "The Matrix"}},
		})
	}))
	defer server.Close()

	svc := newTestService(server)

	// First call hits upstream, second is served from cache
	svc.Trending(context.Background())
	svc.Trending(context.Background())

	if callCount != 1 {
		t.Errorf("expected 1 API call, got %d", callCount)
	}
}

func TestService_Trending_FallbackOnError(t *testing.T) {
	server := failingServer()
	defer server.Close()

	svc := newTestService(server)

	results := svc.Trending(context.Background())
	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
	if results == nil {
		t.Error("expected empty slice, got nil")
	}
}

func TestService_RefreshTrending(t *testing.T) {
	callCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		json.NewEncoder(w).Encode(tmdb.MovieListResponse{
			Results: []tmdb.MovieResult{{ID: 603, Title: "The Matrix"}},
		})
	}))
	defer server.Close()

	svc := newTestService(server)

	if err := svc.RefreshTrending(context.Background()); err != nil {
		t.Fatalf("RefreshTrending() error = %v", err)
	}

	// Trending is now primed and must not hit upstream again
	results := svc.Trending(context.Background())
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if callCount != 1 {
		t.Errorf("expected 1 API call, got %d", callCount)
	}
}

func TestService_RefreshTrending_Error(t *testing.T) {
	server := failingServer()
	defer server.Close()

	svc := newTestService(server)

	if err := svc.RefreshTrending(context.Background()); err == nil {
		t.Error("RefreshTrending() should report upstream failure")
	}
}

func TestService_Search(t *testing.T) {
	server := setupTestServer(t)
	defer server.Close()

	svc := newTestService(server)

	results := svc.Search(context.Background(), "Matrix")
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].ID != "603" {
		t.Errorf("ID = %q, want %q", results[0].ID, "603")
	}
}

func TestService_Search_FallbackOnError(t *testing.T) {
	server := failingServer()
	defer server.Close()

	svc := newTestService(server)

	if results := svc.Search(context.Background(), "Matrix"); len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
}

func TestService_Search_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer server.Close()

	svc := newTestService(server)

	results := svc.Search(context.Background(), "Matrix")
	if results == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
}

func TestService_Recommendations(t *testing.T) {
	server := setupTestServer(t)
	defer server.Close()

	svc := newTestService(server)

	results := svc.Recommendations(context.Background(), 603)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Title != "The Matrix Reloaded" {
		t.Errorf("Title = %q", results[0].Title)
	}
}

func TestService_Detail(t *testing.T) {
	server := setupTestServer(t)
	defer server.Close()

	svc := newTestService(server)

	detail, err := svc.Detail(context.Background(), 603)
	if err != nil {
		t.Fatalf("Detail() error = %v", err)
	}

	if detail.ID != "603" {
		t.Errorf("ID = %q, want %q", detail.ID, "603")
	}
	if detail.Runtime != 136 {
		t.Errorf("Runtime = %d, want 136", detail.Runtime)
	}
	if detail.ReleaseDate != "1999-03-30" {
		t.Errorf("ReleaseDate = %q", detail.ReleaseDate)
	}
	if len(detail.Genres) != 1 || detail.Genres[0].Name != "Action" {
		t.Errorf("Genres = %+v", detail.Genres)
	}
	if len(detail.SpokenLanguages) != 1 || detail.SpokenLanguages[0].Code != "en" {
		t.Errorf("SpokenLanguages = %+v", detail.SpokenLanguages)
	}
}

func TestService_Detail_NotFound(t *testing.T) {
	server := setupTestServer(t)
	defer server.Close()

	svc := newTestService(server)

	_, err := svc.Detail(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Detail() error = %v, want %v", err, ErrNotFound)
	}
}

func TestService_Detail_UpstreamError(t *testing.T) {
	server := failingServer()
	defer server.Close()

	svc := newTestService(server)

	_, err := svc.Detail(context.Background(), 603)
	if err == nil {
		t.Fatal("Detail() should propagate upstream failure")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("Detail() error should not be ErrNotFound for a server error")
	}
}

func TestService_Credits(t *testing.T) {
	server := setupTestServer(t)
	defer server.Close()

	svc := newTestService(server)

	cast := svc.Credits(context.Background(), 603)
	if len(cast) != 2 {
		t.Fatalf("expected 2 cast members, got %d", len(cast))
	}

	if cast[0].ID != "6384" {
		t.Errorf("ID = %q, want %q", cast[0].ID, "6384")
	}
	if cast[0].ProfilePath != "/keanu.jpg" {
		t.Errorf("ProfilePath = %q, want raw fragment", cast[0].ProfilePath)
	}
	if cast[0].KnownFor != "Acting" {
		t.Errorf("KnownFor = %q", cast[0].KnownFor)
	}
	// Missing profile maps to an empty fragment
	if cast[1].ProfilePath != "" {
		t.Errorf("ProfilePath = %q, want empty", cast[1].ProfilePath)
	}
}

func TestService_Trailer(t *testing.T) {
	server := setupTestServer(t)
	defer server.Close()

	svc := newTestService(server)

	trailer := svc.Trailer(context.Background(), 603)
	if trailer == nil {
		t.Fatal("Trailer() = nil, want first video")
	}
	if trailer.Key != "vKQi3bBA1y8" {
		t.Errorf("Key = %q, want first video key", trailer.Key)
	}
	if trailer.Site != "YouTube" {
		t.Errorf("Site = %q", trailer.Site)
	}
}

func TestService_Trailer_NoVideos(t *testing.T) {
	server := setupTestServer(t)
	defer server.Close()

	svc := newTestService(server)

	if trailer := svc.Trailer(context.Background(), 604); trailer != nil {
		t.Errorf("Trailer() = %+v, want nil", trailer)
	}
}

func TestService_Trailer_FallbackOnError(t *testing.T) {
	server := failingServer()
	defer server.Close()

	svc := newTestService(server)

	if trailer := svc.Trailer(context.Background(), 603); trailer != nil {
		t.Errorf("Trailer() = %+v, want nil", trailer)
	}
}

func TestService_Reviews(t *testing.T) {
	server := setupTestServer(t)
	defer server.Close()

	svc := newTestService(server)

	reviews := svc.Reviews(context.Background(), 603)
	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(reviews))
	}

	if reviews[0].Rating == nil || *reviews[0].Rating != 9.0 {
		t.Errorf("Rating = %v, want 9.0", reviews[0].Rating)
	}
	if reviews[1].Rating != nil {
		t.Errorf("Rating = %v, want nil without reviewer profile", *reviews[1].Rating)
	}
	if reviews[1].AvatarPath != nil {
		t.Errorf("AvatarPath = %v, want nil without reviewer profile", *reviews[1].AvatarPath)
	}
}

func TestService_Reviews_FallbackOnError(t *testing.T) {
	server := failingServer()
	defer server.Close()

	svc := newTestService(server)

	if reviews := svc.Reviews(context.Background(), 603); len(reviews) != 0 {
		t.Errorf("expected empty reviews, got %d", len(reviews))
	}
}

func TestService_ClearCache(t *testing.T) {
	callCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		json.NewEncoder(w).Encode(tmdb.MovieListResponse{
			Results: []tmdb.MovieResult{{ID: 603, Title: "The Matrix"}},
		})
	}))
	defer server.Close()

	svc := newTestService(server)

	svc.Trending(context.Background())
	svc.ClearCache()
	svc.Trending(context.Background())

	if callCount != 2 {
		t.Errorf("expected 2 API calls after cache clear, got %d", callCount)
	}
}

func TestService_IsConfigured(t *testing.T) {
	svc := NewService(config.TMDBConfig{}, zerolog.Nop())
	if svc.IsConfigured() {
		t.Error("IsConfigured() = true without a token")
	}
	if svc.SourceName() != "tmdb" {
		t.Errorf("SourceName() = %q, want %q", svc.SourceName(), "tmdb")
	}
}
