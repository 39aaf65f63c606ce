package tmdb

// MovieListResponse is a page of movie results from TMDB. Trending,
// search and recommendation endpoints all return this shape.
type MovieListResponse struct {
	Page         int           `json:"page"`
	Results      []MovieResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

// MovieResult is a movie from TMDB list results.
type MovieResult struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  *string `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	Popularity  float64 `json:"popularity"`
}

// MovieDetails is the detailed movie info from TMDB.
type MovieDetails struct {
	ID              int              `json:"id"`
	Title           string           `json:"title"`
	Overview        string           `json:"overview"`
	ReleaseDate     string           `json:"release_date"`
	PosterPath      *string          `json:"poster_path"`
	VoteAverage     float64          `json:"vote_average"`
	VoteCount       int              `json:"vote_count"`
	Runtime         int              `json:"runtime"`
	Genres          []Genre          `json:"genres"`
	SpokenLanguages []SpokenLanguage `json:"spoken_languages"`
}

// Genre represents a genre from TMDB.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// SpokenLanguage represents a spoken language from TMDB movie details.
type SpokenLanguage struct {
	Iso6391     string `json:"iso_639_1"`
	Name        string `json:"name"`
	EnglishName string `json:"english_name"`
}

// CreditsResponse is the response from TMDB /movie/{id}/credits.
type CreditsResponse struct {
	ID   int          `json:"id"`
	Cast []CastMember `json:"cast"`
}

// CastMember represents a cast member from TMDB credits.
type CastMember struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	Character          string  `json:"character"`
	Order              int     `json:"order"`
	ProfilePath        *string `json:"profile_path"`
	KnownForDepartment string  `json:"known_for_department"`
}

// VideosResponse is the response from TMDB /movie/{id}/videos.
type VideosResponse struct {
	Results []Video `json:"results"`
}

// Video represents a video (trailer, teaser, etc.) from TMDB.
type Video struct {
	Key      string `json:"key"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	Official bool   `json:"official"`
}

// ReviewsResponse is a page of reviews from TMDB /movie/{id}/reviews.
type ReviewsResponse struct {
	ID           int            `json:"id"`
	Page         int            `json:"page"`
	Results      []ReviewResult `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

// ReviewResult is a single review from TMDB. AuthorDetails may be
// absent entirely, and its rating and avatar are nullable.
type ReviewResult struct {
	ID            string         `json:"id"`
	Author        string         `json:"author"`
	AuthorDetails *AuthorDetails `json:"author_details"`
	Content       string         `json:"content"`
	CreatedAt     string         `json:"created_at"`
	URL           string         `json:"url"`
}

// AuthorDetails holds the reviewer profile attached to a review.
type AuthorDetails struct {
	Name       string   `json:"name"`
	Username   string   `json:"username"`
	AvatarPath *string  `json:"avatar_path"`
	Rating     *float64 `json:"rating"`
}

// ErrorResponse is an error from the TMDB API.
type ErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}
