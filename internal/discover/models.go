package discover

// MovieSummary is the compact movie shape returned by list endpoints.
type MovieSummary struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	PosterURL string  `json:"posterUrl"`
	Rating    float64 `json:"rating"`
}

// MovieDetail is the full movie shape returned by the detail endpoint.
type MovieDetail struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	PosterURL       string           `json:"posterUrl"`
	Rating          float64          `json:"rating"`
	Overview        string           `json:"overview"`
	ReleaseDate     string           `json:"releaseDate"`
	Runtime         int              `json:"runtime"`
	Genres          []Genre          `json:"genres"`
	SpokenLanguages []SpokenLanguage `json:"spokenLanguages"`
}

// Genre is a movie genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// SpokenLanguage is a language spoken in a movie.
type SpokenLanguage struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	EnglishName string `json:"englishName"`
}

// CastMember is an actor appearing in a movie. ProfilePath is the raw
// upstream image fragment and may be empty.
type CastMember struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profilePath"`
	KnownFor    string `json:"knownFor"`
}

// Trailer is the first video attached to a movie.
type Trailer struct {
	Key  string `json:"key"`
	Site string `json:"site"`
}

// Review is a user review of a movie. Rating and AvatarPath come from
// the reviewer profile and are null when the profile is absent.
type Review struct {
	ID         string   `json:"id"`
	Author     string   `json:"author"`
	Content    string   `json:"content"`
	CreatedAt  string   `json:"createdAt"`
	URL        string   `json:"url"`
	Rating     *float64 `json:"rating"`
	AvatarPath *string  `json:"avatarPath"`
}
