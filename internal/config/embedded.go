package config

// Build-time values injected via ldflags. The embedded token serves as
// a default and can be overridden by environment variables or the
// config file.
//
// Build with:
//   go build -ldflags "-X 'github.com/cinescout/cinescout/internal/config.EmbeddedTMDBToken=xxx' \
//                      -X 'github.com/cinescout/cinescout/internal/config.Version=1.2.3'"
var (
	EmbeddedTMDBToken string

	// Version is the application version reported by the status endpoint.
	Version = "dev"
)
