package version

// Version is set at build time with -ldflags "-X github.com/guiyumin/animelink/internal/core/version.Version=..."
var Version = "0.3.0"
