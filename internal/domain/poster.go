package domain

// Poster constants.
const (
	PosterContentType  = "image/png"
	PosterExtension    = ".png"
	DefaultPosterLimit = 5 << 20
)

// PosterKey names the blob owned by email for imdbID. imdbID is restricted to
// alphanumerics, so the first '_' always separates the two parts.
func PosterKey(imdbID, email string) string {
	return imdbID + "_" + email
}
