package tmdb

// ImageConfig builds image URLs from the relative paths TMDB returns
type ImageConfig struct {
	PosterBase          string `mapstructure:"poster_base"`
	BackdropBase        string `mapstructure:"backdrop_base"`
	PosterPlaceholder   string `mapstructure:"poster_placeholder"`
	BackdropPlaceholder string `mapstructure:"backdrop_placeholder"`
}

// DefaultImages uses the TMDB image host: w500 posters and original size backdrops.
var DefaultImages = ImageConfig{
	PosterBase:          "https://image.tmdb.org/t/p/w500",
	BackdropBase:        "https://image.tmdb.org/t/p/original",
	PosterPlaceholder:   "https://via.placeholder.com/500x750?text=No+Image",
	BackdropPlaceholder: "https://via.placeholder.com/1920x1080?text=No+Image",
}

// Poster returns the poster URL for path, or the placeholder when path is empty
func (c ImageConfig) Poster(path string) string {
	if path == "" {
		return c.PosterPlaceholder
	}
	return c.PosterBase + path
}

// Backdrop returns the backdrop URL for path, or the placeholder when path is empty
func (c ImageConfig) Backdrop(path string) string {
	if path == "" {
		return c.BackdropPlaceholder
	}
	return c.BackdropBase + path
}
