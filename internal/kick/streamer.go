package kick

// DefaultThumbnail is used when neither the channel profile nor the livestream
// payload provides an image.
const DefaultThumbnail = "https://kick.com/favicon.ico"

// Streamer is the canonical record for one tracked channel, rebuilt in full on
// every refresh. Viewers is only meaningful while IsLive is true.
type Streamer struct {
	Username  string `json:"username"`
	IsLive    bool   `json:"isLive"`
	Viewers   int    `json:"viewers"`
	Category  string `json:"category"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
}

// Profile is the result of a successful streamer validation. Only Username is
// retained by callers; the rest is display metadata for the add-streamer UI.
type Profile struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Thumbnail   string `json:"thumbnail"`
	Verified    bool   `json:"verified"`
}
