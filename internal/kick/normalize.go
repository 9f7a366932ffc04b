package kick

import (
	"encoding/json"
	"log/slog"
	"strings"
)

// channelInfo is the subset of the channel endpoint payload we consume.
type channelInfo struct {
	User           *channelUser    `json:"user"`
	Livestream     *livestreamInfo `json:"livestream"`
	FollowersCount *int            `json:"followers_count"`
}

type channelUser struct {
	ID         flexID `json:"id"`
	Username   string `json:"username"`
	ProfilePic string `json:"profile_pic"`
}

// livestreamInfo carries the platform-native snake_case stream fields, shared
// by the channel payload's embedded livestream object and the standalone
// livestream endpoints.
type livestreamInfo struct {
	IsLive       bool          `json:"is_live"`
	ViewerCount  int           `json:"viewer_count"`
	Categories   []category    `json:"categories"`
	SessionTitle string        `json:"session_title"`
	Thumbnail    flexThumbnail `json:"thumbnail"`
}

type category struct {
	Name string `json:"name"`
}

// livestreamEnvelope covers the three shapes the livestream endpoints return.
// Shape is detected by field presence, so the discriminating fields are
// pointers.
type livestreamEnvelope struct {
	// Shape (a): pre-normalized camelCase fields.
	IsLiveNorm *bool  `json:"isLive"`
	Viewers    int    `json:"viewers"`
	Category   string `json:"category"`
	Title      string `json:"title"`

	// Shape (b): the true payload nested under "data".
	Data *livestreamInfo `json:"data"`

	// Shape (c): platform-native fields at top level.
	IsLive       *bool      `json:"is_live"`
	ViewerCount  int        `json:"viewer_count"`
	Categories   []category `json:"categories"`
	SessionTitle string     `json:"session_title"`

	// "thumbnail" appears in shapes (a) and (c), as a URL string or an object.
	Thumbnail flexThumbnail `json:"thumbnail"`
}

// flexThumbnail accepts both thumbnail encodings seen across endpoint
// generations: a bare URL string or an object with a "url" field.
type flexThumbnail string

func (t *flexThumbnail) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = flexThumbnail(s)
		return nil
	}
	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		// Unknown shape — treat as absent rather than failing the payload.
		return nil
	}
	*t = flexThumbnail(obj.URL)
	return nil
}

// flexID accepts a user id encoded as a JSON number or a string.
type flexID string

func (id *flexID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*id = flexID(n.String())
		return nil
	}
	return nil
}

// Normalize builds the canonical record for username from raw endpoint
// payloads. Either payload may be nil or malformed; the record then degrades
// to offline defaults. The channel payload's embedded livestream object is
// authoritative when present; otherwise the standalone livestream payload is
// used, whichever shape it arrives in.
func Normalize(username string, channelRaw, livestreamRaw json.RawMessage) Streamer {
	rec := Streamer{Username: username, Thumbnail: DefaultThumbnail}

	ch := parseChannel(username, channelRaw)

	switch {
	case ch != nil && ch.Livestream != nil:
		applyStream(&rec, ch.Livestream)
	case len(livestreamRaw) > 0:
		applyEnvelope(&rec, username, livestreamRaw)
	}

	// The channel profile picture is the preferred avatar regardless of which
	// source filled the live fields.
	if ch != nil && ch.User != nil && ch.User.ProfilePic != "" {
		rec.Thumbnail = ch.User.ProfilePic
	}

	return rec
}

// parseChannel decodes a raw channel payload, returning nil when the payload
// is absent or malformed.
func parseChannel(username string, raw json.RawMessage) *channelInfo {
	if len(raw) == 0 {
		return nil
	}
	var ch channelInfo
	if err := json.Unmarshal(raw, &ch); err != nil {
		slog.Warn("kick: malformed channel payload", "username", username, "err", err)
		return nil
	}
	return &ch
}

// applyStream copies the snake_case stream fields onto rec.
func applyStream(rec *Streamer, ls *livestreamInfo) {
	rec.IsLive = ls.IsLive
	rec.Viewers = clampViewers(ls.ViewerCount)
	rec.Title = ls.SessionTitle
	if len(ls.Categories) > 0 {
		rec.Category = ls.Categories[0].Name
	}
	if ls.Thumbnail != "" {
		rec.Thumbnail = string(ls.Thumbnail)
	}
}

// applyEnvelope decodes a standalone livestream payload and copies whichever
// shape it matches onto rec. An unrecognized shape leaves rec untouched.
func applyEnvelope(rec *Streamer, username string, raw json.RawMessage) {
	var env livestreamEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		slog.Warn("kick: malformed livestream payload", "username", username, "err", err)
		return
	}

	switch {
	case env.IsLiveNorm != nil:
		rec.IsLive = *env.IsLiveNorm
		rec.Viewers = clampViewers(env.Viewers)
		rec.Category = env.Category
		rec.Title = env.Title
		if env.Thumbnail != "" {
			rec.Thumbnail = string(env.Thumbnail)
		}

	case env.Data != nil:
		applyStream(rec, env.Data)

	case env.IsLive != nil:
		rec.IsLive = *env.IsLive
		rec.Viewers = clampViewers(env.ViewerCount)
		rec.Title = env.SessionTitle
		if len(env.Categories) > 0 {
			rec.Category = env.Categories[0].Name
		}
		if env.Thumbnail != "" {
			rec.Thumbnail = string(env.Thumbnail)
		}
	}
}

func clampViewers(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// canonicalUsername trims surrounding whitespace; case is preserved because
// Kick usernames are case-preserving.
func canonicalUsername(username string) string {
	return strings.TrimSpace(username)
}
