package kick

import (
	"encoding/json"
	"testing"
)

const channelWithLive = `{
	"user": {"id": 42, "username": "alice", "profile_pic": "https://files.kick.com/alice.webp"},
	"followers_count": 1200,
	"livestream": {
		"is_live": true,
		"viewer_count": 345,
		"categories": [{"name": "Just Chatting"}, {"name": "IRL"}],
		"session_title": "morning stream",
		"thumbnail": {"url": "https://files.kick.com/live/alice.jpg"}
	}
}`

func TestNormalize_ChannelLivestreamAuthoritative(t *testing.T) {
	// Conflicting standalone livestream payload must lose to the channel's
	// embedded livestream object.
	conflicting := json.RawMessage(`{"isLive":false,"viewers":1,"category":"Slots","title":"other"}`)

	rec := Normalize("alice", json.RawMessage(channelWithLive), conflicting)

	if !rec.IsLive {
		t.Error("IsLive: got false, want true")
	}
	if rec.Viewers != 345 {
		t.Errorf("Viewers: got %d, want 345", rec.Viewers)
	}
	if rec.Category != "Just Chatting" {
		t.Errorf("Category: got %q, want Just Chatting", rec.Category)
	}
	if rec.Title != "morning stream" {
		t.Errorf("Title: got %q, want morning stream", rec.Title)
	}
	// Profile picture overrides the livestream thumbnail.
	if rec.Thumbnail != "https://files.kick.com/alice.webp" {
		t.Errorf("Thumbnail: got %q, want profile pic", rec.Thumbnail)
	}
}

func TestNormalize_ProfilePicOverridesLivestreamThumbnail(t *testing.T) {
	channel := json.RawMessage(`{"user":{"id":1,"username":"bob","profile_pic":"https://files.kick.com/bob.webp"}}`)
	live := json.RawMessage(`{"is_live":true,"viewer_count":9,"thumbnail":"https://files.kick.com/live/bob.jpg"}`)

	rec := Normalize("bob", channel, live)

	if rec.Thumbnail != "https://files.kick.com/bob.webp" {
		t.Errorf("Thumbnail: got %q, want profile pic override", rec.Thumbnail)
	}
	if !rec.IsLive || rec.Viewers != 9 {
		t.Errorf("live fields: got live=%v viewers=%d", rec.IsLive, rec.Viewers)
	}
}

func TestNormalize_PreNormalizedShape(t *testing.T) {
	live := json.RawMessage(`{
		"isLive": true,
		"viewers": 77,
		"category": "Minecraft",
		"title": "building",
		"thumbnail": "https://files.kick.com/live/c.jpg"
	}`)

	rec := Normalize("carol", nil, live)

	if !rec.IsLive || rec.Viewers != 77 || rec.Category != "Minecraft" || rec.Title != "building" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.Thumbnail != "https://files.kick.com/live/c.jpg" {
		t.Errorf("Thumbnail: got %q", rec.Thumbnail)
	}
}

func TestNormalize_DataWrappedShape(t *testing.T) {
	live := json.RawMessage(`{"data": {
		"is_live": true,
		"viewer_count": 12,
		"categories": [{"name": "Poker"}],
		"session_title": "cards",
		"thumbnail": "https://files.kick.com/live/d.jpg"
	}}`)

	rec := Normalize("dave", nil, live)

	if !rec.IsLive || rec.Viewers != 12 || rec.Category != "Poker" || rec.Title != "cards" {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestNormalize_FlatSnakeCaseShape(t *testing.T) {
	live := json.RawMessage(`{
		"is_live": false,
		"viewer_count": 0,
		"categories": [],
		"session_title": ""
	}`)

	rec := Normalize("erin", nil, live)

	if rec.IsLive {
		t.Error("IsLive: got true, want false")
	}
	if rec.Thumbnail != DefaultThumbnail {
		t.Errorf("Thumbnail: got %q, want default", rec.Thumbnail)
	}
}

func TestNormalize_NoData(t *testing.T) {
	rec := Normalize("frank", nil, nil)

	want := Streamer{Username: "frank", Thumbnail: DefaultThumbnail}
	if rec != want {
		t.Errorf("got %+v, want %+v", rec, want)
	}
}

func TestNormalize_MalformedPayloads(t *testing.T) {
	rec := Normalize("gina", json.RawMessage(`"not an object"`), json.RawMessage(`[1,2]`))

	if rec.Username != "gina" || rec.IsLive {
		t.Errorf("malformed payloads should yield offline defaults, got %+v", rec)
	}
}

func TestNormalize_NullDataFallsThroughToFlatFields(t *testing.T) {
	// Some generations answer {"data": null, "is_live": ...}.
	live := json.RawMessage(`{"data": null, "is_live": true, "viewer_count": 5}`)

	rec := Normalize("hank", nil, live)

	if !rec.IsLive || rec.Viewers != 5 {
		t.Errorf("got %+v, want live with 5 viewers", rec)
	}
}

func TestNormalize_NegativeViewersClamped(t *testing.T) {
	live := json.RawMessage(`{"is_live": true, "viewer_count": -3}`)

	if rec := Normalize("ivy", nil, live); rec.Viewers != 0 {
		t.Errorf("Viewers: got %d, want 0", rec.Viewers)
	}
}

func TestNormalize_StringUserID(t *testing.T) {
	channel := json.RawMessage(`{"user":{"id":"abc-123","username":"jo"}}`)

	// Must not blow up on a string id; parseChannel feeds Validate too.
	rec := Normalize("jo", channel, nil)
	if rec.Username != "jo" {
		t.Errorf("Username: got %q", rec.Username)
	}
}
