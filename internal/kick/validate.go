package kick

import (
	"context"
	"log/slog"
)

// Validate resolves username against the channel endpoints and returns its
// canonical form plus display metadata. The second return is false when no
// endpoint yields a real channel.
//
// A payload with a username but no other substance is rejected: some endpoint
// generations answer an empty shell object for channels that don't exist, so
// acceptance additionally requires at least one existence signal (user id,
// profile picture, or a defined follower count).
func (c *Client) Validate(ctx context.Context, username string) (Profile, bool) {
	raw := c.ChannelInfo(ctx, username)
	ch := parseChannel(username, raw)
	if ch == nil || ch.User == nil {
		return Profile{}, false
	}

	canonical := canonicalUsername(ch.User.Username)
	if canonical == "" {
		return Profile{}, false
	}

	hasSignal := ch.User.ID != "" || ch.User.ProfilePic != "" || ch.FollowersCount != nil
	if !hasSignal {
		slog.Debug("kick: channel payload without existence signal", "username", username)
		return Profile{}, false
	}

	thumbnail := ch.User.ProfilePic
	if thumbnail == "" {
		thumbnail = DefaultThumbnail
	}

	return Profile{
		Username:    canonical,
		DisplayName: canonical,
		Thumbnail:   thumbnail,
		Verified:    true,
	}, true
}
