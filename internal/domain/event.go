package domain

// MatchedEvent is a post delivered by the filtered stream, reduced to the
// fields the dispatcher needs. Events are derived per-payload and discarded
// after dispatch.
type MatchedEvent struct {
	// AuthorHandle is the handle of the account whose activity matched a
	// filter rule. For a repost this is the reposting account.
	AuthorHandle string

	// AuthorName is the display name of the matching account.
	AuthorName string

	// AvatarURL is the original-size profile image URL of the matching
	// account.
	AvatarURL string

	// PostID identifies the delivered post.
	PostID string

	// IsRepost marks events that re-surface another author's post.
	IsRepost bool

	// RepostedFromHandle is the handle of the original author when IsRepost
	// is set.
	RepostedFromHandle string

	// RepostedPostID identifies the original post when IsRepost is set.
	RepostedPostID string
}

// OriginalAuthorHandle returns the handle channels are matched against: the
// original poster, even when the event is a repost.
func (e MatchedEvent) OriginalAuthorHandle() string {
	if e.IsRepost {
		return e.RepostedFromHandle
	}
	return e.AuthorHandle
}

// PostURL returns the canonical web URL of the surfaced post. For reposts the
// URL points at the original post, not the repost wrapper.
func (e MatchedEvent) PostURL() string {
	if e.IsRepost {
		return "https://twitter.com/" + e.RepostedFromHandle + "/status/" + e.RepostedPostID
	}
	return "https://twitter.com/" + e.AuthorHandle + "/status/" + e.PostID
}

// Notice is the formatted message pushed to a channel destination for one
// matched event.
type Notice struct {
	BodyText    string
	DisplayName string
	AvatarURL   string
}
