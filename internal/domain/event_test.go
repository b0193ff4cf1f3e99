package domain

import "testing"

func TestMatchedEvent_OriginalAuthorHandle(t *testing.T) {
	plain := MatchedEvent{AuthorHandle: "nasa", PostID: "1"}
	if got := plain.OriginalAuthorHandle(); got != "nasa" {
		t.Errorf("OriginalAuthorHandle() = %q, want nasa", got)
	}

	repost := MatchedEvent{
		AuthorHandle:       "fanaccount",
		PostID:             "2",
		IsRepost:           true,
		RepostedFromHandle: "nasa",
		RepostedPostID:     "1",
	}
	if got := repost.OriginalAuthorHandle(); got != "nasa" {
		t.Errorf("OriginalAuthorHandle() = %q, want original author nasa", got)
	}
}

func TestMatchedEvent_PostURL(t *testing.T) {
	plain := MatchedEvent{AuthorHandle: "nasa", PostID: "1234"}
	if got := plain.PostURL(); got != "https://twitter.com/nasa/status/1234" {
		t.Errorf("PostURL() = %q", got)
	}

	repost := MatchedEvent{
		AuthorHandle:       "fanaccount",
		PostID:             "5678",
		IsRepost:           true,
		RepostedFromHandle: "nasa",
		RepostedPostID:     "1234",
	}
	if got := repost.PostURL(); got != "https://twitter.com/nasa/status/1234" {
		t.Errorf("PostURL() = %q, want original post URL", got)
	}
}

func TestChannelSubscription_Watches(t *testing.T) {
	sub := ChannelSubscription{Accounts: []string{"NASA", "esa"}}

	tests := []struct {
		handle string
		want   bool
	}{
		{"nasa", true},
		{"NASA", true},
		{"Esa", true},
		{"spacex", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := sub.Watches(tt.handle); got != tt.want {
			t.Errorf("Watches(%q) = %v, want %v", tt.handle, got, tt.want)
		}
	}
}
