package twitter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jamesm2w/tweetbot-v2/internal/domain"
	"github.com/jamesm2w/tweetbot-v2/internal/ports"
)

// Expansions requested so repost linkage and author identity arrive attached
// to every payload.
var streamQuery = url.Values{
	"expansions":   {"author_id,referenced_tweets.id,referenced_tweets.id.author_id"},
	"user.fields":  {"name,username,profile_image_url,id"},
	"tweet.fields": {"author_id,id"},
}

// maxPayloadBytes bounds a single newline-delimited stream payload.
const maxPayloadBytes = 1 << 20

// Open establishes the streaming search connection. The returned stream
// yields one MatchedEvent per parseable payload.
func (c *Client) Open(ctx context.Context) (ports.EventStream, error) {
	streamURL := c.baseURL + "/tweets/search/stream?" + streamQuery.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create stream request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connect stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, fmt.Errorf("stream returned %d: %s", resp.StatusCode, string(body))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), maxPayloadBytes)
	return &eventStream{body: resp.Body, scanner: scanner}, nil
}

// eventStream reads the newline-delimited JSON payloads of one streaming
// connection.
type eventStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
}

// Next blocks for the next payload and parses it. Blank lines are the
// provider's keep-alive signal and are skipped. EOF means the provider
// performed an orderly close.
func (s *eventStream) Next(ctx context.Context) (domain.MatchedEvent, error) {
	for {
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				if ctx.Err() != nil {
					return domain.MatchedEvent{}, ctx.Err()
				}
				return domain.MatchedEvent{}, fmt.Errorf("stream read: %w", err)
			}
			return domain.MatchedEvent{}, domain.ErrStreamClosed
		}

		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		ev, err := parseEvent(line)
		if err != nil {
			return domain.MatchedEvent{}, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
		}
		return ev, nil
	}
}

// Close terminates the connection.
func (s *eventStream) Close() error {
	return s.body.Close()
}

// Wire shapes for one stream payload with its expansions.
type payloadUser struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Username        string `json:"username"`
	ProfileImageURL string `json:"profile_image_url"`
}

type payloadTweet struct {
	ID       string `json:"id"`
	AuthorID string `json:"author_id"`
}

type payloadReference struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type streamPayload struct {
	Data struct {
		ID               string             `json:"id"`
		AuthorID         string             `json:"author_id"`
		ReferencedTweets []payloadReference `json:"referenced_tweets"`
	} `json:"data"`
	Includes struct {
		Users  []payloadUser  `json:"users"`
		Tweets []payloadTweet `json:"tweets"`
	} `json:"includes"`
}

func (p *streamPayload) userByID(id string) (payloadUser, bool) {
	for _, u := range p.Includes.Users {
		if u.ID == id {
			return u, true
		}
	}
	return payloadUser{}, false
}

func (p *streamPayload) tweetByID(id string) (payloadTweet, bool) {
	for _, t := range p.Includes.Tweets {
		if t.ID == id {
			return t, true
		}
	}
	return payloadTweet{}, false
}

// parseEvent reduces a raw payload plus its attached expansions to a
// MatchedEvent. Any missing linkage makes the whole payload malformed; the
// caller drops it without producing an event.
func parseEvent(raw []byte) (domain.MatchedEvent, error) {
	var p streamPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.MatchedEvent{}, err
	}
	if p.Data.ID == "" || p.Data.AuthorID == "" {
		return domain.MatchedEvent{}, fmt.Errorf("payload missing post identity")
	}

	author, ok := p.userByID(p.Data.AuthorID)
	if !ok {
		return domain.MatchedEvent{}, fmt.Errorf("author %s not in expansions", p.Data.AuthorID)
	}

	ev := domain.MatchedEvent{
		AuthorHandle: author.Username,
		AuthorName:   author.Name,
		AvatarURL:    originalImageURL(author.ProfileImageURL),
		PostID:       p.Data.ID,
	}

	for _, ref := range p.Data.ReferencedTweets {
		if ref.Type != "retweeted" {
			continue
		}
		original, ok := p.tweetByID(ref.ID)
		if !ok {
			return domain.MatchedEvent{}, fmt.Errorf("referenced post %s not in expansions", ref.ID)
		}
		originalAuthor, ok := p.userByID(original.AuthorID)
		if !ok {
			return domain.MatchedEvent{}, fmt.Errorf("referenced author %s not in expansions", original.AuthorID)
		}
		ev.IsRepost = true
		ev.RepostedFromHandle = originalAuthor.Username
		ev.RepostedPostID = original.ID
		break
	}

	return ev, nil
}

// originalImageURL rewrites the provider's default "_normal" sized profile
// image URL to the original-size variant.
func originalImageURL(u string) string {
	return strings.Replace(u, "_normal", "", 1)
}
