// Package graph is the Workspace Graph collaborator client. It fetches
// raw calendar, mail, team and document records and normalizes them to
// model.DiscoveredItem at the boundary.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/prepwise/prepwise/server/internal/model"
)

// Client talks to a Workspace Graph endpoint over REST.
type Client struct {
	client *resty.Client
}

// New creates a Client for the given base URL. token may be empty for
// unauthenticated local fixtures.
func New(baseURL, token string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	if token != "" {
		c.SetAuthToken(token)
	}
	return &Client{client: c}
}

func (c *Client) getList(ctx context.Context, path string, params map[string]string, out interface{}) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return fmt.Errorf("graph request %s: %w", path, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("graph %s status %d: %s", path, resp.StatusCode(), resp.String())
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("graph decode %s: %w", path, err)
	}
	return nil
}

// GetMeeting resolves the target meeting by id. Returns model.ErrNotFound
// when the Graph reports 404.
func (c *Client) GetMeeting(ctx context.Context, id string) (*model.DiscoveredItem, error) {
	resp, err := c.client.R().SetContext(ctx).Get("/v1/calendar/events/" + id)
	if err != nil {
		return nil, fmt.Errorf("graph get event: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("meeting %s: %w", id, model.ErrNotFound)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("graph get event status %d: %s", resp.StatusCode(), resp.String())
	}
	var e rawEvent
	if err := json.Unmarshal(resp.Body(), &e); err != nil {
		return nil, fmt.Errorf("graph decode event: %w", err)
	}
	item := normalizeEvent(e)
	return &item, nil
}

// ListMeetings returns calendar events starting after since.
func (c *Client) ListMeetings(ctx context.Context, since time.Time) ([]model.DiscoveredItem, error) {
	var out listResponse[rawEvent]
	params := map[string]string{"since": since.UTC().Format(time.RFC3339)}
	if err := c.getList(ctx, "/v1/calendar/events", params, &out); err != nil {
		return nil, err
	}
	items := make([]model.DiscoveredItem, 0, len(out.Value))
	for _, e := range out.Value {
		items = append(items, normalizeEvent(e))
	}
	return items, nil
}

// ListMessages returns mail messages received after since.
func (c *Client) ListMessages(ctx context.Context, since time.Time) ([]model.DiscoveredItem, error) {
	var out listResponse[rawMessage]
	params := map[string]string{"since": since.UTC().Format(time.RFC3339)}
	if err := c.getList(ctx, "/v1/mail/messages", params, &out); err != nil {
		return nil, err
	}
	items := make([]model.DiscoveredItem, 0, len(out.Value))
	for _, m := range out.Value {
		items = append(items, normalizeMessage(m))
	}
	return items, nil
}

// ListJoinedTeams returns the teams the credential holder is a member of.
func (c *Client) ListJoinedTeams(ctx context.Context) ([]model.DiscoveredItem, error) {
	var out listResponse[rawTeam]
	if err := c.getList(ctx, "/v1/teams/joined", nil, &out); err != nil {
		return nil, err
	}
	items := make([]model.DiscoveredItem, 0, len(out.Value))
	for _, tm := range out.Value {
		items = append(items, normalizeTeam(tm))
	}
	return items, nil
}

// ListTeamChannels returns the channels of one team.
func (c *Client) ListTeamChannels(ctx context.Context, teamID string) ([]model.ChannelCandidate, error) {
	var out listResponse[rawChannel]
	if err := c.getList(ctx, "/v1/teams/"+teamID+"/channels", nil, &out); err != nil {
		return nil, err
	}
	channels := make([]model.ChannelCandidate, 0, len(out.Value))
	for _, ch := range out.Value {
		channels = append(channels, model.ChannelCandidate{ID: ch.ID, TeamID: teamID, Name: ch.DisplayName})
	}
	return channels, nil
}

// ListRecentFiles returns the credential holder's recently used drive items.
func (c *Client) ListRecentFiles(ctx context.Context, limit int) ([]model.DiscoveredItem, error) {
	return c.listDocuments(ctx, "/v1/drive/recent", "recent", limit)
}

// ListTrendingDocuments returns trending document insights.
func (c *Client) ListTrendingDocuments(ctx context.Context, limit int) ([]model.DiscoveredItem, error) {
	return c.listDocuments(ctx, "/v1/insights/trending", "trending", limit)
}

// ListUsedDocuments returns recently used document insights.
func (c *Client) ListUsedDocuments(ctx context.Context, limit int) ([]model.DiscoveredItem, error) {
	return c.listDocuments(ctx, "/v1/insights/used", "used", limit)
}

// ListSharedDocuments returns documents shared with the credential holder.
func (c *Client) ListSharedDocuments(ctx context.Context, limit int) ([]model.DiscoveredItem, error) {
	return c.listDocuments(ctx, "/v1/insights/shared", "shared", limit)
}

// SearchContent runs a free-text content search seeded by the target title
// and keywords.
func (c *Client) SearchContent(ctx context.Context, query string, limit int) ([]model.DiscoveredItem, error) {
	var out listResponse[rawDocument]
	params := map[string]string{"q": query, "limit": strconv.Itoa(limit)}
	if err := c.getList(ctx, "/v1/search", params, &out); err != nil {
		return nil, err
	}
	items := make([]model.DiscoveredItem, 0, len(out.Value))
	for _, d := range out.Value {
		items = append(items, normalizeDocument(d, "search"))
	}
	return items, nil
}

func (c *Client) listDocuments(ctx context.Context, path, fileSource string, limit int) ([]model.DiscoveredItem, error) {
	var out listResponse[rawDocument]
	params := map[string]string{"limit": strconv.Itoa(limit)}
	if err := c.getList(ctx, path, params, &out); err != nil {
		return nil, err
	}
	items := make([]model.DiscoveredItem, 0, len(out.Value))
	for _, d := range out.Value {
		items = append(items, normalizeDocument(d, fileSource))
	}
	return items, nil
}

// GetItemContent fetches the full text of a meeting or email for brief
// generation.
func (c *Client) GetItemContent(ctx context.Context, kind model.SourceKind, id string) (string, error) {
	var path string
	switch kind {
	case model.SourceMeeting:
		path = "/v1/calendar/events/" + id
	case model.SourceEmail:
		path = "/v1/mail/messages/" + id
	default:
		return "", fmt.Errorf("no content endpoint for source kind %q", kind)
	}

	resp, err := c.client.R().SetContext(ctx).Get(path)
	if err != nil {
		return "", fmt.Errorf("graph content request: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return "", fmt.Errorf("item %s: %w", id, model.ErrNotFound)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("graph content status %d: %s", resp.StatusCode(), resp.String())
	}

	switch kind {
	case model.SourceMeeting:
		var e rawEvent
		if err := json.Unmarshal(resp.Body(), &e); err != nil {
			return "", fmt.Errorf("graph decode event: %w", err)
		}
		return e.BodyText, nil
	default:
		var m rawMessage
		if err := json.Unmarshal(resp.Body(), &m); err != nil {
			return "", fmt.Errorf("graph decode message: %w", err)
		}
		if m.BodyText != "" {
			return m.BodyText, nil
		}
		return m.BodyPreview, nil
	}
}

// HealthPing implements health.HealthPinger by probing the Graph ping
// endpoint.
func (c *Client) HealthPing(ctx context.Context) error {
	resp, err := c.client.R().SetContext(ctx).Get("/v1/ping")
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("graph ping status %d", resp.StatusCode())
	}
	return nil
}
