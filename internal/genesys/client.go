package genesys

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

// Config holds the credentials and region for a Genesys Cloud org.
type Config struct {
	ClientID     string
	ClientSecret string
	// CloudURL is the org's region host, e.g. "mypurecloud.de" or
	// "https://api.mypurecloud.de". Scheme and api/login prefixes are
	// stripped; the login and API hosts are derived from the region.
	CloudURL string
}

type Client struct {
	apiBase string
	http    *http.Client
}

// NewClient builds a client that authenticates with the OAuth2
// client-credentials grant. Token refresh is owned by the oauth2 transport.
func NewClient(ctx context.Context, cfg Config) *Client {
	region := normalizeRegion(cfg.CloudURL)
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     "https://login." + region + "/oauth/token",
	}
	hc := cc.Client(ctx)
	hc.Timeout = 60 * time.Second
	return &Client{
		apiBase: "https://api." + region + "/api/v2",
		http:    hc,
	}
}

// NewClientWithHTTP builds a client against an explicit API base URL using
// the given HTTP client. Used by tests and by callers that manage their own
// token transport.
func NewClientWithHTTP(apiBase string, hc *http.Client) *Client {
	return &Client{apiBase: strings.TrimRight(apiBase, "/"), http: hc}
}

// normalizeRegion reduces a configured cloud URL to the bare region host.
func normalizeRegion(cloudURL string) string {
	r := strings.TrimSpace(cloudURL)
	r = strings.TrimPrefix(r, "https://")
	r = strings.TrimPrefix(r, "http://")
	r = strings.TrimPrefix(r, "api.")
	r = strings.TrimPrefix(r, "login.")
	return strings.TrimRight(r, "/")
}

// QueryConversationDetails runs one page of the analytics
// conversation-details query.
func (c *Client) QueryConversationDetails(ctx context.Context, q AnalyticsQuery) (*AnalyticsResponse, error) {
	body, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	respBody, err := c.do(ctx, http.MethodPost, "/analytics/conversations/details/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("query conversation details: %w", err)
	}

	var resp AnalyticsResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal conversation details: %w", err)
	}
	return &resp, nil
}

type wrapUpCodeResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GetWrapUpCode resolves a wrap-up-code ID to its human-readable name.
func (c *Client) GetWrapUpCode(ctx context.Context, id string) (string, error) {
	respBody, err := c.do(ctx, http.MethodGet, "/routing/wrapupcodes/"+id, nil)
	if err != nil {
		return "", fmt.Errorf("get wrapup code %s: %w", id, err)
	}

	var resp wrapUpCodeResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("unmarshal wrapup code %s: %w", id, err)
	}
	return resp.Name, nil
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// GetUser resolves a user ID to the user's login email.
func (c *Client) GetUser(ctx context.Context, id string) (string, error) {
	respBody, err := c.do(ctx, http.MethodGet, "/users/"+id, nil)
	if err != nil {
		return "", fmt.Errorf("get user %s: %w", id, err)
	}

	var resp userResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("unmarshal user %s: %w", id, err)
	}
	return resp.Username, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api error %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return respBody, nil
}
