// Package nexar is a client for the Nexar parts-search GraphQL API. Response
// shapes are treated as hostile: every nesting level may be absent or
// wrongly typed, and parsing degrades to empty results instead of failing.
package nexar

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultAPIURL   = "https://api.nexar.com/graphql"
	defaultTokenURL = "https://identity.nexar.com/connect/token"

	// tokenSlack is subtracted from the token lifetime so a token is
	// refreshed before it actually expires mid-request.
	tokenSlack = 60 * time.Second
)

// alternativePartsQuery asks for a part and its similar parts by MPN.
const alternativePartsQuery = `
query findAlternativeParts($q: String!, $limit: Int = 10) {
  supSearchMpn(q: $q, limit: $limit) {
    results {
      part {
        mpn
        manufacturer { name }
        specs {
          attribute { name }
          value
        }
        medianPrice1000 { price currency }
        estimatedFactoryLeadDays
        lifeCycle
        obsolete
        similarParts {
          name
          mpn
          manufacturer { name }
          medianPrice1000 { price currency }
          octopartUrl
          estimatedFactoryLeadDays
          lifeCycle
          obsolete
        }
      }
    }
  }
}
`

// Hit is a single similar-part candidate from the search API.
type Hit struct {
	MPN          string `json:"mpn"`
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer"`
	Price        string `json:"price"`
	Status       string `json:"status"`
	LeadTime     string `json:"lead_time"`
	URL          string `json:"url"`
}

// PartDetail describes the best direct match for an MPN.
type PartDetail struct {
	MPN          string            `json:"mpn"`
	Manufacturer string            `json:"manufacturer"`
	Specs        map[string]string `json:"specs"`
	Price        string            `json:"price"`
	Status       string            `json:"status"`
	LeadTime     string            `json:"lead_time"`
}

// Searcher is the parts-search surface consumed by the advisor.
type Searcher interface {
	Search(ctx context.Context, mpn string, limit int) ([]Hit, error)
	FindPart(ctx context.Context, mpn string) (*PartDetail, error)
}

// Option configures the client.
type Option func(*client)

// WithAPIURL overrides the GraphQL endpoint.
func WithAPIURL(u string) Option {
	return func(c *client) {
		c.apiURL = u
	}
}

// WithTokenURL overrides the OAuth token endpoint.
func WithTokenURL(u string) Option {
	return func(c *client) {
		c.tokenURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.http = hc
	}
}

type client struct {
	clientID     string
	clientSecret string
	apiURL       string
	tokenURL     string
	http         *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a Nexar client using OAuth2 client-credentials auth.
func NewClient(clientID, clientSecret string, opts ...Option) Searcher {
	c := &client{
		clientID:     clientID,
		clientSecret: clientSecret,
		apiURL:       defaultAPIURL,
		tokenURL:     defaultTokenURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// token returns a cached access token, fetching a fresh one when missing or
// near expiry.
func (c *client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", eris.Wrap(err, "nexar: create token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "nexar: fetch token")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "nexar: read token response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", eris.Errorf("nexar: token status %d: %s", resp.StatusCode, string(body))
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", eris.Wrap(err, "nexar: unmarshal token")
	}
	if tok.AccessToken == "" {
		return "", eris.New("nexar: token response missing access_token")
	}

	c.accessToken = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - tokenSlack)
	return c.accessToken, nil
}

// query executes the GraphQL query and returns the raw response body.
func (c *client) query(ctx context.Context, mpn string, limit int) ([]byte, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]any{
		"query": alternativePartsQuery,
		"variables": map[string]any{
			"q":     mpn,
			"limit": limit,
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "nexar: marshal query")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, eris.Wrap(err, "nexar: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "nexar: send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "nexar: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("nexar: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// Search returns similar-part hits for an MPN. A response of unexpected
// shape yields an empty slice, not an error.
func (c *client) Search(ctx context.Context, mpn string, limit int) ([]Hit, error) {
	body, err := c.query(ctx, mpn, limit)
	if err != nil {
		return nil, err
	}
	return parseSimilarParts(body), nil
}

// FindPart returns the first direct part match for an MPN, or nil when the
// response holds no usable part.
func (c *client) FindPart(ctx context.Context, mpn string) (*PartDetail, error) {
	body, err := c.query(ctx, mpn, 1)
	if err != nil {
		return nil, err
	}
	return parseFirstPart(body), nil
}
