package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/magiskboy/blog-backend/internal/domain"
	"github.com/magiskboy/blog-backend/internal/metrics"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
)

var (
	// ErrExchange means the code-for-token POST to the provider failed.
	ErrExchange = errors.New("oauth: authorization code exchange failed")
	// ErrUserInfo means the userinfo fetch with the access token failed.
	ErrUserInfo = errors.New("oauth: userinfo fetch failed")
)

// Profile is the normalized identity a provider hands back. A missing email
// is not an error at this layer; only email-based flows exist downstream and
// they fail on lookup.
type Profile struct {
	Name  string
	Email string
}

// Config describes one provider. The two supported providers differ only in
// endpoints, scopes and the userinfo response shape, so a single client type
// is parameterized by this record instead of one type per provider.
type Config struct {
	Provider     domain.Provider
	ClientID     string
	ClientSecret string
	Endpoint     oauth2.Endpoint
	Scopes       []string
	UserInfoURL  string
	NameField    string
	EmailField   string
}

func GoogleConfig(clientID, clientSecret string) Config {
	return Config{
		Provider:     domain.ProviderGoogle,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
		UserInfoURL:  "https://www.googleapis.com/oauth2/v2/userinfo",
		NameField:    "name",
		EmailField:   "email",
	}
}

func FacebookConfig(clientID, clientSecret string) Config {
	return Config{
		Provider:     domain.ProviderFacebook,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     facebook.Endpoint,
		Scopes:       []string{"email"},
		UserInfoURL:  "https://graph.facebook.com/me?fields=id,name,email",
		NameField:    "name",
		EmailField:   "email",
	}
}

type Client struct {
	cfg        Config
	conf       *oauth2.Config
	httpClient *http.Client
}

// NewClient builds a provider client. A nil httpClient gets a 10s timeout
// default; tests inject one pointed at a fake provider.
func NewClient(cfg Config, redirectURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		cfg: cfg,
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     cfg.Endpoint,
			Scopes:       cfg.Scopes,
		},
		httpClient: httpClient,
	}
}

func (c *Client) Provider() domain.Provider {
	return c.cfg.Provider
}

// AuthCodeURL builds the provider authorization URL. The state payload is
// embedded verbatim and echoed back by the provider on callback.
func (c *Client) AuthCodeURL(state string) string {
	return c.conf.AuthCodeURL(state)
}

// ExchangeProfile trades the authorization code for an access token, then
// fetches and normalizes the user profile. The two legs fail with distinct
// errors; neither is retried.
func (c *Client) ExchangeProfile(ctx context.Context, code string) (Profile, error) {
	start := time.Now()
	defer func() {
		metrics.OAuthExchangeDuration.WithLabelValues(string(c.cfg.Provider)).Observe(time.Since(start).Seconds())
	}()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	tok, err := c.conf.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrExchange, err)
	}

	profile, err := c.fetchProfile(ctx, tok.AccessToken)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrUserInfo, err)
	}
	return profile, nil
}

func (c *Client) fetchProfile(ctx context.Context, accessToken string) (Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.UserInfoURL, nil)
	if err != nil {
		return Profile{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Profile{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Profile{}, err
	}

	name, _ := raw[c.cfg.NameField].(string)
	email, _ := raw[c.cfg.EmailField].(string)
	return Profile{Name: name, Email: email}, nil
}
