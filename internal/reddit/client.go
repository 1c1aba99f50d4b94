package reddit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
	"golang.org/x/time/rate"
	"rpd/internal/models"
	"rpd/internal/providers"
	"rpd/internal/structures"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrForbidden   = errors.New("user forbidden or suspended")
	ErrRateLimited = errors.New("rate limited by reddit")
)

const pageSize = 100

type ClientInterface interface {
	FetchProfile(ctx context.Context, username string) (*models.UserProfile, error)
	FetchActivity(ctx context.Context, username string) ([]models.Activity, error)
}

// Client talks to the public Reddit JSON API. With clientID/clientSecret
// configured it switches to app-only OAuth2 against the oauth host, otherwise
// it reads the unauthenticated endpoints. Safe for concurrent use.
type Client struct {
	conf    *structures.Config
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	client  *http.Client
	limiter *rate.Limiter

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewClient(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) ClientInterface {
	return &Client{
		conf:    conf,
		logger:  logger,
		metrics: metrics,
		client: &http.Client{
			Timeout: conf.Reddit.Timeout * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(float64(conf.Reddit.RequestsPerMinute)/60.0), 1),
	}
}

func (c *Client) FetchProfile(ctx context.Context, username string) (*models.UserProfile, error) {
	q := url.Values{}
	q.Set("raw_json", "1")

	body, err := c.do(ctx, "about", fmt.Sprintf("/user/%s/about.json", url.PathEscape(username)), q)
	if err != nil {
		return nil, err
	}

	var about aboutResponse
	if err := json.Unmarshal(body, &about); err != nil {
		return nil, fmt.Errorf("failed to decode profile of %s: %w", username, err)
	}

	name := about.Data.Name
	if name == "" {
		name = username
	}

	return &models.UserProfile{
		Username:     name,
		CreatedAt:    time.Unix(int64(about.Data.CreatedUTC), 0).UTC(),
		CommentKarma: about.Data.CommentKarma,
		PostKarma:    about.Data.LinkKarma,
		Premium:      about.Data.IsGold,
		Moderator:    about.Data.IsMod,
	}, nil
}

// FetchActivity returns the user's recent comments followed by recent
// submissions, each newest first. The per-kind record count is capped by
// reddit.limit; listings are walked via the "after" cursor until the cap or
// exhaustion.
func (c *Client) FetchActivity(ctx context.Context, username string) ([]models.Activity, error) {
	comments, err := c.fetchListing(ctx, username, "comments")
	if err != nil {
		return nil, err
	}

	posts, err := c.fetchListing(ctx, username, "submitted")
	if err != nil {
		return nil, err
	}

	return append(comments, posts...), nil
}

func (c *Client) fetchListing(ctx context.Context, username string, listing string) ([]models.Activity, error) {
	var out []models.Activity
	after := ""

	for len(out) < c.conf.Reddit.Limit {
		q := url.Values{}
		q.Set("raw_json", "1")
		q.Set("limit", cast.ToString(pageSize))
		q.Set("sort", "new")
		if after != "" {
			q.Set("after", after)
		}

		body, err := c.do(ctx, listing, fmt.Sprintf("/user/%s/%s.json", url.PathEscape(username), listing), q)
		if err != nil {
			return nil, err
		}

		var lst listingResponse
		if err := json.Unmarshal(body, &lst); err != nil {
			return nil, fmt.Errorf("failed to decode %s listing of %s: %w", listing, username, err)
		}

		if len(lst.Data.Children) == 0 {
			break
		}

		for _, th := range lst.Data.Children {
			if len(out) >= c.conf.Reddit.Limit {
				break
			}
			act := mapThing(th)
			if err := act.Validate(); err != nil {
				c.logger.Warnf(providers.TypeReddit, "quarantined %s record %q of %s: %s", th.Kind, th.Data.ID, username, err)
				c.metrics.IncRecordsQuarantined()
				continue
			}
			out = append(out, act)
		}

		after = lst.Data.After
		if after == "" {
			break
		}
	}

	return out, nil
}

// mapThing converts a listing thing into an Activity. Kind t1 is a comment
// (body text), t3 a submission (title plus selftext). created_utc is cast
// leniently; unparsable values leave CreatedAt zero and Validate decides.
func mapThing(th thing) models.Activity {
	act := models.Activity{
		ID:        th.Data.ID,
		Subreddit: th.Data.Subreddit,
		Score:     th.Data.Score,
	}

	switch th.Kind {
	case "t1":
		act.Kind = models.KindComment
		act.Body = th.Data.Body
	case "t3":
		act.Kind = models.KindPost
		act.Title = th.Data.Title
		act.Body = th.Data.SelfText
	}

	if sec, err := cast.ToFloat64E(th.Data.CreatedUTC); err == nil && sec > 0 {
		act.CreatedAt = time.Unix(int64(sec), 0).UTC()
	}

	if th.Data.Permalink != "" {
		act.Permalink = "https://reddit.com" + th.Data.Permalink
	}

	return act
}

func (c *Client) do(ctx context.Context, endpoint string, path string, query url.Values) ([]byte, error) {
	base := c.conf.Reddit.BaseURL
	bearer := ""

	if c.authenticated() {
		token, err := c.token(ctx)
		if err != nil {
			return nil, err
		}
		bearer = token
		base = c.conf.Reddit.OAuthURL
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("User-Agent", c.conf.Reddit.UserAgent)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	c.logger.Debugf(providers.TypeReddit, "GET %s%s", base, path)

	start := time.Now()
	resp, err := c.client.Do(req)
	c.metrics.ObserveRedditRequestDuration(endpoint, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	c.metrics.IncRedditRequests(endpoint, resp.StatusCode)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusForbidden:
		return nil, ErrForbidden
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, fmt.Errorf("reddit responded with status %d for %s", resp.StatusCode, path)
	}

	return io.ReadAll(resp.Body)
}

func (c *Client) authenticated() bool {
	return c.conf.Reddit.ClientID != "" && c.conf.Reddit.ClientSecret != ""
}

// token returns a valid app-only access token, requesting a fresh one a
// minute before the previous expires.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.conf.Reddit.BaseURL+"/api/v1/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.SetBasicAuth(c.conf.Reddit.ClientID, c.conf.Reddit.ClientSecret)
	req.Header.Set("User-Agent", c.conf.Reddit.UserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.client.Do(req)
	c.metrics.ObserveRedditRequestDuration("token", time.Since(start))
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	c.metrics.IncRedditRequests("token", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request rejected with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", errors.New("token response carries no access token")
	}

	c.accessToken = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - time.Minute)

	c.logger.Infof(providers.TypeReddit, "obtained app-only access token, expires in %ds", tok.ExpiresIn)

	return c.accessToken, nil
}
