package azdo

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the Azure DevOps Services endpoint.
	DefaultBaseURL = "https://dev.azure.com"
	// APIVersion pinned for the WIQL and work item endpoints.
	APIVersion = "6.0"
	// BatchSize is the service limit for ids per details request.
	BatchSize = 200
)

// ErrUnauthorized is returned when the service rejects the PAT.
var ErrUnauthorized = errors.New("azure devops authentication failed")

// Client is the interface for interacting with Azure DevOps boards.
type Client interface {
	QueryWorkItemIDs(ctx context.Context, wiql string) ([]int, error)
	GetWorkItems(ctx context.Context, ids []int) ([]WorkItemDTO, error)
}

// Config holds the authentication and connection settings for Azure DevOps.
type Config struct {
	BaseURL      string
	Organization string
	Project      string
	Team         string
	PAT          string

	// Performance Settings
	RequestDelay time.Duration
	CacheTTL     time.Duration
}

type restClient struct {
	cfg        Config
	httpClient *http.Client

	throttleMu  sync.Mutex
	lastRequest time.Time

	// Session Cache
	cache      map[string]*cacheEntry
	cacheMutex sync.Mutex
}

type cacheEntry struct {
	Value       any
	Expiration  time.Time
	AccessCount int
	OriginalTTL time.Duration
}

// NewClient creates a REST client for the configured organization and project.
func NewClient(cfg Config) Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return &restClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		cache: make(map[string]*cacheEntry),
	}
}

func (c *restClient) getFromCache(key string) (any, bool) {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	entry, ok := c.cache[key]
	if !ok {
		log.Debug().Str("key", key).Msg("Cache miss")
		return nil, false
	}

	if time.Now().After(entry.Expiration) {
		delete(c.cache, key)
		return nil, false
	}
	log.Debug().Str("key", key).Msg("Cache hit")

	// Sliding window extension
	if entry.AccessCount < 6 {
		entry.Expiration = time.Now().Add(entry.OriginalTTL)
		entry.AccessCount++
		log.Trace().Str("key", key).Int("count", entry.AccessCount).Msg("Extended cache TTL")
	}

	return entry.Value, true
}

func (c *restClient) addToCache(key string, value any) {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	c.cache[key] = &cacheEntry{
		Value:       value,
		Expiration:  time.Now().Add(c.cfg.CacheTTL),
		OriginalTTL: c.cfg.CacheTTL,
		AccessCount: 1,
	}
	log.Debug().Str("key", key).Dur("ttl", c.cfg.CacheTTL).Msg("Added to cache")
}

func (c *restClient) throttle(ctx context.Context) error {
	c.throttleMu.Lock()
	defer c.throttleMu.Unlock()

	elapsed := time.Since(c.lastRequest)
	if elapsed < c.cfg.RequestDelay {
		wait := c.cfg.RequestDelay - elapsed
		log.Debug().Dur("wait", wait).Msg("Throttling Azure DevOps request")
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.lastRequest = time.Now()
	return nil
}

func (c *restClient) authenticateRequest(req *http.Request) {
	if c.cfg.PAT == "" {
		return
	}
	// PATs travel as the password of a basic credential with an empty user.
	token := base64.StdEncoding.EncodeToString([]byte(":" + c.cfg.PAT))
	req.Header.Set("Authorization", "Basic "+token)
}

func (c *restClient) projectURL(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api-version", APIVersion)
	return fmt.Sprintf("%s/%s/%s/_apis/%s?%s",
		c.cfg.BaseURL,
		url.PathEscape(c.cfg.Organization),
		url.PathEscape(c.cfg.Project),
		path,
		params.Encode())
}

func (c *restClient) do(ctx context.Context, method, target string, body any, out any) error {
	if err := c.throttle(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authenticateRequest(req)

	log.Debug().Str("method", method).Str("url", target).Msg("Azure DevOps request")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w (%d): check AZDO_PAT and its work item read scope", ErrUnauthorized, resp.StatusCode)
		case http.StatusNotFound:
			return fmt.Errorf("azure devops resource not found (404): check organization %q and project %q", c.cfg.Organization, c.cfg.Project)
		case http.StatusTooManyRequests:
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				return fmt.Errorf("azure devops rate limit exceeded (429), retry after %s seconds", retryAfter)
			}
			return fmt.Errorf("azure devops rate limit exceeded (429)")
		default:
			return fmt.Errorf("azure devops API returned status %d", resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode Azure DevOps response: %w", err)
	}
	return nil
}

func (c *restClient) QueryWorkItemIDs(ctx context.Context, wiql string) ([]int, error) {
	cacheKey := "wiql:" + wiql
	if val, ok := c.getFromCache(cacheKey); ok {
		return val.([]int), nil
	}

	log.Info().Str("project", c.cfg.Project).Msg("Running WIQL query")
	var result WIQLResponse
	if err := c.do(ctx, http.MethodPost, c.projectURL("wit/wiql", nil), WIQLRequest{Query: wiql}, &result); err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(result.WorkItems))
	for _, ref := range result.WorkItems {
		ids = append(ids, ref.ID)
	}
	c.addToCache(cacheKey, ids)
	return ids, nil
}

func (c *restClient) GetWorkItems(ctx context.Context, ids []int) ([]WorkItemDTO, error) {
	out := make([]WorkItemDTO, 0, len(ids))
	for start := 0; start < len(ids); start += BatchSize {
		end := min(start+BatchSize, len(ids))
		batch, err := c.getBatch(ctx, ids[start:end])
		if err != nil {
			return nil, fmt.Errorf("fetching work items %d-%d of %d: %w", start+1, end, len(ids), err)
		}
		out = append(out, batch...)
	}
	return out, nil
}

func (c *restClient) getBatch(ctx context.Context, ids []int) ([]WorkItemDTO, error) {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	joined := strings.Join(parts, ",")

	cacheKey := "items:" + joined
	if val, ok := c.getFromCache(cacheKey); ok {
		return val.([]WorkItemDTO), nil
	}

	params := url.Values{}
	params.Set("ids", joined)
	params.Set("fields", strings.Join(RequestedFields, ","))
	params.Set("errorPolicy", "omit")

	var result WorkItemsResponse
	if err := c.do(ctx, http.MethodGet, c.projectURL("wit/workitems", params), nil, &result); err != nil {
		return nil, err
	}
	log.Debug().Int("requested", len(ids)).Int("received", len(result.Value)).Msg("Fetched work item batch")

	c.addToCache(cacheKey, result.Value)
	return result.Value, nil
}
