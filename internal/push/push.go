// Package push delivers parsed articles to a downstream index endpoint.
package push

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pubxml/internal/logger"
	"pubxml/internal/models"
)

// Push errors.
var (
	ErrMissingUID = errors.New("article uid is required")
	ErrPushFailed = errors.New("index endpoint rejected the article")
	ErrNoArticles = errors.New("no articles to push")
)

const defaultTimeout = 30 * time.Second

// Client sends one serialized article to the index.
type Client interface {
	Index(uid string, body []byte) error
}

// HTTPClient posts articles to an HTTP index endpoint.
type HTTPClient struct {
	client   *http.Client
	endpoint string
	apiKey   string
}

// NewHTTPClient creates a client for the given endpoint. The API key
// is optional and sent as a bearer token when present.
func NewHTTPClient(endpoint, apiKey string) *HTTPClient {
	return &HTTPClient{
		client:   &http.Client{Timeout: defaultTimeout},
		endpoint: endpoint,
		apiKey:   apiKey,
	}
}

// Index posts one article document.
func (c *HTTPClient) Index(uid string, body []byte) error {
	req, err := http.NewRequest(http.MethodPost, c.endpoint+"/"+uid, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrPushFailed, resp.StatusCode)
	}

	return nil
}

// Result contains the outcome of a push run.
type Result struct {
	Errors  []error
	Indexed int
}

// Pusher sends article records to an index through a Client.
type Pusher struct {
	client Client
	logger *logger.Logger
}

// NewPusher creates a pusher for an HTTP endpoint.
func NewPusher(endpoint, apiKey string, log *logger.Logger) *Pusher {
	return &Pusher{
		client: NewHTTPClient(endpoint, apiKey),
		logger: log,
	}
}

// NewPusherWithClient creates a pusher with a custom client, useful
// for testing.
func NewPusherWithClient(client Client, log *logger.Logger) *Pusher {
	return &Pusher{
		client: client,
		logger: log,
	}
}

// Push indexes one article.
func (p *Pusher) Push(article *models.Article) error {
	if article == nil || article.UID == "" {
		return ErrMissingUID
	}

	body, err := json.Marshal(article)
	if err != nil {
		return fmt.Errorf("failed to encode article: %w", err)
	}

	if err := p.client.Index(article.UID, body); err != nil {
		return fmt.Errorf("failed to index article %s: %w", article.UID, err)
	}

	p.logger.Debug("indexed article", "uid", article.UID, "reference", article.Reference)

	return nil
}

// PushAll indexes a batch of articles, collecting per-article errors.
func (p *Pusher) PushAll(articles []*models.Article) (*Result, error) {
	if len(articles) == 0 {
		return nil, ErrNoArticles
	}

	result := &Result{}

	for _, article := range articles {
		if err := p.Push(article); err != nil {
			p.logger.Error("push failed", "error", err)
			result.Errors = append(result.Errors, err)

			continue
		}

		result.Indexed++
	}

	return result, nil
}
