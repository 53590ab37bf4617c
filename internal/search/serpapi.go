package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ppiankov/factcheck/internal/model"
)

// ToolName is the name the agent uses to call the search tool
const ToolName = "Search_Official_News"

// ToolDescription tells the agent what the search tool is for
const ToolDescription = "Search news from mainstream press and government sources. Input should be a search query."

// NoResult is returned when SerpAPI has nothing usable for the query
const NoResult = "No good search result found"

// ErrEmptyQuery is returned for blank queries
var ErrEmptyQuery = errors.New("search query is empty")

// APIError is a non-success response from SerpAPI
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("serpapi error: %s", e.Message)
	}
	return fmt.Sprintf("serpapi error (status %d): %s", e.StatusCode, e.Message)
}

// Searcher runs a web search and returns text for the agent to observe
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Client queries SerpAPI and summarises the response
type Client struct {
	httpClient *http.Client
	apiKey     string
	config     model.SearchConfig
	authority  *AuthorityClassifier
}

// NewClient creates a SerpAPI client for a single resolution
func NewClient(httpClient *http.Client, apiKey string, config model.SearchConfig, authority *AuthorityClassifier) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("SerpAPI key is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if config.BaseURL == "" {
		config.BaseURL = model.DefaultConfig().Search.BaseURL
	}
	if config.NumResults <= 0 {
		config.NumResults = 5
	}
	if authority == nil {
		authority = NewAuthorityClassifier(nil)
	}

	return &Client{
		httpClient: httpClient,
		apiKey:     apiKey,
		config:     config,
		authority:  authority,
	}, nil
}

type serpResponse struct {
	Error     string `json:"error"`
	AnswerBox *struct {
		Answer  string `json:"answer"`
		Snippet string `json:"snippet"`
		Title   string `json:"title"`
		Link    string `json:"link"`
	} `json:"answer_box"`
	KnowledgeGraph *struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"knowledge_graph"`
	OrganicResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
		Source  string `json:"source"`
	} `json:"organic_results"`
}

// Search runs the query and returns an observation string
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	resp, err := c.query(ctx, query)
	if err != nil {
		return "", err
	}
	return c.summarize(resp), nil
}

// query performs the raw SerpAPI request
func (c *Client) query(ctx context.Context, query string) (*serpResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("api_key", c.apiKey)
	params.Set("engine", orDefault(c.config.Engine, "google"))
	params.Set("num", strconv.Itoa(c.config.NumResults))
	if c.config.GoogleDomain != "" {
		params.Set("google_domain", c.config.GoogleDomain)
	}
	if c.config.Country != "" {
		params.Set("gl", c.config.Country)
	}
	if c.config.Language != "" {
		params.Set("hl", c.config.Language)
	}

	endpoint := strings.TrimSuffix(c.config.BaseURL, "/") + "/search.json?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi request: %w", c.redact(err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read serpapi response: %w", err)
	}

	var parsed serpResponse
	decodeErr := json.Unmarshal(body, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(body))
		if decodeErr == nil && parsed.Error != "" {
			msg = parsed.Error
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode serpapi response: %w", decodeErr)
	}
	if parsed.Error != "" {
		// SerpAPI reports "no results" as an error with a 200 status
		if strings.Contains(strings.ToLower(parsed.Error), "hasn't returned any results") {
			return &serpResponse{}, nil
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: parsed.Error}
	}

	return &parsed, nil
}

// summarize picks the most direct answer available, then falls back to organic hits
func (c *Client) summarize(resp *serpResponse) string {
	if ab := resp.AnswerBox; ab != nil {
		if ab.Answer != "" {
			return withLink(CleanSnippet(ab.Answer), ab.Link)
		}
		if ab.Snippet != "" {
			return withLink(CleanSnippet(ab.Snippet), ab.Link)
		}
	}

	var lines []string
	if kg := resp.KnowledgeGraph; kg != nil && kg.Description != "" {
		lines = append(lines, CleanSnippet(kg.Description))
	}

	for _, r := range c.organic(resp) {
		line := fmt.Sprintf("[%s] %s: %s", r.Authority, r.Title, r.Snippet)
		lines = append(lines, withLink(line, r.Link))
	}

	if len(lines) == 0 {
		return NoResult
	}
	return strings.Join(lines, "\n")
}

func (c *Client) organic(resp *serpResponse) []model.SearchResult {
	results := make([]model.SearchResult, 0, len(resp.OrganicResults))
	for i, r := range resp.OrganicResults {
		if i >= c.config.NumResults {
			break
		}
		if r.Snippet == "" && r.Title == "" {
			continue
		}
		results = append(results, model.SearchResult{
			Title:     CleanSnippet(r.Title),
			Link:      r.Link,
			Snippet:   CleanSnippet(r.Snippet),
			Source:    r.Source,
			Authority: c.authority.Classify(r.Link),
		})
	}
	return results
}

func withLink(text, link string) string {
	if link == "" {
		return text
	}
	return text + " (" + link + ")"
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// redact strips the API key from transport errors, which quote the request URL
func (c *Client) redact(err error) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}
	inner := uerr.Err
	if strings.Contains(inner.Error(), c.apiKey) {
		inner = errors.New(strings.ReplaceAll(inner.Error(), c.apiKey, redacted))
	}
	return &url.Error{Op: uerr.Op, URL: redactURL(uerr.URL), Err: inner}
}

const redacted = "REDACTED"

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable url>"
	}
	q := u.Query()
	if q.Has("api_key") {
		q.Set("api_key", redacted)
		u.RawQuery = q.Encode()
	}
	return u.String()
}
