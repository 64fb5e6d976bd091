// Package searchidx is an HTTP client for the document search index the bot
// answers free-form questions from. The index ranks results by type: a FAQ
// match beats a document passage, which beats bare document links.
package searchidx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Config struct {
	URL     string        `split_words:"true" required:"true"`
	Token   string        `split_words:"true"`
	IndexID string        `split_words:"true" required:"true"`
	Timeout time.Duration `split_words:"true" default:"10s"`
}

type Client struct {
	baseURL    string
	token      string
	indexID    string
	httpClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.URL)
	if baseURL == "" {
		return nil, errors.New("search index url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, err
	}

	indexID := strings.TrimSpace(cfg.IndexID)
	if indexID == "" {
		return nil, errors.New("search index id is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      strings.TrimSpace(cfg.Token),
		indexID:    indexID,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

type queryRequest struct {
	IndexID string `json:"indexId"`
	Query   string `json:"query"`
}

type queryResponse struct {
	Results []resultItem `json:"results"`
}

type resultItem struct {
	Type    string `json:"type"`
	Title   string `json:"title,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
	URI     string `json:"uri,omitempty"`
}

// Search queries the index and phrases the top result for the user. An empty
// answer with a nil error means the index had nothing useful.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}

	payload, err := json.Marshal(queryRequest{IndexID: c.indexID, Query: query})
	if err != nil {
		return "", fmt.Errorf("encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/query", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("query search index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search index returned status %d", resp.StatusCode)
	}

	var out queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode search response: %w", err)
	}

	return phraseAnswer(out.Results), nil
}

func phraseAnswer(results []resultItem) string {
	if len(results) == 0 {
		return ""
	}

	top := results[0]
	switch top.Type {
	case "QUESTION_ANSWER":
		if top.Excerpt == "" {
			return "Sorry, I could not find an answer in our FAQs."
		}
		return top.Excerpt
	case "ANSWER":
		if top.Excerpt == "" {
			return "Sorry, I could not find the answer in our documents."
		}
		return fmt.Sprintf(
			"I couldn't find a specific answer, but here's an excerpt from a document (<%s|%s>) that might help:\n\n%s...\n",
			top.URI, top.Title, top.Excerpt)
	case "DOCUMENT":
		var b strings.Builder
		b.WriteString("Here are some documents you could review:\n")
		for _, item := range results {
			if item.Type != "DOCUMENT" || item.Title == "" || item.URI == "" {
				continue
			}
			fmt.Fprintf(&b, "-  <%s|%s>\n", item.URI, item.Title)
		}
		return b.String()
	}
	return ""
}
