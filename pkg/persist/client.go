package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/plancanvas/plancanvas/pkg/plan"
)

// Saver persists a plan document. Save replaces the remote copy wholesale,
// so repeating a save with the same document is harmless.
type Saver interface {
	Save(ctx context.Context, p *plan.LearningPlan) error
}

// Client saves plans to the learning-plans REST endpoint.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a Client for the given API base URL and bearer token.
func NewClient(baseURL, token string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

// errorResponse is the service's error envelope.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Save PUTs the plan JSON to /api/learning-plans/<id>. Plans without an id
// are POSTed to the collection instead, and the id the service assigns is
// written back into the plan.
func (c *Client) Save(ctx context.Context, p *plan.LearningPlan) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}

	method, url := http.MethodPut, c.baseURL+"/api/learning-plans/"+p.ID
	if p.ID == "" {
		method, url = http.MethodPost, c.baseURL+"/api/learning-plans"
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.log.Debug().Str("method", method).Str("url", url).Msg("saving plan")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("saving plan: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := readErrorMessage(resp.Body)
		c.log.Warn().Int("status", resp.StatusCode).Str("message", msg).Msg("save rejected")
		if msg != "" {
			return fmt.Errorf("server: %s", msg)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}

	if p.ID == "" {
		var created struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&created); err == nil && created.ID != "" {
			p.ID = created.ID
		}
	}

	c.log.Debug().Str("plan_id", p.ID).Msg("plan saved")
	return nil
}

// readErrorMessage pulls a human-readable message out of an error response
// body, falling back to the raw body for non-JSON errors.
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var e errorResponse
	if err := json.Unmarshal(raw, &e); err == nil {
		if e.Message != "" {
			return e.Message
		}
		if e.Error != "" {
			return e.Error
		}
	}
	return strings.TrimSpace(string(raw))
}
