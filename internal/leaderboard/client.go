package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dunkmaster/backend/internal/models"
)

// Client talks to the leaderboard endpoints of a running server.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SubmitRequest is the body of POST /api/v1/leaderboard. The score is taken from
// the finished game the session token refers to.
type SubmitRequest struct {
	Name         string `json:"name"`
	SessionToken string `json:"session_token"`
}

type topResponse struct {
	Scores []models.Score `json:"scores"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) Top(ctx context.Context, limit int) ([]models.Score, error) {
	u := c.BaseURL + "/api/v1/leaderboard?limit=" + url.QueryEscape(strconv.Itoa(limit))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var out topResponse
	if err := c.do(req, &out); err != nil {
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}
	return out.Scores, nil
}

func (c *Client) Submit(ctx context.Context, name, sessionToken string) (*models.Score, error) {
	name, err := ValidateName(name)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(SubmitRequest{Name: name, SessionToken: sessionToken})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/v1/leaderboard", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var entry models.Score
	if err := c.do(req, &entry); err != nil {
		return nil, fmt.Errorf("submit score: %w", err)
	}
	return &entry, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e errorResponse
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, e.Error)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
