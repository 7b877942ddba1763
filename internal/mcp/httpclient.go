package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
)

// HTTPClient implements DataSource by calling the LiftLog REST API. Used for
// remote MCP mode where the binary runs locally (stdio) but data lives on the
// remote server. The bearer token scopes every request to one user, so the
// userID parameters are ignored.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL,
// authenticating with the given bearer token.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) ListExercises(ctx context.Context, _ uuid.UUID) ([]models.ExerciseDefinition, error) {
	body, err := c.get(ctx, "/exercises", nil)
	if err != nil {
		return nil, err
	}

	var exercises []models.ExerciseDefinition
	if err := json.Unmarshal(body, &exercises); err != nil {
		return nil, fmt.Errorf("httpclient: decode exercises: %w", err)
	}
	return exercises, nil
}

func (c *HTTPClient) ListTemplates(ctx context.Context, _ uuid.UUID, splitID *uuid.UUID) ([]models.Template, error) {
	var params url.Values
	if splitID != nil {
		params = url.Values{"split_id": {splitID.String()}}
	}

	body, err := c.get(ctx, "/templates", params)
	if err != nil {
		return nil, err
	}

	var templates []models.Template
	if err := json.Unmarshal(body, &templates); err != nil {
		return nil, fmt.Errorf("httpclient: decode templates: %w", err)
	}
	return templates, nil
}

func (c *HTTPClient) ListCompletedSessions(ctx context.Context, _ uuid.UUID, templateID *uuid.UUID) ([]storage.SessionAnalytics, error) {
	var params url.Values
	if templateID != nil {
		params = url.Values{"template_id": {templateID.String()}}
	}

	body, err := c.get(ctx, "/analytics/sessions", params)
	if err != nil {
		return nil, err
	}

	var sessions []storage.SessionAnalytics
	if err := json.Unmarshal(body, &sessions); err != nil {
		return nil, fmt.Errorf("httpclient: decode sessions: %w", err)
	}
	return sessions, nil
}

func (c *HTTPClient) ExerciseHistory(ctx context.Context, _ uuid.UUID, exerciseID uuid.UUID) ([]storage.ExerciseSessionHistory, error) {
	body, err := c.get(ctx, "/analytics/exercise/"+exerciseID.String()+"/history", nil)
	if err != nil {
		return nil, err
	}

	var history []storage.ExerciseSessionHistory
	if err := json.Unmarshal(body, &history); err != nil {
		return nil, fmt.Errorf("httpclient: decode exercise history: %w", err)
	}
	return history, nil
}

func (c *HTTPClient) GetExerciseSummary(ctx context.Context, _ uuid.UUID, exerciseID uuid.UUID) (*storage.ExerciseSummary, error) {
	body, err := c.get(ctx, "/analytics/exercise/"+exerciseID.String()+"/summary", nil)
	if err != nil {
		return nil, err
	}

	var summary storage.ExerciseSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("httpclient: decode exercise summary: %w", err)
	}
	return &summary, nil
}
