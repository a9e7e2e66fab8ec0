// Package ai is the client side of the companion backend: remote job-seeker
// analysis, outreach drafting, relay authentication, and email sending. All
// analysis and drafting calls are fail-soft: transport or non-2xx failures
// come back as well-formed zeroed results so callers never crash on a flaky
// backend.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/example/prospector/internal/logging"
	"github.com/example/prospector/internal/models"
)

// Character budgets bound request size before text is shipped upstream.
const (
	maxAboutChars    = 3000
	maxPostsChars    = 2000
	maxCommentsChars = 2000
)

type Client struct {
	baseURL string
	http    *http.Client
	log     *logging.Logger
	token   string
}

func New(baseURL string, log *logging.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log.With("module", "ai"),
	}
}

// AnalyzeInput aggregates the scraped text for one prospect.
type AnalyzeInput struct {
	Name     string   `json:"name"`
	Headline string   `json:"headline"`
	About    string   `json:"about"`
	Posts    string   `json:"posts"`
	Comments string   `json:"comments"`
	Emails   []string `json:"emails"`
	Mentions []string `json:"mentions"`
}

type analyzeResponse struct {
	Emails              []string `json:"emails"`
	JobSeekerScore      int      `json:"jobSeekerScore"`
	JobSeekerIndicators []string `json:"jobSeekerIndicators"`
	Analysis            string   `json:"analysis"`
	Confidence          float64  `json:"confidence"`
}

// Analyze submits aggregated text for remote scoring. Comprehensive selects
// the endpoint that also weighs posts and comments. The returned score is
// clamped to [0,100] regardless of what the backend sends.
func (c *Client) Analyze(ctx context.Context, in AnalyzeInput, comprehensive bool) models.Analysis {
	in.About = truncate(in.About, maxAboutChars)
	in.Posts = truncate(in.Posts, maxPostsChars)
	in.Comments = truncate(in.Comments, maxCommentsChars)

	path := "/api/analyze-job-seeker-and-emails"
	if comprehensive {
		path = "/api/analyze-job-seeker-comprehensive"
	}

	var resp analyzeResponse
	if err := c.postJSON(ctx, path, in, &resp); err != nil {
		c.log.Warn("analysis call failed, returning empty result", "err", err)
		return models.Analysis{Emails: []string{}, Indicators: []string{}}
	}
	return models.Analysis{
		Emails:         resp.Emails,
		JobSeekerScore: clampScore(resp.JobSeekerScore),
		Indicators:     resp.JobSeekerIndicators,
		Summary:        resp.Analysis,
		Confidence:     resp.Confidence,
		OK:             true,
	}
}

// DraftInput carries the structured prospect attributes used for message
// generation.
type DraftInput struct {
	Name           string   `json:"name"`
	Headline       string   `json:"headline"`
	JobSeekerScore int      `json:"jobSeekerScore"`
	Stage          string   `json:"stage"`
	Skills         []string `json:"skills"`
	Signals        []string `json:"signals"`
	Notes          string   `json:"notes"`
}

type draftResponse struct {
	Success  bool   `json:"success"`
	Error    string `json:"error"`
	Messages []struct {
		Version             string `json:"version"`
		Tone                string `json:"tone"`
		Text                string `json:"text"`
		PersonalizationHook string `json:"personalization_hook"`
	} `json:"messages"`
	Recommended string `json:"recommended"`
	Reasoning   string `json:"reasoning"`
	TokensUsed  int    `json:"tokensUsed"`
}

// Draft requests message variants for one prospect. Failures surface as
// OK=false with an Error string, never as a hard error.
func (c *Client) Draft(ctx context.Context, in DraftInput) models.DraftSet {
	var resp draftResponse
	if err := c.postJSON(ctx, "/api/draft-message", in, &resp); err != nil {
		c.log.Warn("draft call failed", "err", err)
		return models.DraftSet{Error: err.Error()}
	}
	if !resp.Success {
		return models.DraftSet{Error: resp.Error}
	}
	out := models.DraftSet{
		Recommended: resp.Recommended,
		Reasoning:   resp.Reasoning,
		TokensUsed:  resp.TokensUsed,
		OK:          true,
	}
	for _, m := range resp.Messages {
		out.Messages = append(out.Messages, models.MessageDraft{
			Version:             m.Version,
			Tone:                m.Tone,
			Text:                m.Text,
			PersonalizationHook: m.PersonalizationHook,
		})
	}
	return out
}

// Login authenticates against the relay; the returned token is attached to
// subsequent requests.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		Error   string `json:"error"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.postJSON(ctx, "/api/auth/login", body, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("login rejected: %s", resp.Error)
	}
	c.token = resp.Token
	return nil
}

// AuthStatus reports whether the relay considers us authenticated.
func (c *Client) AuthStatus(ctx context.Context) (bool, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/status", nil)
	if err != nil {
		return false, "", err
	}
	c.setHeaders(req)
	res, err := c.http.Do(req)
	if err != nil {
		return false, "", err
	}
	defer res.Body.Close()
	var out struct {
		Authenticated bool   `json:"authenticated"`
		Email         string `json:"email"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return false, "", err
	}
	return out.Authenticated, out.Email, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.postJSON(ctx, "/api/auth/logout", map[string]string{}, &struct{}{})
	c.token = ""
	return err
}

// Authenticated reports whether a relay token is held locally. Send paths
// check this before hitting the wire so unauthenticated batches fail fast
// with a prompt instead of a server round-trip.
func (c *Client) Authenticated() bool { return c.token != "" }

// SendEmail posts one message through the relay. A non-success response is
// an error for this record only; callers continue their batch.
func (c *Client) SendEmail(ctx context.Context, to, subject, body, prospectID string) error {
	payload := map[string]string{
		"to":         to,
		"subject":    subject,
		"body":       body,
		"prospectId": prospectID,
	}
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := c.postJSON(ctx, "/api/send-email", payload, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("relay rejected send: %s", resp.Error)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req)
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call backend: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return fmt.Errorf("backend HTTP %d for %s", res.StatusCode, path)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
