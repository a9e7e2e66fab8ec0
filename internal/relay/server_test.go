package relay

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/prospector/internal/logging"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := Config{
		OpenAIModel:  "gpt-4o-mini",
		AccountEmail: "me@example.com",
		AccountPass:  "secret",
	}
	srv := httptest.NewServer(NewServer(cfg, logging.New("error")).Router())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, token string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestAnalyzeHeuristicFallback(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/analyze-job-seeker-and-emails", "", map[string]any{
		"name":     "Jane Doe",
		"headline": "Engineer, open to work",
		"about":    "Reach me at jane@example.com. Recently graduated from a bootcamp.",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out analyzeReply
	decode(t, resp, &out)
	assert.Greater(t, out.JobSeekerScore, 0)
	assert.LessOrEqual(t, out.JobSeekerScore, 100)
	assert.Contains(t, out.Emails, "jane@example.com")
	assert.Contains(t, out.JobSeekerIndicators, "open to work")
	assert.NotEmpty(t, out.Analysis)
}

func TestAnalyzeNeutralProfile(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/analyze-job-seeker-and-emails", "", map[string]any{
		"name":     "Jane Doe",
		"headline": "Staff engineer building distributed systems",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out analyzeReply
	decode(t, resp, &out)
	assert.Equal(t, 0, out.JobSeekerScore)
	assert.Empty(t, out.JobSeekerIndicators)
	assert.NotNil(t, out.Emails)
}

func TestAnalyzeBadBody(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/analyze-job-seeker-and-emails", "application/json", bytes.NewBufferString("{nope"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDraftTemplateFallback(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/draft-message", "", map[string]any{
		"name":           "Jane Doe",
		"headline":       "Backend Engineer",
		"jobSeekerScore": 80,
		"skills":         []string{"Go", "PostgreSQL"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out draftReply
	decode(t, resp, &out)
	assert.True(t, out.Success)
	require.Len(t, out.Messages, 3)
	assert.Equal(t, "A", out.Recommended)
	for _, m := range out.Messages {
		assert.Contains(t, m.Text, "Jane")
		assert.NotEmpty(t, m.Tone)
	}
}

func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t)

	// unauthenticated status
	resp, err := http.Get(srv.URL + "/api/auth/status")
	require.NoError(t, err)
	var status struct {
		Authenticated bool   `json:"authenticated"`
		Email         string `json:"email"`
	}
	decode(t, resp, &status)
	assert.False(t, status.Authenticated)

	// wrong password
	resp = postJSON(t, srv.URL+"/api/auth/login", "", map[string]string{
		"email": "me@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// correct credentials
	resp = postJSON(t, srv.URL+"/api/auth/login", "", map[string]string{
		"email": "me@example.com", "password": "secret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	decode(t, resp, &login)
	require.True(t, login.Success)
	require.NotEmpty(t, login.Token)

	// status with token
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/auth/status", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	decode(t, resp, &status)
	assert.True(t, status.Authenticated)
	assert.Equal(t, "me@example.com", status.Email)

	// logout invalidates the token
	resp = postJSON(t, srv.URL+"/api/auth/logout", login.Token, map[string]string{})
	resp.Body.Close()
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	decode(t, resp, &status)
	assert.False(t, status.Authenticated)
}

func TestSendEmailRequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/send-email", "", map[string]string{
		"to": "jane@example.com", "body": "hi",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestSendEmailValidation(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/auth/login", "", map[string]string{
		"email": "me@example.com", "password": "secret",
	})
	var login struct {
		Token string `json:"token"`
	}
	decode(t, resp, &login)

	// missing recipient
	resp = postJSON(t, srv.URL+"/api/send-email", login.Token, map[string]string{"body": "hi"})
	var out struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	decode(t, resp, &out)
	assert.False(t, out.Success)

	// SMTP unconfigured in tests: a valid request still comes back as a
	// structured failure rather than a 5xx
	resp = postJSON(t, srv.URL+"/api/send-email", login.Token, map[string]string{
		"to": "jane@example.com", "message": "hi there",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &out)
	assert.False(t, out.Success)
	assert.NotEmpty(t, out.Error)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/draft-message", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
