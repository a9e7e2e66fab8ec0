// Package relay is the companion backend: LLM-backed job-seeker analysis and
// message drafting, session auth for the CLI, and an SMTP email bridge. When
// no completion API key is configured the analysis and drafting endpoints
// degrade to local heuristics instead of failing, so the rest of the
// pipeline keeps working.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/example/prospector/internal/classify"
	"github.com/example/prospector/internal/extract"
	"github.com/example/prospector/internal/logging"
)

type Server struct {
	cfg    Config
	llm    *llmClient
	mail   *mailer
	log    *logging.Logger
	mu     sync.Mutex
	tokens map[string]string // token -> account email
}

func NewServer(cfg Config, log *logging.Logger) *Server {
	return &Server{
		cfg:    cfg,
		llm:    newLLMClient(cfg),
		mail:   newMailer(cfg),
		log:    log.With("module", "relay"),
		tokens: make(map[string]string),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.cors)

	r.Post("/api/analyze-job-seeker-and-emails", s.handleAnalyze(false))
	r.Post("/api/analyze-job-seeker-comprehensive", s.handleAnalyze(true))
	r.Post("/api/draft-message", s.handleDraft)
	r.Post("/api/auth/login", s.handleLogin)
	r.Post("/api/auth/logout", s.handleLogout)
	r.Get("/api/auth/status", s.handleAuthStatus)
	r.Post("/api/send-email", s.handleSendEmail)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return r
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type analyzeRequest struct {
	Name     string   `json:"name"`
	Headline string   `json:"headline"`
	About    string   `json:"about"`
	Posts    string   `json:"posts"`
	Comments string   `json:"comments"`
	Emails   []string `json:"emails"`
	Mentions []string `json:"mentions"`
}

type analyzeReply struct {
	Emails              []string `json:"emails"`
	JobSeekerScore      int      `json:"jobSeekerScore"`
	JobSeekerIndicators []string `json:"jobSeekerIndicators"`
	Analysis            string   `json:"analysis"`
	Confidence          float64  `json:"confidence"`
}

func (s *Server) handleAnalyze(comprehensive bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		reply, err := s.analyzeLLM(r.Context(), req, comprehensive)
		if err != nil {
			if err != ErrNoAPIKey {
				s.log.Warn("LLM analysis failed, using heuristics", "err", err)
			}
			reply = s.analyzeHeuristic(req, comprehensive)
		}
		reply.JobSeekerScore = clampScore(reply.JobSeekerScore)
		if reply.Emails == nil {
			reply.Emails = []string{}
		}
		if reply.JobSeekerIndicators == nil {
			reply.JobSeekerIndicators = []string{}
		}
		writeJSON(w, http.StatusOK, reply)
	}
}

const analyzeSystemPrompt = `You are an analyst evaluating whether a LinkedIn member is actively looking for a new job. Respond with strict JSON only, no prose, in this shape:
{"emails": [], "jobSeekerScore": 0, "jobSeekerIndicators": [], "analysis": "", "confidence": 0.0}
jobSeekerScore is 0-100. Include any email addresses found in the text. confidence is 0.0-1.0.`

func (s *Server) analyzeLLM(ctx context.Context, req analyzeRequest, comprehensive bool) (analyzeReply, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\nHeadline: %s\nAbout: %s\n", req.Name, req.Headline, req.About)
	if comprehensive {
		fmt.Fprintf(&sb, "Recent posts: %s\nRecent comments: %s\n", req.Posts, req.Comments)
	}
	if len(req.Emails) > 0 {
		fmt.Fprintf(&sb, "Known emails: %s\n", strings.Join(req.Emails, ", "))
	}
	if len(req.Mentions) > 0 {
		fmt.Fprintf(&sb, "Mentions: %s\n", strings.Join(req.Mentions, ", "))
	}

	content, _, err := s.llm.complete(ctx, analyzeSystemPrompt, sb.String())
	if err != nil {
		return analyzeReply{}, err
	}
	var reply analyzeReply
	if err := json.Unmarshal([]byte(jsonBlock(content)), &reply); err != nil {
		return analyzeReply{}, fmt.Errorf("parse analysis JSON: %w", err)
	}
	return reply, nil
}

// analyzeHeuristic is the no-key path: keyword classification plus regex
// email extraction over the same text the LLM would have seen.
func (s *Server) analyzeHeuristic(req analyzeRequest, comprehensive bool) analyzeReply {
	text := req.Headline + "\n" + req.About
	if comprehensive {
		text += "\n" + req.Posts + "\n" + req.Comments
	}
	res := classify.Classify(text)

	score := len(res.Matches) * 20
	if res.Ambiguous {
		score = 30
	}

	emails := req.Emails
	for _, e := range extract.Emails(text) {
		if !contains(emails, e) {
			emails = append(emails, e)
		}
	}

	summary := "Heuristic keyword analysis; no language model configured."
	return analyzeReply{
		Emails:              emails,
		JobSeekerScore:      score,
		JobSeekerIndicators: res.Matches,
		Analysis:            summary,
		Confidence:          0.3,
	}
}

type draftRequest struct {
	Name           string   `json:"name"`
	Headline       string   `json:"headline"`
	JobSeekerScore int      `json:"jobSeekerScore"`
	Stage          string   `json:"stage"`
	Skills         []string `json:"skills"`
	Signals        []string `json:"signals"`
	Notes          string   `json:"notes"`
}

type draftMessage struct {
	Version             string `json:"version"`
	Tone                string `json:"tone"`
	Text                string `json:"text"`
	PersonalizationHook string `json:"personalization_hook"`
}

type draftReply struct {
	Success     bool           `json:"success"`
	Error       string         `json:"error,omitempty"`
	Messages    []draftMessage `json:"messages"`
	Recommended string         `json:"recommended"`
	Reasoning   string         `json:"reasoning"`
	TokensUsed  int            `json:"tokensUsed"`
}

const draftSystemPrompt = `You write short, warm LinkedIn outreach messages inviting job seekers to a career community. Produce three variants with distinct tones. Respond with strict JSON only:
{"messages": [{"version": "A", "tone": "", "text": "", "personalization_hook": ""}], "recommended": "A", "reasoning": ""}
Each text stays under 500 characters and references something specific about the person.`

func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	reply, err := s.draftLLM(r.Context(), req)
	if err != nil {
		if err != ErrNoAPIKey {
			s.log.Warn("LLM drafting failed, using templates", "err", err)
		}
		reply = draftTemplates(req)
	}
	reply.Success = true
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) draftLLM(ctx context.Context, req draftRequest) (draftReply, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\nHeadline: %s\nJob seeker score: %d\nStage: %s\n",
		req.Name, req.Headline, req.JobSeekerScore, req.Stage)
	if len(req.Skills) > 0 {
		fmt.Fprintf(&sb, "Skills: %s\n", strings.Join(req.Skills, ", "))
	}
	if len(req.Signals) > 0 {
		fmt.Fprintf(&sb, "Signals: %s\n", strings.Join(req.Signals, ", "))
	}
	if req.Notes != "" {
		fmt.Fprintf(&sb, "Notes: %s\n", req.Notes)
	}

	content, tokens, err := s.llm.complete(ctx, draftSystemPrompt, sb.String())
	if err != nil {
		return draftReply{}, err
	}
	var reply draftReply
	if err := json.Unmarshal([]byte(jsonBlock(content)), &reply); err != nil {
		return draftReply{}, fmt.Errorf("parse draft JSON: %w", err)
	}
	reply.TokensUsed = tokens
	return reply, nil
}

// draftTemplates is the no-key path: three fixed-tone variants built from
// the prospect attributes.
func draftTemplates(req draftRequest) draftReply {
	first := req.Name
	if i := strings.Index(first, " "); i > 0 {
		first = first[:i]
	}
	if first == "" {
		first = "there"
	}
	hook := req.Headline
	if len(req.Skills) > 0 {
		hook = strings.Join(req.Skills[:min(3, len(req.Skills))], ", ")
	}
	return draftReply{
		Messages: []draftMessage{
			{
				Version: "A", Tone: "friendly",
				Text: fmt.Sprintf("Hi %s! I came across your profile and your background in %s stood out. I run a community for people navigating the job market and would love to have you join us.", first, hook),
				PersonalizationHook: hook,
			},
			{
				Version: "B", Tone: "direct",
				Text: fmt.Sprintf("Hi %s, I help job seekers connect with opportunities and peers. Given your experience with %s, I think our community could be useful to you. Interested?", first, hook),
				PersonalizationHook: hook,
			},
			{
				Version: "C", Tone: "casual",
				Text: fmt.Sprintf("Hey %s, noticed you might be exploring new roles. We have a group of people with %s backgrounds supporting each other through the search. Want an invite?", first, hook),
				PersonalizationHook: hook,
			},
		},
		Recommended: "A",
		Reasoning:   "Template fallback; no language model configured.",
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Email != s.cfg.AccountEmail || req.Password != s.cfg.AccountPass {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false, "error": "invalid credentials",
		})
		return
	}
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = req.Email
	s.mu.Unlock()
	s.log.Info("login", "email", req.Email)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "token": token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		s.mu.Lock()
		delete(s.tokens, token)
		s.mu.Unlock()
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	email, ok := s.authenticate(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": ok,
		"email":         email,
	})
}

func (s *Server) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(r); !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false, "error": "authentication required",
		})
		return
	}
	var req struct {
		To         string `json:"to"`
		Subject    string `json:"subject"`
		Body       string `json:"body"`
		Message    string `json:"message"`
		ProspectID string `json:"prospectId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	body := req.Body
	if body == "" {
		body = req.Message
	}
	if req.To == "" || body == "" {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false, "error": "to and body are required",
		})
		return
	}
	if err := s.mail.send(req.To, req.Subject, body); err != nil {
		s.log.Warn("email send failed", "to", req.To, "prospect", req.ProspectID, "err", err)
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": err.Error()})
		return
	}
	s.log.Info("email sent", "to", req.To, "prospect", req.ProspectID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) authenticate(r *http.Request) (string, bool) {
	token := bearerToken(r)
	if token == "" {
		return "", false
	}
	s.mu.Lock()
	email, ok := s.tokens[token]
	s.mu.Unlock()
	return email, ok
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
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

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
