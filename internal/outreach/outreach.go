// Package outreach sends drafted messages to prospects over one of two
// delivery paths: automating LinkedIn's own compose surface, or posting
// through the backend email relay. Batches run strictly sequentially with a
// constant delay between sends; a failure is recorded on its record and the
// rest of the batch continues.
package outreach

import (
	"context"
	"errors"
	"time"

	"github.com/example/prospector/internal/config"
	"github.com/example/prospector/internal/logging"
	"github.com/example/prospector/internal/models"
	"github.com/example/prospector/internal/stealth"
	"github.com/example/prospector/internal/store"
)

// ErrNoChannel means a prospect has no usable contact channel for the
// chosen delivery path.
var ErrNoChannel = errors.New("no contact channel for delivery")

// Message is one rendered outgoing message.
type Message struct {
	Subject    string
	Body       string
	TemplateID string
}

// Delivery is one way of getting a message to a prospect.
type Delivery interface {
	Type() models.AttemptType
	Send(ctx context.Context, p models.Prospect, msg Message) error
}

// BatchResult summarizes one batch run.
type BatchResult struct {
	Sent    int
	Failed  int
	Skipped int
}

type Service struct {
	st  *store.Store
	cfg *config.Config
	log *logging.Logger
}

func New(st *store.Store, cfg *config.Config) *Service {
	return &Service{st: st, cfg: cfg, log: logging.New(cfg.Logging.Level).With("module", "outreach")}
}

// SendBatch walks the work list in order. Per item: cadence cap check,
// render, send, record the attempt. The inter-send delay is a constant
// sleep, not a feedback rate limiter.
func (s *Service) SendBatch(ctx context.Context, prospects []models.Prospect, render func(models.Prospect) Message, d Delivery) (BatchResult, error) {
	var res BatchResult

	today, err := s.st.CountSendsToday(ctx)
	if err != nil {
		return res, err
	}
	budget := s.cfg.Limits.MaxSendsPerDay - today
	if budget <= 0 {
		s.log.Info("daily send cap reached", "sent_today", today)
		return res, nil
	}

	if !stealth.InActiveWindow(s.cfg.Stealth.ActiveStart, s.cfg.Stealth.ActiveEnd) {
		s.log.Warn("outside configured active window, continuing anyway",
			"window", s.cfg.Stealth.ActiveStart+"-"+s.cfg.Stealth.ActiveEnd)
	}

	for i, p := range prospects {
		if res.Sent >= budget {
			s.log.Info("send budget exhausted mid-batch", "sent", res.Sent)
			break
		}
		if len(p.ContactAttempts) >= models.MaxContactAttempts {
			s.log.Info("follow-up cadence cap reached, skipping", "id", p.ID, "attempts", len(p.ContactAttempts))
			res.Skipped++
			continue
		}

		msg := render(p)
		attempt := models.ContactAttempt{
			Type:       d.Type(),
			TemplateID: msg.TemplateID,
			Content:    msg.Body,
		}

		if err := d.Send(ctx, p, msg); err != nil {
			s.log.Warn("send failed", "id", p.ID, "url", p.LinkedInURL, "err", err)
			attempt.Status = models.AttemptStatusFailed
			res.Failed++
		} else {
			attempt.Status = models.AttemptStatusSent
			res.Sent++
		}

		if err := s.st.AppendAttempt(ctx, p.ID, attempt); err != nil {
			s.log.Warn("failed to record attempt", "id", p.ID, "err", err)
		}
		if attempt.Status == models.AttemptStatusSent && p.Status == models.StatusNew {
			contacted := models.StatusContacted
			if _, err := s.st.Update(ctx, store.Patch{ID: p.ID, Status: &contacted}); err != nil {
				s.log.Warn("failed to mark contacted", "id", p.ID, "err", err)
			}
		}

		if i < len(prospects)-1 {
			time.Sleep(time.Duration(s.cfg.Stealth.SendDelayMs) * time.Millisecond)
		}
	}

	s.log.Info("batch complete", "sent", res.Sent, "failed", res.Failed, "skipped", res.Skipped)
	return res, nil
}
