package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/example/prospector/internal/linkurl"
	"github.com/example/prospector/internal/models"
)

// ErrNotFound is returned when an id does not resolve to a prospect.
var ErrNotFound = errors.New("prospect not found")

type Store struct{ db *sql.DB }

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() { _ = s.db.Close() }

func (s *Store) Migrate(ctx context.Context) error {
	stmt := `
CREATE TABLE IF NOT EXISTS prospects (
	id TEXT PRIMARY KEY,
	linkedin_url TEXT NOT NULL UNIQUE,
	name TEXT DEFAULT '',
	headline TEXT DEFAULT '',
	location TEXT DEFAULT '',
	email TEXT DEFAULT '',
	phone TEXT DEFAULT '',
	is_likely_job_seeker INTEGER NOT NULL DEFAULT 0,
	job_seeker_score INTEGER,
	status TEXT NOT NULL DEFAULT 'new',
	notes TEXT DEFAULT '',
	date_added DATETIME NOT NULL,
	last_updated DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS contact_attempts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	prospect_id TEXT NOT NULL,
	type TEXT NOT NULL,
	template_id TEXT DEFAULT '',
	status TEXT NOT NULL,
	content TEXT DEFAULT '',
	created_at DATETIME NOT NULL,
	FOREIGN KEY(prospect_id) REFERENCES prospects(id)
);
`
	_, err := s.db.ExecContext(ctx, stmt)
	return err
}

// Save inserts a prospect keyed by its canonical profile URL. When the URL
// is already present the existing record is returned unchanged with
// created=false; that is a structured non-fatal outcome, not an error.
func (s *Store) Save(ctx context.Context, p *models.Prospect) (models.Prospect, bool, error) {
	canonical := linkurl.Normalize(p.LinkedInURL)
	if canonical == "" {
		return models.Prospect{}, false, fmt.Errorf("invalid profile url: %q", p.LinkedInURL)
	}
	if existing, err := s.GetByURL(ctx, canonical); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return models.Prospect{}, false, err
	}

	now := time.Now()
	rec := *p
	rec.ID = uuid.NewString()
	rec.LinkedInURL = canonical
	if rec.Status == "" {
		rec.Status = models.StatusNew
	}
	rec.DateAdded = now
	rec.LastUpdated = now
	if rec.JobSeekerScore != nil {
		clamped := clampScore(*rec.JobSeekerScore)
		rec.JobSeekerScore = &clamped
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO prospects
		(id, linkedin_url, name, headline, location, email, phone, is_likely_job_seeker, job_seeker_score, status, notes, date_added, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.LinkedInURL, rec.Name, rec.Headline, rec.Location, rec.Email, rec.Phone,
		boolToInt(rec.IsLikelyJobSeeker), nullableInt(rec.JobSeekerScore), string(rec.Status), rec.Notes, rec.DateAdded, rec.LastUpdated)
	if err != nil {
		return models.Prospect{}, false, err
	}
	return rec, true, nil
}

// Patch is a merge-patch by id: nil fields are left untouched.
type Patch struct {
	ID                string
	Name              *string
	Headline          *string
	Location          *string
	Email             *string
	Phone             *string
	Notes             *string
	Status            *models.Status
	IsLikelyJobSeeker *bool
	JobSeekerScore    *int
}

// Update applies a merge-patch and stamps last_updated. The score is clamped
// to [0,100] before it is stored.
func (s *Store) Update(ctx context.Context, patch Patch) (models.Prospect, error) {
	rec, err := s.Get(ctx, patch.ID)
	if err != nil {
		return models.Prospect{}, err
	}
	if patch.Name != nil {
		rec.Name = *patch.Name
	}
	if patch.Headline != nil {
		rec.Headline = *patch.Headline
	}
	if patch.Location != nil {
		rec.Location = *patch.Location
	}
	if patch.Email != nil {
		rec.Email = *patch.Email
	}
	if patch.Phone != nil {
		rec.Phone = *patch.Phone
	}
	if patch.Notes != nil {
		rec.Notes = *patch.Notes
	}
	if patch.Status != nil {
		rec.Status = *patch.Status
	}
	if patch.IsLikelyJobSeeker != nil {
		rec.IsLikelyJobSeeker = *patch.IsLikelyJobSeeker
	}
	if patch.JobSeekerScore != nil {
		clamped := clampScore(*patch.JobSeekerScore)
		rec.JobSeekerScore = &clamped
	}
	rec.LastUpdated = time.Now()

	_, err = s.db.ExecContext(ctx, `UPDATE prospects SET
		name=?, headline=?, location=?, email=?, phone=?, is_likely_job_seeker=?, job_seeker_score=?, status=?, notes=?, last_updated=?
		WHERE id=?`,
		rec.Name, rec.Headline, rec.Location, rec.Email, rec.Phone,
		boolToInt(rec.IsLikelyJobSeeker), nullableInt(rec.JobSeekerScore), string(rec.Status), rec.Notes, rec.LastUpdated, rec.ID)
	if err != nil {
		return models.Prospect{}, err
	}
	return rec, nil
}

// AppendAttempt records one outreach event and stamps the prospect.
func (s *Store) AppendAttempt(ctx context.Context, prospectID string, a models.ContactAttempt) error {
	if a.Date.IsZero() {
		a.Date = time.Now()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `INSERT INTO contact_attempts (prospect_id, type, template_id, status, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		prospectID, string(a.Type), a.TemplateID, string(a.Status), a.Content, a.Date); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE prospects SET last_updated=? WHERE id=?`, a.Date, prospectID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Get(ctx context.Context, id string) (models.Prospect, error) {
	row := s.db.QueryRowContext(ctx, selectProspect+` WHERE id = ?`, id)
	return s.scanOne(ctx, row)
}

func (s *Store) GetByURL(ctx context.Context, url string) (models.Prospect, error) {
	canonical := linkurl.Normalize(url)
	row := s.db.QueryRowContext(ctx, selectProspect+` WHERE linkedin_url = ?`, canonical)
	return s.scanOne(ctx, row)
}

// GetAll returns the full collection newest-first plus current aggregate
// stats.
func (s *Store) GetAll(ctx context.Context) ([]models.Prospect, models.Stats, error) {
	rows, err := s.db.QueryContext(ctx, selectProspect+` ORDER BY date_added DESC`)
	if err != nil {
		return nil, models.Stats{}, err
	}
	defer rows.Close()
	var out []models.Prospect
	for rows.Next() {
		p, err := scanProspect(rows)
		if err != nil {
			return nil, models.Stats{}, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, models.Stats{}, err
	}
	for i := range out {
		attempts, err := s.attemptsFor(ctx, out[i].ID)
		if err != nil {
			return nil, models.Stats{}, err
		}
		out[i].ContactAttempts = attempts
	}
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, models.Stats{}, err
	}
	return out, stats, nil
}

// Stats recomputes the aggregate counters from the collection. This is the
// single source of truth; no incremental counters are kept.
func (s *Store) Stats(ctx context.Context) (models.Stats, error) {
	var st models.Stats
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM prospects`).Scan(&st.Total); err != nil {
		return st, err
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM prospects WHERE id IN (SELECT DISTINCT prospect_id FROM contact_attempts)`).Scan(&st.Contacted); err != nil {
		return st, err
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM prospects WHERE status = ?`, string(models.StatusResponded)).Scan(&st.Responded); err != nil {
		return st, err
	}
	return st, nil
}

// ListForOutreach returns prospects still inside the follow-up cadence:
// fewer than MaxContactAttempts attempts and not opted out.
func (s *Store) ListForOutreach(ctx context.Context, limit int) ([]models.Prospect, error) {
	rows, err := s.db.QueryContext(ctx, selectProspect+`
		WHERE status NOT IN (?, ?)
		AND (SELECT COUNT(*) FROM contact_attempts ca WHERE ca.prospect_id = prospects.id) < ?
		ORDER BY date_added ASC LIMIT ?`,
		string(models.StatusResponded), string(models.StatusNotInterested), models.MaxContactAttempts, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Prospect
	for rows.Next() {
		p, err := scanProspect(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		attempts, err := s.attemptsFor(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].ContactAttempts = attempts
	}
	return out, nil
}

// ListUnanalyzed returns prospects that have not been through remote
// analysis yet.
func (s *Store) ListUnanalyzed(ctx context.Context, limit int) ([]models.Prospect, error) {
	rows, err := s.db.QueryContext(ctx, selectProspect+` WHERE job_seeker_score IS NULL ORDER BY date_added ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Prospect
	for rows.Next() {
		p, err := scanProspect(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CountSendsToday supports the daily send cap.
func (s *Store) CountSendsToday(ctx context.Context) (int, error) {
	var c int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contact_attempts WHERE status = ? AND DATE(created_at) = DATE('now', 'localtime')`,
		string(models.AttemptStatusSent)).Scan(&c)
	return c, err
}

// Clear wipes the whole collection. Individual deletion is not supported.
func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM contact_attempts`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM prospects`); err != nil {
		return err
	}
	return tx.Commit()
}

const selectProspect = `SELECT id, linkedin_url, name, headline, location, email, phone, is_likely_job_seeker, job_seeker_score, status, notes, date_added, last_updated FROM prospects`

type rowScanner interface{ Scan(dest ...any) error }

func scanProspect(r rowScanner) (models.Prospect, error) {
	var p models.Prospect
	var likely int
	var score sql.NullInt64
	var status string
	if err := r.Scan(&p.ID, &p.LinkedInURL, &p.Name, &p.Headline, &p.Location, &p.Email, &p.Phone,
		&likely, &score, &status, &p.Notes, &p.DateAdded, &p.LastUpdated); err != nil {
		return models.Prospect{}, err
	}
	p.IsLikelyJobSeeker = likely != 0
	if score.Valid {
		v := int(score.Int64)
		p.JobSeekerScore = &v
	}
	p.Status = models.Status(status)
	return p, nil
}

func (s *Store) scanOne(ctx context.Context, row *sql.Row) (models.Prospect, error) {
	p, err := scanProspect(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Prospect{}, ErrNotFound
	}
	if err != nil {
		return models.Prospect{}, err
	}
	attempts, err := s.attemptsFor(ctx, p.ID)
	if err != nil {
		return models.Prospect{}, err
	}
	p.ContactAttempts = attempts
	return p, nil
}

func (s *Store) attemptsFor(ctx context.Context, prospectID string) ([]models.ContactAttempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT type, template_id, status, content, created_at FROM contact_attempts WHERE prospect_id = ? ORDER BY id ASC`, prospectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.ContactAttempt
	for rows.Next() {
		var a models.ContactAttempt
		var typ, status string
		if err := rows.Scan(&typ, &a.TemplateID, &status, &a.Content, &a.Date); err != nil {
			return nil, err
		}
		a.Type = models.AttemptType(typ)
		a.Status = models.AttemptStatus(status)
		out = append(out, a)
	}
	return out, rows.Err()
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

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
