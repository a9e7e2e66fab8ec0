package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/prospector/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(st.Close)
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	p := models.Prospect{
		Name:        "Jane Doe",
		Headline:    "Engineer at Acme",
		LinkedInURL: "https://linkedin.com/in/jane-doe?trk=search",
	}
	saved, created, err := st.Save(ctx, &p)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "https://www.linkedin.com/in/jane-doe/", saved.LinkedInURL)
	assert.Equal(t, models.StatusNew, saved.Status)
	assert.Nil(t, saved.JobSeekerScore)

	got, err := st.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)
}

func TestSaveDuplicateReturnsExisting(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	first := models.Prospect{Name: "Jane Doe", LinkedInURL: "https://www.linkedin.com/in/jane-doe/"}
	saved, created, err := st.Save(ctx, &first)
	require.NoError(t, err)
	require.True(t, created)

	// same profile behind a tracking-param variant
	dup := models.Prospect{Name: "Different Name", LinkedInURL: "https://linkedin.com/in/jane-doe?x=1"}
	existing, created, err := st.Save(ctx, &dup)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, saved.ID, existing.ID)
	assert.Equal(t, "Jane Doe", existing.Name)

	stats, err := st.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
}

func TestSaveInvalidURL(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	_, _, err := st.Save(ctx, &models.Prospect{LinkedInURL: "https://www.linkedin.com/company/acme"})
	assert.Error(t, err)
}

func TestUpdateMergePatch(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	saved, _, err := st.Save(ctx, &models.Prospect{Name: "Jane Doe", LinkedInURL: "https://www.linkedin.com/in/jane-doe/"})
	require.NoError(t, err)

	email := "jane@example.com"
	updated, err := st.Update(ctx, Patch{ID: saved.ID, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", updated.Email)
	assert.Equal(t, "Jane Doe", updated.Name) // untouched fields survive
	assert.True(t, updated.LastUpdated.After(saved.LastUpdated) || updated.LastUpdated.Equal(saved.LastUpdated))
}

func TestUpdateClampsScore(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	saved, _, err := st.Save(ctx, &models.Prospect{LinkedInURL: "https://www.linkedin.com/in/jane-doe/"})
	require.NoError(t, err)

	over := 150
	updated, err := st.Update(ctx, Patch{ID: saved.ID, JobSeekerScore: &over})
	require.NoError(t, err)
	require.NotNil(t, updated.JobSeekerScore)
	assert.Equal(t, 100, *updated.JobSeekerScore)

	under := -5
	updated, err = st.Update(ctx, Patch{ID: saved.ID, JobSeekerScore: &under})
	require.NoError(t, err)
	assert.Equal(t, 0, *updated.JobSeekerScore)
}

func TestUpdateNotFound(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	_, err := st.Update(ctx, Patch{ID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppendAttemptAndStats(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	a, _, err := st.Save(ctx, &models.Prospect{LinkedInURL: "https://www.linkedin.com/in/a/"})
	require.NoError(t, err)
	b, _, err := st.Save(ctx, &models.Prospect{LinkedInURL: "https://www.linkedin.com/in/b/"})
	require.NoError(t, err)

	require.NoError(t, st.AppendAttempt(ctx, a.ID, models.ContactAttempt{
		Type: models.AttemptTypeEmail, Status: models.AttemptStatusSent, Content: "hello",
	}))
	require.NoError(t, st.AppendAttempt(ctx, a.ID, models.ContactAttempt{
		Type: models.AttemptTypeMessage, Status: models.AttemptStatusFailed,
	}))

	got, err := st.Get(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, got.ContactAttempts, 2)
	assert.Equal(t, models.AttemptStatusSent, got.ContactAttempts[0].Status)

	responded := models.StatusResponded
	_, err = st.Update(ctx, Patch{ID: b.ID, Status: &responded})
	require.NoError(t, err)

	stats, err := st.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Contacted) // only a has attempts
	assert.Equal(t, 1, stats.Responded)
}

func TestListForOutreach(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	fresh, _, err := st.Save(ctx, &models.Prospect{LinkedInURL: "https://www.linkedin.com/in/fresh/"})
	require.NoError(t, err)
	capped, _, err := st.Save(ctx, &models.Prospect{LinkedInURL: "https://www.linkedin.com/in/capped/"})
	require.NoError(t, err)
	done, _, err := st.Save(ctx, &models.Prospect{LinkedInURL: "https://www.linkedin.com/in/done/"})
	require.NoError(t, err)

	for i := 0; i < models.MaxContactAttempts; i++ {
		require.NoError(t, st.AppendAttempt(ctx, capped.ID, models.ContactAttempt{
			Type: models.AttemptTypeEmail, Status: models.AttemptStatusSent,
		}))
	}
	responded := models.StatusResponded
	_, err = st.Update(ctx, Patch{ID: done.ID, Status: &responded})
	require.NoError(t, err)

	list, err := st.ListForOutreach(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, fresh.ID, list[0].ID)
}

func TestListUnanalyzed(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	pending, _, err := st.Save(ctx, &models.Prospect{LinkedInURL: "https://www.linkedin.com/in/pending/"})
	require.NoError(t, err)
	score := 42
	_, _, err = st.Save(ctx, &models.Prospect{LinkedInURL: "https://www.linkedin.com/in/scored/", JobSeekerScore: &score})
	require.NoError(t, err)

	list, err := st.ListUnanalyzed(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, pending.ID, list[0].ID)
}

func TestCountSendsToday(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	p, _, err := st.Save(ctx, &models.Prospect{LinkedInURL: "https://www.linkedin.com/in/p/"})
	require.NoError(t, err)

	n, err := st.CountSendsToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, st.AppendAttempt(ctx, p.ID, models.ContactAttempt{
		Type: models.AttemptTypeEmail, Status: models.AttemptStatusSent,
	}))
	require.NoError(t, st.AppendAttempt(ctx, p.ID, models.ContactAttempt{
		Type: models.AttemptTypeEmail, Status: models.AttemptStatusFailed,
	}))

	n, err = st.CountSendsToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n) // failed attempts do not consume the daily budget
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	p, _, err := st.Save(ctx, &models.Prospect{LinkedInURL: "https://www.linkedin.com/in/p/"})
	require.NoError(t, err)
	require.NoError(t, st.AppendAttempt(ctx, p.ID, models.ContactAttempt{
		Type: models.AttemptTypeEmail, Status: models.AttemptStatusSent,
	}))

	require.NoError(t, st.Clear(ctx))
	stats, err := st.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
}
