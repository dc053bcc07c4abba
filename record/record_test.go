package record_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/scribe/adaptive"
	dbtest "github.com/kbukum/scribe/database/testutil"
	apperrors "github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/record"
)

func newStore(t *testing.T) (*record.Store, *record.Builder) {
	t.Helper()
	db := dbtest.Open(t, record.Migrations())
	store := record.NewStore(db)
	return store, record.NewBuilder(store, nil)
}

func result(text string) *adaptive.Result {
	return &adaptive.Result{
		Transcript:      &text,
		Language:        "en",
		Quality:         adaptive.QualityGood,
		ConfidenceScore: 0.75,
		Attempts:        2,
		TemperatureUsed: 0.2,
		Provider:        adaptive.ProviderProduction,
	}
}

func TestPersistCreatesRecord(t *testing.T) {
	store, builder := newStore(t)
	ctx := context.Background()

	rec, created, err := builder.Persist(ctx, result("hello world"), "rec-1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "rec-1", rec.RecordingID)
	assert.Equal(t, "hello world", rec.Text)
	assert.Equal(t, "en", rec.Language)
	assert.Equal(t, 0.75, rec.Confidence)
	assert.Equal(t, "good", rec.Quality)
	assert.Equal(t, adaptive.ProviderProduction, rec.Provider)
	assert.Equal(t, 2, rec.Attempts)

	found, err := store.Find(ctx, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, found.ID)
}

func TestPersistReturnsExisting(t *testing.T) {
	_, builder := newStore(t)
	ctx := context.Background()

	first, _, err := builder.Persist(ctx, result("first"), "rec-1")
	require.NoError(t, err)

	second, created, err := builder.Persist(ctx, result("second"), "rec-1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "first", second.Text)
}

func TestPersistFailedResult(t *testing.T) {
	_, builder := newStore(t)

	_, _, err := builder.Persist(context.Background(), &adaptive.Result{Quality: adaptive.QualityFailed}, "rec-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeContractViolation))
}

func TestPersistRequiresRecordingID(t *testing.T) {
	_, builder := newStore(t)

	_, _, err := builder.Persist(context.Background(), result("text"), " ")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeMissingField))
}

func TestPersistNeverTruncates(t *testing.T) {
	store, builder := newStore(t)
	ctx := context.Background()

	var sb strings.Builder
	for sb.Len() < 50000 {
		sb.WriteString("word ")
	}
	text := sb.String()[:50000]

	_, _, err := builder.Persist(ctx, result(text), "long")
	require.NoError(t, err)

	found, err := store.Find(ctx, "long")
	require.NoError(t, err)
	assert.Len(t, found.Text, 50000)
	assert.Equal(t, text, found.Text)
}

func TestPersistConcurrentDuplicates(t *testing.T) {
	store, builder := newStore(t)
	ctx := context.Background()

	const writers = 4
	ids := make([]string, writers)
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, _, err := builder.Persist(ctx, result("same"), "shared")
			if assert.NoError(t, err) {
				ids[i] = rec.ID.String()
			}
		}()
	}
	wg.Wait()

	for _, id := range ids[1:] {
		assert.Equal(t, ids[0], id)
	}
	_, err := store.Find(ctx, "shared")
	require.NoError(t, err)
}

// racingRepo reports no record on the first lookup, then loses the insert.
type racingRepo struct {
	winner *record.Transcription
	finds  int
}

func (r *racingRepo) Find(_ context.Context, recordingID string) (*record.Transcription, error) {
	r.finds++
	if r.finds == 1 {
		return nil, apperrors.NotFound("transcription", recordingID)
	}
	return r.winner, nil
}

func (r *racingRepo) Create(_ context.Context, t *record.Transcription) error {
	return apperrors.DuplicateRecord("transcription", t.RecordingID, nil)
}

func TestPersistLostRaceReturnsWinner(t *testing.T) {
	winner := &record.Transcription{RecordingID: "rec-1", Text: "winner"}
	repo := &racingRepo{winner: winner}

	rec, created, err := record.NewBuilder(repo, nil).Persist(context.Background(), result("loser"), "rec-1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, winner, rec)
	assert.Equal(t, 2, repo.finds)
}

func TestFindMissing(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Find(context.Background(), "nope")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
}

func TestCreateDuplicate(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &record.Transcription{RecordingID: "dup", Text: "a"}))
	err := store.Create(ctx, &record.Transcription{RecordingID: "dup", Text: "b"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeDuplicateRecord))
}

func TestUpdateText(t *testing.T) {
	store, builder := newStore(t)
	ctx := context.Background()

	orig, _, err := builder.Persist(ctx, result("helo wrld"), "rec-1")
	require.NoError(t, err)

	updated, err := store.UpdateText(ctx, "rec-1", "hello world")
	require.NoError(t, err)
	assert.Equal(t, orig.ID, updated.ID)
	assert.Equal(t, "hello world", updated.Text)
	assert.Equal(t, orig.Confidence, updated.Confidence)
	assert.False(t, updated.UpdatedAt.Before(orig.UpdatedAt))

	_, err = store.UpdateText(ctx, "missing", "text")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))

	_, err = store.UpdateText(ctx, "rec-1", "  ")
	assert.True(t, apperrors.IsValidation(err))
}

func TestSummaryLifecycle(t *testing.T) {
	store, builder := newStore(t)
	ctx := context.Background()

	rec, _, err := builder.Persist(ctx, result("we agreed to ship on friday"), "rec-1")
	require.NoError(t, err)

	_, err = store.FindSummary(ctx, "rec-1")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))

	require.NoError(t, store.SaveSummary(ctx, &record.Summary{
		TranscriptionID: rec.ID,
		Summary:         "Release planning.",
		KeyPoints:       []string{"ship friday"},
		ActionItems:     []string{"tag release"},
		Category:        "meeting",
	}))
	require.NoError(t, store.SaveSummary(ctx, &record.Summary{
		TranscriptionID: rec.ID,
		Summary:         "Release planning, revised.",
		KeyPoints:       []string{"ship friday", "freeze thursday"},
		ActionItems:     []string{},
		Category:        "meeting",
	}))

	sum, err := store.FindSummary(ctx, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, sum.TranscriptionID)
	assert.Equal(t, "Release planning, revised.", sum.Summary)
	assert.Equal(t, []string{"ship friday", "freeze thursday"}, sum.KeyPoints)
	assert.Empty(t, sum.ActionItems)
}

func TestDeleteCascadesSummary(t *testing.T) {
	store, builder := newStore(t)
	ctx := context.Background()

	rec, _, err := builder.Persist(ctx, result("text"), "rec-1")
	require.NoError(t, err)
	require.NoError(t, store.SaveSummary(ctx, &record.Summary{TranscriptionID: rec.ID, Summary: "s"}))

	require.NoError(t, store.Delete(ctx, "rec-1"))

	_, err = store.FindSummary(ctx, "rec-1")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
	assert.True(t, apperrors.IsCode(store.Delete(ctx, "rec-1"), apperrors.ErrCodeNotFound))
}
