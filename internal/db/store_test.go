package db

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overscan-labs/epgrid/internal/model"
)

// these tests need a real database; they skip unless TEST_DATABASE_URL is
// set (same convention as the rest of the integration suite)
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	conn, err := sqlx.Connect("postgres", dbURL)
	require.NoError(t, err)
	require.NoError(t, RunMigrations(conn, "../../migrations"))

	t.Cleanup(func() {
		_, _ = conn.Exec(`DELETE FROM programme_credits;`)
		_, _ = conn.Exec(`DELETE FROM programmes;`)
		_, _ = conn.Exec(`DELETE FROM channels;`)
		_ = conn.Close()
	})
	return conn
}

func testGuides() []model.ChannelGuide {
	start := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)
	sub := "morning news"
	return []model.ChannelGuide{
		{
			Channel: model.Channel{ID: "A", DisplayName: "Channel A"},
			Programmes: []model.Programme{
				{
					ChannelID: "A",
					Start:     start,
					Stop:      start.Add(time.Hour),
					Title:     "a-six",
					SubTitle:  &sub,
					Credits: []model.Credit{
						{Role: "director", Name: "Maria Muster"},
						{Role: "actor", Name: "Hans Beispiel"},
					},
				},
				{
					ChannelID: "A",
					Start:     start.Add(time.Hour),
					Stop:      start.Add(2 * time.Hour),
					Title:     "a-seven",
				},
			},
		},
		{
			Channel: model.Channel{ID: "B", DisplayName: "Channel B"},
			Programmes: []model.Programme{
				{
					ChannelID: "B",
					Start:     start.Add(30 * time.Minute),
					Stop:      start.Add(90 * time.Minute),
					Title:     "b-halfpast",
				},
			},
		},
	}
}

func TestReplaceGuideIdempotence(t *testing.T) {
	conn := setupTestDB(t)
	store := NewStore(conn)
	ctx := context.Background()

	first, err := store.ReplaceGuide(ctx, testGuides())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Channels)
	assert.Equal(t, 3, first.Programmes)
	assert.Equal(t, 0, first.Skipped)

	// same snapshot again: full replace reproduces identical row counts
	second, err := store.ReplaceGuide(ctx, testGuides())
	require.NoError(t, err)
	assert.Equal(t, first.Channels, second.Channels)
	assert.Equal(t, first.Programmes, second.Programmes)
	assert.Equal(t, 0, second.Skipped)

	var count int
	require.NoError(t, conn.Get(&count, `SELECT count(*) FROM programmes;`))
	assert.Equal(t, 3, count)
}

func TestReplaceGuideDeduplicatesWithinBatch(t *testing.T) {
	conn := setupTestDB(t)
	store := NewStore(conn)

	start := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)
	dup := model.Programme{ChannelID: "X", Start: start, Stop: start.Add(time.Hour), Title: "original"}
	changed := dup
	changed.Title = "corrected upstream"

	guides := []model.ChannelGuide{{
		Channel:    model.Channel{ID: "X", DisplayName: "X"},
		Programmes: []model.Programme{dup, changed},
	}}

	report, err := store.ReplaceGuide(context.Background(), guides)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Programmes)
	assert.Equal(t, 1, report.Skipped)

	// first insert wins; the duplicate key is never overwritten
	var title string
	require.NoError(t, conn.Get(&title, `SELECT title FROM programmes WHERE channel_id = 'X';`))
	assert.Equal(t, "original", title)
}

func TestReplaceGuideDuplicateChannelID(t *testing.T) {
	conn := setupTestDB(t)
	store := NewStore(conn)

	guides := []model.ChannelGuide{
		{Channel: model.Channel{ID: "X", DisplayName: "first"}},
		{Channel: model.Channel{ID: "X", DisplayName: "second"}},
	}

	report, err := store.ReplaceGuide(context.Background(), guides)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Channels)
	assert.Equal(t, 1, report.Skipped)

	var name string
	require.NoError(t, conn.Get(&name, `SELECT display_name FROM channels WHERE id = 'X';`))
	assert.Equal(t, "first", name)
}

func TestReplaceGuideAtomicity(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()

	store := NewStore(conn)
	_, err := store.ReplaceGuide(ctx, testGuides())
	require.NoError(t, err)

	// inject a fault at the commit boundary: the old dataset must stay
	// visible, never "old data gone, new data absent"
	faulty := &pgStore{db: conn, beforeCommit: func() error {
		return errors.New("injected commit failure")
	}}
	_, err = faulty.ReplaceGuide(ctx, []model.ChannelGuide{{
		Channel: model.Channel{ID: "NEW", DisplayName: "New"},
	}})
	require.Error(t, err)

	var channels int
	require.NoError(t, conn.Get(&channels, `SELECT count(*) FROM channels;`))
	assert.Equal(t, 2, channels)

	var programmes int
	require.NoError(t, conn.Get(&programmes, `SELECT count(*) FROM programmes;`))
	assert.Equal(t, 3, programmes)

	var newExists bool
	require.NoError(t, conn.Get(&newExists, `SELECT EXISTS (SELECT 1 FROM channels WHERE id = 'NEW');`))
	assert.False(t, newExists)
}

func TestQueryProgrammesFiltersByChannelAndDate(t *testing.T) {
	conn := setupTestDB(t)
	store := NewStore(conn)
	ctx := context.Background()

	start := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)
	sub := "episode one"
	guides := []model.ChannelGuide{
		{
			Channel: model.Channel{ID: "A", DisplayName: "Channel A"},
			Programmes: []model.Programme{
				{ChannelID: "A", Start: start, Stop: start.Add(time.Hour), Title: "wanted", SubTitle: &sub},
				{ChannelID: "A", Start: start.AddDate(0, 0, 1), Stop: start.AddDate(0, 0, 1).Add(time.Hour), Title: "tomorrow"},
			},
		},
		{
			Channel: model.Channel{ID: "B", DisplayName: "Channel B"},
			Programmes: []model.Programme{
				{ChannelID: "B", Start: start, Stop: start.Add(time.Hour), Title: "unselected"},
			},
		},
	}
	_, err := store.ReplaceGuide(ctx, guides)
	require.NoError(t, err)

	entries, err := store.QueryProgrammes(ctx, []string{"A"}, start, time.UTC)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "wanted", entries[0].Title)
	assert.Equal(t, "Channel A", entries[0].ChannelName)
	require.NotNil(t, entries[0].SubTitle)
}
