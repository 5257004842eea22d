package tutor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveTestHistory(t *testing.T, d *Dispatcher, userID, sessionID string, start time.Time, scores ...float64) {
	t.Helper()

	problems := make([]ProblemAttempt, 0, len(scores))
	for _, s := range scores {
		problems = append(problems, ProblemAttempt{
			ProblemID:    "two-sum",
			Title:        "Two Sum",
			Categories:   []string{"arrays"},
			Score:        s,
			EvaluationID: sessionID + "-eval",
		})
	}

	_, err := d.SaveHistory(context.Background(), &SaveHistoryRequest{
		UserID:    userID,
		SessionID: sessionID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Problems:  problems,
	})
	require.NoError(t, err)
}

func TestFetchHistoryFiltersByUser(t *testing.T) {
	d := newTestDispatcher(t)
	now := time.Now()

	saveTestHistory(t, d, "u1", "s1", now.Add(-2*time.Hour), 60)
	saveTestHistory(t, d, "u1", "s2", now.Add(-1*time.Hour), 70)
	saveTestHistory(t, d, "u2", "s3", now, 80)

	records, err := d.FetchHistory(context.Background(), &FetchHistoryRequest{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, records, 2)

	// 按开始时间倒序
	assert.Equal(t, "s2", records[0].SessionID)
	assert.Equal(t, "s1", records[1].SessionID)
}

func TestFetchHistoryBySession(t *testing.T) {
	d := newTestDispatcher(t)
	now := time.Now()

	saveTestHistory(t, d, "u1", "s1", now.Add(-time.Hour), 60)
	saveTestHistory(t, d, "u1", "s2", now, 70)

	records, err := d.FetchHistory(context.Background(), &FetchHistoryRequest{
		UserID:    "u1",
		SessionID: "s2",
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "s2", records[0].SessionID)
}

func TestFetchHistoryTimeRange(t *testing.T) {
	d := newTestDispatcher(t)
	now := time.Now()

	saveTestHistory(t, d, "u1", "old", now.Add(-48*time.Hour), 50)
	saveTestHistory(t, d, "u1", "recent", now.Add(-time.Hour), 70)

	records, err := d.FetchHistory(context.Background(), &FetchHistoryRequest{
		UserID: "u1",
		TimeRange: &TimeRange{
			Start: now.Add(-24 * time.Hour),
			End:   now,
		},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "recent", records[0].SessionID)
}

func TestFetchHistoryAlwaysSlice(t *testing.T) {
	d := newTestDispatcher(t)

	records, err := d.FetchHistory(context.Background(), &FetchHistoryRequest{UserID: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestSaveHistoryUpserts(t *testing.T) {
	d := newTestDispatcher(t)
	now := time.Now()

	saveTestHistory(t, d, "u1", "s1", now, 50)
	saveTestHistory(t, d, "u1", "s1", now, 50, 80)

	records, err := d.FetchHistory(context.Background(), &FetchHistoryRequest{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Len(t, records[0].Problems, 2)
}

func TestAnalyzeHistoryImproving(t *testing.T) {
	d := newTestDispatcher(t)
	now := time.Now()

	saveTestHistory(t, d, "u1", "s1", now.Add(-3*time.Hour), 40)
	saveTestHistory(t, d, "u1", "s2", now.Add(-2*time.Hour), 55)
	saveTestHistory(t, d, "u1", "s3", now.Add(-1*time.Hour), 70)
	saveTestHistory(t, d, "u1", "s4", now, 85)

	analysis, err := d.AnalyzeHistory(context.Background(), &AnalyzeHistoryRequest{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "improving", analysis.Trend)
	assert.Equal(t, 4, analysis.Sessions)
	assert.InDelta(t, 62.5, analysis.AverageScore, 0.01)
	assert.Contains(t, analysis.TopStrengths, "arrays")
}

func TestAnalyzeHistoryDeclining(t *testing.T) {
	d := newTestDispatcher(t)
	now := time.Now()

	saveTestHistory(t, d, "u1", "s1", now.Add(-2*time.Hour), 90)
	saveTestHistory(t, d, "u1", "s2", now, 40)

	analysis, err := d.AnalyzeHistory(context.Background(), &AnalyzeHistoryRequest{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "declining", analysis.Trend)
}

func TestAnalyzeHistoryNeutralWhenSparse(t *testing.T) {
	d := newTestDispatcher(t)

	analysis, err := d.AnalyzeHistory(context.Background(), &AnalyzeHistoryRequest{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "neutral", analysis.Trend)
	assert.Zero(t, analysis.Sessions)
}
