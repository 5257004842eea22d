package tutor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestProblemByDifficulty(t *testing.T) {
	d := newTestDispatcher(t)

	problem, err := d.RequestProblem(context.Background(), &RequestProblemRequest{
		UserID:     "u1",
		SessionID:  "s1",
		Difficulty: "easy",
	})
	require.NoError(t, err)
	assert.Equal(t, "easy", problem.Difficulty)
	assert.NotEmpty(t, problem.ID)
}

func TestRequestProblemRecordsUsage(t *testing.T) {
	d := newTestDispatcher(t)
	ctx := context.Background()

	problem, err := d.RequestProblem(ctx, &RequestProblemRequest{
		UserID:    "u1",
		SessionID: "s1",
	})
	require.NoError(t, err)

	var usage []ProblemUsage
	require.NoError(t, d.store.GetAll(ctx, colProblemUsage, &usage))
	require.Len(t, usage, 1)
	assert.Equal(t, problem.ID, usage[0].ProblemID)
	assert.Equal(t, "u1", usage[0].UserID)
	assert.Equal(t, "s1", usage[0].SessionID)
}

func TestRequestProblemSynthesizesOnNoMatch(t *testing.T) {
	d := newTestDispatcher(t)
	ctx := context.Background()

	// 目录中没有这个类别，按策略合成而不是报错
	problem, err := d.RequestProblem(ctx, &RequestProblemRequest{
		UserID:     "u1",
		SessionID:  "s1",
		Difficulty: "hard",
		Categories: []string{"bit-manipulation"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hard", problem.Difficulty)
	assert.Contains(t, problem.Categories, "bit-manipulation")

	// 合成的题目进入目录，可按 id 获取
	got, err := d.ProvideProblem(ctx, &ProvideProblemRequest{ProblemID: problem.ID})
	require.NoError(t, err)
	assert.Equal(t, problem.Title, got.Title)
}

func TestSuggestProblemsLimit(t *testing.T) {
	d := newTestDispatcher(t)

	suggested, err := d.SuggestProblems(context.Background(), &SuggestProblemsRequest{
		UserID:    "u1",
		SessionID: "s1",
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(suggested), 3)
	assert.NotEmpty(t, suggested)

	// 候选互不重复
	ids := make(map[string]bool)
	for _, p := range suggested {
		assert.False(t, ids[p.ID])
		ids[p.ID] = true
	}
}

func TestProvideProblemNotFound(t *testing.T) {
	d := newTestDispatcher(t)

	_, err := d.ProvideProblem(context.Background(), &ProvideProblemRequest{
		ProblemID: "no-such-problem",
	})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestFilterProblemsReturnsAllMatches(t *testing.T) {
	d := newTestDispatcher(t)
	ctx := context.Background()

	easy, err := d.FilterProblems(ctx, &FilterProblemsRequest{Difficulty: "easy"})
	require.NoError(t, err)
	require.NotEmpty(t, easy)
	for _, p := range easy {
		assert.Equal(t, "easy", p.Difficulty)
	}

	arrays, err := d.FilterProblems(ctx, &FilterProblemsRequest{Categories: []string{"arrays"}})
	require.NoError(t, err)
	require.NotEmpty(t, arrays)
	for _, p := range arrays {
		assert.Contains(t, p.Categories, "arrays")
	}
}

func TestCatalogSeededOnce(t *testing.T) {
	d := newTestDispatcher(t)
	ctx := context.Background()

	first, err := d.FilterProblems(ctx, &FilterProblemsRequest{})
	require.NoError(t, err)
	second, err := d.FilterProblems(ctx, &FilterProblemsRequest{})
	require.NoError(t, err)
	assert.Equal(t, len(first), len(second))
}
