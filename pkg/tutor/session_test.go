package tutor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitSessionBeginnerWelcome(t *testing.T) {
	d := newTestDispatcher(t)

	result, err := d.InitSession(context.Background(), &InitSessionRequest{
		UserID:          "u1",
		ExperienceLevel: "beginner",
		TargetAreas:     []string{"arrays"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.SessionID)
	assert.Contains(t, result.Welcome, "foundational")
	assert.Contains(t, result.Welcome, "arrays")
	require.NotNil(t, result.Context)
	assert.True(t, result.Context.Active)
	assert.Equal(t, "u1", result.Context.UserID)
	// 欢迎语同时写入会话历史
	require.Len(t, result.Context.Messages, 1)
	assert.Equal(t, "tutor", result.Context.Messages[0].Role)
}

func TestInitSessionAdvancedWelcome(t *testing.T) {
	d := newTestDispatcher(t)

	result, err := d.InitSession(context.Background(), &InitSessionRequest{
		UserID:          "u1",
		ExperienceLevel: "advanced",
		TargetAreas:     []string{"graphs"},
	})
	require.NoError(t, err)
	assert.NotContains(t, result.Welcome, "foundational")
}

func TestInitSessionInvalidLevel(t *testing.T) {
	d := newTestDispatcher(t)

	_, err := d.InitSession(context.Background(), &InitSessionRequest{
		UserID:          "u1",
		ExperienceLevel: "wizard",
		TargetAreas:     []string{"arrays"},
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestUpdateSession(t *testing.T) {
	d := newTestDispatcher(t)
	ctx := context.Background()

	result, err := d.InitSession(ctx, &InitSessionRequest{
		UserID:          "u1",
		ExperienceLevel: "beginner",
		TargetAreas:     []string{"arrays"},
	})
	require.NoError(t, err)

	sc, err := d.UpdateSession(ctx, &UpdateSessionRequest{
		SessionID:       result.SessionID,
		ExperienceLevel: "intermediate",
	})
	require.NoError(t, err)
	assert.Equal(t, "intermediate", sc.ExperienceLevel)
	// 未提供的字段保持不变
	assert.Equal(t, []string{"arrays"}, sc.TargetAreas)
}

func TestUpdateSessionNotFound(t *testing.T) {
	d := newTestDispatcher(t)

	_, err := d.UpdateSession(context.Background(), &UpdateSessionRequest{
		SessionID: "no-such-session",
	})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestEndSessionMarksInactive(t *testing.T) {
	d := newTestDispatcher(t)
	ctx := context.Background()

	result, err := d.InitSession(ctx, &InitSessionRequest{
		UserID:          "u1",
		ExperienceLevel: "beginner",
		TargetAreas:     []string{"arrays"},
	})
	require.NoError(t, err)

	sc, err := d.EndSession(ctx, &EndSessionRequest{SessionID: result.SessionID})
	require.NoError(t, err)
	assert.False(t, sc.Active)
	require.NotNil(t, sc.EndTime)

	// 结束后记录仍然可读，未被删除
	sc2, err := d.PersistSessionMessage(ctx, &PersistMessageRequest{
		SessionID: result.SessionID,
		Role:      "user",
		Content:   "thanks!",
	})
	require.NoError(t, err)
	assert.False(t, sc2.Active)
}

func TestPersistSessionMessageAppends(t *testing.T) {
	d := newTestDispatcher(t)
	ctx := context.Background()

	result, err := d.InitSession(ctx, &InitSessionRequest{
		UserID:          "u1",
		ExperienceLevel: "beginner",
		TargetAreas:     []string{"arrays"},
	})
	require.NoError(t, err)

	sc, err := d.PersistSessionMessage(ctx, &PersistMessageRequest{
		SessionID: result.SessionID,
		Role:      "user",
		Content:   "how do I start?",
	})
	require.NoError(t, err)
	require.Len(t, sc.Messages, 2)
	assert.Equal(t, "how do I start?", sc.Messages[1].Content)
}
