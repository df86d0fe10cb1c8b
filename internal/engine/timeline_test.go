package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biostack/models"
)

func TestGenerateTimelineGrid(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	vitaminC := testProfile("Vitamin C", 60, 120)

	logs := []models.IntakeLog{intake(userID, vitaminC, 500, models.UnitMG, now.Add(-time.Hour))}
	points := GenerateTimeline(now, 15, 24, logs, profileMap(vitaminC))

	// 24h back to 4h forward at 15-minute steps, inclusive of both ends.
	require.Len(t, points, 24*4+4*4+1)
	assert.Equal(t, now.Add(-24*time.Hour), points[0].Timestamp)
	assert.Equal(t, now.Add(4*time.Hour), points[len(points)-1].Timestamp)

	for i := 1; i < len(points); i++ {
		assert.Equal(t, 15*time.Minute, points[i].Timestamp.Sub(points[i-1].Timestamp))
	}
}

func TestGenerateTimelineSumsAndCaps(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	// Long half-life keeps both doses near peak simultaneously.
	creatine := testProfile("Creatine", 60, 3000)

	logs := []models.IntakeLog{
		intake(userID, creatine, 5, models.UnitG, now.Add(-2*time.Hour)),
		intake(userID, creatine, 5, models.UnitG, now.Add(-3*time.Hour)),
	}

	points := GenerateTimeline(now, 15, 24, logs, profileMap(creatine))

	var atNow *TimelinePoint
	for i := range points {
		if points[i].Timestamp.Equal(now) {
			atNow = &points[i]
		}
	}
	require.NotNil(t, atNow)

	level := atNow.Levels["Creatine"]
	assert.Greater(t, level, 100.0, "overlapping doses sum past a single dose's cap")
	assert.LessOrEqual(t, level, timelineConcentrationCap)
}

func TestGenerateTimelineForwardProjection(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	vitaminD := testProfile("Vitamin D3", 120, 1200)

	logs := []models.IntakeLog{intake(userID, vitaminD, 5000, models.UnitIU, now)}
	points := GenerateTimeline(now, 60, 24, logs, profileMap(vitaminD))

	last := points[len(points)-1]
	assert.Equal(t, now.Add(4*time.Hour), last.Timestamp)
	// Four hours after the dose the curve is past peak and still visible.
	assert.Greater(t, last.Levels["Vitamin D3"], 50.0)
}

func TestGenerateTimelineDefaults(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	points := GenerateTimeline(now, 0, 0, nil, nil)

	require.NotEmpty(t, points)
	assert.Equal(t, now.Add(-DefaultWindowHours*time.Hour), points[0].Timestamp)
	assert.Equal(t, DefaultIntervalMinutes*time.Minute, points[1].Timestamp.Sub(points[0].Timestamp))
}
