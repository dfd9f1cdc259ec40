package study

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/study-planner/internal/models"
)

// stubExtractor 返回固定文本的提取器
type stubExtractor struct {
	text  string
	err   error
	calls int
}

func (s *stubExtractor) Extract(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.text, s.err
}

func newTestEngine(ext TextExtractor, opts ...Option) *Engine {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	return NewEngine(append([]Option{WithLogger(logger), WithExtractor(ext)}, opts...)...)
}

func writeTextFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "material.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestBuildPlan_ThreeSentences(t *testing.T) {
	path := writeTextFile(t, "The sun is a star. The moon orbits the earth. Water boils at one hundred degrees.")
	engine := NewEngine()

	result, err := engine.BuildPlan(context.Background(), PlanRequest{
		Source:     path,
		StartDate:  "2024-01-01",
		EndDate:    "2024-01-03",
		DailyHours: 2,
	})
	require.NoError(t, err)

	require.Len(t, result.StudyPlan, 3)
	assert.Equal(t, models.StudyPlanEntry{Date: "2024-01-01", Content: "The sun is a star.", DurationHours: 0.5}, result.StudyPlan[0])
	assert.Equal(t, models.StudyPlanEntry{Date: "2024-01-02", Content: "The moon orbits the earth.", DurationHours: 0.5}, result.StudyPlan[1])
	assert.Equal(t, models.StudyPlanEntry{Date: "2024-01-03", Content: "Water boils at one hundred degrees.", DurationHours: 0.5}, result.StudyPlan[2])

	assert.Equal(t, 4.0, result.AvailableHours)
	assert.InDelta(t, 3.0/120.0, result.EstimatedHours, 1e-9)
	assert.Equal(t, "The sun is a star. The moon orbits the earth. Water boils at one hundred degrees.", result.ContentSummary)
	// 16个单词加3个句号
	assert.Equal(t, 19, result.WordCount)
}

func TestBuildPlan_Overflow(t *testing.T) {
	ext := &stubExtractor{text: "Cats purr. Dogs bark. Birds sing. Fish swim. Frogs croak."}
	engine := newTestEngine(ext)

	result, err := engine.BuildPlan(context.Background(), PlanRequest{
		Source:     "notes.txt",
		StartDate:  "2024-01-01",
		EndDate:    "2024-01-02",
		DailyHours: 1,
	})
	require.NoError(t, err)

	// 可用1小时 → 2块，每块2句，5句得到3块，日期超出结束日期
	require.Len(t, result.StudyPlan, 3)
	assert.Equal(t, "2024-01-03", result.StudyPlan[2].Date)
	assert.Equal(t, "Frogs croak.", result.StudyPlan[2].Content)
}

func TestBuildPlan_Errors(t *testing.T) {
	ctx := context.Background()
	valid := PlanRequest{Source: "notes.txt", StartDate: "2024-01-01", EndDate: "2024-01-10", DailyHours: 2}

	t.Run("validation runs before extraction", func(t *testing.T) {
		ext := &stubExtractor{text: "Some text."}
		req := valid
		req.DailyHours = 0
		_, err := newTestEngine(ext).BuildPlan(ctx, req)
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrValidation)
		assert.ErrorIs(t, err, models.ErrProcessing)
		assert.Equal(t, models.KindValidation, models.KindOf(err))
		assert.True(t, strings.HasPrefix(err.Error(), "document processing failed: "))
		assert.Equal(t, 0, ext.calls)
	})

	t.Run("extraction failure keeps its kind", func(t *testing.T) {
		ext := &stubExtractor{err: models.Errorf(models.KindNotFound, "file not found: notes.txt")}
		_, err := newTestEngine(ext).BuildPlan(ctx, valid)
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.Equal(t, "document processing failed: file not found: notes.txt", err.Error())
	})

	t.Run("no sentences", func(t *testing.T) {
		ext := &stubExtractor{text: "   "}
		_, err := newTestEngine(ext).BuildPlan(ctx, valid)
		assert.ErrorIs(t, err, models.ErrNoContent)
	})
}

func TestValidatePlanRequest(t *testing.T) {
	base := PlanRequest{Source: "a.txt", StartDate: "2024-01-01", EndDate: "2024-01-31", DailyHours: 2}

	tests := []struct {
		name   string
		mutate func(*PlanRequest)
		ok     bool
	}{
		{"valid", func(r *PlanRequest) {}, true},
		{"same day", func(r *PlanRequest) { r.EndDate = r.StartDate }, true},
		{"exactly 365 days", func(r *PlanRequest) { r.StartDate, r.EndDate = "2023-01-01", "2024-01-01" }, true},
		{"twelve hours", func(r *PlanRequest) { r.DailyHours = 12 }, true},
		{"empty source", func(r *PlanRequest) { r.Source = " " }, false},
		{"bad start", func(r *PlanRequest) { r.StartDate = "01/01/2024" }, false},
		{"bad end", func(r *PlanRequest) { r.EndDate = "2024-02-30" }, false},
		{"end before start", func(r *PlanRequest) { r.EndDate = "2023-12-31" }, false},
		{"366 days", func(r *PlanRequest) { r.EndDate = "2025-01-01" }, false},
		{"zero hours", func(r *PlanRequest) { r.DailyHours = 0 }, false},
		{"negative hours", func(r *PlanRequest) { r.DailyHours = -1 }, false},
		{"too many hours", func(r *PlanRequest) { r.DailyHours = 12.5 }, false},
		{"NaN hours", func(r *PlanRequest) { r.DailyHours = math.NaN() }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			_, _, err := ValidatePlanRequest(req)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrValidation))
		})
	}
}

func TestTargetChunkCount(t *testing.T) {
	assert.Equal(t, 1, TargetChunkCount(10, 0))
	assert.Equal(t, 1, TargetChunkCount(10, 0.4))
	assert.Equal(t, 3, TargetChunkCount(10, 1.5))
	assert.Equal(t, 10, TargetChunkCount(10, 100))
	assert.Equal(t, 1, TargetChunkCount(0, 5))
}

func TestChunkSentences_Coverage(t *testing.T) {
	sentences := make([]string, 23)
	for i := range sentences {
		sentences[i] = "Sentence " + string(rune('A'+i)) + "."
	}

	for _, per := range []int{1, 2, 5, 7, 23, 40} {
		chunks := ChunkSentences(sentences, per)
		contents := make([]string, len(chunks))
		for i, c := range chunks {
			assert.Equal(t, ChunkHours, c.DurationHours)
			contents[i] = c.Content
		}
		assert.Equal(t, strings.Join(sentences, " "), strings.Join(contents, " "), "per=%d", per)
		assert.Equal(t, (len(sentences)+per-1)/per, len(chunks), "per=%d", per)
	}
}

func TestSchedulePlan(t *testing.T) {
	start := time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC)
	chunks := ChunkSentences([]string{"a.", "b.", "c.", "d."}, 1)

	plan := SchedulePlan(chunks, start)
	require.Len(t, plan, 4)
	assert.Equal(t, []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01"},
		[]string{plan[0].Date, plan[1].Date, plan[2].Date, plan[3].Date})
}
