package study

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/study-planner/internal/document"
	"github.com/fyerfyer/study-planner/internal/models"
)

const (
	// DateLayout 日期格式 YYYY-MM-DD
	DateLayout = "2006-01-02"
	// MaxPlanDays 学习计划最长天数
	MaxPlanDays = 365
	// MaxDailyHours 每日学习时长上限
	MaxDailyHours = 12.0
	// ChunkHours 每个学习块的时长
	ChunkHours = 0.5
	// SentencesPerHour 预计每小时阅读的句子数
	SentencesPerHour = 120.0
)

// PlanRequest 生成学习计划的参数
type PlanRequest struct {
	Source     string  // 文件路径或URL
	StartDate  string  // 开始日期
	EndDate    string  // 结束日期
	DailyHours float64 // 每日学习时长
}

// ValidatePlanRequest 校验计划参数，返回解析后的起止日期
// 校验顺序：来源、日期、时长
func ValidatePlanRequest(req PlanRequest) (time.Time, time.Time, error) {
	if strings.TrimSpace(req.Source) == "" {
		return time.Time{}, time.Time{}, models.Errorf(models.KindValidation, "document source is required")
	}

	start, err := time.Parse(DateLayout, req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, models.Errorf(models.KindValidation, "invalid start date %q, expected YYYY-MM-DD", req.StartDate)
	}
	end, err := time.Parse(DateLayout, req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, models.Errorf(models.KindValidation, "invalid end date %q, expected YYYY-MM-DD", req.EndDate)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, models.Errorf(models.KindValidation, "end date must not be before start date")
	}
	if days := daysBetween(start, end); days > MaxPlanDays {
		return time.Time{}, time.Time{}, models.Errorf(models.KindValidation, "date range of %d days exceeds %d days", days, MaxPlanDays)
	}

	if math.IsNaN(req.DailyHours) || req.DailyHours <= 0 || req.DailyHours > MaxDailyHours {
		return time.Time{}, time.Time{}, models.Errorf(models.KindValidation, "daily hours must be greater than 0 and at most %g", MaxDailyHours)
	}
	return start, end, nil
}

func daysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

// TargetChunkCount 按可用时长计算学习块数量，每块半小时，至少一块
func TargetChunkCount(sentenceCount int, availableHours float64) int {
	return max(1, min(sentenceCount, int(math.Floor(availableHours/ChunkHours))))
}

// ChunkSentences 把句子按固定大小连续分组，最后一组可能不足
func ChunkSentences(sentences []string, perChunk int) []models.StudyChunk {
	if perChunk < 1 {
		perChunk = 1
	}
	chunks := make([]models.StudyChunk, 0, (len(sentences)+perChunk-1)/perChunk)
	for i := 0; i < len(sentences); i += perChunk {
		end := min(i+perChunk, len(sentences))
		chunks = append(chunks, models.StudyChunk{
			Content:       strings.Join(sentences[i:end], " "),
			DurationHours: ChunkHours,
		})
	}
	return chunks
}

// SchedulePlan 从开始日期起每天安排一个学习块
// 不会截断到结束日期，块数多于天数时计划会超出结束日期
func SchedulePlan(chunks []models.StudyChunk, start time.Time) []models.StudyPlanEntry {
	entries := make([]models.StudyPlanEntry, 0, len(chunks))
	for i, c := range chunks {
		entries = append(entries, models.StudyPlanEntry{
			Date:          start.AddDate(0, 0, i).Format(DateLayout),
			Content:       c.Content,
			DurationHours: c.DurationHours,
		})
	}
	return entries
}

// BuildPlan 提取文档并生成按天排列的学习计划
func (e *Engine) BuildPlan(ctx context.Context, req PlanRequest) (*models.ProcessingResult, error) {
	result, err := e.buildPlan(ctx, req)
	if err != nil {
		e.logger.WithFields(logrus.Fields{
			"source": req.Source,
			"kind":   models.KindOf(err),
			"error":  err.Error(),
		}).Error("Failed to build study plan")
		return nil, models.NewError(models.KindProcessing, "document processing failed", err)
	}
	return result, nil
}

func (e *Engine) buildPlan(ctx context.Context, req PlanRequest) (*models.ProcessingResult, error) {
	start, end, err := ValidatePlanRequest(req)
	if err != nil {
		return nil, err
	}

	text, sentences, err := e.extractSentences(ctx, req.Source)
	if err != nil {
		return nil, err
	}
	if len(sentences) == 0 {
		return nil, models.Errorf(models.KindNoContent, "no sentences found in document")
	}

	totalDays := daysBetween(start, end)
	availableHours := float64(totalDays) * req.DailyHours
	target := TargetChunkCount(len(sentences), availableHours)
	perChunk := max(1, len(sentences)/target)

	plan := SchedulePlan(ChunkSentences(sentences, perChunk), start)

	if last := plan[len(plan)-1].Date; last > req.EndDate {
		e.logger.WithFields(logrus.Fields{
			"source":    req.Source,
			"end_date":  req.EndDate,
			"last_date": last,
			"entries":   len(plan),
		}).Warn("Study plan runs past the end date")
	}

	result := &models.ProcessingResult{
		WordCount:      len(document.TokenizeWords(text)),
		EstimatedHours: float64(len(sentences)) / SentencesPerHour,
		AvailableHours: availableHours,
		StudyPlan:      plan,
		ContentSummary: e.summarize(sentences),
	}

	e.logger.WithFields(logrus.Fields{
		"source":    req.Source,
		"sentences": len(sentences),
		"entries":   len(plan),
		"words":     result.WordCount,
	}).Info("Study plan built")
	return result, nil
}
