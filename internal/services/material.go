package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/fyerfyer/study-planner/internal/document"
	"github.com/fyerfyer/study-planner/internal/models"
	"github.com/fyerfyer/study-planner/internal/repository"
	"github.com/fyerfyer/study-planner/internal/study"
	"github.com/fyerfyer/study-planner/pkg/storage"
)

// 反馈中的固定学习建议
var feedbackSuggestions = []string{
	"Review your notes regularly",
	"Complete all practice quizzes",
	"Watch recommended videos for difficult topics",
}

// Planner 学习计划引擎接口，由 study.Engine 实现
type Planner interface {
	BuildPlan(ctx context.Context, req study.PlanRequest) (*models.ProcessingResult, error)
	GenerateQuiz(ctx context.Context, source, difficulty string) []models.QuizQuestion
	Answer(ctx context.Context, source, question string) string
}

// MaterialService 学习资料服务
// 负责协调文件存储、计划生成和资料仓储
type MaterialService struct {
	repo    repository.MaterialRepository // 资料仓储
	storage storage.Storage               // 上传文件存储
	planner Planner                       // 计划引擎
	logger  *logrus.Logger                // 日志记录器
}

// MaterialOption 资料服务配置选项
type MaterialOption func(*MaterialService)

// WithMaterialLogger 设置日志记录器
func WithMaterialLogger(logger *logrus.Logger) MaterialOption {
	return func(s *MaterialService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewMaterialService 创建资料服务
func NewMaterialService(repo repository.MaterialRepository, store storage.Storage, planner Planner, opts ...MaterialOption) *MaterialService {
	s := &MaterialService{
		repo:    repo,
		storage: store,
		planner: planner,
		logger:  logrus.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UploadInput 上传参数，File 与 URL 二选一
type UploadInput struct {
	File       io.Reader // 上传的文件内容
	FileName   string    // 上传的文件名
	URL        string    // 网页地址
	StartDate  string    // 开始日期
	EndDate    string    // 结束日期
	DailyHours float64   // 每日学习时长
}

// Upload 保存资料、生成学习计划并持久化
func (s *MaterialService) Upload(ctx context.Context, owner string, in UploadInput) (*models.Material, *models.ProcessingResult, error) {
	url := strings.TrimSpace(in.URL)
	hasFile := in.File != nil && strings.TrimSpace(in.FileName) != ""
	hasURL := url != ""

	if hasFile == hasURL {
		return nil, nil, models.Errorf(models.KindValidation, "exactly one of file or url is required")
	}

	source := url
	if hasFile {
		source = in.FileName
		if !document.IsSupported(in.FileName) {
			return nil, nil, models.Errorf(models.KindUnsupportedFormat, "invalid file type: %s", in.FileName)
		}
	} else if !document.IsURL(url) {
		return nil, nil, models.Errorf(models.KindValidation, "invalid url: %s", url)
	}

	req := study.PlanRequest{
		Source:     source,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		DailyHours: in.DailyHours,
	}
	if _, _, err := study.ValidatePlanRequest(req); err != nil {
		return nil, nil, err
	}

	m := &models.Material{
		ID:         uuid.New().String(),
		Owner:      owner,
		FileName:   source,
		SourceType: models.SourceURL,
		Source:     url,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		DailyHours: in.DailyHours,
	}

	if hasFile {
		info, err := s.storage.Save(ctx, in.File, in.FileName)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to save upload: %w", err)
		}
		m.SourceType = models.SourceUpload
		m.FileID = info.ID
		m.Source = info.Path
	}

	result, err := s.buildPlan(ctx, m, req)
	if err != nil {
		s.discardUpload(ctx, m)
		return nil, nil, err
	}

	data, err := json.Marshal(result)
	if err != nil {
		s.discardUpload(ctx, m)
		return nil, nil, fmt.Errorf("failed to encode processing result: %w", err)
	}
	m.Result = datatypes.JSON(data)
	m.EntryCount = len(result.StudyPlan)
	m.WordCount = result.WordCount

	if err := s.repo.Put(ctx, m); err != nil {
		s.discardUpload(ctx, m)
		return nil, nil, fmt.Errorf("failed to save material: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"material_id": m.ID,
		"owner":       owner,
		"source_type": m.SourceType,
		"entries":     m.EntryCount,
	}).Info("Material uploaded")
	return m, result, nil
}

func (s *MaterialService) buildPlan(ctx context.Context, m *models.Material, req study.PlanRequest) (*models.ProcessingResult, error) {
	path, cleanup, err := s.resolveSource(ctx, m)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	req.Source = path
	return s.planner.BuildPlan(ctx, req)
}

// discardUpload 计划生成失败时删除已保存的文件
func (s *MaterialService) discardUpload(ctx context.Context, m *models.Material) {
	if m.SourceType != models.SourceUpload || m.FileID == "" {
		return
	}
	if err := s.storage.Delete(ctx, m.FileID); err != nil {
		s.logger.WithFields(logrus.Fields{
			"file_id": m.FileID,
			"error":   err.Error(),
		}).Warn("Failed to remove stored upload")
	}
}

// resolveSource 返回引擎可读取的来源：URL原样返回，上传文件解析为本地路径
func (s *MaterialService) resolveSource(ctx context.Context, m *models.Material) (string, func(), error) {
	if m.SourceType == models.SourceURL {
		return m.Source, func() {}, nil
	}
	path, cleanup, err := storage.ResolveLocalPath(ctx, s.storage, m.FileID, m.FileName)
	if errors.Is(err, storage.ErrFileNotFound) {
		return "", cleanup, models.Errorf(models.KindNotFound, "stored file for material %s is missing", m.ID)
	}
	return path, cleanup, err
}

// get 获取资料并校验归属，不属于该用户时视为不存在
func (s *MaterialService) get(ctx context.Context, owner, id string) (*models.Material, error) {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Owner != owner {
		return nil, models.ErrMaterialNotFound
	}
	return m, nil
}

// GetStudyPlan 返回资料及其处理结果
func (s *MaterialService) GetStudyPlan(ctx context.Context, owner, id string) (*models.Material, *models.ProcessingResult, error) {
	m, err := s.get(ctx, owner, id)
	if err != nil {
		return nil, nil, err
	}

	var result models.ProcessingResult
	if err := json.Unmarshal(m.Result, &result); err != nil {
		return nil, nil, fmt.Errorf("failed to decode processing result: %w", err)
	}
	return m, &result, nil
}

// List 列出用户的全部资料
func (s *MaterialService) List(ctx context.Context, owner string) ([]*models.Material, error) {
	return s.repo.ListByOwner(ctx, owner)
}

// Delete 删除资料及其上传文件
func (s *MaterialService) Delete(ctx context.Context, owner, id string) error {
	m, err := s.get(ctx, owner, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, m.ID); err != nil {
		return err
	}
	s.discardUpload(ctx, m)

	s.logger.WithFields(logrus.Fields{
		"material_id": id,
		"owner":       owner,
	}).Info("Material deleted")
	return nil
}

// Ask 针对资料回答问题
func (s *MaterialService) Ask(ctx context.Context, owner, id, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", models.Errorf(models.KindValidation, "question is required")
	}
	m, err := s.get(ctx, owner, id)
	if err != nil {
		return "", err
	}

	path, cleanup, err := s.resolveSource(ctx, m)
	if err != nil {
		return "", err
	}
	defer cleanup()

	return s.planner.Answer(ctx, path, question), nil
}

// Quiz 针对资料生成测验
func (s *MaterialService) Quiz(ctx context.Context, owner, id, difficulty string) ([]models.QuizQuestion, error) {
	m, err := s.get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	path, cleanup, err := s.resolveSource(ctx, m)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if difficulty == "" {
		difficulty = "medium"
	}
	return s.planner.GenerateQuiz(ctx, path, difficulty), nil
}

// Feedback 根据当前时间计算学习进度
func (s *MaterialService) Feedback(ctx context.Context, owner, id string, now time.Time) (*models.Feedback, error) {
	m, err := s.get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	return ComputeFeedback(m.StartDate, m.EndDate, now)
}

// ComputeFeedback 计算进度反馈
// 起止日期相同时，开始日过后即视为完成，避免除以零
func ComputeFeedback(startDate, endDate string, now time.Time) (*models.Feedback, error) {
	start, err := time.ParseInLocation(study.DateLayout, startDate, now.Location())
	if err != nil {
		return nil, models.Errorf(models.KindValidation, "invalid start date %q", startDate)
	}
	end, err := time.ParseInLocation(study.DateLayout, endDate, now.Location())
	if err != nil {
		return nil, models.Errorf(models.KindValidation, "invalid end date %q", endDate)
	}

	totalDays := floorDays(end.Sub(start))
	daysPassed := floorDays(now.Sub(start))

	var ratio float64
	if totalDays > 0 {
		ratio = float64(daysPassed) / float64(totalDays) * 100
	} else if daysPassed > 0 {
		ratio = 100
	}
	progress := min(100, max(0, int(ratio)))

	return &models.Feedback{
		Progress:            progress,
		DaysRemaining:       max(0, totalDays-daysPassed),
		EstimatedCompletion: endDate,
		OnTrack:             float64(progress) >= ratio,
		Suggestions:         append([]string(nil), feedbackSuggestions...),
	}, nil
}

// floorDays 向下取整的天数，未来时间为负数
func floorDays(d time.Duration) int {
	return int(math.Floor(d.Hours() / 24))
}
