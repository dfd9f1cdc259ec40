package services

import (
	"strings"

	"github.com/fyerfyer/study-planner/internal/models"
)

const (
	// maxVideos 每次最多推荐的视频数
	maxVideos = 3
	// defaultCategory 没有匹配时使用的分类
	defaultCategory = "math"
	// defaultLanguage 默认语言
	defaultLanguage = "en"
)

type videoCategory struct {
	name   string
	videos []models.Video
}

// 静态视频目录，按匹配顺序排列
var videoCatalog = []videoCategory{
	{"math", []models.Video{
		{Title: "Algebra Basics", URL: "https://youtube.com/math1", Channel: "Math Channel"},
		{Title: "Calculus Introduction", URL: "https://youtube.com/math2", Channel: "Math World"},
	}},
	{"science", []models.Video{
		{Title: "Physics Fundamentals", URL: "https://youtube.com/science1", Channel: "Science Hub"},
		{Title: "Chemistry Basics", URL: "https://youtube.com/science2", Channel: "Science Lab"},
	}},
	{"history", []models.Video{
		{Title: "World History", URL: "https://youtube.com/history1", Channel: "History Channel"},
		{Title: "Ancient Civilizations", URL: "https://youtube.com/history2", Channel: "History Today"},
	}},
}

// VideoRecommendation 视频推荐结果
type VideoRecommendation struct {
	Videos   []models.Video `json:"videos"`
	Topic    string         `json:"topic"`
	Language string         `json:"language"`
}

// VideoService 视频推荐服务，使用静态目录
type VideoService struct{}

// NewVideoService 创建视频推荐服务
func NewVideoService() *VideoService {
	return &VideoService{}
}

// Recommend 按主题推荐视频
// 分类名出现在主题中即匹配，多个分类依次合并，没有匹配时返回数学分类
func (s *VideoService) Recommend(topic, language string) (*VideoRecommendation, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, models.Errorf(models.KindValidation, "topic is required")
	}
	if language == "" {
		language = defaultLanguage
	}

	lower := strings.ToLower(topic)
	var videos []models.Video
	for _, c := range videoCatalog {
		if strings.Contains(lower, c.name) {
			videos = append(videos, c.videos...)
		}
	}
	if len(videos) == 0 {
		for _, c := range videoCatalog {
			if c.name == defaultCategory {
				videos = append(videos, c.videos...)
			}
		}
	}
	if len(videos) > maxVideos {
		videos = videos[:maxVideos]
	}

	return &VideoRecommendation{
		Videos:   videos,
		Topic:    topic,
		Language: language,
	}, nil
}
