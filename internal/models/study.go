package models

// StudyChunk 一个学习块：连续若干句子，固定半小时
type StudyChunk struct {
	Content       string  `json:"content"`        // 句子以空格拼接
	DurationHours float64 `json:"duration_hours"` // 学习时长（小时）
}

// StudyPlanEntry 学习计划中的一天
type StudyPlanEntry struct {
	Date          string  `json:"date"`           // 日期，YYYY-MM-DD
	Content       string  `json:"content"`        // 当天学习内容
	DurationHours float64 `json:"duration_hours"` // 学习时长（小时）
}

// ProcessingResult 文档处理结果
type ProcessingResult struct {
	WordCount      int              `json:"word_count"`      // 词数
	EstimatedHours float64          `json:"estimated_hours"` // 预计阅读时长
	AvailableHours float64          `json:"available_hours"` // 可用学习时长
	StudyPlan      []StudyPlanEntry `json:"study_plan"`      // 按天排列的学习计划
	ContentSummary string           `json:"content_summary"` // 内容摘要
}

// QuizQuestion 填空选择题
type QuizQuestion struct {
	Question      string   `json:"question"`       // 题干，包含一个空格标记
	Options       []string `json:"options"`        // 四个互不相同的选项
	CorrectAnswer string   `json:"correct_answer"` // 正确选项字母 A-D
}

// Feedback 学习进度反馈
type Feedback struct {
	Progress            int      `json:"progress"`             // 进度百分比 0-100
	DaysRemaining       int      `json:"days_remaining"`       // 剩余天数
	EstimatedCompletion string   `json:"estimated_completion"` // 预计完成日期
	OnTrack             bool     `json:"on_track"`             // 是否按计划进行
	Suggestions         []string `json:"suggestions"`          // 学习建议
}

// Video 推荐视频
type Video struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Channel string `json:"channel"`
}
