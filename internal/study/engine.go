package study

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/study-planner/internal/document"
)

// TextExtractor 文本提取接口
type TextExtractor interface {
	Extract(ctx context.Context, ref string) (string, error)
}

// Engine 学习计划引擎
// 每次调用都重新提取并分句，调用之间不共享任何结果
type Engine struct {
	extractor  TextExtractor
	logger     *logrus.Logger
	summarizer func([]string) string

	mu  sync.Mutex // 保护rng
	rng *rand.Rand
}

// Option 引擎配置选项
type Option func(*Engine)

// WithLogger 设置日志记录器
func WithLogger(logger *logrus.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithExtractor 设置文本提取器
func WithExtractor(extractor TextExtractor) Option {
	return func(e *Engine) {
		if extractor != nil {
			e.extractor = extractor
		}
	}
}

// WithRandSource 设置出题使用的随机源
func WithRandSource(src rand.Source) Option {
	return func(e *Engine) {
		if src != nil {
			e.rng = rand.New(src)
		}
	}
}

// WithSeed 使用固定种子，出题结果可复现
func WithSeed(seed int64) Option {
	return WithRandSource(rand.NewSource(seed))
}

// NewEngine 创建学习计划引擎
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger:     logrus.New(),
		summarizer: Summarize,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.extractor == nil {
		e.extractor = document.NewExtractor(document.WithExtractorLogger(e.logger))
	}
	return e
}

// extractSentences 提取文本并分句
func (e *Engine) extractSentences(ctx context.Context, source string) (string, []string, error) {
	text, err := e.extractor.Extract(ctx, source)
	if err != nil {
		return "", nil, err
	}
	return text, document.TokenizeSentences(text), nil
}
