package document

import (
	"context"
	"errors"
	"net/url"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/study-planner/internal/models"
)

// SourceKind 文档来源类型
type SourceKind string

const (
	// KindFile 本地文件
	KindFile SourceKind = "file"
	// KindURL 网页地址
	KindURL SourceKind = "url"
)

// Source 文档引用解析结果，创建后不再修改
type Source struct {
	Ref    string      // 原始引用
	Kind   SourceKind  // 来源类型
	Format ContentType // 文件格式，URL来源时为Unknown
}

// ParseSource 解析文档引用
// 以 http:// 或 https:// 开头且带主机名的视为URL，其余按本地路径处理
func ParseSource(ref string) Source {
	if IsURL(ref) {
		return Source{Ref: ref, Kind: KindURL, Format: Unknown}
	}
	return Source{Ref: ref, Kind: KindFile, Format: DetectContentType(ref)}
}

// IsURL 判断引用是否为http(s)地址
func IsURL(ref string) bool {
	lower := strings.ToLower(ref)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return false
	}
	u, err := url.Parse(ref)
	return err == nil && u.Host != ""
}

// Extractor 文本提取器
// 根据来源类型分派到网页抓取或文件解析
type Extractor struct {
	fetcher *WebFetcher
	logger  *logrus.Logger
}

// ExtractorOption 提取器配置选项
type ExtractorOption func(*Extractor)

// WithFetcher 设置网页抓取器
func WithFetcher(f *WebFetcher) ExtractorOption {
	return func(e *Extractor) {
		if f != nil {
			e.fetcher = f
		}
	}
}

// WithExtractorLogger 设置日志记录器
func WithExtractorLogger(logger *logrus.Logger) ExtractorOption {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor 创建文本提取器
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		fetcher: NewWebFetcher(),
		logger:  logrus.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract 提取文档文本
// 成功时返回的文本空白已合并且首尾无空白，保证非空
func (e *Extractor) Extract(ctx context.Context, ref string) (string, error) {
	src := ParseSource(ref)

	var (
		raw string
		err error
	)
	switch src.Kind {
	case KindURL:
		raw, err = e.fetcher.Fetch(ctx, src.Ref)
	default:
		raw, err = e.extractFile(src)
	}
	if err != nil {
		e.logger.WithFields(logrus.Fields{
			"source": src.Ref,
			"kind":   src.Kind,
			"error":  err.Error(),
		}).Warn("Failed to extract text")
		return "", err
	}

	text := strings.Join(strings.Fields(raw), " ")
	if text == "" {
		return "", models.Errorf(models.KindEmptyContent, "no text could be extracted from %s", src.Ref)
	}

	e.logger.WithFields(logrus.Fields{
		"source": src.Ref,
		"chars":  len(text),
	}).Debug("Text extracted")
	return text, nil
}

func (e *Extractor) extractFile(src Source) (string, error) {
	if _, err := os.Stat(src.Ref); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", models.Errorf(models.KindNotFound, "file not found: %s", src.Ref)
		}
		return "", models.NewError(models.KindExtraction, "failed to stat file", err)
	}

	parser, err := ParserFactory(src.Ref)
	if err != nil {
		return "", err
	}

	text, err := parser.Parse(src.Ref)
	if err != nil {
		if models.KindOf(err) == "" {
			return "", models.NewError(models.KindExtraction, "failed to parse document", err)
		}
		return "", err
	}
	return text, nil
}
