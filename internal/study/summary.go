package study

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// SummaryFallback 摘要生成失败时返回的文本
const SummaryFallback = "Could not generate summary"

// Summarize 生成位置摘要
// 不超过三句时全部保留；否则取首句、中间句和末句，以换行分隔
func Summarize(sentences []string) string {
	n := len(sentences)
	if n <= 3 {
		return strings.Join(sentences, " ")
	}
	return strings.Join([]string{sentences[0], sentences[n/2], sentences[n-1]}, "\n")
}

// summarize 生成摘要，失败时记录到引擎日志并返回占位文本
func (e *Engine) summarize(sentences []string) (summary string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.WithFields(logrus.Fields{
				"panic":     r,
				"sentences": len(sentences),
			}).Error("Summary generation panicked")
			summary = SummaryFallback
		}
	}()
	return e.summarizer(sentences)
}
