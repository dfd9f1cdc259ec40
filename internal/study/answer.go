package study

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/study-planner/internal/document"
	"github.com/fyerfyer/study-planner/internal/models"
)

const (
	// AnswerNotFound 没有匹配句子时的回答
	AnswerNotFound = "Answer not found in the material."
	// NoContentAnswer 文档没有任何句子时的回答
	NoContentAnswer = "No content available to answer the question."
	// minKeywordRunes 关键词最短长度（不含）
	minKeywordRunes = 2
)

// Keywords 提取关键词集合：长度大于2的纯字母单词，统一转小写
func Keywords(text string) map[string]struct{} {
	words := lo.FilterMap(document.TokenizeWords(text), func(w string, _ int) (string, bool) {
		return strings.ToLower(w), document.IsAlpha(w) && utf8.RuneCountInString(w) > minKeywordRunes
	})
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// BestMatch 返回与问题关键词重合最多的句子及其得分
// 只有得分严格更高时才替换，因此同分时保留靠前的句子
func BestMatch(sentences []string, question string) (string, int) {
	return bestMatch(sentences, Keywords(question))
}

func bestMatch(sentences []string, keywords map[string]struct{}) (string, int) {
	best, bestScore := "", 0
	for _, s := range sentences {
		score := 0
		for w := range Keywords(s) {
			if _, ok := keywords[w]; ok {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = s, score
		}
	}
	return best, bestScore
}

// Answer 用关键词重合度回答问题
// 任何失败都以文本形式返回，不返回错误
func (e *Engine) Answer(ctx context.Context, source, question string) (answer string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.WithFields(logrus.Fields{
				"source": source,
				"panic":  r,
			}).Error("Answering panicked")
			answer = fmt.Sprintf("Error answering question: %v", r)
		}
	}()

	keywords := Keywords(question)
	if len(keywords) == 0 {
		return AnswerNotFound
	}

	_, sentences, err := e.extractSentences(ctx, source)
	if errors.Is(err, models.ErrEmptyContent) {
		return NoContentAnswer
	}
	if err != nil {
		e.logger.WithFields(logrus.Fields{
			"source": source,
			"error":  err.Error(),
		}).Warn("Failed to extract document for answering")
		return fmt.Sprintf("Error answering question: %v", err)
	}
	if len(sentences) == 0 {
		return NoContentAnswer
	}

	best, score := bestMatch(sentences, keywords)
	e.logger.WithFields(logrus.Fields{
		"source": source,
		"score":  score,
	}).Debug("Question answered")
	if score == 0 {
		return AnswerNotFound
	}
	return best
}
