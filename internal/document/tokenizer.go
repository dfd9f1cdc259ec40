package document

import (
	"strings"
	"sync"
	"unicode"

	"github.com/blevesearch/segment"
	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"github.com/sirupsen/logrus"
)

var (
	punktOnce sync.Once
	punkt     *sentences.DefaultSentenceTokenizer
	punktErr  error
)

// 模型加载失败时使用的句子分隔符
var sentenceDelimiters = []rune{'.', '!', '?', '。', '！', '？', '；'}

// loadPunkt 只加载一次英文Punkt模型，之后只读
func loadPunkt() (*sentences.DefaultSentenceTokenizer, error) {
	punktOnce.Do(func() {
		punkt, punktErr = english.NewSentenceTokenizer(nil)
		if punktErr != nil {
			logrus.WithError(punktErr).Warn("Failed to load punkt model, falling back to delimiter splitting")
		}
	})
	return punkt, punktErr
}

// TokenizeSentences 把文本切分为句子，按阅读顺序返回去除首尾空白后的非空句子
func TokenizeSentences(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	tokenizer, err := loadPunkt()
	if err != nil {
		return splitByDelimiters(text)
	}

	result := make([]string, 0)
	for _, s := range tokenizer.Tokenize(text) {
		if t := strings.TrimSpace(s.Text); t != "" {
			result = append(result, t)
		}
	}
	return result
}

// splitByDelimiters 按句末标点切分
func splitByDelimiters(text string) []string {
	result := make([]string, 0)
	var current strings.Builder

	flush := func() {
		if t := strings.TrimSpace(current.String()); t != "" {
			result = append(result, t)
		}
		current.Reset()
	}

	for _, r := range text {
		current.WriteRune(r)
		for _, d := range sentenceDelimiters {
			if r == d {
				flush()
				break
			}
		}
	}
	flush()
	return result
}

// TokenizeWords 按Unicode词边界（UAX#29）切分单词
// 标点单独成词，纯空白片段被丢弃，大小写保持不变
func TokenizeWords(text string) []string {
	result := make([]string, 0)
	seg := segment.NewWordSegmenterDirect([]byte(text))
	for seg.Segment() {
		tok := string(seg.Bytes())
		if strings.TrimSpace(tok) == "" {
			continue
		}
		result = append(result, tok)
	}
	if err := seg.Err(); err != nil {
		logrus.WithError(err).Warn("Word segmentation stopped early")
	}
	return result
}

// IsAlpha 判断单词是否非空且全部由字母组成
func IsAlpha(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
