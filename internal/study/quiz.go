package study

import (
	"context"
	"math/rand"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/study-planner/internal/document"
	"github.com/fyerfyer/study-planner/internal/models"
)

const (
	// BlankMarker 题干中替换答案的占位符
	BlankMarker = "______"
	// QuestionPrefix 题干前缀
	QuestionPrefix = "Fill in the blank: "
	// OptionCount 每道题的选项数量
	OptionCount = 4

	// 进入题库的句子至少需要的词数（不含）
	minPoolTokens = 6
	// 实际出题的句子至少需要的词数（不含）
	minQuestionTokens = 8
	// 答案和相似干扰项的最短长度（不含）
	minAnswerRunes = 2
)

// 难度对应的题目数量
var questionCounts = map[string]int{
	"easy":   5,
	"medium": 10,
	"hard":   15,
	"pro":    20,
}

// QuestionCount 返回难度对应的题目数量，未知难度按medium处理
func QuestionCount(difficulty string) int {
	if n, ok := questionCounts[strings.ToLower(strings.TrimSpace(difficulty))]; ok {
		return n
	}
	return questionCounts["medium"]
}

// GenerateQuiz 从文档生成填空选择题
// 提取失败时记录日志并返回空列表，不返回错误
func (e *Engine) GenerateQuiz(ctx context.Context, source, difficulty string) (questions []models.QuizQuestion) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.WithFields(logrus.Fields{
				"source": source,
				"panic":  r,
			}).Error("Quiz generation panicked")
			questions = []models.QuizQuestion{}
		}
	}()

	text, err := e.extractor.Extract(ctx, source)
	if err != nil {
		e.logger.WithFields(logrus.Fields{
			"source": source,
			"error":  err.Error(),
		}).Warn("Error generating quiz")
		return []models.QuizQuestion{}
	}

	e.mu.Lock()
	questions = BuildQuiz(text, difficulty, e.rng)
	e.mu.Unlock()

	e.logger.WithFields(logrus.Fields{
		"source":     source,
		"difficulty": difficulty,
		"questions":  len(questions),
	}).Info("Quiz generated")
	return questions
}

type poolSentence struct {
	text  string
	words []string
}

// BuildQuiz 生成填空题
// rng 同时用于选空、补充干扰项和打乱选项，调用方负责并发保护
func BuildQuiz(text, difficulty string, rng *rand.Rand) []models.QuizQuestion {
	questions := make([]models.QuizQuestion, 0)

	var pool []poolSentence
	for _, s := range document.TokenizeSentences(text) {
		words := document.TokenizeWords(s)
		if len(words) > minPoolTokens {
			pool = append(pool, poolSentence{text: s, words: words})
		}
	}

	target := min(QuestionCount(difficulty), len(pool))
	if target == 0 {
		return questions
	}

	docWords := document.TokenizeWords(text)
	alphaWords := lo.Filter(docWords, func(w string, _ int) bool {
		return document.IsAlpha(w)
	})
	vocabulary := lo.Uniq(alphaWords)

	used := make(map[string]struct{})
	for len(questions) < target && len(used) < len(pool) {
		var current *poolSentence
		for i := range pool {
			if _, ok := used[pool[i].text]; ok {
				continue
			}
			if len(pool[i].words) > minQuestionTokens {
				current = &pool[i]
				used[current.text] = struct{}{}
				break
			}
		}
		if current == nil {
			break
		}

		words := current.words
		blank := rng.Intn(len(words)-2) + 1
		correct := words[blank]
		if utf8.RuneCountInString(correct) <= minAnswerRunes || !document.IsAlpha(correct) {
			continue
		}

		options := similarWords(correct, docWords)
		if !fillRandomOptions(&options, alphaWords, vocabulary, rng) {
			continue
		}

		rng.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})
		idx := lo.IndexOf(options, correct)

		blanked := make([]string, len(words))
		copy(blanked, words)
		blanked[blank] = BlankMarker

		questions = append(questions, models.QuizQuestion{
			Question:      QuestionPrefix + strings.Join(blanked, " "),
			Options:       options,
			CorrectAnswer: string(rune('A' + idx)),
		})
	}
	return questions
}

// similarWords 以正确答案开头，按文档顺序补充首字母相同的干扰项
func similarWords(correct string, docWords []string) []string {
	options := []string{correct}
	first, _ := utf8.DecodeRuneInString(strings.ToLower(correct))
	for _, w := range docWords {
		if len(options) >= OptionCount {
			break
		}
		if !document.IsAlpha(w) || utf8.RuneCountInString(w) <= minAnswerRunes {
			continue
		}
		lw := strings.ToLower(w)
		if r, _ := utf8.DecodeRuneInString(lw); r != first {
			continue
		}
		if lw == strings.ToLower(correct) || lo.Contains(options, w) {
			continue
		}
		options = append(options, w)
	}
	return options
}

// fillRandomOptions 随机抽取文档中的单词补齐选项
// 词表中可用的单词不够时返回false，避免无限重试
func fillRandomOptions(options *[]string, alphaWords, vocabulary []string, rng *rand.Rand) bool {
	missing := OptionCount - len(*options)
	if missing <= 0 {
		return true
	}
	available := lo.CountBy(vocabulary, func(w string) bool {
		return !lo.Contains(*options, w)
	})
	if available < missing {
		return false
	}
	for len(*options) < OptionCount {
		w := alphaWords[rng.Intn(len(alphaWords))]
		if !lo.Contains(*options, w) {
			*options = append(*options, w)
		}
	}
	return true
}
