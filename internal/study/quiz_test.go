package study

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/study-planner/internal/document"
	"github.com/fyerfyer/study-planner/internal/models"
)

// 每句的内部单词都是长度大于2的纯字母单词，任意空位都能出题
var quizSentences = []string{
	"Photosynthesis converts light energy into chemical energy inside plant cells.",
	"Mitochondria release stored energy through cellular respiration inside every cell.",
	"Gravity pulls massive objects toward each other across great distances.",
	"Volcanoes form where molten rock escapes through weak crust regions.",
	"Rivers carry sediment downstream and deposit fertile soil along banks.",
	"Electrons orbit the atomic nucleus within distinct energy levels.",
	"Bacteria reproduce quickly when warm moist conditions favor growth.",
	"Glaciers carve deep valleys while slowly moving down mountain slopes.",
	"Magnets attract iron because aligned domains create strong fields.",
	"Sound travels faster through water than through still air.",
	"Earthquakes happen when tectonic plates suddenly slip along faults.",
	"Vaccines train immune systems against harmful foreign invaders today.",
}

var quizText = strings.Join(quizSentences, " ")

func TestQuestionCount(t *testing.T) {
	assert.Equal(t, 5, QuestionCount("easy"))
	assert.Equal(t, 10, QuestionCount("medium"))
	assert.Equal(t, 15, QuestionCount("HARD"))
	assert.Equal(t, 20, QuestionCount("pro"))
	assert.Equal(t, 10, QuestionCount("impossible"))
	assert.Equal(t, 10, QuestionCount(""))
}

func TestBuildQuiz_Properties(t *testing.T) {
	tokenized := make(map[string]bool)
	for _, s := range quizSentences {
		tokenized[strings.Join(document.TokenizeWords(s), " ")] = true
	}

	for _, tc := range []struct {
		difficulty string
		want       int
	}{
		{"easy", 5},
		{"medium", 10},
		{"hard", 12},
		{"pro", 12},
	} {
		t.Run(tc.difficulty, func(t *testing.T) {
			questions := BuildQuiz(quizText, tc.difficulty, rand.New(rand.NewSource(7)))
			require.Len(t, questions, tc.want)

			for _, q := range questions {
				require.True(t, strings.HasPrefix(q.Question, QuestionPrefix), q.Question)
				body := strings.TrimPrefix(q.Question, QuestionPrefix)
				assert.Equal(t, 1, strings.Count(body, BlankMarker))

				require.Len(t, q.Options, OptionCount)
				assert.Len(t, lo.Uniq(q.Options), OptionCount, "options must be distinct")

				require.Len(t, q.CorrectAnswer, 1)
				idx := int(q.CorrectAnswer[0] - 'A')
				require.True(t, idx >= 0 && idx < OptionCount, q.CorrectAnswer)

				restored := strings.Replace(body, BlankMarker, q.Options[idx], 1)
				assert.True(t, tokenized[restored], "restored question %q does not match any sentence", restored)
			}
		})
	}
}

func TestBuildQuiz_UsesEachSentenceOnce(t *testing.T) {
	questions := BuildQuiz(quizText, "pro", rand.New(rand.NewSource(3)))
	bodies := lo.Map(questions, func(q models.QuizQuestion, _ int) string {
		idx := int(q.CorrectAnswer[0] - 'A')
		return strings.Replace(q.Question, BlankMarker, q.Options[idx], 1)
	})
	assert.Len(t, lo.Uniq(bodies), len(bodies))
}

func TestBuildQuiz_Deterministic(t *testing.T) {
	a := BuildQuiz(quizText, "medium", rand.New(rand.NewSource(42)))
	b := BuildQuiz(quizText, "medium", rand.New(rand.NewSource(42)))
	assert.Equal(t, a, b)
}

func TestBuildQuiz_NoQuestions(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	t.Run("short sentences", func(t *testing.T) {
		q := BuildQuiz("Cats purr. Dogs bark loudly.", "easy", rng)
		require.NotNil(t, q)
		assert.Empty(t, q)
	})

	t.Run("numeric blanks are skipped", func(t *testing.T) {
		q := BuildQuiz("Alpha 11 22 33 44 55 66 77 88 99 end", "easy", rng)
		assert.Empty(t, q)
	})

	t.Run("vocabulary too small for four options", func(t *testing.T) {
		q := BuildQuiz("Cat cat cat cat cat cat cat cat cat cat.", "easy", rng)
		assert.Empty(t, q)
	})
}

func TestSimilarWords(t *testing.T) {
	docWords := []string{"Energy", "energy", "electrons", "be", "Earth", "Earth", "e2e", "eagle", "extra"}
	got := similarWords("energy", docWords)
	assert.Equal(t, []string{"energy", "electrons", "Earth", "eagle"}, got)
}

func TestEngine_GenerateQuiz(t *testing.T) {
	t.Run("seeded engine", func(t *testing.T) {
		ext := &stubExtractor{text: quizText}
		a := newTestEngine(ext, WithSeed(11)).GenerateQuiz(context.Background(), "notes.txt", "easy")
		b := newTestEngine(ext, WithSeed(11)).GenerateQuiz(context.Background(), "notes.txt", "easy")
		assert.Len(t, a, 5)
		assert.Equal(t, a, b)
	})

	t.Run("extraction failure yields empty list", func(t *testing.T) {
		ext := &stubExtractor{err: models.Errorf(models.KindNotFound, "missing")}
		q := newTestEngine(ext).GenerateQuiz(context.Background(), "missing.pdf", "easy")
		require.NotNil(t, q)
		assert.Empty(t, q)
	})
}
