package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/study-planner/internal/models"
)

const notes = "Photosynthesis converts light energy into chemical energy inside plant cells. " +
	"Mitochondria release stored energy through cellular respiration inside every cell. " +
	"Vaccines train immune systems against harmful foreign invaders today."

func writeNotes(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte(notes), 0644))
	return path
}

// run 执行命令并返回标准输出
func run(t *testing.T, args ...string) (string, error) {
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPlanCommand(t *testing.T) {
	path := writeNotes(t)

	out, err := run(t, "plan", path, "--start", "2024-01-01", "--end", "2024-01-03", "--hours", "2")
	require.NoError(t, err)

	var result models.ProcessingResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.StudyPlan, 3)
	assert.Equal(t, "2024-01-01", result.StudyPlan[0].Date)
	assert.Equal(t, 4.0, result.AvailableHours)

	_, err = run(t, "plan", path, "--start", "2024-01-05", "--end", "2024-01-01")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = run(t, "plan", filepath.Join(t.TempDir(), "missing.txt"), "--start", "2024-01-01", "--end", "2024-01-02")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = run(t, "plan", path)
	assert.Error(t, err, "start and end are required")
}

func TestQuizCommand(t *testing.T) {
	path := writeNotes(t)

	out, err := run(t, "quiz", path, "--difficulty", "easy", "--seed", "3")
	require.NoError(t, err)
	var questions []models.QuizQuestion
	require.NoError(t, json.Unmarshal([]byte(out), &questions))
	assert.Len(t, questions, 3)

	again, err := run(t, "quiz", path, "--difficulty", "easy", "--seed", "3")
	require.NoError(t, err)
	assert.Equal(t, out, again)

	out, err = run(t, "quiz", "missing.pdf")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestAskCommand(t *testing.T) {
	path := writeNotes(t)

	out, err := run(t, "ask", path, "What", "do", "vaccines", "train?")
	require.NoError(t, err)
	assert.Equal(t, "Vaccines train immune systems against harmful foreign invaders today.\n", out)

	out, err = run(t, "ask", path, "Why is the sky blue?")
	require.NoError(t, err)
	assert.Equal(t, "Answer not found in the material.\n", out)

	_, err = run(t, "ask", path)
	assert.Error(t, err)
}
