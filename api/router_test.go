package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/study-planner/api/handler"
	"github.com/fyerfyer/study-planner/api/model"
	"github.com/fyerfyer/study-planner/internal/database"
	"github.com/fyerfyer/study-planner/internal/models"
	"github.com/fyerfyer/study-planner/internal/repository"
	"github.com/fyerfyer/study-planner/internal/services"
	"github.com/fyerfyer/study-planner/internal/session"
	"github.com/fyerfyer/study-planner/internal/study"
	"github.com/fyerfyer/study-planner/pkg/storage"
)

const notesText = "Photosynthesis converts light energy into chemical energy inside plant cells. " +
	"Mitochondria release stored energy through cellular respiration inside every cell. " +
	"Vaccines train immune systems against harmful foreign invaders today."

// envelope 解析通用响应，data 延迟解码
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	TraceID string          `json:"trace_id"`
}

// 创建测试路由
func setupTestRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	dsn := fmt.Sprintf("file:api_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := database.Open(&database.Config{Type: "sqlite", DSN: dsn}, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	fileStorage, err := storage.NewLocalStorage(storage.LocalConfig{Path: t.TempDir()})
	require.NoError(t, err)

	sessions, err := session.NewStore(session.DefaultConfig())
	require.NoError(t, err)

	authService := services.NewAuthService(repository.NewUserRepositoryWithDB(db), sessions, services.WithAuthLogger(logger))
	materialService := services.NewMaterialService(
		repository.NewMaterialRepositoryWithDB(db),
		fileStorage,
		study.NewEngine(study.WithLogger(logger), study.WithSeed(7)),
		services.WithMaterialLogger(logger),
	)

	return SetupRouter(
		handler.NewAuthHandler(authService),
		handler.NewMaterialHandler(materialService),
		handler.NewVideoHandler(services.NewVideoService()),
		authService,
	)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return serve(t, r, req)
}

func serve(t *testing.T, r *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

// uploadRequest 构造multipart上传请求
func uploadRequest(t *testing.T, token, filename, content string, fields map[string]string) *http.Request {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/materials", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func scheduleFields() map[string]string {
	return map[string]string{
		"start_date":  "2024-01-01",
		"end_date":    "2024-01-05",
		"daily_hours": "1.5",
	}
}

func register(t *testing.T, r *gin.Engine, username string) string {
	w, env := doJSON(t, r, http.MethodPost, "/api/auth/register", "", model.CredentialsRequest{
		Username: username,
		Password: "secret",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp model.TokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealth(t *testing.T) {
	r := setupTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
}

func TestAuthFlow(t *testing.T) {
	r := setupTestRouter(t)
	token := register(t, r, "alice")

	w, env := doJSON(t, r, http.MethodPost, "/api/auth/register", "", model.CredentialsRequest{Username: "alice", Password: "x"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, http.StatusConflict, env.Code)
	assert.NotEmpty(t, env.TraceID)

	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/login", "", model.CredentialsRequest{Username: "alice", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "bob"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = doJSON(t, r, http.MethodPost, "/api/auth/login", "", model.CredentialsRequest{Username: "alice", Password: "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	var login model.TokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.NotEqual(t, token, login.Token)

	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/materials", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/materials", login.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMaterialsRequireAuth(t *testing.T) {
	r := setupTestRouter(t)

	w, env := doJSON(t, r, http.MethodGet, "/api/materials", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, models.ErrUnauthorized.Error(), env.Message)

	w, _ = doJSON(t, r, http.MethodGet, "/api/materials", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMaterialLifecycle(t *testing.T) {
	r := setupTestRouter(t)
	token := register(t, r, "alice")

	w, env := serve(t, r, uploadRequest(t, token, "notes.txt", notesText, scheduleFields()))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var uploaded struct {
		Material  model.MaterialInfo      `json:"material"`
		StudyPlan []models.StudyPlanEntry `json:"study_plan"`
		WordCount int                     `json:"word_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &uploaded))
	id := uploaded.Material.ID
	require.NotEmpty(t, id)
	assert.Equal(t, "upload", uploaded.Material.SourceType)
	assert.Len(t, uploaded.StudyPlan, 3)
	assert.Equal(t, "2024-01-01", uploaded.StudyPlan[0].Date)
	assert.Greater(t, uploaded.WordCount, 0)

	w, env = doJSON(t, r, http.MethodGet, "/api/materials", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list model.MaterialListResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 1, list.Total)

	w, _ = doJSON(t, r, http.MethodGet, "/api/materials/"+id+"/plan", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	other := register(t, r, "mallory")
	w, _ = doJSON(t, r, http.MethodGet, "/api/materials/"+id+"/plan", other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = doJSON(t, r, http.MethodPost, "/api/materials/"+id+"/ask", token, model.AskRequest{Question: "What do vaccines train?"})
	require.Equal(t, http.StatusOK, w.Code)
	var answer model.AnswerResponse
	require.NoError(t, json.Unmarshal(env.Data, &answer))
	assert.Equal(t, "Vaccines train immune systems against harmful foreign invaders today.", answer.Answer)

	w, env = doJSON(t, r, http.MethodPost, "/api/materials/"+id+"/quiz", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var quiz model.QuizResponse
	require.NoError(t, json.Unmarshal(env.Data, &quiz))
	assert.Equal(t, "medium", quiz.Difficulty)
	assert.Len(t, quiz.Questions, 3)
	for _, q := range quiz.Questions {
		assert.Len(t, q.Options, study.OptionCount)
	}

	w, env = doJSON(t, r, http.MethodGet, "/api/materials/"+id+"/feedback", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fb models.Feedback
	require.NoError(t, json.Unmarshal(env.Data, &fb))
	assert.Equal(t, "2024-01-05", fb.EstimatedCompletion)
	assert.Len(t, fb.Suggestions, 3)

	w, _ = doJSON(t, r, http.MethodDelete, "/api/materials/"+id, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodGet, "/api/materials/"+id+"/plan", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// chunkedRequest 构造分块传输的请求，ContentLength 未知
func chunkedRequest(method, path, token, body string) *http.Request {
	req := httptest.NewRequest(method, path, struct{ io.Reader }{strings.NewReader(body)})
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestQuizChunkedBody(t *testing.T) {
	r := setupTestRouter(t)
	token := register(t, r, "alice")

	w, env := serve(t, r, uploadRequest(t, token, "notes.txt", notesText, scheduleFields()))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var uploaded struct {
		Material model.MaterialInfo `json:"material"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &uploaded))
	path := "/api/materials/" + uploaded.Material.ID + "/quiz"

	tests := []struct {
		name       string
		body       string
		status     int
		difficulty string
	}{
		{"explicit difficulty", `{"difficulty":"easy"}`, http.StatusOK, "easy"},
		{"empty body", "", http.StatusOK, "medium"},
		{"malformed json", `{"difficulty":`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := serve(t, r, chunkedRequest(http.MethodPost, path, token, tt.body))
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status != http.StatusOK {
				return
			}
			var quiz model.QuizResponse
			require.NoError(t, json.Unmarshal(env.Data, &quiz))
			assert.Equal(t, tt.difficulty, quiz.Difficulty)
		})
	}
}

func TestUploadErrors(t *testing.T) {
	r := setupTestRouter(t)
	token := register(t, r, "alice")

	tests := []struct {
		name     string
		filename string
		content  string
		fields   map[string]string
		status   int
	}{
		{"unsupported format", "notes.md", "# Title", scheduleFields(), http.StatusBadRequest},
		{"empty document", "empty.txt", "   ", scheduleFields(), http.StatusBadRequest},
		{"corrupt docx", "broken.docx", "not a zip", scheduleFields(), http.StatusUnprocessableEntity},
		{"no source", "", "", scheduleFields(), http.StatusBadRequest},
		{"bad date", "notes.txt", notesText, map[string]string{
			"start_date": "01/01/2024", "end_date": "2024-01-05", "daily_hours": "1",
		}, http.StatusBadRequest},
		{"end before start", "notes.txt", notesText, map[string]string{
			"start_date": "2024-02-01", "end_date": "2024-01-05", "daily_hours": "1",
		}, http.StatusBadRequest},
		{"too many hours", "notes.txt", notesText, map[string]string{
			"start_date": "2024-01-01", "end_date": "2024-01-05", "daily_hours": "13",
		}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := serve(t, r, uploadRequest(t, token, tt.filename, tt.content, tt.fields))
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.status, env.Code)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestVideos(t *testing.T) {
	r := setupTestRouter(t)

	w, env := doJSON(t, r, http.MethodPost, "/api/videos", "", model.VideoRequest{Topic: "history of science"})
	require.Equal(t, http.StatusOK, w.Code)
	var rec services.VideoRecommendation
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	assert.Len(t, rec.Videos, 3)
	assert.Equal(t, "en", rec.Language)

	w, _ = doJSON(t, r, http.MethodPost, "/api/videos", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
