package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	broadcastdomain "chat-notify-backend/internal/broadcast/domain"
	tokendomain "chat-notify-backend/internal/token/domain"
)

type fakeFanout struct {
	lastMsg *broadcastdomain.Message
	result  *broadcastdomain.FanoutResult
	err     error
}

func (f *fakeFanout) HandleMessageCreated(_ context.Context, msg *broadcastdomain.Message) (*broadcastdomain.FanoutResult, error) {
	f.lastMsg = msg
	return f.result, f.err
}

type fakeSweeper struct {
	result *tokendomain.SweepResult
	err    error
}

func (f *fakeSweeper) Sweep(_ context.Context) (*tokendomain.SweepResult, error) {
	return f.result, f.err
}

func newTestRouter(fanout *fakeFanout, sweeper *fakeSweeper) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupRoutes(r, NewHandler(fanout, sweeper))
	return r
}

func TestMessageCreatedEndpoint(t *testing.T) {
	t.Run("settled success", func(t *testing.T) {
		fanout := &fakeFanout{result: &broadcastdomain.FanoutResult{Success: true, Notified: 2, SentCount: 3}}
		r := newTestRouter(fanout, &fakeSweeper{})

		body, _ := json.Marshal(map[string]string{
			"messageId": "msg-1",
			"userId":    "admin1",
			"sender":    "Alice",
			"text":      "hi",
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/events/message-created", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, fanout.lastMsg)
		assert.Equal(t, "msg-1", fanout.lastMsg.ID)
		assert.Equal(t, "admin1", fanout.lastMsg.SenderID)

		var result broadcastdomain.FanoutResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.True(t, result.Success)
		assert.Equal(t, 3, result.SentCount)
	})

	t.Run("storage failure returns structured error", func(t *testing.T) {
		fanout := &fakeFanout{err: errors.New("failed to write notification records")}
		r := newTestRouter(fanout, &fakeSweeper{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/events/message-created", bytes.NewReader([]byte(`{"messageId":"m","userId":"u"}`)))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, false, resp["success"])
		assert.NotEmpty(t, resp["error"])
	})

	t.Run("malformed body", func(t *testing.T) {
		r := newTestRouter(&fakeFanout{}, &fakeSweeper{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/events/message-created", bytes.NewReader([]byte("not json")))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTokenSweepEndpoint(t *testing.T) {
	sweeper := &fakeSweeper{result: &tokendomain.SweepResult{Success: true, Checked: 1200, Deleted: 7, Batches: 3}}
	r := newTestRouter(&fakeFanout{}, sweeper)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/events/token-sweep", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var result tokendomain.SweepResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 1200, result.Checked)
	assert.Equal(t, 7, result.Deleted)
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(&fakeFanout{}, &fakeSweeper{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
