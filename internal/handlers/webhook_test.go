package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/vms-webhook-ingest/internal/ingest"
	"github.com/PratikDhanave/vms-webhook-ingest/internal/models"
)

type fakeStore struct {
	mu   sync.Mutex
	rows map[string]models.EventRecord
	err  error
}

func (f *fakeStore) InsertJob(ctx context.Context, rec models.EventRecord) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.rows == nil {
		f.rows = make(map[string]models.EventRecord)
	}
	if _, ok := f.rows[rec.EventID]; ok {
		return false, nil
	}
	f.rows[rec.EventID] = rec
	return true, nil
}

func newRouter(st ingest.JobStore, maxBody int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterWebhookRoutes(r, "/webhook", ingest.NewService(st, nil, nil), maxBody)
	return r
}

func post(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func TestWebhook_Inserted(t *testing.T) {
	st := &fakeStore{}
	r := newRouter(st, 1<<20)

	rr := post(r, `{"event_id": "evt-1", "camera": {"id": 17}, "scenario": "intrusion", "timestamp": "2023-11-14T22:13:20Z"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok":true,"inserted":true,"event_id":"evt-1","camera_id":"17","scenario":"intrusion"}`, rr.Body.String())
	require.Contains(t, st.rows, "evt-1")
	assert.NotNil(t, st.rows["evt-1"].EventTS)
}

func TestWebhook_DuplicateReportsNotInserted(t *testing.T) {
	st := &fakeStore{}
	r := newRouter(st, 1<<20)
	body := `{"id": "evt-dup"}`

	first := post(r, body)
	second := post(r, body)

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, true, decode(t, first)["inserted"])
	assert.Equal(t, false, decode(t, second)["inserted"])
	assert.Len(t, st.rows, 1)
}

func TestWebhook_IncompletePayloadSucceeds(t *testing.T) {
	st := &fakeStore{}
	r := newRouter(st, 1<<20)

	rr := post(r, `{"timestamp": "not-a-date", "camera_id": "  "}`)

	require.Equal(t, http.StatusOK, rr.Code)
	out := decode(t, rr)
	assert.Equal(t, true, out["ok"])
	assert.Equal(t, true, out["inserted"])
	assert.Nil(t, out["camera_id"])
	assert.Nil(t, out["scenario"])
	assert.Contains(t, out, "camera_id")
	assert.Contains(t, out, "scenario")
	assert.True(t, strings.HasPrefix(out["event_id"].(string), "evt_"))
}

func TestWebhook_EmptyBody(t *testing.T) {
	st := &fakeStore{}
	r := newRouter(st, 1<<20)

	rr := post(r, "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, st.rows, 1)
}

func TestWebhook_InvalidJSON(t *testing.T) {
	st := &fakeStore{}
	r := newRouter(st, 1<<20)

	rr := post(r, `{"id": `)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"ok":false,"error":"invalid JSON"}`, rr.Body.String())
	assert.Empty(t, st.rows)
}

func TestWebhook_UnstorableTextRejected(t *testing.T) {
	st := &fakeStore{}
	r := newRouter(st, 1<<20)

	for _, body := range []string{
		"{\"id\":\"evt-latin1\",\"camera\":\"caf\xe9\"}",
		`{"id":"evt-nul","scenario":"motion\u0000"}`,
	} {
		rr := post(r, body)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"ok":false,"error":"invalid JSON"}`, rr.Body.String())
	}
	assert.Empty(t, st.rows)
}

func TestWebhook_TooLarge(t *testing.T) {
	st := &fakeStore{}
	r := newRouter(st, 64)

	body := `{"id": "evt-big", "padding": "` + strings.Repeat("x", 128) + `"}`
	rr := post(r, body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.JSONEq(t, `{"ok":false,"error":"payload too large"}`, rr.Body.String())
	assert.Empty(t, st.rows)
}

func TestWebhook_StoreFailure(t *testing.T) {
	st := &fakeStore{err: errors.New("connection reset")}
	r := newRouter(st, 1<<20)

	rr := post(r, `{"id": "evt-fail"}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"ok":false}`, rr.Body.String())
}

func TestWebhook_ConcurrentDuplicates(t *testing.T) {
	st := &fakeStore{}
	r := newRouter(st, 1<<20)
	body := []byte(`{"alert": {"id": "evt-concurrent"}, "camera_id": "cam-1"}`)

	const racers = 20
	codes := make([]int, racers)
	inserted := make([]bool, racers)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			var resp models.WebhookResponse
			_ = json.Unmarshal(rr.Body.Bytes(), &resp)
			codes[i] = rr.Code
			inserted[i] = resp.Inserted
		}(i)
	}
	close(start)
	wg.Wait()

	wins := 0
	for i := range codes {
		assert.Equal(t, http.StatusOK, codes[i])
		if inserted[i] {
			wins++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Len(t, st.rows, 1)
}
