package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"auction-engine/internal/config"
	"auction-engine/internal/engine"
	"auction-engine/internal/repository"
	"auction-engine/internal/server"
	"auction-engine/services/auction/helpers"

	"github.com/gin-gonic/gin"
)

// testConfig shrinks credits and the countdown tick so sessions resolve fast
// enough for HTTP-level tests.
func testConfig() config.Config {
	cfg := config.Default()
	cfg.DefaultBalance = 100
	cfg.MinIncrement = 1
	cfg.Duration = time.Minute
	cfg.WarningThreshold = 100 * time.Millisecond
	cfg.CriticalThreshold = 50 * time.Millisecond
	cfg.Tick = 10 * time.Millisecond
	return cfg
}

// SetupTestRouter initializes the router over a fresh engine with an
// in-memory store.
func SetupTestRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	eng := engine.New(testConfig(), repository.NewMemoryStore())
	t.Cleanup(eng.Shutdown)
	return server.SetupRouter(eng)
}

// ExecuteRequest executes an HTTP request and returns the response recorder.
func ExecuteRequest(t *testing.T, router *gin.Engine, method, url string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	var reqBody []byte
	var err error

	switch v := body.(type) {
	case []byte:
		reqBody = v
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		if err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}

		if w.Code == 201 {
			resp = resp["data"].(map[string]any)
		}
	}

	return resp, w
}

// StartTestSession opens a session through the API and returns its id.
func StartTestSession(t *testing.T, router *gin.Engine, groupID, mode string, durationSec int64) string {
	resp, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/sessions", helpers.StartSessionRequest{
		GroupID: groupID,
		Item: helpers.ItemPayload{
			ItemID:    "item1",
			Name:      "Striker",
			Position:  "ST",
			Rating:    90,
			BasePrice: 10,
		},
		StartingPrice: 10,
		Mode:          mode,
		DurationSec:   durationSec,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("failed to start session: status %d, body %s", w.Code, w.Body.String())
	}
	return resp["session_id"].(string)
}
