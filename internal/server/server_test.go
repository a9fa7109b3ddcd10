package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/M4rulli/Dynamica/internal/jobs"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return New(jobs.NewStore(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded), "body: %s", w.Body.String())
	return w, decoded
}

const validSubmission = `{
	"analysis_type": "mesh",
	"circuit": {"components": [
		{"id":"v1","type":"voltage_source","pinA":{"x":0,"y":0},"pinB":{"x":0,"y":100},
		 "voltage":"10","sourcePolarity":"a_positive","label":"V1"},
		{"id":"r1","type":"resistor","pinA":{"x":0,"y":100},"pinB":{"x":100,"y":100},
		 "value":"100","label":"R1"},
		{"id":"r2","type":"resistor","pinA":{"x":100,"y":100},"pinB":{"x":0,"y":0},
		 "value":"400","label":"R2"}
	]}
}`

// pollResult polls the result endpoint until the job leaves the queue.
func pollResult(t *testing.T, h http.Handler, id string) map[string]any {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		_, body := doJSON(t, h, http.MethodGet, "/api/v1/analysis/jobs/"+id+"/result", "")
		switch body["status"] {
		case string(jobs.StatusCompleted), string(jobs.StatusFailed):
			return body
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job did not finish in time")
	return nil
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)
	w, body := doJSON(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestSubmitAndComplete(t *testing.T) {
	h := newTestServer(t)

	w, body := doJSON(t, h, http.MethodPost, "/api/v1/analysis/jobs", validSubmission)
	require.Equal(t, http.StatusOK, w.Code)
	id, ok := body["job_id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)

	final := pollResult(t, h, id)
	require.Equal(t, string(jobs.StatusCompleted), final["status"])
	assert.Nil(t, final["error"])

	result, ok := final["result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, id, result["job_id"])
	assert.Equal(t, "mesh", result["analysis_type"])

	eqs, ok := result["equations"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, eqs)
	assert.Contains(t, eqs[0], " = 0")

	gi, ok := result["graph_info"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 3, gi["nodes_count"])
	assert.EqualValues(t, 3, gi["branches_count"])

	status := getStatus(t, h, id)
	assert.Equal(t, string(jobs.StatusCompleted), status["status"])
}

func getStatus(t *testing.T, h http.Handler, id string) map[string]any {
	t.Helper()
	w, body := doJSON(t, h, http.MethodGet, "/api/v1/analysis/jobs/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	return body
}

func TestSubmitMalformedJSON(t *testing.T) {
	h := newTestServer(t)
	w, body := doJSON(t, h, http.MethodPost, "/api/v1/analysis/jobs", `{"analysis_type": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, body["detail"])
}

func TestSubmitUnknownKindRejected(t *testing.T) {
	h := newTestServer(t)
	payload := `{"analysis_type":"mesh","circuit":{"components":[
		{"id":"x1","type":"transistor","pinA":{"x":0,"y":0},"pinB":{"x":1,"y":1}}
	]}}`
	w, body := doJSON(t, h, http.MethodPost, "/api/v1/analysis/jobs", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["detail"], "unknown component kind")
}

// A component without a type field must 422 at submission, not slip through
// as a wire and vanish during contraction.
func TestSubmitMissingComponentTypeRejected(t *testing.T) {
	h := newTestServer(t)
	payload := `{"analysis_type":"mesh","circuit":{"components":[
		{"id":"x1","pinA":{"x":0,"y":0},"pinB":{"x":0,"y":100}},
		{"id":"r1","type":"resistor","pinA":{"x":0,"y":100},"pinB":{"x":0,"y":0},"value":"100"}
	]}}`
	w, body := doJSON(t, h, http.MethodPost, "/api/v1/analysis/jobs", payload)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, body["detail"], "unknown component kind")
}

func TestSubmitMissingParameterRejected(t *testing.T) {
	h := newTestServer(t)
	payload := `{"analysis_type":"mesh","circuit":{"components":[
		{"id":"v1","type":"voltage_source","pinA":{"x":0,"y":0},"pinB":{"x":0,"y":100},"voltage":"10"},
		{"id":"r1","type":"resistor","pinA":{"x":0,"y":100},"pinB":{"x":0,"y":0}}
	]}}`
	w, body := doJSON(t, h, http.MethodPost, "/api/v1/analysis/jobs", payload)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, body["detail"], "missing required parameter")
}

// analysis_type outside the known set fails the submission synchronously
// instead of queueing a job doomed to fail.
func TestSubmitUnknownAnalysisTypeRejected(t *testing.T) {
	h := newTestServer(t)
	for _, kind := range []string{`"transient"`, `""`} {
		payload := `{"analysis_type":` + kind + `,"circuit":{"components":[]}}`
		w, body := doJSON(t, h, http.MethodPost, "/api/v1/analysis/jobs", payload)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "kind %s", kind)
		assert.Contains(t, body["detail"], "unknown analysis_type")
	}

	// Absent field decodes to the empty kind and is rejected the same way.
	w, body := doJSON(t, h, http.MethodPost, "/api/v1/analysis/jobs", `{"circuit":{"components":[]}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, body["detail"], "unknown analysis_type")
}

func TestSubmitDanglingRejected(t *testing.T) {
	h := newTestServer(t)
	payload := `{"analysis_type":"mesh","circuit":{"components":[
		{"id":"v1","type":"voltage_source","pinA":{"x":0,"y":0},"pinB":{"x":0,"y":100},"voltage":"10"},
		{"id":"r1","type":"resistor","pinA":{"x":0,"y":100},"pinB":{"x":500,"y":500},"value":"100","label":"Rfar"}
	]}}`
	w, body := doJSON(t, h, http.MethodPost, "/api/v1/analysis/jobs", payload)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, body["detail"], "Rfar")
}

func TestSubmitEmptyCircuitRejected(t *testing.T) {
	h := newTestServer(t)
	payload := `{"analysis_type":"mesh","circuit":{"components":[]}}`
	w, _ := doJSON(t, h, http.MethodPost, "/api/v1/analysis/jobs", payload)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

// A submission can pass integrity validation and still fail during
// analysis; the failure surfaces through the job state, not the submission
// response.
func TestUnsupportedKindFailsAsJob(t *testing.T) {
	h := newTestServer(t)
	nodal := strings.Replace(validSubmission, `"analysis_type": "mesh"`, `"analysis_type": "nodal"`, 1)
	w, body := doJSON(t, h, http.MethodPost, "/api/v1/analysis/jobs", nodal)
	require.Equal(t, http.StatusOK, w.Code)
	id := body["job_id"].(string)

	final := pollResult(t, h, id)
	assert.Equal(t, string(jobs.StatusFailed), final["status"])
	assert.Contains(t, final["error"], "unsupported analysis kind")
	assert.Nil(t, final["result"])
}

func TestJobNotFound(t *testing.T) {
	h := newTestServer(t)
	w, body := doJSON(t, h, http.MethodGet, "/api/v1/analysis/jobs/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "job not found", body["detail"])

	w, _ = doJSON(t, h, http.MethodGet, "/api/v1/analysis/jobs/does-not-exist/result", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/analysis/jobs", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
