package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-bond/algoperf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) string {
	var resp responseError
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	return resp.Error
}

func TestHandler_Algorithms(t *testing.T) {
	handler := NewHandler(NewService(setupEngine(t), nil, nil), nil)

	recorder := doRequest(handler, http.MethodGet, "/api/algorithms", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
	assert.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))

	var resp map[string][]map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.Len(t, resp["algorithms"], 3)
	assert.Equal(t, map[string]string{
		"id":         "quickSort",
		"name":       "Quick Sort",
		"complexity": "O(n log n) avg",
		"type":       "sorting",
	}, resp["algorithms"][0])
	assert.Equal(t, "searching", resp["algorithms"][1]["type"])
}

func TestHandler_Benchmark(t *testing.T) {
	handler := NewHandler(NewService(setupEngine(t), nil, nil), nil)

	recorder := doRequest(handler, http.MethodPost, "/api/benchmark", `{"algorithm":"binarySearch"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var report algoperf.Report
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &report))
	assert.Equal(t, "binarySearch", report.AlgorithmID)
	require.Len(t, report.Points, 3)
	for i, n := range []int{10, 20, 40} {
		assert.Equal(t, n, report.Points[i].N)
		assert.GreaterOrEqual(t, report.Points[i].TimeMs, 0.0)
	}

	assert.Contains(t, recorder.Body.String(), `"results":[{"n":10,"time":`)
}

func TestHandler_Benchmark_Errors(t *testing.T) {
	handler := NewHandler(NewService(setupEngine(t), nil, nil), nil)

	tests := []struct {
		name   string
		body   string
		status int
		error  string
	}{
		{name: "missing algorithm", body: `{}`, status: http.StatusBadRequest, error: "algorithm name is required"},
		{name: "empty algorithm", body: `{"algorithm":""}`, status: http.StatusBadRequest, error: "algorithm name is required"},
		{name: "malformed body", body: `{"algorithm":`, status: http.StatusBadRequest, error: "algorithm name is required"},
		{name: "empty body", body: ``, status: http.StatusBadRequest, error: "algorithm name is required"},
		{name: "unknown algorithm", body: `{"algorithm":"bogoSort"}`, status: http.StatusNotFound, error: "unknown algorithm: bogoSort"},
		{name: "execution failure", body: `{"algorithm":"broken"}`, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := doRequest(handler, http.MethodPost, "/api/benchmark", tt.body)
			require.Equal(t, tt.status, recorder.Code)

			msg := decodeError(t, recorder)
			if tt.error != "" {
				assert.Equal(t, tt.error, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestHandler_MethodsAndRoutes(t *testing.T) {
	handler := NewHandler(NewService(setupEngine(t), nil, nil), nil)

	recorder := doRequest(handler, http.MethodGet, "/api/benchmark", "")
	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)

	recorder = doRequest(handler, http.MethodOptions, "/api/benchmark", "")
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, recorder.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)

	recorder = doRequest(handler, http.MethodGet, "/api/nothing", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = doRequest(handler, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var health responseHealth
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
}

func TestHandler_History(t *testing.T) {
	handler := NewHandler(NewService(setupEngine(t), setupHistory(t), nil), nil)

	recorder := doRequest(handler, http.MethodPost, "/api/history", `{"algorithm":"quickSort"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"runs":[]}`, recorder.Body.String())

	for i := 0; i < 2; i++ {
		recorder = doRequest(handler, http.MethodPost, "/api/benchmark", `{"algorithm":"quickSort"}`)
		require.Equal(t, http.StatusOK, recorder.Code)
	}

	recorder = doRequest(handler, http.MethodPost, "/api/history", `{"algorithm":"quickSort","limit":1}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp responseHistory
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.Len(t, resp.Runs, 1)
	assert.Equal(t, "quickSort", resp.Runs[0].Report.AlgorithmID)

	recorder = doRequest(handler, http.MethodPost, "/api/history", `{"algorithm":"bogoSort"}`)
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = doRequest(handler, http.MethodPost, "/api/history", `{"limit":`)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "algorithm name is required", decodeError(t, recorder))
}

func TestHandler_HistoryDisabled(t *testing.T) {
	handler := NewHandler(NewService(setupEngine(t), nil, nil), nil)

	recorder := doRequest(handler, http.MethodPost, "/api/history", `{"algorithm":"quickSort"}`)
	require.Equal(t, http.StatusNotImplemented, recorder.Code)
	assert.Equal(t, ErrHistoryDisabled.Error(), decodeError(t, recorder))
}
