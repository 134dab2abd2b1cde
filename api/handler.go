package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"

	"github.com/go-bond/algoperf"
	"github.com/go-bond/algoperf/store"
	"go.uber.org/zap"
)

const (
	AlgorithmsPath = "/algorithms"
	BenchmarkPath  = "/benchmark"
	HistoryPath    = "/history"
	HealthPath     = "/health"
)

const maxRequestBody = 1 << 16

// errAlgorithmRequired answers any body an algorithm id can not be read from.
var errAlgorithmRequired = errors.New("algorithm name is required")

// NewHandler routes on the path suffix, so it can be mounted under any
// prefix, e.g. mux.Handle("/api/", NewHandler(svc, logger)).
func NewHandler(svc Service, logger *zap.Logger) http.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		// path pattern matchers
		endsInAlgorithms = regexp.MustCompile(AlgorithmsPath + "$")
		endsInBenchmark  = regexp.MustCompile(BenchmarkPath + "$")
		endsInHistory    = regexp.MustCompile(HistoryPath + "$")
		endsInHealth     = regexp.MustCompile(HealthPath + "$")

		// handlers
		algorithmsHandler = buildAlgorithmsHandler(svc, logger)
		benchmarkHandler  = buildBenchmarkHandler(svc, logger)
		historyHandler    = buildHistoryHandler(svc, logger)
		healthHandler     = buildHealthHandler()
	)

	return func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Access-Control-Allow-Origin", "*")
		if request.Method == http.MethodOptions {
			writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			writeEmptyResponse(writer, http.StatusNoContent)
			return
		}

		path := []byte(request.URL.Path)
		switch {
		case endsInAlgorithms.Match(path):
			algorithmsHandler.ServeHTTP(writer, request)
		case endsInBenchmark.Match(path):
			benchmarkHandler.ServeHTTP(writer, request)
		case endsInHistory.Match(path):
			historyHandler.ServeHTTP(writer, request)
		case endsInHealth.Match(path):
			healthHandler.ServeHTTP(writer, request)
		default:
			http.NotFound(writer, request)
		}
	}
}

type responseError struct {
	Error string `json:"error"`
}

type responseAlgorithms struct {
	Algorithms []algoperf.Descriptor `json:"algorithms"`
}

type responseHealth struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type requestBenchmark struct {
	Algorithm string `json:"algorithm"`
}

type requestHistory struct {
	Algorithm string `json:"algorithm"`
	Limit     int    `json:"limit"`
}

type responseHistory struct {
	Runs []store.Run `json:"runs"`
}

func buildAlgorithmsHandler(svc Service, logger *zap.Logger) http.HandlerFunc {
	return func(response http.ResponseWriter, request *http.Request) {
		if !allowMethods(response, request, http.MethodGet, http.MethodPost) {
			return
		}

		algorithms, err := svc.Algorithms(request.Context())
		if err != nil {
			writeServiceError(response, logger, err)
			return
		}

		writeJSONResponse(response, http.StatusOK, responseAlgorithms{Algorithms: algorithms})
	}
}

func buildBenchmarkHandler(svc Service, logger *zap.Logger) http.HandlerFunc {
	return func(response http.ResponseWriter, request *http.Request) {
		if !allowMethods(response, request, http.MethodPost) {
			return
		}

		var req requestBenchmark
		if err := readJSONRequest(request, &req); err != nil || req.Algorithm == "" {
			writeErrorResponse(response, http.StatusBadRequest, errAlgorithmRequired)
			return
		}

		logger.Info("received benchmark request", zap.String("algorithm", req.Algorithm))

		// blocks until every trial is done; the client deadline bounds it
		report, err := svc.Benchmark(request.Context(), req.Algorithm)
		if err != nil {
			writeServiceError(response, logger, err)
			return
		}

		writeJSONResponse(response, http.StatusOK, report)
	}
}

func buildHistoryHandler(svc Service, logger *zap.Logger) http.HandlerFunc {
	return func(response http.ResponseWriter, request *http.Request) {
		if !allowMethods(response, request, http.MethodPost) {
			return
		}

		var req requestHistory
		if err := readJSONRequest(request, &req); err != nil || req.Algorithm == "" {
			writeErrorResponse(response, http.StatusBadRequest, errAlgorithmRequired)
			return
		}

		runs, err := svc.History(request.Context(), req.Algorithm, req.Limit)
		if err != nil {
			writeServiceError(response, logger, err)
			return
		}
		if runs == nil {
			runs = []store.Run{}
		}

		writeJSONResponse(response, http.StatusOK, responseHistory{Runs: runs})
	}
}

func buildHealthHandler() http.HandlerFunc {
	return func(response http.ResponseWriter, request *http.Request) {
		writeJSONResponse(response, http.StatusOK, responseHealth{
			Status:  "ok",
			Message: "algoperf is running",
		})
	}
}

func allowMethods(response http.ResponseWriter, request *http.Request, methods ...string) bool {
	for _, m := range methods {
		if request.Method == m {
			return true
		}
	}
	writeEmptyResponse(response, http.StatusMethodNotAllowed)
	return false
}

func readJSONRequest(request *http.Request, v any) error {
	data, err := io.ReadAll(io.LimitReader(request.Body, maxRequestBody))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, algoperf.ErrUnknownAlgorithm):
		return http.StatusNotFound
	case errors.Is(err, ErrHistoryDisabled):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(response http.ResponseWriter, logger *zap.Logger, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
	}
	writeErrorResponse(response, status, err)
}

func writeJSONResponse(response http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		writeErrorResponse(response, http.StatusInternalServerError, err)
		return
	}

	response.Header().Set("Content-Type", "application/json")
	writeResponse(response, status, data)
}

func writeResponse(response http.ResponseWriter, status int, data []byte) {
	response.WriteHeader(status)
	_, _ = response.Write(data)
}

func writeEmptyResponse(response http.ResponseWriter, status int) {
	response.WriteHeader(status)
}

func writeErrorResponse(response http.ResponseWriter, status int, err error) {
	data, errErrResp := json.Marshal(responseError{Error: err.Error()})

	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)
	if errErrResp == nil {
		_, _ = response.Write(data)
	}
}
