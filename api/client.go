package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-bond/algoperf"
	"github.com/go-bond/algoperf/store"
	"github.com/go-resty/resty/v2"
)

type remoteService struct {
	client *resty.Client

	headers map[string]string

	algorithmsURL string
	benchmarkURL  string
	historyURL    string
}

// NewRemote returns a Service talking to a handler created by NewHandler
// and mounted at url.
func NewRemote(url string, headers map[string]string) Service {
	url = strings.TrimSuffix(url, "/")

	return &remoteService{
		client:        resty.New(),
		headers:       headers,
		algorithmsURL: fmt.Sprintf("%s%s", url, AlgorithmsPath),
		benchmarkURL:  fmt.Sprintf("%s%s", url, BenchmarkPath),
		historyURL:    fmt.Sprintf("%s%s", url, HistoryPath),
	}
}

func (r *remoteService) Algorithms(ctx context.Context) ([]algoperf.Descriptor, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeaders(r.headers).
		Get(r.algorithmsURL)
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, responseToError(resp, "")
	}

	var result responseAlgorithms
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}

	return result.Algorithms, nil
}

func (r *remoteService) Benchmark(ctx context.Context, algorithmID string) (*algoperf.Report, error) {
	rqData, err := json.Marshal(requestBenchmark{Algorithm: algorithmID})
	if err != nil {
		return nil, err
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetHeaders(r.headers).
		SetHeader("Content-Type", "application/json").
		SetBody(rqData).
		Post(r.benchmarkURL)
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, responseToError(resp, algorithmID)
	}

	var report algoperf.Report
	if err = json.Unmarshal(resp.Body(), &report); err != nil {
		return nil, err
	}

	return &report, nil
}

func (r *remoteService) History(ctx context.Context, algorithmID string, limit int) ([]store.Run, error) {
	rqData, err := json.Marshal(requestHistory{Algorithm: algorithmID, Limit: limit})
	if err != nil {
		return nil, err
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetHeaders(r.headers).
		SetHeader("Content-Type", "application/json").
		SetBody(rqData).
		Post(r.historyURL)
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, responseToError(resp, algorithmID)
	}

	var result responseHistory
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}

	return result.Runs, nil
}

// responseToError maps status codes back onto the errors the local service
// returns, so callers can match them with errors.Is either way.
func responseToError(resp *resty.Response, algorithmID string) error {
	var body responseError
	_ = json.Unmarshal(resp.Body(), &body)

	switch resp.StatusCode() {
	case http.StatusNotFound:
		if algorithmID != "" {
			return &algoperf.UnknownAlgorithmError{ID: algorithmID}
		}
	case http.StatusNotImplemented:
		return ErrHistoryDisabled
	}

	if body.Error != "" {
		return fmt.Errorf("request failed with status: %s: %w", resp.Status(), errors.New(body.Error))
	}
	return fmt.Errorf("request failed with status: %s", resp.Status())
}
