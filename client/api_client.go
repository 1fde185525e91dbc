package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"telconova-dispatch/models"
	"telconova-dispatch/utils/logger"

	"github.com/cenkalti/backoff/v5"
	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
	"github.com/tidwall/gjson"
)

// APIClient talks to the optional remote dispatch API.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	maxTries   uint
	logger     logger.Logger
}

// NewCachingHTTPClient returns an HTTP client whose GETs honour cache headers.
// Responses are kept on disk when cacheDir is set and in memory otherwise.
func NewCachingHTTPClient(cacheDir string) *http.Client {
	if cacheDir == "" {
		return &http.Client{
			Transport: httpcache.NewTransport(httpcache.NewMemoryCache()),
		}
	}
	return &http.Client{
		Transport: httpcache.NewTransport(diskcache.New(cacheDir)),
	}
}

func NewAPIClient(cfg *models.Config, log logger.Logger) *APIClient {
	httpClient := NewCachingHTTPClient(cfg.RemoteCacheDir)
	httpClient.Timeout = cfg.RemoteAPITimeout
	return NewAPIClientWithHTTP(cfg.RemoteAPIURL, httpClient, cfg.RemoteAPIMaxRetries, log)
}

// NewAPIClientWithHTTP builds a client around an existing http.Client.
// retries is the number of attempts after the first one.
func NewAPIClientWithHTTP(baseURL string, httpClient *http.Client, retries int, log logger.Logger) *APIClient {
	if retries < 0 {
		retries = 0
	}
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		maxTries:   uint(retries) + 1,
		logger:     log,
	}
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
}

func (c *APIClient) FetchTechnicians(ctx context.Context) ([]models.Technician, error) {
	var technicians []models.Technician
	if err := c.getList(ctx, "/technicians", &technicians); err != nil {
		return nil, err
	}
	return technicians, nil
}

func (c *APIClient) FetchOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.getList(ctx, "/orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *APIClient) CreateOrder(ctx context.Context, order models.Order) error {
	_, err := c.do(ctx, http.MethodPost, "/orders", order)
	return err
}

// AssignOrder binds orderID to technicianID remotely; nil unassigns.
func (c *APIClient) AssignOrder(ctx context.Context, orderID string, technicianID *string) error {
	body := map[string]interface{}{
		"orderId":      orderID,
		"technicianId": technicianID,
	}
	_, err := c.do(ctx, http.MethodPost, "/orders/assign", body)
	return err
}

func (c *APIClient) UpdateWorkload(ctx context.Context, technicianID string, workload int) error {
	path := "/technicians/" + url.PathEscape(technicianID) + "/workload"
	_, err := c.do(ctx, http.MethodPatch, path, map[string]int{"workload": workload})
	return err
}

// getList accepts both {"data": [...]} envelopes and bare arrays.
func (c *APIClient) getList(ctx context.Context, path string, out interface{}) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	list := gjson.GetBytes(body, "data")
	if !list.Exists() {
		list = gjson.ParseBytes(body)
	}
	if !list.IsArray() {
		return fmt.Errorf("GET %s: response is not a list", path)
	}
	if err := json.Unmarshal([]byte(list.Raw), out); err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	return nil
}

// do retries transport errors and 5xx responses with exponential backoff.
// 4xx responses are returned at once.
func (c *APIClient) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var encoded []byte
	if payload != nil {
		var err error
		if encoded, err = json.Marshal(payload); err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
	}

	operation := func() ([]byte, error) {
		var body io.Reader
		if encoded != nil {
			body = bytes.NewReader(encoded)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		if encoded != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			return nil, &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode}
		}
		if resp.StatusCode >= 300 {
			return nil, backoff.Permanent(&StatusError{Method: method, Path: path, StatusCode: resp.StatusCode})
		}
		return data, nil
	}

	data, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.maxTries),
	)
	if err != nil {
		c.logger.Debugf("remote %s %s failed: %v", method, path, err)
		return nil, err
	}
	return data, nil
}
