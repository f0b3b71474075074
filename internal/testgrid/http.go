package testgrid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body; a nil body posts empty.
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := marshalJSON(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// Put performs a PUT request with JSON body
func (c *HTTPClient) Put(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := marshalJSON(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// Upload performs a multipart POST carrying one file under the "file" field,
// which is how the service accepts results uploads.
func (c *HTTPClient) Upload(ctx context.Context, url, fileName string, data []byte) (*http.Response, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.client.Do(req)
}

// marshalJSON marshals a struct to JSON
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalJSON unmarshals JSON to a struct
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// decodeResponse reads the body and decodes it into v, checking the status
// code first so error payloads surface as errors rather than zero values.
func decodeResponse(resp *http.Response, wantStatus int, v interface{}) error {
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != wantStatus {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	if v == nil {
		return nil
	}
	if err := unmarshalJSON(body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// uploadFile pushes one generated session file to the service.
func uploadFile(ctx context.Context, client *HTTPClient, baseURL, name string, data []byte, stats *Stats) (FileInfo, error) {
	resp, err := client.Upload(ctx, baseURL+"/files", name, data)
	if err != nil {
		return FileInfo{}, fmt.Errorf("upload of %s failed: %w", name, err)
	}

	var info FileInfo
	if err := decodeResponse(resp, StatusCreated, &info); err != nil {
		return FileInfo{}, fmt.Errorf("upload of %s rejected: %w", name, err)
	}

	stats.FilesUploaded++
	stats.RowsAccepted += info.Rows
	return info, nil
}

// fetchRoster reads the consolidated driver roster.
func fetchRoster(ctx context.Context, client *HTTPClient, baseURL string) ([]DriverRecord, error) {
	resp, err := client.Get(ctx, baseURL+"/roster")
	if err != nil {
		return nil, fmt.Errorf("roster request failed: %w", err)
	}

	var roster []DriverRecord
	if err := decodeResponse(resp, StatusOK, &roster); err != nil {
		return nil, err
	}
	return roster, nil
}

// configureWaves replaces the wave configuration set.
func configureWaves(ctx context.Context, client *HTTPClient, baseURL string, waves []WaveConfig) error {
	resp, err := client.Put(ctx, baseURL+"/waves", waves)
	if err != nil {
		return fmt.Errorf("waves request failed: %w", err)
	}

	var status StatusResponse
	if err := decodeResponse(resp, StatusOK, &status); err != nil {
		return err
	}
	return nil
}

// buildGrid asks the service to realize the grid.
func buildGrid(ctx context.Context, client *HTTPClient, baseURL string) (Grid, error) {
	resp, err := client.Post(ctx, baseURL+"/grid", nil)
	if err != nil {
		return Grid{}, fmt.Errorf("build request failed: %w", err)
	}

	var grid Grid
	if err := decodeResponse(resp, StatusCreated, &grid); err != nil {
		return Grid{}, err
	}
	return grid, nil
}

// fetchGrid reads the current working grid.
func fetchGrid(ctx context.Context, client *HTTPClient, baseURL string) (Grid, error) {
	resp, err := client.Get(ctx, baseURL+"/grid")
	if err != nil {
		return Grid{}, fmt.Errorf("grid request failed: %w", err)
	}

	var grid Grid
	if err := decodeResponse(resp, StatusOK, &grid); err != nil {
		return Grid{}, err
	}
	return grid, nil
}

// fetchExport reads the flattened export rows.
func fetchExport(ctx context.Context, client *HTTPClient, baseURL string) ([]ExportRow, error) {
	resp, err := client.Get(ctx, baseURL+"/grid/export")
	if err != nil {
		return nil, fmt.Errorf("export request failed: %w", err)
	}

	var rows []ExportRow
	if err := decodeResponse(resp, StatusOK, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// postMutation posts one mutation request and reports whether it applied.
// Both 200 and 202 are successful responses; 202 means the request was
// acknowledged but dropped (guard window, boundary no-op).
func postMutation(ctx context.Context, client *HTTPClient, url string, body interface{}) (bool, error) {
	resp, err := client.Post(ctx, url, body)
	if err != nil {
		return false, fmt.Errorf("mutation request failed: %w", err)
	}

	respBody, err := readResponseBody(resp)
	if err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK && resp.StatusCode != StatusAccepted {
		return false, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(respBody))
	}

	var ack MutationResponse
	if err := unmarshalJSON(respBody, &ack); err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}
	return ack.Applied, nil
}
