package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/desertthunder/sbx/internal/shared"
	"github.com/goccy/go-json"
)

const defaultBaseURL = "http://127.0.0.1:5000"

// APIService performs raw HTTP requests against the soundboard backend.
//
// Every method returns an [APIResponse] for any status code; only failures to build,
// send or read a request are returned as errors, and those wrap [shared.ErrTransport].
type APIService struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIService creates a new API service for the backend at baseURL.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// BaseURL returns the backend root without a trailing slash.
func (a *APIService) BaseURL() string { return a.baseURL }

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports whether the status code is in the 2xx range.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the body into v.
func (r *APIResponse) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrTransport, err)
	}
	return nil
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrTransport, err)
	}
	return a.do(req)
}

// Post performs a POST request with the given JSON body. A nil body sends no content.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrTransport, err)
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.do(req)
}

// PostJSON marshals payload and posts it to path.
func (a *APIService) PostJSON(ctx context.Context, path string, payload any) (*APIResponse, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", shared.ErrInvalidInput, err)
	}
	return a.Post(ctx, path, data)
}

// PostMultipart posts a multipart form holding the plain fields and a single file part
// named fileField, streamed from r.
func (a *APIService) PostMultipart(ctx context.Context, path string, fields map[string]string, fileField, filename string, r io.Reader) (*APIResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("%w: failed to write form field %s: %v", shared.ErrInvalidInput, k, err)
		}
	}

	part, err := mw.CreateFormFile(fileField, filename)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create form file: %v", shared.ErrInvalidInput, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", shared.ErrInvalidInput, filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("%w: failed to finish form: %v", shared.ErrInvalidInput, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrTransport, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return a.do(req)
}

// Download streams the body of a GET request to w, returning the status code.
//
// A non-2xx response is not copied.
func (a *APIService) Download(ctx context.Context, path string, w io.Writer) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to create request: %v", shared.ErrTransport, err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: request failed: %v", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: failed to read response: %v", shared.ErrTransport, err)
	}
	return resp.StatusCode, nil
}

func (a *APIService) do(req *http.Request) (*APIResponse, error) {
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrTransport, err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}
