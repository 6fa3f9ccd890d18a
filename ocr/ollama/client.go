package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/ollama/ollama/api"
)

const (
	// DefaultServerURL is used when neither an option nor OLLAMA_URL
	// provides a server address.
	DefaultServerURL = "http://127.0.0.1:11434"

	defaultHTTPTimeout = 5 * time.Minute
)

// generateRequest is the non-streaming payload for /api/generate with
// image attachments.
type generateRequest struct {
	Model  string          `json:"model"`
	Prompt string          `json:"prompt"`
	System string          `json:"system,omitempty"`
	Stream *bool           `json:"stream,omitempty"`
	Images []api.ImageData `json:"images,omitempty"`
}

// generateResponse mirrors the /api/generate reply.
type generateResponse struct {
	Model         string        `json:"model"`
	CreatedAt     time.Time     `json:"created_at"`
	Response      string        `json:"response"`
	Done          bool          `json:"done"`
	TotalDuration time.Duration `json:"total_duration,omitempty"`
	EvalCount     int           `json:"eval_count,omitempty"`
}

type client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

var jsonBufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

func newClient(baseURL *url.URL, httpClient *http.Client) (*client, error) {
	if baseURL == nil {
		var err error
		baseURL, err = getDefaultURL()
		if err != nil {
			return nil, err
		}
	}

	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: defaultHTTPTimeout,
			Transport: &http.Transport{
				MaxIdleConns:      10,
				IdleConnTimeout:   90 * time.Second,
				ForceAttemptHTTP2: true,
			},
		}
	}

	return &client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}, nil
}

func getDefaultURL() (*url.URL, error) {
	host := os.Getenv("OLLAMA_URL")
	if host == "" {
		host = DefaultServerURL
	}

	baseURL, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OLLAMA_URL: %w", err)
	}
	return baseURL, nil
}

func (c *client) generate(ctx context.Context, req *generateRequest) (*generateResponse, error) {
	var resp generateResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/generate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *client) doRequest(ctx context.Context, method, path string, reqData, respData any) error {
	buf, ok := jsonBufferPool.Get().(*bytes.Buffer)
	if !ok {
		return errors.New("failed get data from buffer")
	}
	buf.Reset()
	defer jsonBufferPool.Put(buf)

	if reqData != nil {
		if err := json.NewEncoder(buf).Encode(reqData); err != nil {
			return fmt.Errorf("failed to encode request data: %w", err)
		}
	}

	requestURL := c.baseURL.JoinPath(path)
	request, err := http.NewRequestWithContext(ctx, method, requestURL.String(), buf)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer response.Body.Close()

	if err := c.checkError(response); err != nil {
		return err
	}

	if respData != nil {
		if err := json.NewDecoder(response.Body).Decode(respData); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *client) checkError(response *http.Response) error {
	if response.StatusCode < http.StatusBadRequest {
		return nil
	}

	var apiError struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(response.Body, 4096)).Decode(&apiError); err != nil {
		return fmt.Errorf("ollama API error (status %d): %s", response.StatusCode, http.StatusText(response.StatusCode))
	}
	return fmt.Errorf("ollama API error (status %d): %s", response.StatusCode, apiError.Error)
}
