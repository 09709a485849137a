// Package provider implements the authenticated request/response cycle
// against the Vertex AI Gemini generateContent endpoint.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/calyptra/vertex-agent/internal/genai"
)

const (
	DefaultModel  = "gemini-1.5-flash"
	DefaultRegion = "us-central1"

	cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"
)

// CallConfig overrides the model identifier and region target for a single
// call. Zero-value fields fall back to the client defaults.
type CallConfig struct {
	Model  string
	Region string
}

// APIError is a non-success response from the endpoint, carrying the
// endpoint's own error envelope. It is fatal to the run.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("gemini api error (status %d): %s", e.StatusCode, e.Message)
	if e.Details != "" {
		msg += "\ndetails: " + e.Details
	}
	return msg
}

// Client performs generateContent calls with service-account credentials.
type Client struct {
	httpClient *http.Client
	tokens     oauth2.TokenSource
	projectID  string
	model      string
	region     string
}

// NewClient builds a client from a service-account key file. model and
// region default to DefaultModel / DefaultRegion when empty.
func NewClient(ctx context.Context, keyPath, model, region string) (*Client, error) {
	if model == "" {
		model = DefaultModel
	}
	if region == "" {
		region = DefaultRegion
	}
	c := &Client{
		httpClient: &http.Client{
			Timeout: 5 * time.Minute, // tool-heavy generations can run long
		},
		model:  model,
		region: region,
	}
	if err := c.SetProject(ctx, keyPath); err != nil {
		return nil, err
	}
	return c, nil
}

// SetProject (re)loads credentials and project identity from a
// service-account key file.
func (c *Client) SetProject(ctx context.Context, keyPath string) error {
	if keyPath == "" {
		return errors.New("service account key path is required")
	}
	b, err := os.ReadFile(keyPath)
	if err != nil {
		return errors.Wrapf(err, "read key file %s", keyPath)
	}
	creds, err := google.CredentialsFromJSON(ctx, b, cloudPlatformScope)
	if err != nil {
		return errors.Wrap(err, "parse service account credentials")
	}
	if creds.ProjectID == "" {
		return errors.New("key file carries no project_id")
	}
	c.tokens = creds.TokenSource
	c.projectID = creds.ProjectID
	return nil
}

// ProjectID returns the project the client is bound to.
func (c *Client) ProjectID() string { return c.projectID }

// endpoint builds the generateContent URL, applying any per-call override.
func (c *Client) endpoint(cfg *CallConfig) string {
	model, region := c.model, c.region
	if cfg != nil {
		if cfg.Model != "" {
			model = cfg.Model
		}
		if cfg.Region != "" {
			region = cfg.Region
		}
	}
	return fmt.Sprintf(
		"https://%s-aiplatform.googleapis.com/v1/projects/%s/locations/%s/publishers/google/models/%s:generateContent",
		region, c.projectID, region, model,
	)
}

// GenerateContent sends one request and decodes the response. A non-2xx
// status surfaces as *APIError carrying the endpoint's error envelope.
func (c *Client) GenerateContent(ctx context.Context, req *genai.GenerateRequest, cfg *CallConfig) (*genai.GenerateResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "marshal request")
	}

	token, err := c.tokens.Token()
	if err != nil {
		return nil, errors.Wrap(err, "refresh access token")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(cfg), bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	token.SetAuthHeader(httpReq)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, apiErrorFromBody(httpResp.StatusCode, body)
	}

	var resp genai.GenerateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	resp.Raw = json.RawMessage(body)
	return &resp, nil
}

// apiErrorFromBody probes the endpoint's {error:{message, details}} envelope
// without assuming it is well formed.
func apiErrorFromBody(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Message: "unknown error"}
	if m := gjson.GetBytes(body, "error.message"); m.Exists() {
		apiErr.Message = m.String()
	} else if len(body) > 0 {
		apiErr.Message = string(body)
	}
	if d := gjson.GetBytes(body, "error.details"); d.Exists() {
		apiErr.Details = d.Raw
	}
	return apiErr
}
