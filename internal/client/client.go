package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go-medscan/internal/config"
	apperrors "go-medscan/internal/errors"
	"go-medscan/internal/logger"
	"go-medscan/internal/progress"
	"go-medscan/pkg/models"

	"github.com/sirupsen/logrus"
)

// Remote endpoints of the analysis service. The upload-* pair and the
// process-* pair are historically different revisions of the same operations
// and answer with different body shapes; the normalizer absorbs that.
const (
	pathUploadPrescription  = "/api/upload-prescription/"
	pathUploadStrip         = "/api/upload-strip/"
	pathProcessPrescription = "/api/process-prescription/"
	pathProcessStrip        = "/api/process-strip/"
	pathAddReminder         = "/api/add-reminder/"
	pathDashboard           = "/api/dashboard/"
)

// UploadFunc sends one validated payload to one analysis endpoint and returns
// the raw response body. The orchestrator binds a progress reporter into it.
type UploadFunc func(ctx context.Context, req *models.UploadRequest, onProgress progress.Reporter) ([]byte, error)

// Client wraps the HTTP mechanism for every remote operation: credential
// attachment, timeouts sized for server-side image processing, and the
// mandatory three-way failure triage. Callers never see an undifferentiated
// transport error.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	uploadTimeout  time.Duration
	requestTimeout time.Duration
	tokens         TokenProvider
}

// NewClient creates a transport client. The credential provider is an
// explicit dependency so tests can run without environment setup; nil means
// no credential is ever attached.
func NewClient(cfg *config.Config, tokens TokenProvider) *Client {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			// Per-call deadlines come from the context; the upload timeout is
			// much longer than what a blanket client timeout should be
		},
		baseURL:        cfg.BaseURL,
		uploadTimeout:  cfg.UploadTimeout,
		requestTimeout: cfg.RequestTimeout,
		tokens:         tokens,
	}
}

// UploadPrescription submits a prescription image or PDF for analysis
func (c *Client) UploadPrescription(ctx context.Context, req *models.UploadRequest, onProgress progress.Reporter) ([]byte, error) {
	return c.upload(ctx, pathUploadPrescription, "file", req, onProgress)
}

// UploadStrip submits a medicine strip photo for identification
func (c *Client) UploadStrip(ctx context.Context, req *models.UploadRequest, onProgress progress.Reporter) ([]byte, error) {
	return c.upload(ctx, pathUploadStrip, "file", req, onProgress)
}

// ProcessPrescription submits a prescription to the alternate endpoint, which
// takes the multipart field "image" and answers {medicines, raw_text}
func (c *Client) ProcessPrescription(ctx context.Context, req *models.UploadRequest, onProgress progress.Reporter) ([]byte, error) {
	return c.upload(ctx, pathProcessPrescription, "image", req, onProgress)
}

// ProcessStrip submits a strip photo to the alternate endpoint
func (c *Client) ProcessStrip(ctx context.Context, req *models.UploadRequest, onProgress progress.Reporter) ([]byte, error) {
	return c.upload(ctx, pathProcessStrip, "image", req, onProgress)
}

// Endpoint selects the upload method for an operation. The process variant
// targets the alternate endpoints.
func (c *Client) Endpoint(operation models.Operation, processVariant bool) UploadFunc {
	switch {
	case operation == models.StripAnalysis && processVariant:
		return c.ProcessStrip
	case operation == models.StripAnalysis:
		return c.UploadStrip
	case processVariant:
		return c.ProcessPrescription
	default:
		return c.UploadPrescription
	}
}

// AddReminder creates a medication reminder
func (c *Client) AddReminder(ctx context.Context, reminder models.ReminderRequest) (*models.Reminder, error) {
	payload, err := json.Marshal(reminder)
	if err != nil {
		return nil, apperrors.NewUnknownError("Error setting up the request", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pathAddReminder, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.NewUnknownError("Error setting up the request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	body, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Reminder *models.Reminder `json:"reminder"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Reminder == nil {
		// Some revisions return the reminder at the top level
		var flat models.Reminder
		if err := json.Unmarshal(body, &flat); err != nil {
			return nil, apperrors.NewUnknownError("Unexpected reminder response", err)
		}
		return &flat, nil
	}
	return envelope.Reminder, nil
}

// Dashboard fetches the aggregate summary counts
func (c *Client) Dashboard(ctx context.Context) (*models.DashboardSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathDashboard, nil)
	if err != nil {
		return nil, apperrors.NewUnknownError("Error setting up the request", err)
	}

	body, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}

	var summary models.DashboardSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, apperrors.NewUnknownError("Unexpected dashboard response", err)
	}
	return &summary, nil
}

func (c *Client) upload(ctx context.Context, path, fieldName string, req *models.UploadRequest, onProgress progress.Reporter) ([]byte, error) {
	body, contentType, err := encodeMultipart(fieldName, req)
	if err != nil {
		return nil, apperrors.NewUnknownError("Error setting up the request", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()

	total := int64(body.Len())
	reader := newProgressReader(body, total, onProgress)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return nil, apperrors.NewUnknownError("Error setting up the request", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.ContentLength = total

	logger.WithFields(logrus.Fields{
		"path":       path,
		"filename":   req.Filename,
		"size_bytes": total,
	}).Debug("Uploading file")

	return c.do(httpReq)
}

// do executes a request and triages the outcome into exactly one of the
// classified failure shapes: the server answered with a failing status and a
// structured message, the request went out but no response arrived, or the
// deadline elapsed.
func (c *Client) do(req *http.Request) ([]byte, error) {
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.triageSendError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.triageSendError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewServerRejectedError(serverMessage(body, resp.StatusCode), resp.StatusCode)
	}

	return body, nil
}

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

func (c *Client) triageSendError(err error) *apperrors.OperationError {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError("The server took too long to respond", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperrors.NewTimeoutError("The server took too long to respond", err)
	}
	return apperrors.NewNetworkError("No response from server. Please check if the backend is running.", err)
}

// serverMessage extracts the backend's error string verbatim, falling back to
// its detail field and finally to the HTTP status text
func serverMessage(body []byte, statusCode int) string {
	var payload struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Detail != "" {
			return payload.Detail
		}
	}
	return fmt.Sprintf("Server returned %d %s", statusCode, http.StatusText(statusCode))
}
