package datagen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	service "github.com/okian/energy-analytics/internal/app"
	"github.com/okian/energy-analytics/pkg/logger"
)

// UploadPath is the dashboard's upload endpoint.
const UploadPath = "/api/v1/upload"

// BackoffConfig controls exponential backoff behaviour.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Uploader posts CSV files to a dashboard with retries behind a circuit breaker.
type Uploader struct {
	baseURL string
	client  *http.Client
	backoff BackoffConfig
	cb      *gobreaker.CircuitBreaker
	log     logger.Logger
}

// UploaderOption configures an Uploader.
type UploaderOption func(*Uploader)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) UploaderOption {
	return func(u *Uploader) {
		if c != nil {
			u.client = c
		}
	}
}

// WithBackoff sets the retry policy.
func WithBackoff(b BackoffConfig) UploaderOption {
	return func(u *Uploader) {
		if b.MaxRetries >= 0 && b.InitialInterval > 0 {
			u.backoff = b
		}
	}
}

// WithUploaderLogger sets the logger.
func WithUploaderLogger(l logger.Logger) UploaderOption {
	return func(u *Uploader) {
		if l != nil {
			u.log = l
		}
	}
}

// NewUploader creates an Uploader for the dashboard at baseURL.
func NewUploader(baseURL string, opts ...UploaderOption) *Uploader {
	u := &Uploader{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		backoff: BackoffConfig{MaxRetries: 3, InitialInterval: 500 * time.Millisecond, MaxInterval: 5 * time.Second},
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	u.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "dashboard-upload",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			u.log.Warn(context.Background(), "circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})
	return u
}

// reply is a completed HTTP exchange whose status did not warrant a retry.
type reply struct {
	status int
	body   []byte
}

// Upload sends the CSV content as a multipart form and returns the view the
// dashboard rendered from it. Transport failures, 429 and 5xx answers are
// retried with exponential backoff; other 4xx answers are returned as
// *RejectedError straight away.
func (u *Uploader) Upload(ctx context.Context, name string, csv []byte) (service.View, error) {
	body, contentType, err := multipartBody(name, csv)
	if err != nil {
		return service.View{}, err
	}

	var attempt int
	for {
		if err := ctx.Err(); err != nil {
			return service.View{}, err
		}

		result, err := u.cb.Execute(func() (interface{}, error) {
			return u.post(ctx, body, contentType)
		})
		if err == nil {
			rep, ok := result.(reply)
			if !ok {
				return service.View{}, fmt.Errorf("unexpected result type from circuit breaker")
			}
			return decodeReply(rep)
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return service.View{}, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		if attempt >= u.backoff.MaxRetries {
			return service.View{}, err
		}

		delay := u.backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if u.backoff.MaxInterval > 0 && delay > u.backoff.MaxInterval {
			delay = u.backoff.MaxInterval
		}
		u.log.Warn(ctx, "upload attempt failed, retrying",
			logger.Int("attempt", attempt+1),
			logger.Duration("delay", delay),
			logger.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return service.View{}, ctx.Err()
		case <-timer.C:
		}
		attempt++
	}
}

func (u *Uploader) post(ctx context.Context, body []byte, contentType string) (reply, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+UploadPath, bytes.NewReader(body))
	if err != nil {
		return reply{}, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return reply{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return reply{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return reply{}, fmt.Errorf("%w: %d", ErrServerError, resp.StatusCode)
	}
	return reply{status: resp.StatusCode, body: data}, nil
}

func decodeReply(rep reply) (service.View, error) {
	if rep.status < 200 || rep.status >= 300 {
		rej := &RejectedError{Status: rep.status}
		var e struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(rep.body, &e) == nil {
			rej.Code, rej.Message = e.Code, e.Message
		}
		if rej.Message == "" {
			rej.Message = http.StatusText(rep.status)
		}
		return service.View{}, rej
	}
	var v service.View
	if err := json.Unmarshal(rep.body, &v); err != nil {
		return service.View{}, fmt.Errorf("decode view: %w", err)
	}
	return v, nil
}

func multipartBody(name string, csv []byte) ([]byte, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filepath.Base(name))
	if err != nil {
		return nil, "", fmt.Errorf("build form: %w", err)
	}
	if _, err := fw.Write(csv); err != nil {
		return nil, "", fmt.Errorf("build form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("build form: %w", err)
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}
