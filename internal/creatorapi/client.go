// Package creatorapi is the HTTP client for the creator registration
// service: POST /register with a JSON payload, then POST
// /upload_profile_photo with a multipart body.
package creatorapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lensfolio/lensfolio/internal/log"
	"github.com/lensfolio/lensfolio/internal/photo"
	"github.com/lensfolio/lensfolio/internal/registration"
	"github.com/lensfolio/lensfolio/internal/tracing"
)

const (
	DefaultRegisterPath = "/register"
	DefaultUploadPath   = "/upload_profile_photo"
	DefaultTimeout      = 15 * time.Second

	// RequestIDHeader carries a per-request UUID.
	RequestIDHeader = "X-Request-ID"

	// maxErrorBody caps how much of an error response is read.
	maxErrorBody = 64 << 10
)

// TransportError is a request that never produced a usable response:
// connection failures, timeouts and undecodable success bodies.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request ran past its deadline.
func (e *TransportError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// CreatorID is the identifier returned by /register. The service may send
// it as a JSON string or number.
type CreatorID string

func (id *CreatorID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = CreatorID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("creator_id: %w", err)
	}
	*id = CreatorID(n.String())
	return nil
}

// registerResponse is the success body of /register.
type registerResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	CreatorID CreatorID `json:"creator_id"`
}

// errorResponse is the failure body of either endpoint.
type errorResponse struct {
	Error string `json:"error"`
}

// Client talks to the registration service.
type Client struct {
	baseURL      string
	registerPath string
	uploadPath   string
	timeout      time.Duration
	http         *http.Client
	tracer       trace.Tracer
	newID        func() string
}

var _ registration.Registrar = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every request. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithPaths overrides the endpoint paths. Empty values keep the defaults.
func WithPaths(register, upload string) Option {
	return func(c *Client) {
		if register != "" {
			c.registerPath = register
		}
		if upload != "" {
			c.uploadPath = upload
		}
	}
}

// WithTracer sets the tracer for request spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) {
		if t != nil {
			c.tracer = t
		}
	}
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		registerPath: DefaultRegisterPath,
		uploadPath:   DefaultUploadPath,
		timeout:      DefaultTimeout,
		http:         &http.Client{},
		tracer:       otel.Tracer("lensfolio/creatorapi"),
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register sends the registration payload and returns the new creator's
// ID. Non-2xx answers come back as *registration.RejectedError.
func (c *Client) Register(ctx context.Context, p registration.Payload) (string, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding payload: %w", err)
	}

	resp, err := c.do(ctx, tracing.SpanRegister, c.registerPath, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if !success(resp.StatusCode) {
		return "", rejected(resp)
	}

	var out registerResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &TransportError{Op: "register", Err: fmt.Errorf("decoding response: %w", err)}
	}
	log.Info(log.CatHTTP, "registered", "creator_id", out.CreatorID, "message", out.Message)
	return string(out.CreatorID), nil
}

// UploadProfilePhoto sends the file at path as the creator's profile photo.
func (c *Client) UploadProfilePhoto(ctx context.Context, creatorID, path string) error {
	if _, err := photo.Check(path); err != nil {
		return err
	}
	data, err := readPhoto(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	mtype := mimetype.Detect(data)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="profile_photo"; filename=%q`, filepath.Base(path)))
	h.Set("Content-Type", mtype.String())
	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("creating photo part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("writing photo part: %w", err)
	}
	if err := w.WriteField("creator_id", creatorID); err != nil {
		return fmt.Errorf("writing creator_id: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing multipart body: %w", err)
	}

	resp, err := c.do(ctx, tracing.SpanUploadPhoto, c.uploadPath, w.FormDataContentType(), &buf,
		attribute.String(tracing.AttrPhotoMIME, mtype.String()),
		attribute.Int(tracing.AttrPhotoBytes, len(data)),
	)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if !success(resp.StatusCode) {
		return rejected(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	log.Info(log.CatHTTP, "profile photo uploaded", "creator_id", creatorID, "bytes", len(data))
	return nil
}

// readPhoto reads at most photo.MaxFileSize bytes. A file that grew past the
// cap since it was checked is rejected rather than truncated.
func readPhoto(path string) ([]byte, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is the user's staged photo
	if err != nil {
		return nil, fmt.Errorf("reading photo: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, photo.MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading photo: %w", err)
	}
	if len(data) > photo.MaxFileSize {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), photo.ErrTooLarge)
	}
	return data, nil
}

// do sends one POST under a span and the configured timeout. The returned
// response body stays readable until the caller closes it.
func (c *Client) do(ctx context.Context, span, path, contentType string, body io.Reader, attrs ...attribute.KeyValue) (*http.Response, error) {
	url := c.baseURL + path
	reqID := c.newID()

	ctx, sp := c.tracer.Start(ctx, span, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(
		attribute.String(tracing.AttrHTTPMethod, http.MethodPost),
		attribute.String(tracing.AttrHTTPURL, url),
		attribute.String(tracing.AttrRequestID, reqID),
	))
	sp.SetAttributes(attrs...)

	var cancel context.CancelFunc = func() {}
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		cancel()
		sp.End()
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		sp.RecordError(err)
		sp.SetStatus(codes.Error, "transport")
		sp.End()
		log.ErrorErr(log.CatHTTP, "request failed", err, "url", url, "request_id", reqID)
		return nil, &TransportError{Op: span, Err: err}
	}

	sp.SetAttributes(attribute.Int(tracing.AttrHTTPStatus, resp.StatusCode))
	if success(resp.StatusCode) {
		sp.SetStatus(codes.Ok, "")
	} else {
		sp.SetStatus(codes.Error, strconv.Itoa(resp.StatusCode))
	}
	log.Debug(log.CatHTTP, "response", "url", url, "status", resp.StatusCode,
		"request_id", reqID, "elapsed", time.Since(start))

	resp.Body = &spanBody{ReadCloser: resp.Body, done: func() { cancel(); sp.End() }}
	return resp, nil
}

// spanBody ends the request span and releases the timeout once the body is
// closed.
type spanBody struct {
	io.ReadCloser
	done func()
}

func (b *spanBody) Close() error {
	err := b.ReadCloser.Close()
	if b.done != nil {
		b.done()
		b.done = nil
	}
	return err
}

func success(status int) bool {
	return status >= 200 && status < 300
}

// rejected turns a non-2xx response into a RejectedError. The message is
// the body's "error" field, or the status text when there is none.
func rejected(resp *http.Response) error {
	msg := http.StatusText(resp.StatusCode)
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil {
		var body errorResponse
		if json.Unmarshal(data, &body) == nil && strings.TrimSpace(body.Error) != "" {
			msg = body.Error
		}
	}
	if msg == "" {
		msg = fmt.Sprintf("status %d", resp.StatusCode)
	}
	log.Warn(log.CatHTTP, "request rejected", "status", resp.StatusCode, "message", msg)
	return &registration.RejectedError{Status: resp.StatusCode, Message: msg}
}
