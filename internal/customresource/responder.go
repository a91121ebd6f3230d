package customresource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-lambda-go/cfn"
)

// ErrNoResponseURL is returned when an event carries no callback URL.
var ErrNoResponseURL = errors.New("event has no ResponseURL")

// Responder delivers the lifecycle response for an event.
type Responder interface {
	Send(ctx context.Context, event *cfn.Event, resp *cfn.Response) error
}

// HTTPResponder PUTs the response document to the event's pre-signed S3 URL.
type HTTPResponder struct {
	Client *http.Client
}

// NewHTTPResponder returns an HTTPResponder using client, or
// http.DefaultClient when client is nil.
func NewHTTPResponder(client *http.Client) *HTTPResponder {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPResponder{Client: client}
}

// Send performs a single PUT. Any non-2xx status is an error.
func (r *HTTPResponder) Send(ctx context.Context, event *cfn.Event, resp *cfn.Response) error {
	if event.ResponseURL == "" {
		return ErrNoResponseURL
	}

	body, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, event.ResponseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build response request: %w", err)
	}
	// The pre-signed URL is signed without a content type.
	req.Header.Set("Content-Type", "")
	req.ContentLength = int64(len(body))

	res, err := r.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("response URL returned HTTP %d: %s", res.StatusCode, bytes.TrimSpace(snippet))
	}
	_, _ = io.Copy(io.Discard, res.Body)

	return nil
}

// WriterResponder writes the response document as indented JSON.
// Used when running events locally.
type WriterResponder struct {
	W io.Writer
}

// Send writes resp to the underlying writer.
func (r *WriterResponder) Send(_ context.Context, _ *cfn.Event, resp *cfn.Response) error {
	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	if _, err := fmt.Fprintln(r.W, string(out)); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}
