package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-lambda-go/cfn"
	"sigs.k8s.io/yaml"

	"github.com/imamik/eks-helm-handler/internal/customresource"
)

// ErrNotReported is returned by Invoke when the handler decided not to send a
// response.
var ErrNotReported = errors.New("no response sent")

// Invoke runs the event stored at eventPath through the lifecycle handler.
// The response goes to out when printOnly is set or the event has no
// ResponseURL.
func Invoke(ctx context.Context, eventPath string, printOnly bool, out io.Writer) error {
	event, err := readEvent(eventPath)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var responder customresource.Responder
	if printOnly || event.ResponseURL == "" {
		responder = &customresource.WriterResponder{W: out}
	}

	h, err := newHandler(ctx, cfg, responder)
	if err != nil {
		return fmt.Errorf("failed to create handler: %w", err)
	}

	outcome := h.Handle(ctx, event)
	if !outcome.Disposition.Report {
		return fmt.Errorf("%w: %w", ErrNotReported, outcome.Err)
	}
	return outcome.CallbackErr
}

// readEvent loads a custom-resource event from a JSON or YAML file.
func readEvent(path string) (*cfn.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event file: %w", err)
	}

	var event cfn.Event
	if err := yaml.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("failed to parse event file %s: %w", path, err)
	}
	if event.RequestType == "" {
		return nil, fmt.Errorf("event file %s has no RequestType", path)
	}
	return &event, nil
}
