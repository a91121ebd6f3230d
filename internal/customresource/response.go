package customresource

import (
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/lambdacontext"
)

// DataKeyError is the Data attribute that carries a failure description.
const DataKeyError = "Error"

// maxMessageLen keeps Reason and Data.Error well below the 4096-byte limit
// CloudFormation imposes on the whole response document.
const maxMessageLen = 1024

// logStreamName is read through a variable so tests can pin it.
var logStreamName = func() string { return lambdacontext.LogStreamName }

// NewResponse builds the response document for event.
//
// An empty physicalID falls back to the event's PhysicalResourceId, then to the
// Lambda log stream name, then to the request id.
func NewResponse(event *cfn.Event, status cfn.StatusType, data map[string]any, physicalID string) *cfn.Response {
	stream := logStreamName()

	resp := &cfn.Response{
		Status:             status,
		RequestID:          event.RequestID,
		LogicalResourceID:  event.LogicalResourceID,
		StackID:            event.StackID,
		PhysicalResourceID: firstNonEmpty(physicalID, event.PhysicalResourceID, stream, event.RequestID),
		Data:               data,
	}
	if stream != "" {
		resp.Reason = "See the details in CloudWatch Log Stream: " + stream
	}
	return resp
}

// Succeeded builds a SUCCESS response with no data.
func Succeeded(event *cfn.Event, physicalID string) *cfn.Response {
	return NewResponse(event, cfn.StatusSuccess, map[string]any{}, physicalID)
}

// Failed builds a FAILED response whose Reason and Data.Error describe err.
func Failed(event *cfn.Event, err error, physicalID string) *cfn.Response {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = Truncate(err.Error(), maxMessageLen)
	}

	resp := NewResponse(event, cfn.StatusFailed, map[string]any{DataKeyError: msg}, physicalID)
	resp.Reason = msg
	return resp
}

// Truncate shortens s to at most n bytes, marking the cut. The cut never
// splits a UTF-8 sequence.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	const marker = " ...(truncated)"
	if n <= len(marker) {
		return s[:runeBoundary(s, n)]
	}
	return s[:runeBoundary(s, n-len(marker))] + marker
}

// runeBoundary moves i back to the start of the rune it falls in.
func runeBoundary(s string, i int) int {
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
