package testing

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/cfn"
)

// RecordingResponder captures responses instead of delivering them.
type RecordingResponder struct {
	mu        sync.Mutex
	responses []*cfn.Response

	// Err is returned from every Send.
	Err error
}

// Send records resp.
func (r *RecordingResponder) Send(_ context.Context, _ *cfn.Event, resp *cfn.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append(r.responses, resp)
	return r.Err
}

// Responses returns every recorded response in order.
func (r *RecordingResponder) Responses() []*cfn.Response {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*cfn.Response(nil), r.responses...)
}

// Last returns the most recent response, or nil.
func (r *RecordingResponder) Last() *cfn.Response {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.responses) == 0 {
		return nil
	}
	return r.responses[len(r.responses)-1]
}
