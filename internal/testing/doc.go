// Package testing provides test utilities, builders, and fakes shared by the
// handler's unit tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - EventBuilder: Fluent builder for CloudFormation lifecycle events
//   - ConfigBuilder: Fluent builder for handler configurations
//   - FakeRunner: Records subprocess invocations and scripts their results
//   - RecordingResponder: Captures lifecycle responses instead of sending them
//
// Usage:
//
//	event := testing.NewEventBuilder().
//	    WithRequestType(cfn.RequestDelete).
//	    WithProperty("Namespace", "ns1").
//	    Build()
//
//	runner := &testing.FakeRunner{}
//	runner.FailOn("helm upgrade", 1, "timed out waiting for the condition")
package testing
