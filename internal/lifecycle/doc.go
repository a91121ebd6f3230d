// Package lifecycle implements the custom-resource lifecycle handler.
//
// One invocation runs a fixed sequence of steps: parse the resource
// properties, write the values file, configure cluster access, ensure the
// namespace, then either deploy the release (Create/Update) or remove it
// (Delete). Every step returns an explicit error; [Resolve] is the single place
// that maps an error to the status CloudFormation sees, or decides that no
// response is sent at all.
package lifecycle
