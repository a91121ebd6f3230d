package lifecycle

import (
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/cfn"
)

// Kind classifies a step failure.
type Kind int

const (
	// KindInvalidRequest covers missing or malformed properties and unknown request types.
	KindInvalidRequest Kind = iota + 1
	// KindValuesFile covers failures writing the values payload to disk.
	KindValuesFile
	// KindClusterAccess covers cluster credential setup.
	KindClusterAccess
	// KindNamespace covers the namespace ensure step.
	KindNamespace
	// KindDeploy covers values validation and the install/upgrade itself.
	KindDeploy
)

func (k Kind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid-request"
	case KindValuesFile:
		return "values-file"
	case KindClusterAccess:
		return "cluster-access"
	case KindNamespace:
		return "namespace"
	case KindDeploy:
		return "deploy"
	default:
		return "unknown"
	}
}

// Step names used in logs, errors and metrics.
const (
	StepProperties    = "properties"
	StepValuesFile    = "values-file"
	StepClusterAccess = "cluster-access"
	StepNamespace     = "namespace"
	StepValidate      = "validate-values"
	StepDeploy        = "deploy"
	StepUninstall     = "uninstall"
	StepDeleteSecrets = "delete-secrets"
)

// StepError is the error returned by a failed step.
type StepError struct {
	Kind Kind
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func stepError(kind Kind, step string, err error) error {
	return &StepError{Kind: kind, Step: step, Err: err}
}

// KindOf returns the kind of the StepError in err's chain, or 0.
func KindOf(err error) Kind {
	var se *StepError
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

// Disposition is the externally visible result of an invocation.
type Disposition struct {
	// Report is false when no response is sent and CloudFormation is left to
	// time out the operation.
	Report bool
	Status cfn.StatusType
}

// Resolve maps an invocation error to its disposition.
//
// Only deploy failures are reported as FAILED. Failures of the earlier steps
// are not reported unless reportEarly is set, which leaves CloudFormation
// waiting until its own timeout.
func Resolve(err error, reportEarly bool) Disposition {
	if err == nil {
		return Disposition{Report: true, Status: cfn.StatusSuccess}
	}
	if KindOf(err) == KindDeploy || reportEarly {
		return Disposition{Report: true, Status: cfn.StatusFailed}
	}
	return Disposition{Report: false, Status: cfn.StatusFailed}
}
