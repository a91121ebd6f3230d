package testing

import (
	"maps"
	"time"

	"github.com/aws/aws-lambda-go/cfn"

	"github.com/imamik/eks-helm-handler/internal/config"
)

// EventBuilder provides a fluent interface for constructing lifecycle events.
// Each method returns a new builder (immutable) for chaining.
type EventBuilder struct {
	event cfn.Event
}

// NewEventBuilder creates a Create event with a complete set of properties.
func NewEventBuilder() *EventBuilder {
	return &EventBuilder{
		event: cfn.Event{
			RequestType:       cfn.RequestCreate,
			RequestID:         "6f1c1a8e-0b9e-4c1e-9d55-3b0f7c1d2a10",
			ResponseURL:       "https://cloudformation-custom-resource-response-useast1.s3.amazonaws.com/test",
			ResourceType:      "Custom::HelmChart",
			LogicalResourceID: "AckSageMaker",
			StackID:           "arn:aws:cloudformation:us-east-1:123456789012:stack/demo/0a1b2c3d",
			ResourceProperties: map[string]any{
				"ServiceToken": "arn:aws:lambda:us-east-1:123456789012:function:ack-helm-handler",
				"ClusterName":  "c1",
				"Namespace":    "ns1",
				"ChartRepo":    "repo/chart",
				"ChartName":    "chart",
				"ChartVersion": "1.2.3",
				"Values":       "key: val",
			},
		},
	}
}

// WithRequestType sets the lifecycle request type.
func (b *EventBuilder) WithRequestType(rt cfn.RequestType) *EventBuilder {
	nb := b.clone()
	nb.event.RequestType = rt
	return nb
}

// WithResponseURL sets the callback URL.
func (b *EventBuilder) WithResponseURL(url string) *EventBuilder {
	nb := b.clone()
	nb.event.ResponseURL = url
	return nb
}

// WithPhysicalResourceID sets the physical id CloudFormation already knows.
func (b *EventBuilder) WithPhysicalResourceID(id string) *EventBuilder {
	nb := b.clone()
	nb.event.PhysicalResourceID = id
	return nb
}

// WithProperty sets a resource property.
func (b *EventBuilder) WithProperty(key string, value any) *EventBuilder {
	nb := b.clone()
	nb.event.ResourceProperties[key] = value
	return nb
}

// WithoutProperty removes a resource property.
func (b *EventBuilder) WithoutProperty(key string) *EventBuilder {
	nb := b.clone()
	delete(nb.event.ResourceProperties, key)
	return nb
}

// WithOldProperties sets OldResourceProperties, as sent on Update.
func (b *EventBuilder) WithOldProperties(props map[string]any) *EventBuilder {
	nb := b.clone()
	nb.event.OldResourceProperties = maps.Clone(props)
	return nb
}

// Build returns the constructed event.
func (b *EventBuilder) Build() *cfn.Event {
	out := b.clone().event
	return &out
}

func (b *EventBuilder) clone() *EventBuilder {
	nb := &EventBuilder{event: b.event}
	nb.event.ResourceProperties = maps.Clone(b.event.ResourceProperties)
	nb.event.OldResourceProperties = maps.Clone(b.event.OldResourceProperties)
	return nb
}

// ConfigBuilder provides a fluent interface for constructing handler configs.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a valid configuration with the SDK preflight disabled.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: config.Config{
			Region:          "us-east-1",
			ReleaseName:     config.DefaultReleaseName,
			AWSBinary:       config.DefaultAWSBinary,
			KubectlBinary:   config.DefaultKubectlBinary,
			HelmBinary:      config.DefaultHelmBinary,
			ResponseReserve: config.DefaultResponseReserve,
			CallbackTimeout: 5 * time.Second,
		},
	}
}

// WithRegion sets the region.
func (b *ConfigBuilder) WithRegion(region string) *ConfigBuilder {
	nb := *b
	nb.cfg.Region = region
	return &nb
}

// WithReleaseName sets the release identity.
func (b *ConfigBuilder) WithReleaseName(name string) *ConfigBuilder {
	nb := *b
	nb.cfg.ReleaseName = name
	return &nb
}

// WithKubeconfig sets the kubeconfig path.
func (b *ConfigBuilder) WithKubeconfig(path string) *ConfigBuilder {
	nb := *b
	nb.cfg.KubeconfigPath = path
	return &nb
}

// WithValuesDir sets the directory values files are written to.
func (b *ConfigBuilder) WithValuesDir(dir string) *ConfigBuilder {
	nb := *b
	nb.cfg.ValuesDir = dir
	return &nb
}

// WithReportEarlyFailures toggles reporting of early-step failures.
func (b *ConfigBuilder) WithReportEarlyFailures(report bool) *ConfigBuilder {
	nb := *b
	nb.cfg.ReportEarlyFailures = report
	return &nb
}

// WithResponseReserve sets the time kept back from the deadline.
func (b *ConfigBuilder) WithResponseReserve(d time.Duration) *ConfigBuilder {
	nb := *b
	nb.cfg.ResponseReserve = d
	return &nb
}

// Build returns a copy of the configuration.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.cfg
	return &cfg
}
