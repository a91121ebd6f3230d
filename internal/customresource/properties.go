package customresource

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/validation"
)

// Resource property keys.
const (
	KeyClusterName  = "ClusterName"
	KeyNamespace    = "Namespace"
	KeyChartRepo    = "ChartRepo"
	KeyChartName    = "ChartName"
	KeyChartVersion = "ChartVersion"
	KeyValues       = "Values"
)

// RequiredKeys lists the properties every lifecycle event must carry.
var RequiredKeys = []string{
	KeyClusterName,
	KeyNamespace,
	KeyChartRepo,
	KeyChartName,
	KeyChartVersion,
	KeyValues,
}

// ErrInvalidProperties is matched by every property validation error.
var ErrInvalidProperties = errors.New("invalid resource properties")

// MissingPropertyError reports a required key absent from ResourceProperties.
type MissingPropertyError struct {
	Key string
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("missing required resource property %q", e.Key)
}

func (e *MissingPropertyError) Is(target error) bool {
	return target == ErrInvalidProperties
}

// InvalidPropertyError reports a property whose value cannot be used.
type InvalidPropertyError struct {
	Key    string
	Reason string
}

func (e *InvalidPropertyError) Error() string {
	return fmt.Sprintf("invalid resource property %q: %s", e.Key, e.Reason)
}

func (e *InvalidPropertyError) Is(target error) bool {
	return target == ErrInvalidProperties
}

// Properties is the validated view of a lifecycle event's resource properties.
type Properties struct {
	ClusterName  string
	Namespace    string
	ChartRepo    string
	ChartName    string
	ChartVersion string

	// Values is the YAML document handed to helm as a values file.
	Values string
}

// ParseProperties extracts the required keys from raw ResourceProperties.
//
// Scalar properties must be strings, which is how CloudFormation delivers
// them. Values may also be a mapping declared inline in the template; it is
// then encoded as YAML.
func ParseProperties(raw map[string]any) (*Properties, error) {
	for _, key := range RequiredKeys {
		if _, ok := raw[key]; !ok {
			return nil, &MissingPropertyError{Key: key}
		}
	}

	var (
		props Properties
		err   error
	)

	if props.ClusterName, err = stringProperty(raw, KeyClusterName); err != nil {
		return nil, err
	}
	if props.Namespace, err = stringProperty(raw, KeyNamespace); err != nil {
		return nil, err
	}
	if props.ChartRepo, err = stringProperty(raw, KeyChartRepo); err != nil {
		return nil, err
	}
	if props.ChartName, err = stringProperty(raw, KeyChartName); err != nil {
		return nil, err
	}
	if props.ChartVersion, err = stringProperty(raw, KeyChartVersion); err != nil {
		return nil, err
	}
	if props.Values, err = valuesText(raw[KeyValues]); err != nil {
		return nil, err
	}

	if err := props.validate(); err != nil {
		return nil, err
	}

	return &props, nil
}

func (p *Properties) validate() error {
	if strings.TrimSpace(p.ClusterName) == "" {
		return &InvalidPropertyError{Key: KeyClusterName, Reason: "must not be empty"}
	}
	if strings.TrimSpace(p.ChartRepo) == "" {
		return &InvalidPropertyError{Key: KeyChartRepo, Reason: "must not be empty"}
	}
	if errs := validation.IsDNS1123Label(p.Namespace); len(errs) > 0 {
		return &InvalidPropertyError{Key: KeyNamespace, Reason: strings.Join(errs, "; ")}
	}
	return nil
}

func stringProperty(raw map[string]any, key string) (string, error) {
	s, ok := raw[key].(string)
	if !ok {
		return "", &InvalidPropertyError{Key: key, Reason: fmt.Sprintf("expected a string, got %T", raw[key])}
	}
	return s, nil
}

// valuesText returns the Values property as YAML text.
func valuesText(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case nil:
		return "", nil
	case map[string]any:
		out, err := yaml.Marshal(val)
		if err != nil {
			return "", &InvalidPropertyError{Key: KeyValues, Reason: err.Error()}
		}
		return string(out), nil
	default:
		return "", &InvalidPropertyError{Key: KeyValues, Reason: fmt.Sprintf("expected a YAML string or mapping, got %T", v)}
	}
}
