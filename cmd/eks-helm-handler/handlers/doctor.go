package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/imamik/eks-helm-handler/internal/config"
	"github.com/imamik/eks-helm-handler/internal/util/prerequisites"
)

// checkTools is replaced in tests.
var checkTools = prerequisites.CheckDefault

// DoctorStatus is the result of an environment check.
type DoctorStatus struct {
	Ready       bool           `json:"ready"`
	Config      *ConfigSummary `json:"config,omitempty"`
	ConfigError string         `json:"configError,omitempty"`
	Tools       []ToolHealth   `json:"tools"`
}

// ConfigSummary is the effective configuration shown by doctor.
type ConfigSummary struct {
	Region              string `json:"region"`
	ReleaseName         string `json:"releaseName"`
	Kubeconfig          string `json:"kubeconfig,omitempty"`
	ValuesDir           string `json:"valuesDir,omitempty"`
	VerifyCluster       bool   `json:"verifyCluster"`
	ReportEarlyFailures bool   `json:"reportEarlyFailures"`
	ResponseReserve     string `json:"responseReserve"`
	CallbackTimeout     string `json:"callbackTimeout"`
	PushgatewayURL      string `json:"pushgatewayURL,omitempty"`
}

// ToolHealth is the state of one required CLI.
type ToolHealth struct {
	Name       string `json:"name"`
	Found      bool   `json:"found"`
	Path       string `json:"path,omitempty"`
	Version    string `json:"version,omitempty"`
	InstallURL string `json:"installURL,omitempty"`
}

var (
	doctorColorGreen = lipgloss.Color("#22c55e")
	doctorColorRed   = lipgloss.Color("#ef4444")
	doctorColorBlue  = lipgloss.Color("#3b82f6")
	doctorColorDim   = lipgloss.Color("#6b7280")
	doctorColorWhite = lipgloss.Color("#f9fafb")
)

var (
	doctorTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(doctorColorWhite)

	doctorSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(doctorColorBlue)

	doctorDimStyle = lipgloss.NewStyle().
			Foreground(doctorColorDim)

	doctorOKStyle = lipgloss.NewStyle().
			Foreground(doctorColorGreen)

	doctorFailStyle = lipgloss.NewStyle().
			Foreground(doctorColorRed)
)

// Doctor checks the tools and configuration the handler depends on.
// It returns an error when the handler could not run.
func Doctor(ctx context.Context, jsonOutput bool, out io.Writer) error {
	status := diagnose(ctx)

	var err error
	switch {
	case jsonOutput:
		err = printDoctorJSON(out, status)
	case isInteractiveTTY(out):
		_, err = io.WriteString(out, renderDoctorStyled(status))
	default:
		printDoctorFormatted(out, status)
	}
	if err != nil {
		return err
	}

	if !status.Ready {
		return errors.New("environment is not ready")
	}
	return nil
}

func diagnose(ctx context.Context) *DoctorStatus {
	status := &DoctorStatus{}

	bins := config.EnvBinaries()
	cfg, err := loadConfig(ctx)
	if err != nil {
		status.ConfigError = err.Error()
	} else {
		bins = cfg.Binaries()
		status.Config = &ConfigSummary{
			Region:              cfg.Region,
			ReleaseName:         cfg.ReleaseName,
			Kubeconfig:          cfg.KubeconfigPath,
			ValuesDir:           cfg.ValuesDir,
			VerifyCluster:       cfg.VerifyCluster,
			ReportEarlyFailures: cfg.ReportEarlyFailures,
			ResponseReserve:     cfg.ResponseReserve.String(),
			CallbackTimeout:     cfg.CallbackTimeout.String(),
			PushgatewayURL:      cfg.PushgatewayURL,
		}
	}

	results := checkTools(bins)
	for _, r := range results.Results {
		status.Tools = append(status.Tools, ToolHealth{
			Name:       r.Tool.Name,
			Found:      r.Found,
			Path:       r.Path,
			Version:    r.Version,
			InstallURL: r.Tool.InstallURL,
		})
	}

	status.Ready = status.Config != nil && !results.HasErrors()
	return status
}

func printDoctorJSON(out io.Writer, status *DoctorStatus) error {
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func printDoctorFormatted(out io.Writer, status *DoctorStatus) {
	fmt.Fprintln(out)
	title := "eks-helm-handler doctor"
	fmt.Fprintf(out, "  %s\n", title)
	fmt.Fprintln(out, "  "+strings.Repeat("═", len(title)))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  Tools")
	fmt.Fprintln(out, "  "+strings.Repeat("─", 35))
	for _, tool := range status.Tools {
		printRow(out, tool.Name, tool.Found, toolExtra(tool))
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  Configuration")
	fmt.Fprintln(out, "  "+strings.Repeat("─", 35))
	if status.Config == nil {
		printRow(out, "config", false, status.ConfigError)
	} else {
		for _, kv := range configRows(status.Config) {
			fmt.Fprintf(out, "    %-22s %s\n", kv[0], kv[1])
		}
	}
	fmt.Fprintln(out)
}

func renderDoctorStyled(status *DoctorStatus) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(doctorTitleStyle.Render("  eks-helm-handler doctor"))
	b.WriteString("\n")
	b.WriteString(doctorDimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n\n")

	b.WriteString(doctorSectionStyle.Render("  Tools"))
	b.WriteString("\n")
	for _, tool := range status.Tools {
		b.WriteString(styledRow(tool.Name, tool.Found, toolExtra(tool)))
	}
	b.WriteString("\n")

	b.WriteString(doctorSectionStyle.Render("  Configuration"))
	b.WriteString("\n")
	if status.Config == nil {
		b.WriteString(styledRow("config", false, status.ConfigError))
	} else {
		for _, kv := range configRows(status.Config) {
			b.WriteString(fmt.Sprintf("    %-22s %s\n", kv[0], doctorDimStyle.Render(kv[1])))
		}
	}
	b.WriteString("\n")

	return b.String()
}

func configRows(c *ConfigSummary) [][2]string {
	orNone := func(s string) string {
		if s == "" {
			return "(default)"
		}
		return s
	}
	return [][2]string{
		{"Region", c.Region},
		{"Release", c.ReleaseName},
		{"Kubeconfig", orNone(c.Kubeconfig)},
		{"Values dir", orNone(c.ValuesDir)},
		{"Verify cluster", fmt.Sprintf("%t", c.VerifyCluster)},
		{"Report early failures", fmt.Sprintf("%t", c.ReportEarlyFailures)},
		{"Response reserve", c.ResponseReserve},
		{"Callback timeout", c.CallbackTimeout},
		{"Pushgateway", orNone(c.PushgatewayURL)},
	}
}

func toolExtra(tool ToolHealth) string {
	if !tool.Found {
		return "not found, see " + tool.InstallURL
	}
	if tool.Version != "" {
		return tool.Version
	}
	return tool.Path
}

func printRow(out io.Writer, name string, ok bool, extra string) {
	indicator := "✅" // green check
	if !ok {
		indicator = "❌" // red X
	}

	if extra != "" {
		fmt.Fprintf(out, "  %s  %-20s %s\n", indicator, name, extra)
	} else {
		fmt.Fprintf(out, "  %s  %s\n", indicator, name)
	}
}

func styledRow(name string, ok bool, extra string) string {
	indicator := doctorOKStyle.Render("✓")
	if !ok {
		indicator = doctorFailStyle.Render("✗")
	}
	return fmt.Sprintf("    %s %-20s %s\n", indicator, name, doctorDimStyle.Render(extra))
}

func isInteractiveTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
