package docker

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chainward/devkit/internal/execx"
)

// Severity levels as reported by the scanner.
const (
	SeverityCritical = "CRITICAL"
	SeverityHigh     = "HIGH"
	SeverityMedium   = "MEDIUM"
	SeverityLow      = "LOW"
	SeverityUnknown  = "UNKNOWN"
)

// VulnerabilityCounts maps a severity level to the number of findings.
type VulnerabilityCounts map[string]int

// ScanReport is the outcome of a vulnerability scan.
type ScanReport struct {
	// Passed is true when no CRITICAL vulnerabilities were found.
	Passed bool `json:"passed"`
	// Format is the scanner output mode used (text or json).
	Format string `json:"format"`
	// Output is the raw scanner output.
	Output string `json:"output,omitempty"`
	// Counts aggregates findings per severity (json mode only).
	Counts VulnerabilityCounts `json:"vulnerability_counts,omitempty"`
}

// Scanner wraps the trivy vulnerability scanner.
type Scanner struct {
	run execx.Runner
}

// NewScanner returns a Scanner backed by the given runner.
func NewScanner(run execx.Runner) *Scanner {
	return &Scanner{run: run}
}

// trivy JSON report, reduced to the fields the gate decision needs.
type trivyReport struct {
	Results []trivyResult `json:"Results"`
}

type trivyResult struct {
	Target          string               `json:"Target"`
	Vulnerabilities []trivyVulnerability `json:"Vulnerabilities"`
}

type trivyVulnerability struct {
	VulnerabilityID string `json:"VulnerabilityID"`
	Severity        string `json:"Severity"`
}

// Scan scans the image. A missing scanner is a distinct tool-not-found
// error, never conflated with "scan found issues".
//
// In json mode the structured report is parsed and the gate is
// counts[CRITICAL] == 0. In text mode the gate is a substring check for
// CRITICAL, which can disagree with json mode on edge cases (a package
// named CRITICAL, say); the simpler detection is kept on purpose for
// human-readable runs.
func (s *Scanner) Scan(image, format string) (*ScanReport, error) {
	if !s.run.LookPath("trivy") {
		return nil, &execx.ToolNotFoundError{Tool: "trivy"}
	}

	argv := []string{"trivy", "image"}
	if format == "json" {
		argv = append(argv, "--format", "json")
	}
	argv = append(argv, image)

	result, err := s.run.Run(argv)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", image, err)
	}

	report := &ScanReport{Format: format, Output: result.Stdout}

	if format == "json" {
		var parsed trivyReport
		if jsonErr := json.Unmarshal([]byte(result.Stdout), &parsed); jsonErr != nil {
			// Parse failure falls back to the text heuristic rather
			// than hard-failing the stage.
			report.Passed = !strings.Contains(result.Stdout, SeverityCritical)
			return report, nil
		}
		report.Counts = aggregateCounts(parsed)
		report.Passed = report.Counts[SeverityCritical] == 0
		return report, nil
	}

	report.Passed = !strings.Contains(result.Stdout, SeverityCritical)
	return report, nil
}

// aggregateCounts sums findings per severity across all result groups.
func aggregateCounts(report trivyReport) VulnerabilityCounts {
	counts := VulnerabilityCounts{
		SeverityCritical: 0,
		SeverityHigh:     0,
		SeverityMedium:   0,
		SeverityLow:      0,
		SeverityUnknown:  0,
	}
	for _, result := range report.Results {
		for _, vuln := range result.Vulnerabilities {
			severity := strings.ToUpper(vuln.Severity)
			if _, known := counts[severity]; !known {
				severity = SeverityUnknown
			}
			counts[severity]++
		}
	}
	return counts
}
