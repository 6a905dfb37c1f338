package cli

import (
	"testing"
	"time"

	"github.com/docwright-ai/docwright/internal/generator"
	"github.com/docwright-ai/docwright/internal/models"
)

func TestParseVarFlags(t *testing.T) {
	vars, err := parseVarFlags([]string{"owner=platform-team", "slo=99.9", "note=a=b"})
	if err != nil {
		t.Fatalf("parseVarFlags: %v", err)
	}
	if len(vars) != 3 {
		t.Fatalf("expected 3 variables, got %d", len(vars))
	}
	if vars["owner"] != "platform-team" {
		t.Errorf("expected owner=platform-team, got %v", vars["owner"])
	}
	if vars["note"] != "a=b" {
		t.Errorf("expected value to keep embedded '=', got %v", vars["note"])
	}
}

func TestParseVarFlagsEmpty(t *testing.T) {
	vars, err := parseVarFlags(nil)
	if err != nil {
		t.Fatalf("parseVarFlags: %v", err)
	}
	if vars != nil {
		t.Errorf("expected nil map for no flags, got %v", vars)
	}
}

func TestParseVarFlagsInvalid(t *testing.T) {
	for _, pair := range []string{"novalue", "=orphan", "  =x"} {
		if _, err := parseVarFlags([]string{pair}); err == nil {
			t.Errorf("expected error for %q", pair)
		}
	}
}

func TestFirstNonEmpty(t *testing.T) {
	tests := []struct {
		values []string
		want   string
	}{
		{[]string{"", "fallback"}, "fallback"},
		{[]string{"first", "second"}, "first"},
		{[]string{"  ", "trimmed"}, "trimmed"},
		{[]string{"", ""}, ""},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := firstNonEmpty(tt.values...); got != tt.want {
			t.Errorf("firstNonEmpty(%v) = %q, want %q", tt.values, got, tt.want)
		}
	}
}

func TestReportFromResult(t *testing.T) {
	result := &generator.Result{
		OutputPath:    "docs/overview.md",
		Status:        models.RunStatusOK,
		FilesAnalyzed: 12,
		Enhanced:      true,
		TokensUsed:    1500,
		CostCents:     3,
		Duration:      1500 * time.Millisecond,
	}

	report := reportFromResult("overview", result)
	if report.Template != "overview" {
		t.Errorf("expected template overview, got %q", report.Template)
	}
	if report.OutputPath != "docs/overview.md" {
		t.Errorf("expected output path docs/overview.md, got %q", report.OutputPath)
	}
	if report.DurationMS != 1500 {
		t.Errorf("expected 1500ms, got %d", report.DurationMS)
	}
	if !report.Enhanced || report.TokensUsed != 1500 || report.CostCents != 3 {
		t.Errorf("unexpected enhancement fields: %+v", report)
	}
}
