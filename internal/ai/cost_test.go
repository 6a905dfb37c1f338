package ai

import "testing"

func TestEstimateCostCents(t *testing.T) {
	tests := []struct {
		name  string
		model string
		usage Usage
		want  int64
	}{
		{
			name:  "gpt-4o one million input tokens",
			model: "gpt-4o",
			usage: Usage{PromptTokens: 1_000_000},
			want:  250,
		},
		{
			name:  "gpt-4o mixed usage",
			model: "gpt-4o",
			usage: Usage{PromptTokens: 1_000_000, CompletionTokens: 1_000_000},
			want:  1250,
		},
		{
			name:  "versioned mini matches mini rates not 4o rates",
			model: "gpt-4o-mini-2024-07-18",
			usage: Usage{PromptTokens: 1_000_000},
			want:  15,
		},
		{
			name:  "small call rounds up to one cent",
			model: "gpt-4o",
			usage: Usage{PromptTokens: 1000},
			want:  1,
		},
		{
			name:  "zero usage costs nothing",
			model: "gpt-4o",
			usage: Usage{},
			want:  0,
		},
		{
			name:  "unknown model costs nothing",
			model: "llama-3-70b",
			usage: Usage{PromptTokens: 1_000_000},
			want:  0,
		},
		{
			name:  "gpt-4.1 family",
			model: "gpt-4.1-nano",
			usage: Usage{CompletionTokens: 1_000_000},
			want:  40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateCostCents(tt.model, tt.usage); got != tt.want {
				t.Errorf("EstimateCostCents(%q) = %d, want %d", tt.model, got, tt.want)
			}
		})
	}
}
