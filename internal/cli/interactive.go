// Package cli helpers for interactive mode detection and prompting.
package cli

import (
	"os"

	"github.com/AlecAivazis/survey/v2"
	"golang.org/x/term"
)

// IsNonInteractive reports whether prompts should be skipped and defaults used.
func IsNonInteractive() bool {
	if nonInteractive {
		return true
	}
	if _, ok := os.LookupEnv("DOCWRIGHT_NON_INTERACTIVE"); ok {
		return true
	}
	if _, ok := os.LookupEnv("CI"); ok {
		return true
	}
	return !hasTTY()
}

// IsInteractive reports whether the session can prompt for user input.
func IsInteractive() bool {
	return !IsNonInteractive()
}

// SkipConfirmation reports whether confirmation prompts are pre-answered.
func SkipConfirmation() bool {
	return assumeYes || IsNonInteractive()
}

// confirm asks a yes/no question, defaulting to no. Callers should check
// SkipConfirmation first.
func confirm(message string) bool {
	var answer bool
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return false
	}
	return answer
}

func hasTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
