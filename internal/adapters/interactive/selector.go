package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// PromptRunner shows prompts to the operator. It is replaced in tests.
type PromptRunner interface {
	Confirm(label string) (bool, error)
	Select(label string, items []string) (int, error)
}

// Prompter asks the operator through promptui
type Prompter struct {
	config *config.RuntimeConfig
	runner PromptRunner
}

// NewPrompter creates a new prompter
func NewPrompter(cfg *config.RuntimeConfig) *Prompter {
	return &Prompter{config: cfg, runner: promptuiRunner{}}
}

// NewPrompterWithRunner creates a prompter with a custom runner
func NewPrompterWithRunner(cfg *config.RuntimeConfig, runner PromptRunner) *Prompter {
	return &Prompter{config: cfg, runner: runner}
}

// Confirm asks a yes/no question. Non-interactive mode never confirms.
func (p *Prompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if p.config.NonInteractive {
		return false, fmt.Errorf("confirmation required but running non-interactively, pass --yes")
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return p.runner.Confirm(prompt)
}

// SelectDeployment picks one of names; a single candidate is returned directly
func (p *Prompter) SelectDeployment(ctx context.Context, names []string, prompt string) (string, error) {
	if len(names) == 0 {
		return "", fmt.Errorf("no deployments to select from")
	}
	if len(names) == 1 {
		return names[0], nil
	}
	if p.config.NonInteractive {
		return "", fmt.Errorf("multiple deployments match (%s), pass a contract name", strings.Join(names, ", "))
	}

	index, err := p.runner.Select(prompt, names)
	if err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}
	return names[index], nil
}

type promptuiRunner struct{}

func (promptuiRunner) Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		// promptui reports "n" as ErrAbort
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (promptuiRunner) Select(label string, items []string) (int, error) {
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             label,
		Items:             items,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(items),
	}
	index, _, err := promptSelect.Run()
	return index, err
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])
		if strings.Contains(item, input) {
			return true
		}
		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

var _ usecase.Confirmer = (*Prompter)(nil)
