// Package prompt asks the operator yes/no questions on the terminal.
package prompt

import (
	"errors"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/conn-castle/rancher-client/internal/messages"
	"github.com/conn-castle/rancher-client/internal/terminal"
)

// ErrRequiresTerminal is returned when a prompt is needed but stdin or
// stdout is not a terminal.
var ErrRequiresTerminal = errors.New(messages.UpgradeConfirmRequiresTerminal)

// ErrCancelled is returned when the operator leaves the prompt with Esc or Ctrl+C.
var ErrCancelled = errors.New(messages.PromptCancelled)

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// HuhConfirmer renders confirmations with charmbracelet/huh.
type HuhConfirmer struct {
	isTerminal func() bool
}

// NewHuhConfirmer creates a confirmer using terminal.IsInteractive.
func NewHuhConfirmer() *HuhConfirmer {
	return &HuhConfirmer{isTerminal: terminal.IsInteractive}
}

// keyMap binds both Esc and Ctrl+C to abort and hides filtering, which a
// single confirm field never needs.
func keyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "cancel"))
	km.Select.Filter.SetEnabled(false)
	return km
}

// Confirm asks title and returns the answer. Cancelling returns ErrCancelled.
func (c *HuhConfirmer) Confirm(title string) (bool, error) {
	checker := c.isTerminal
	if checker == nil {
		checker = terminal.IsInteractive
	}
	if !checker() {
		return false, ErrRequiresTerminal
	}

	var answer bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative(messages.PromptYes).
				Negative(messages.PromptNo).
				Value(&answer),
		),
	)
	form.WithKeyMap(keyMap())
	form.WithProgramOptions(tea.WithOutput(os.Stderr))

	err := runFormFunc(form)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, ErrCancelled
	}
	if err != nil {
		return false, err
	}
	return answer, nil
}
