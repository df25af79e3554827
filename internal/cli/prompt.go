package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// confirmPlan shows the rendered plan and asks the operator to approve it.
// The summary carries only key names and actions.
func confirmPlan(summary string) (bool, error) {
	var confirmed bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Planned Changes").
				Description(summary),

			huh.NewConfirm().
				Title("Apply these changes?").
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("prompt cancelled: %w", err)
	}
	return confirmed, nil
}
