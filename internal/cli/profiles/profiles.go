// Package profiles implements the command listing the registered
// translation profiles and augmentations.
package profiles

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/cfgtools/initoml/internal/core/translate"
)

// NewCommand builds the profiles listing command.
func NewCommand(t *translate.Translator) *cli.Command {
	return &cli.Command{
		Name:    "profiles",
		Aliases: []string{"ls"},
		Usage:   "Lists the available translation profiles and augmentations.",
		Action: func(cCtx *cli.Context) error {
			headerColor := color.New(color.FgCyan, color.Bold).SprintFunc()
			nameColor := color.New(color.FgWhite, color.Bold).SprintFunc()
			helpColor := color.New(color.FgHiBlack).SprintFunc()

			fmt.Println(headerColor("profiles:"))
			for _, profile := range t.Profiles() {
				line := fmt.Sprintf("  %s", nameColor(profile.Name))
				if profile.HelpText != "" {
					line += fmt.Sprintf(" %s", helpColor(profile.HelpText))
				}
				fmt.Println(line)
			}

			augmentations := t.Augmentations()
			if len(augmentations) == 0 {
				return nil
			}
			fmt.Println()
			fmt.Println(headerColor("augmentations:"))
			for _, aug := range augmentations {
				state := "disabled by default"
				if aug.ActiveByDefault {
					state = "active by default"
				}
				fmt.Printf("  %s %s\n", nameColor(aug.Name),
					helpColor(fmt.Sprintf("%s (%s)", aug.HelpText, state)))
			}
			return nil
		},
	}
}
