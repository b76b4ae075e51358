// Package check implements structural validation of generated
// pyproject.toml files: the file must parse as TOML and carry well-typed
// project metadata.
package check

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/cfgtools/initoml/internal/core/pyproject"
)

// Command validates one or more pyproject.toml files.
var Command = &cli.Command{
	Name:      "check",
	Usage:     "Validates the structure of generated pyproject.toml files",
	ArgsUsage: "<pyproject.toml>...",
	Action: func(cCtx *cli.Context) error {
		if cCtx.NArg() < 1 {
			return cli.Exit("Error: at least one file argument is required.", 1)
		}

		okColor := color.New(color.FgGreen).SprintFunc()
		failColor := color.New(color.FgRed, color.Bold).SprintFunc()

		failures := 0
		for _, path := range cCtx.Args().Slice() {
			doc, err := pyproject.Load(path)
			if err == nil {
				err = doc.Validate()
			}
			if err == nil {
				fmt.Printf("%s %s\n", okColor("ok"), path)
				continue
			}
			failures++
			fmt.Printf("%s %s\n", failColor("FAIL"), path)
			for _, problem := range unwrapAll(err) {
				fmt.Printf("    %v\n", problem)
			}
		}

		if failures > 0 {
			return cli.Exit(fmt.Sprintf("%d file(s) failed validation", failures), 1)
		}
		return nil
	},
}

// unwrapAll flattens an errors.Join result into its parts.
func unwrapAll(err error) []error {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return joined.Unwrap()
	}
	return []error{err}
}
