// Package convert implements the main command: translate an .ini/.cfg
// file into pyproject-style TOML.
package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/cfgtools/initoml/internal/core/translate"
)

// DefaultProfile is used when nothing better can be inferred from the
// input file name.
const DefaultProfile = "best_effort"

// NewCommand builds the convert command for the given translator. The
// augmentation flags are generated from whatever the plugins registered.
func NewCommand(t *translate.Translator) *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "output-file",
			Aliases: []string{"o"},
			Usage:   "file where to write the converted TOML (stdout by default)",
		},
		&cli.StringFlag{
			Name:    "profile",
			Aliases: []string{"p"},
			Usage:   "translation profile deciding how the conversion is performed (inferred from the file name by default)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable verbose output",
		},
	}
	flags = append(flags, augmentationFlags(t)...)

	return &cli.Command{
		Name:      "convert",
		Usage:     "Converts an .ini/.cfg file into TOML",
		ArgsUsage: "<input_file>",
		Flags:     flags,
		Action: func(cCtx *cli.Context) error {
			return run(t, cCtx)
		},
	}
}

func run(t *translate.Translator, cCtx *cli.Context) error {
	if cCtx.NArg() < 1 {
		return cli.Exit("Error: <input_file> argument is required.", 1)
	}
	inputPath := cCtx.Args().Get(0)
	verbose := cCtx.Bool("verbose")

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error reading %s: %v", inputPath, err), 1)
	}

	profile := cCtx.String("profile")
	if profile == "" {
		profile = InferProfile(t, inputPath)
		if verbose {
			fmt.Fprintf(os.Stderr, "Profile not explicitly set, using %q.\n", profile)
		}
	}

	out, err := t.Translate(string(data), profile, activeAugmentations(t, cCtx))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error converting %s: %v", inputPath, err), 1)
	}
	out += "\n"

	outputPath := cCtx.String("output-file")
	if outputPath == "" || outputPath == "-" {
		fmt.Print(out)
		return nil
	}
	if err := os.WriteFile(outputPath, []byte(out), 0644); err != nil {
		return cli.Exit(fmt.Sprintf("Error writing %s: %v", outputPath, err), 1)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", outputPath)
	}
	return nil
}

// InferProfile picks the translation profile for a file: the full path
// first, then the base name, then the best-effort fallback.
func InferProfile(t *translate.Translator, path string) string {
	for _, candidate := range []string{path, filepath.Base(path)} {
		if t.HasProfile(candidate) {
			return candidate
		}
	}
	return DefaultProfile
}

// augmentationFlags exposes every registered augmentation as a flag:
// --<name> for opt-in ones, --no-<name> for default-active ones.
func augmentationFlags(t *translate.Translator) []cli.Flag {
	var flags []cli.Flag
	for _, aug := range t.Augmentations() {
		name := FlagName(aug.Name)
		usage := aug.HelpText
		if aug.ActiveByDefault {
			name = "no-" + name
			usage = "disable: " + usage
		}
		flags = append(flags, &cli.BoolFlag{Name: name, Usage: usage})
	}
	return flags
}

// activeAugmentations collects the explicit user choices, keyed by the
// augmentation's registered name.
func activeAugmentations(t *translate.Translator, cCtx *cli.Context) map[string]bool {
	choices := map[string]bool{}
	for _, aug := range t.Augmentations() {
		name := FlagName(aug.Name)
		if aug.ActiveByDefault {
			if cCtx.Bool("no-" + name) {
				choices[aug.Name] = false
			}
			continue
		}
		if cCtx.Bool(name) {
			choices[aug.Name] = true
		}
	}
	return choices
}

// FlagName converts an augmentation name into its CLI flag spelling.
func FlagName(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}
