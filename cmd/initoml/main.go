package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/cfgtools/initoml/internal/cli/check"
	"github.com/cfgtools/initoml/internal/cli/convert"
	"github.com/cfgtools/initoml/internal/cli/profiles"
	"github.com/cfgtools/initoml/internal/cli/self"
	"github.com/cfgtools/initoml/internal/core/plugins"
)

// version is overridden at build time via -ldflags.
var version = "v0.1.0"

func main() {
	translator := plugins.NewTranslator()

	app := &cli.App{
		Name:    "initoml",
		Usage:   "Converts .ini/.cfg configuration files into pyproject-style TOML",
		Version: version,
		Action: func(c *cli.Context) error {
			// Default action if no command is specified
			_ = cli.ShowAppHelp(c)
			return nil
		},
		Commands: []*cli.Command{
			convert.NewCommand(translator),
			profiles.NewCommand(translator),
			check.Command,
			self.NewSelfCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
