// Package plugins wires the built-in conversions into a translator.
// Plugins are linked in at compile time, so the registry is a plain slice
// and external code extends it through NewTranslator.
package plugins

import (
	"github.com/cfgtools/initoml/internal/core/plugins/besteffort"
	"github.com/cfgtools/initoml/internal/core/plugins/coverage"
	"github.com/cfgtools/initoml/internal/core/plugins/isort"
	"github.com/cfgtools/initoml/internal/core/plugins/mypy"
	"github.com/cfgtools/initoml/internal/core/plugins/pytest"
	"github.com/cfgtools/initoml/internal/core/plugins/setuptools"
	"github.com/cfgtools/initoml/internal/core/translate"
)

// Default returns the built-in plugins. Order matters: setuptools first,
// so its profile restructuring runs before the tool-specific conversions
// sharing the setup.cfg profile.
func Default() []translate.Plugin {
	return []translate.Plugin{
		setuptools.Activate,
		pytest.Activate,
		mypy.Activate,
		coverage.Activate,
		isort.Activate,
		besteffort.Activate,
	}
}

// NewTranslator builds a translator with the built-in plugins plus any
// extras.
func NewTranslator(extra ...translate.Plugin) *translate.Translator {
	return translate.New(append(Default(), extra...)...)
}
