package app

import (
	"io"

	"github.com/specialistvlad/selfreg/internal/registry"
	"github.com/specialistvlad/selfreg/modules/greeting"
	"github.com/specialistvlad/selfreg/modules/motion"
	"github.com/specialistvlad/selfreg/modules/reporting"
)

// Configurable is implemented by modules that accept settings from the
// manifest.
type Configurable interface {
	Configure(settings map[string]string) error
}

// coreModules is the definitive list of all modules that are compiled into
// the selfreg binary, in default submission order. reporting consumes a
// component motion registers and is deliberately listed first.
func coreModules(outW io.Writer) []registry.Module {
	return []registry.Module{
		reporting.New(outW),
		motion.New(),
		greeting.New(outW),
	}
}
