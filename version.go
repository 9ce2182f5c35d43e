package ordtree

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var versionFile string

// Version is the current version of the ordtree library and tools.
var Version = strings.TrimSpace(versionFile)
