package randomart

import _ "embed"

// Version is the release of the randomart module, read from the VERSION file.
//
//go:embed VERSION
var Version string
