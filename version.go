package insight

import _ "embed"

// Version is the release of the bot, embedded from the VERSION file.
//
//go:embed VERSION
var Version string
