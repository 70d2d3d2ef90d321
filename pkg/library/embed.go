package library

import "embed"

// builtinFS embeds the built-in pattern files.
//
//go:embed patterns/*.yml
var builtinFS embed.FS
