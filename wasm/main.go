//go:build wasm

package main

import (
	"syscall/js"
)

func main() {
	// Export functions to JavaScript
	js.Global().Set("RegcacheCompile", js.FuncOf(compile))
	js.Global().Set("RegcacheRelease", js.FuncOf(release))
	js.Global().Set("RegcacheMatch", js.FuncOf(match))
	js.Global().Set("RegcacheMatchCompiled", js.FuncOf(matchCompiled))
	js.Global().Set("RegcacheSearch", js.FuncOf(search))
	js.Global().Set("RegcacheFindAll", js.FuncOf(findAll))
	js.Global().Set("RegcacheSubstitute", js.FuncOf(substitute))
	js.Global().Set("RegcacheStats", js.FuncOf(stats))

	// Keep WASM running
	<-make(chan struct{})
}
