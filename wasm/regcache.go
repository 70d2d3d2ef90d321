//go:build wasm

package main

import (
	"encoding/json"
	"fmt"
	"math"
	"syscall/js"

	"github.com/praetorian-inc/regcache/pkg/registry"
	"github.com/praetorian-inc/regcache/pkg/types"
)

// reg is the one registry shared by every caller in the module instance.
var reg = registry.New()

// errorResult is returned in place of a value when a call fails.
func errorResult(msg string) map[string]interface{} {
	return map[string]interface{}{"error": msg}
}

// requireArgs checks the argument count for a named export.
func requireArgs(args []js.Value, n int, names string) map[string]interface{} {
	if len(args) < n {
		return errorResult(names + " arguments required")
	}
	return nil
}

// handleArg converts a JS number to a handle. Non-integral numbers are
// rejected rather than truncated onto a neighbouring handle.
func handleArg(v js.Value) types.Handle {
	if v.Type() != js.TypeNumber {
		return types.InvalidHandle
	}
	f := v.Float()
	if f != math.Trunc(f) || f < 0 || f >= math.MaxInt64 {
		return types.InvalidHandle
	}
	return types.Handle(f)
}

// compile compiles a pattern into the shared registry.
// JS: RegcacheCompile(pattern) -> {handle} or {handle: -1, error}
func compile(this js.Value, args []js.Value) interface{} {
	if errResult := requireArgs(args, 1, "pattern"); errResult != nil {
		return errResult
	}

	h, err := reg.Compile(args[0].String())
	if err != nil {
		return map[string]interface{}{"handle": int(types.InvalidHandle), "error": err.Error()}
	}
	return map[string]interface{}{"handle": int(h)}
}

// release forgets a handle. Unknown handles are ignored.
// JS: RegcacheRelease(handle) -> undefined
func release(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	reg.Release(handleArg(args[0]))
	return nil
}

// match is the one-shot full match; a pattern that fails to compile is false.
// JS: RegcacheMatch(pattern, text) -> bool
func match(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return false
	}
	return registry.Match(args[0].String(), args[1].String())
}

// matchCompiled is a full match against a handle; unknown handles are false.
// JS: RegcacheMatchCompiled(handle, text) -> bool
func matchCompiled(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return false
	}
	return reg.MatchCompiled(handleArg(args[0]), args[1].String())
}

// search returns the leftmost match.
// JS: RegcacheSearch(handle, text) -> string, null (no match) or {error}
func search(this js.Value, args []js.Value) interface{} {
	if errResult := requireArgs(args, 2, "handle and text"); errResult != nil {
		return errResult
	}

	m, found, err := reg.Search(handleArg(args[0]), args[1].String())
	if err != nil {
		return errorResult(err.Error())
	}
	if !found {
		return nil
	}
	return m
}

// findAll returns every match, flattened by group count.
// JS: RegcacheFindAll(handle, text) -> string[] or {error}
func findAll(this js.Value, args []js.Value) interface{} {
	if errResult := requireArgs(args, 2, "handle and text"); errResult != nil {
		return errResult
	}

	values, err := reg.FindAll(handleArg(args[0]), args[1].String())
	if err != nil {
		return errorResult(err.Error())
	}

	// js.ValueOf only converts []interface{}
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// substitute replaces every match.
// JS: RegcacheSubstitute(handle, text, replacement) -> string or {error}
func substitute(this js.Value, args []js.Value) interface{} {
	if errResult := requireArgs(args, 3, "handle, text and replacement"); errResult != nil {
		return errResult
	}

	out, err := reg.Substitute(handleArg(args[0]), args[1].String(), args[2].String())
	if err != nil {
		return errorResult(err.Error())
	}
	return out
}

// stats reports registry counters.
// JS: RegcacheStats() -> JSON string
func stats(this js.Value, args []js.Value) interface{} {
	jsonBytes, err := json.Marshal(reg.Stats())
	if err != nil {
		return errorResult(fmt.Sprintf("failed to marshal stats: %v", err))
	}
	return string(jsonBytes)
}
