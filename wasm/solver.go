//go:build wasm

package main

import (
	"context"
	"encoding/json"
	"sync"
	"syscall/js"

	"github.com/praetorian-inc/almanac/pkg/loader"
	"github.com/praetorian-inc/almanac/pkg/solver"
	"github.com/praetorian-inc/almanac/pkg/store"
	"github.com/praetorian-inc/almanac/pkg/types"
)

var (
	solvers   = make(map[int]*solver.Core)
	solversMu sync.RWMutex
	nextID    int
)

// newSolver creates a solver that remembers answers in memory.
// JS: AlmanacNewSolver([workers]) -> {handle} or {error}
func newSolver(this js.Value, args []js.Value) interface{} {
	workers := 1
	if len(args) > 0 && args[0].Type() == js.TypeNumber {
		workers = args[0].Int()
	}

	s, err := store.New(store.Config{Path: store.MemoryPath})
	if err != nil {
		return map[string]interface{}{"error": "failed to create store: " + err.Error()}
	}
	core := solver.NewCore(solver.Options{Store: s, Workers: workers})

	// Register solver
	solversMu.Lock()
	id := nextID
	nextID++
	solvers[id] = core
	solversMu.Unlock()

	return map[string]interface{}{"handle": id}
}

func lookup(handle int) (*solver.Core, bool) {
	solversMu.RLock()
	defer solversMu.RUnlock()
	core, ok := solvers[handle]
	return core, ok
}

// partsArg parses an optional part argument ("1", "2" or "both").
func partsArg(args []js.Value, i int) ([]types.Part, error) {
	if len(args) <= i {
		return []types.Part{types.PartTwo}, nil
	}
	return types.ParseParts(args[i].String())
}

// solve solves a single almanac.
// JS: AlmanacSolve(handle, content, [source], [part]) -> JSON result or {error}
func solve(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return map[string]interface{}{"error": "handle and content arguments required"}
	}

	core, ok := lookup(args[0].Int())
	if !ok {
		return map[string]interface{}{"error": "invalid solver handle"}
	}
	content := args[1].String()
	source := ""
	if len(args) > 2 {
		source = args[2].String()
	}
	parts, err := partsArg(args, 3)
	if err != nil {
		return map[string]interface{}{"error": err.Error()}
	}

	result, err := core.Solve(context.Background(), []byte(content), source, parts...)
	if err != nil {
		return map[string]interface{}{"error": "solve failed: " + err.Error()}
	}
	return marshal(result)
}

// solveBatch solves several almanacs.
// JS: AlmanacSolveBatch(handle, itemsJSON, [part]) -> JSON batch result or {error}
func solveBatch(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return map[string]interface{}{"error": "handle and itemsJSON arguments required"}
	}

	core, ok := lookup(args[0].Int())
	if !ok {
		return map[string]interface{}{"error": "invalid solver handle"}
	}

	var items []solver.Item
	if err := json.Unmarshal([]byte(args[1].String()), &items); err != nil {
		return map[string]interface{}{"error": "failed to parse items JSON: " + err.Error()}
	}
	parts, err := partsArg(args, 2)
	if err != nil {
		return map[string]interface{}{"error": err.Error()}
	}

	batch, err := core.SolveBatch(context.Background(), items, parts...)
	if err != nil {
		return map[string]interface{}{"error": "batch solve failed: " + err.Error()}
	}
	return marshal(batch)
}

// remapTrace returns the seed ranges after every stage.
// JS: AlmanacRemap(handle, content, [source]) -> JSON trace or {error}
func remapTrace(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return map[string]interface{}{"error": "handle and content arguments required"}
	}

	core, ok := lookup(args[0].Int())
	if !ok {
		return map[string]interface{}{"error": "invalid solver handle"}
	}
	source := ""
	if len(args) > 2 {
		source = args[2].String()
	}

	trace, err := core.Remap(context.Background(), []byte(args[1].String()), source)
	if err != nil {
		return map[string]interface{}{"error": "remap failed: " + err.Error()}
	}
	return marshal(trace)
}

// closeSolver releases a solver.
// JS: AlmanacCloseSolver(handle)
func closeSolver(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]interface{}{"error": "handle argument required"}
	}

	handle := args[0].Int()

	solversMu.Lock()
	_, ok := solvers[handle]
	delete(solvers, handle)
	solversMu.Unlock()

	if !ok {
		return map[string]interface{}{"error": "invalid solver handle"}
	}
	return nil
}

// example returns the built-in example almanac text.
// JS: AlmanacExample() -> string
func example(this js.Value, args []js.Value) interface{} {
	content, err := loader.NewLoader().ExampleContent(loader.DefaultExample)
	if err != nil {
		return map[string]interface{}{"error": "failed to load example: " + err.Error()}
	}
	return string(content)
}

func marshal(v interface{}) interface{} {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return map[string]interface{}{"error": "failed to marshal results: " + err.Error()}
	}
	return string(jsonBytes)
}
