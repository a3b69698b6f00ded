//go:build wasm

package main

import (
	"syscall/js"
)

func main() {
	// Export functions to JavaScript
	js.Global().Set("AlmanacNewSolver", js.FuncOf(newSolver))
	js.Global().Set("AlmanacSolve", js.FuncOf(solve))
	js.Global().Set("AlmanacSolveBatch", js.FuncOf(solveBatch))
	js.Global().Set("AlmanacRemap", js.FuncOf(remapTrace))
	js.Global().Set("AlmanacCloseSolver", js.FuncOf(closeSolver))
	js.Global().Set("AlmanacExample", js.FuncOf(example))

	// Keep WASM running
	<-make(chan struct{})
}
