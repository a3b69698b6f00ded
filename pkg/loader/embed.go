package loader

import "embed"

// builtinExamplesFS embeds the example almanacs from the puzzle statement,
// in both input formats.
//
//go:embed examples/*
var builtinExamplesFS embed.FS

// DefaultExample is the example used by `almanac solve --example`.
const DefaultExample = "example.txt"
