// Package main placed in testdata keeps txtar archives of end to end cases
// next to something the go tool ignores. Every case_*.txtar carries:
//
//	input.ll     module to instrument
//	config.yaml  hook name, variant and number of runs
//	want.yaml    hook calls expected at function entries, in module order
package main
