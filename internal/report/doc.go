// Package report collects per-function outcomes of the instrumentation pass.
//
// Each outcome carries a stable code of the PT-series:
//
//	000–009  eligibility decisions
//	010–019  emitted entry calls
//
// Example:
//
//	report.SkipDeclaration.String()      → "PT000: SkipDeclaration"
//	report.EntryCall.Description()       → "Entry call with the raw function name."
//
// A [Reporter] is safe for concurrent use: functions of a module are
// instrumented concurrently and report into the same collector.
package report
