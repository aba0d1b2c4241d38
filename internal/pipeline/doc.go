// Package pipeline is the registration surface for function passes over
// LLVM IR modules.
//
// Passes are registered in a [Registry] under a name and, optionally, at
// extension points of an optimization pipeline:
//
//	optimizer-early        start of the module optimizer
//	scalar-optimizer-late  end of the scalar function simplification
//	peephole               peephole position of the function pipeline
//
// A pipeline is built either from extension points ([Registry.AtPoints]) or
// from an explicit textual list of pass names ([Registry.Parse]), the same way
//
//	opt -passes=function(a,b)
//
// does it. A [Manager] then runs the resulting passes over every function of
// a module. Functions are processed concurrently, passes on a single function
// run in order.
package pipeline
