// Package srcmeta derives source-level facts about LLVM IR functions:
// the language a function was most likely compiled from, its readable
// signature and the source location recorded in its debug metadata.
//
// Nothing in this package fails. Missing or unrecognized information
// degrades to defaults (C-like language, raw names, zero location).
package srcmeta
