// Package instrument implements the printtrace pass: every function with a
// body gets a call to an external logging hook at the very start of its entry
// block.
//
// The call shape depends on the configured [Variant]:
//
//	basic     void hook(i8* name)
//	demangle  void hook(i8* name, i32 is_demangled)
//	location  void hook(i8* name, i8* file, i32 line, i32 column)
//	combined  void hook(i8* name, i32 is_demangled, i8* file, i32 line, i32 column)
//
// With demangling enabled, functions compiled from C++ get a second call
// carrying the readable signature, right after the raw-name one.
//
// The pass is not idempotent: running it twice over the same function adds
// a second set of calls.
package instrument
