// Command printtrace-rt is the runtime library linked into programs
// instrumented by printtrace. Build it as a C archive and link it with the
// instrumented objects:
//
//	go build -buildmode=c-archive -o libprinttrace.a ./cmd/printtrace-rt
//	clang prog.o libprinttrace.a -lpthread -o prog
//
// The exported hook must have the shape the pass was run with. Select it
// with build tags:
//
//	(none)                                   __print_func_name(const char *name)
//	printtrace_demangle                      __print_func_name(const char *name, int32_t is_demangled)
//	printtrace_location                      __print_func_name(const char *name, const char *file, int32_t line, int32_t column)
//	printtrace_demangle,printtrace_location  __print_func_name(const char *name, int32_t is_demangled, const char *file, int32_t line, int32_t column)
//
// The hook is a weak C definition forwarding to the tracer, so a host program
// may provide its own __print_func_name. Trace lines go to stderr, or to the
// file named by PRINTTRACE_OUTPUT.
package main

import "github.com/sirkon/printtrace/internal/tracehook"

var tracer = tracehook.FromEnv()

func main() {}
