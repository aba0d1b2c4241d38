package main

// #include <stdint.h>
import "C"

//export printtraceEnter
func printtraceEnter(name *C.char) {
	tracer.Enter(C.GoString(name))
}

//export printtraceEnterDemangled
func printtraceEnterDemangled(name *C.char, isDemangled C.int32_t) {
	tracer.EnterDemangled(C.GoString(name), isDemangled != 0)
}

//export printtraceEnterAt
func printtraceEnterAt(name *C.char, file *C.char, line, column C.int32_t) {
	tracer.EnterAt(C.GoString(name), C.GoString(file), int32(line), int32(column))
}

//export printtraceEnterDemangledAt
func printtraceEnterDemangledAt(name *C.char, isDemangled C.int32_t, file *C.char, line, column C.int32_t) {
	tracer.EnterDemangledAt(C.GoString(name), isDemangled != 0, C.GoString(file), int32(line), int32(column))
}
