//go:build linux || darwin

package gadget

/*
#cgo linux LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdint.h>
#include <stdlib.h>

static uint64_t remoted_gadget_dlopen(const char *filename, uint32_t mode) {
	return (uint64_t)(uintptr_t)dlopen(filename, (int)mode);
}

static uint64_t remoted_gadget_dlclose(uint64_t lib) {
	return (uint64_t)(uintptr_t)dlclose((void *)(uintptr_t)lib);
}

static uint64_t remoted_gadget_dlsym(uint64_t lib, const char *symbol) {
	return (uint64_t)(uintptr_t)dlsym((void *)(uintptr_t)lib, symbol);
}
*/
import "C"
import "unsafe"

// Dlopen loads filename with mode and returns the opaque handle the loader
// returns (0 on failure). filename == "" opens the main program image, per
// dlopen(3)'s NULL-path convention.
func Dlopen(filename string, mode uint32) uint64 {
	var cs *C.char
	if filename != "" {
		cs = C.CString(filename)
		defer C.free(unsafe.Pointer(cs))
	}
	return uint64(C.remoted_gadget_dlopen(cs, C.uint32_t(mode)))
}

// Dlclose releases a handle previously returned by Dlopen. DLCLOSE{lib: 0}
// is a documented no-op: dlclose(NULL) is well defined by the platform
// loader and returns nonzero (failure) without side effects.
func Dlclose(lib uint64) uint64 {
	return uint64(C.remoted_gadget_dlclose(C.uint64_t(lib)))
}

// Dlsym resolves symbol in lib and returns its address (0 if not found).
func Dlsym(lib uint64, symbol string) uint64 {
	cs := C.CString(symbol)
	defer C.free(unsafe.Pointer(cs))
	return uint64(C.remoted_gadget_dlsym(C.uint64_t(lib), cs))
}
