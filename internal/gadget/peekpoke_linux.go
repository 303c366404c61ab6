//go:build linux

package gadget

/*
#include <string.h>
#include <stdint.h>

static void remoted_gadget_peek(uint64_t address, uint64_t size, void *dst) {
	memcpy(dst, (void *)(uintptr_t)address, (size_t)size);
}

static void remoted_gadget_poke(uint64_t address, uint64_t size, void *src) {
	memcpy((void *)(uintptr_t)address, src, (size_t)size);
}
*/
import "C"
import "unsafe"

// HasProbe reports whether this platform offers a kernel-assisted
// validate-before-touch read/write. Linux does not: PEEK/POKE here are
// unconditional direct memory copies, and a bad address faults the
// process — accepted per the design's error-handling taxonomy.
const HasProbe = false

// Peek copies size bytes starting at address out of the process's own
// address space. Always "succeeds" at the Go level; an invalid address
// causes a hard fault instead of returning an error.
func Peek(address, size uint64) ([]byte, bool) {
	buf := make([]byte, size)
	if size == 0 {
		return buf, true
	}
	C.remoted_gadget_peek(C.uint64_t(address), C.uint64_t(size), unsafe.Pointer(&buf[0]))
	return buf, true
}

// Poke copies data into the process's own address space starting at
// address. Always "succeeds" at the Go level; see Peek.
func Poke(address uint64, data []byte) bool {
	if len(data) == 0 {
		return true
	}
	C.remoted_gadget_poke(C.uint64_t(address), C.uint64_t(len(data)), unsafe.Pointer(&data[0]))
	return true
}
