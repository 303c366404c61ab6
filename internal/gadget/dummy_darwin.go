//go:build darwin

package gadget

/*
#cgo CFLAGS: -fblocks
#include <stdint.h>

void (^remoted_dummy_block)(void) = ^{
};

static unsigned long long remoted_gadget_dummy_block_address(void) {
	return (unsigned long long)(uintptr_t)(void *)&remoted_dummy_block;
}
*/
import "C"

// DummyBlock returns the address of a stable, process-resident Objective-C
// block literal — useful to clients resolving the host's closure-descriptor
// layout at runtime. Darwin-only; on platforms where the concept doesn't
// apply, DummyBlock (see dummy_other.go) returns 0 rather than leaving
// the reply unsent.
func DummyBlock() uint64 {
	return uint64(C.remoted_gadget_dummy_block_address())
}
