//go:build darwin

package gadget

/*
#include <mach/mach.h>
#include <mach/mach_vm.h>
#include <stdint.h>
#include <string.h>

static int remoted_gadget_peek(uint64_t address, uint64_t size, void *dst) {
	vm_offset_t data = 0;
	mach_msg_type_number_t sz = 0;
	kern_return_t kr = mach_vm_read(mach_task_self(), (mach_vm_address_t)address, (mach_vm_size_t)size, &data, &sz);
	if (kr != KERN_SUCCESS) {
		return -1;
	}
	size_t copySize = (size_t)sz;
	if (copySize > (size_t)size) {
		copySize = (size_t)size;
	}
	memcpy(dst, (void *)data, copySize);
	vm_deallocate(mach_task_self(), data, sz);
	return 0;
}

static int remoted_gadget_poke(uint64_t address, uint64_t size, void *src) {
	kern_return_t kr = mach_vm_write(mach_task_self(), (mach_vm_address_t)address, (vm_offset_t)src, (mach_msg_type_number_t)size);
	return kr == KERN_SUCCESS ? 0 : -1;
}
*/
import "C"
import "unsafe"

// HasProbe reports whether this platform offers a kernel-assisted
// validate-before-touch read/write. Darwin does, via mach_vm_read /
// mach_vm_write against mach_task_self(): both fail cleanly on an invalid
// range instead of faulting the process.
const HasProbe = true

// Peek validates and reads size bytes at address using mach_vm_read. ok is
// false (with a nil buffer) if the probe rejects the range.
func Peek(address, size uint64) (data []byte, ok bool) {
	buf := make([]byte, size)
	if size == 0 {
		return buf, true
	}
	var ptr unsafe.Pointer = unsafe.Pointer(&buf[0])
	rc := C.remoted_gadget_peek(C.uint64_t(address), C.uint64_t(size), ptr)
	if rc != 0 {
		return nil, false
	}
	return buf, true
}

// Poke validates and writes data to address using mach_vm_write.
func Poke(address uint64, data []byte) bool {
	if len(data) == 0 {
		return true
	}
	rc := C.remoted_gadget_poke(C.uint64_t(address), C.uint64_t(len(data)), unsafe.Pointer(&data[0]))
	return rc == 0
}
