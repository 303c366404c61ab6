//go:build linux || darwin

package gadget

/*
#include <stdint.h>

typedef uint64_t (*call_argc0_t)();
typedef uint64_t (*call_argc1_t)(uint64_t);
typedef uint64_t (*call_argc2_t)(uint64_t, uint64_t);
typedef uint64_t (*call_argc3_t)(uint64_t, uint64_t, uint64_t);
typedef uint64_t (*call_argc4_t)(uint64_t, uint64_t, uint64_t, uint64_t);
typedef uint64_t (*call_argc5_t)(uint64_t, uint64_t, uint64_t, uint64_t, uint64_t);
typedef uint64_t (*call_argc6_t)(uint64_t, uint64_t, uint64_t, uint64_t, uint64_t, uint64_t);
typedef uint64_t (*call_argc7_t)(uint64_t, uint64_t, uint64_t, uint64_t, uint64_t, uint64_t, uint64_t);
typedef uint64_t (*call_argc8_t)(uint64_t, uint64_t, uint64_t, uint64_t, uint64_t, uint64_t, uint64_t, uint64_t);
typedef uint64_t (*call_argc9_t)(uint64_t, uint64_t, uint64_t, uint64_t, uint64_t, uint64_t, uint64_t, uint64_t, uint64_t);
typedef uint64_t (*call_argc10_t)(uint64_t, uint64_t, uint64_t, uint64_t, uint64_t, uint64_t, uint64_t, uint64_t, uint64_t, uint64_t);
typedef uint64_t (*call_argc11_t)(uint64_t, uint64_t, uint64_t, uint64_t, uint64_t, uint64_t, uint64_t, uint64_t, uint64_t, uint64_t, uint64_t);

static uint64_t remoted_gadget_invoke(uint64_t address, uint64_t argc, uint64_t *argv) {
	switch (argc) {
	case 0:
		return ((call_argc0_t)address)();
	case 1:
		return ((call_argc1_t)address)(argv[0]);
	case 2:
		return ((call_argc2_t)address)(argv[0], argv[1]);
	case 3:
		return ((call_argc3_t)address)(argv[0], argv[1], argv[2]);
	case 4:
		return ((call_argc4_t)address)(argv[0], argv[1], argv[2], argv[3]);
	case 5:
		return ((call_argc5_t)address)(argv[0], argv[1], argv[2], argv[3], argv[4]);
	case 6:
		return ((call_argc6_t)address)(argv[0], argv[1], argv[2], argv[3], argv[4], argv[5]);
	case 7:
		return ((call_argc7_t)address)(argv[0], argv[1], argv[2], argv[3], argv[4], argv[5], argv[6]);
	case 8:
		return ((call_argc8_t)address)(argv[0], argv[1], argv[2], argv[3], argv[4], argv[5], argv[6], argv[7]);
	case 9:
		return ((call_argc9_t)address)(argv[0], argv[1], argv[2], argv[3], argv[4], argv[5], argv[6], argv[7], argv[8]);
	case 10:
		return ((call_argc10_t)address)(argv[0], argv[1], argv[2], argv[3], argv[4], argv[5], argv[6], argv[7], argv[8], argv[9]);
	case 11:
		return ((call_argc11_t)address)(argv[0], argv[1], argv[2], argv[3], argv[4], argv[5], argv[6], argv[7], argv[8], argv[9], argv[10]);
	default:
		return 0;
	}
}
*/
import "C"
import "unsafe"

// Call invokes the function at address with the given register-sized
// integer arguments (0..11 of them) in the platform's default calling
// convention, and returns its single register-sized result as a signed
// 64-bit integer.
//
// The server performs no validation that address points to executable
// code or that the signature is honored — correctness here is the
// caller's obligation. A bad address traps as a host-level fault that
// this function cannot recover from.
func Call(address uint64, argv []uint64) (int64, error) {
	if len(argv) > MaxArity {
		return 0, ErrArityOutOfRange
	}
	var argvPtr *C.uint64_t
	if len(argv) > 0 {
		argvPtr = (*C.uint64_t)(unsafe.Pointer(&argv[0]))
	}
	result := C.remoted_gadget_invoke(C.uint64_t(address), C.uint64_t(len(argv)), argvPtr)
	return int64(result), nil
}
