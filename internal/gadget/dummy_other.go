//go:build !darwin

package gadget

// DummyBlock returns 0 on platforms with no closure-descriptor concept to
// expose. The original source left this reply unsent on non-Darwin, which
// desynchronizes the stream; replying with zero keeps the protocol aligned.
func DummyBlock() uint64 {
	return 0
}
