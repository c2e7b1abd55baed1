package logic

// TickModulus is the wrap point of the millisecond tick counter. It matches
// the 29-bit ticks_ms counter of small microcontroller runtimes so the same
// arithmetic works with hardware tick sources.
const TickModulus = 1 << 29

const tickMask = TickModulus - 1

// Elapsed returns the milliseconds from prev to now on a counter that wraps
// at TickModulus.
func Elapsed(now, prev uint32) uint32 {
	return (now - prev) & tickMask
}

// WrapTick reduces a raw millisecond count to the tick counter's range.
func WrapTick(ms uint64) uint32 {
	return uint32(ms & tickMask)
}
