package alloc

// NoSlot terminates a free list.
const NoSlot int32 = -1

// SlotState is the lifecycle state of one slot in an object page.
type SlotState uint8

const (
	// SlotFree slots hold a free-list link instead of an object.
	SlotFree SlotState = iota

	// SlotActive slots hold an object that the pool keeps alive.
	SlotActive

	// SlotZombie slots were removed from the pool but still have external
	// references (or, once destroyed, weak observers) and cannot be reused.
	SlotZombie
)

// String returns the state name.
func (s SlotState) String() string {
	switch s {
	case SlotFree:
		return "free"
	case SlotActive:
		return "active"
	case SlotZombie:
		return "zombie"
	default:
		return "unknown"
	}
}

// Linker exposes the link word stored in each unused slot of a page.
type Linker interface {
	// Link returns the next-free index stored in slot i.
	Link(i int) int32

	// SetLink stores next in the unused slot i.
	SetLink(i int, next int32)
}
