package alloc

// BuildFreeList links slots [0, n) in ascending order and returns the head.
// Allocation therefore fills a fresh page front to back.
func BuildFreeList(l Linker, n int) int32 {
	if n <= 0 {
		return NoSlot
	}
	for i := 0; i < n-1; i++ {
		l.SetLink(i, int32(i+1))
	}
	l.SetLink(n-1, NoSlot)
	return 0
}

// PopFree unlinks the head slot. ok is false when the list is empty.
func PopFree(l Linker, head *int32) (int, bool) {
	idx := *head
	if idx == NoSlot {
		return 0, false
	}
	*head = l.Link(int(idx))
	return int(idx), true
}

// PushFree links slot i in front of the list, so the most recently freed
// slot is the next one handed out.
func PushFree(l Linker, head *int32, i int) {
	l.SetLink(i, *head)
	*head = int32(i)
}

// FreeLen walks the list and returns its length. It is intended for tests
// and diagnostics.
func FreeLen(l Linker, head int32) int {
	n := 0
	for cur := head; cur != NoSlot; cur = l.Link(int(cur)) {
		n++
	}
	return n
}
