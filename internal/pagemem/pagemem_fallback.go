//go:build !unix

package pagemem

import "fmt"

// Map allocates size bytes on the heap when anonymous mappings are not
// available.
func Map(size int) (*Page, error) {
	if size <= 0 {
		return nil, fmt.Errorf("pagemem: invalid size %d", size)
	}
	return Heap(size)
}
