// Package pagemem provides backing memory for raw pool pages.
//
// On unix platforms pages are anonymous private mappings, so releasing a page
// returns its memory to the OS immediately instead of waiting for the
// collector. Elsewhere pages are ordinary heap slices.
//
// Mapped memory is invisible to the garbage collector: it must never hold Go
// pointers.
package pagemem

// Page is a block of zeroed memory plus the function that releases it.
type Page struct {
	Data    []byte
	release func() error
}

// Release returns the memory. Calling it more than once is a no-op.
func (p *Page) Release() error {
	if p.release == nil {
		return nil
	}
	r := p.release
	p.release = nil
	p.Data = nil
	return r()
}

// Heap allocates size bytes on the Go heap.
func Heap(size int) (*Page, error) {
	return &Page{Data: make([]byte, size), release: func() error { return nil }}, nil
}
