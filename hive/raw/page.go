package raw

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/hivekit/hive/alloc"
	"github.com/joshuapare/hivekit/internal/buf"
	"github.com/joshuapare/hivekit/internal/pagemem"
)

type page struct {
	id       uint32
	mem      *pagemem.Page
	data     []byte // aligned view of mem.Data, capacity*slotSize bytes
	capacity int
	slotSize int
	occupied *alloc.Bitmap
	freeHead int32
	live     int
}

func newPage(id uint32, capacity, slotSize, align int, heap bool) (*page, error) {
	size, ok := buf.MulOverflowSafe(capacity, slotSize)
	if !ok {
		return nil, fmt.Errorf("raw: page of %d slots of %d bytes overflows", capacity, slotSize)
	}
	total, ok := buf.AddOverflowSafe(size, align)
	if !ok {
		return nil, fmt.Errorf("raw: page of %d bytes overflows", size)
	}

	var (
		mem *pagemem.Page
		err error
	)
	if heap {
		mem, err = pagemem.Heap(total)
	} else {
		mem, err = pagemem.Map(total)
	}
	if err != nil {
		return nil, err
	}

	base := int(uintptr(unsafe.Pointer(unsafe.SliceData(mem.Data))))
	data, ok := buf.Slice(mem.Data, buf.AlignUp(base, align)-base, size)
	if !ok {
		_ = mem.Release()
		return nil, fmt.Errorf("raw: cannot align page to %d bytes", align)
	}

	p := &page{
		id:       id,
		mem:      mem,
		data:     data,
		capacity: capacity,
		slotSize: slotSize,
		occupied: alloc.NewBitmap(capacity),
	}
	p.freeHead = alloc.BuildFreeList(p, capacity)
	return p, nil
}

// slot returns the bytes of slot i, clipped to the slot size.
func (p *page) slot(i int) []byte {
	b, _ := buf.Slice(p.data, i*p.slotSize, p.slotSize)
	return b
}

// Link implements alloc.Linker: a free slot's first four bytes hold the next
// free index.
func (p *page) Link(i int) int32 { return buf.I32LE(p.slot(i)) }

// SetLink implements alloc.Linker.
func (p *page) SetLink(i int, next int32) { buf.PutI32LE(p.slot(i), next) }

func (p *page) full() bool { return p.freeHead == alloc.NoSlot }

// indexOf returns the slot index of b if b starts at a slot boundary inside
// this page.
func (p *page) indexOf(b []byte) (int, bool) {
	if len(p.data) == 0 || len(b) == 0 {
		return 0, false
	}
	start := uintptr(unsafe.Pointer(unsafe.SliceData(p.data)))
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	if addr < start || addr >= start+uintptr(len(p.data)) {
		return 0, false
	}
	off := int(addr - start)
	if off%p.slotSize != 0 {
		return 0, false
	}
	return off / p.slotSize, true
}

func (p *page) release() error {
	p.data = nil
	return p.mem.Release()
}
