// Package pager slices a flat byte store into fixed-size pages and
// resolves page-relative reads and writes. It backs the PRG/CHR
// ROM and RAM stores owned by a cartridge's mapper.
package pager

import "fmt"

// Size is a fixed page size a Pager can be addressed with.
type Size uint32

const (
	OneKb     Size = 0x0400
	FourKb    Size = 0x1000
	EightKb   Size = 0x2000
	SixteenKb Size = 0x4000
)

// Selector picks which page, of a given Size, a Read or Write
// targets. The zero value selects the first page but has a page size
// of zero, so Read and Write panic on it; build selectors with First,
// FromNth, FromEnd or Last.
type Selector struct {
	kind byte // 0=first, 1=fromNth, 2=fromEnd, 3=last
	n    int
	size Size
}

// First selects the first page of the given size.
func First(size Size) Selector { return Selector{kind: 0, size: size} }

// FromNth selects the nth (0-based) page of the given size.
func FromNth(n int, size Size) Selector { return Selector{kind: 1, n: n, size: size} }

// FromEnd selects the kth page counting back from the last page
// (FromEnd(0, size) is equivalent to Last(size)).
func FromEnd(k int, size Size) Selector { return Selector{kind: 2, n: k, size: size} }

// Last selects the final page of the given size.
func Last(size Size) Selector { return Selector{kind: 3, size: size} }

// Pager owns a byte slice and resolves Selector-relative offsets
// against it. A Pager never reallocates: its backing slice length
// is fixed at construction.
type Pager struct {
	data []byte
}

// New wraps data in a Pager. data is retained, not copied.
func New(data []byte) *Pager {
	return &Pager{data: data}
}

// Len returns the number of bytes backing the Pager.
func (p *Pager) Len() int {
	return len(p.data)
}

// PageCount returns how many pages of size fit in the Pager's
// backing store. It panics if the store length is not an exact
// multiple of size, per the pager invariant.
func (p *Pager) PageCount(size Size) int {
	if len(p.data) == 0 || len(p.data)%int(size) != 0 {
		panic(fmt.Sprintf("pager: data length %d is not a multiple of page size %d", len(p.data), size))
	}
	return len(p.data) / int(size)
}

// index resolves sel and offset to a byte index into p.data,
// panicking on any invariant violation: offset out of range for the
// page size, or a page index beyond the last page.
func (p *Pager) index(sel Selector, offset int) int {
	if offset < 0 || offset >= int(sel.size) {
		panic(fmt.Sprintf("pager: offset %d out of range for page size %d", offset, sel.size))
	}

	count := p.PageCount(sel.size)

	var page int
	switch sel.kind {
	case 0: // First
		page = 0
	case 1: // FromNth
		page = sel.n
	case 2: // FromEnd
		page = count - 1 - sel.n
	case 3: // Last
		page = count - 1
	default:
		panic("pager: invalid selector")
	}

	if page < 0 || page >= count {
		panic(fmt.Sprintf("pager: page %d beyond last page %d", page, count-1))
	}

	return page*int(sel.size) + offset
}

// Read returns the byte at offset within the page selected by sel.
func (p *Pager) Read(sel Selector, offset int) uint8 {
	return p.data[p.index(sel, offset)]
}

// Write stores val at offset within the page selected by sel.
func (p *Pager) Write(sel Selector, offset int, val uint8) {
	p.data[p.index(sel, offset)] = val
}
