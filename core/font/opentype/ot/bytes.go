package ot

import (
	"errors"
	"fmt"
)

var errBufferBounds = errors.New("internal inconsistency: buffer bounds error")

// Fonts are big-endian throughout.

func u16(b []byte) uint16 {
	_ = b[1] // bounds check hint to compiler
	return uint16(b[0])<<8 | uint16(b[1])
}

func u32(b []byte) uint32 {
	_ = b[3] // bounds check hint to compiler
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// --- Locations -------------------------------------------------------------

// NavLocation is a segment of a font's bytes, as reached by navigation. It
// is the end of every navigation chain; interpreting the bytes is up to the
// client.
//
// Accessors never panic. Reading beyond the segment yields 0, and a
// navigation chain which failed somewhere ends in an empty location.
type NavLocation interface {
	Size() int                  // size in bytes
	Bytes() []byte              // the segment as a byte slice
	Slice(int, int) NavLocation // sub-segment, clipped to this location
	U8(int) uint8               // 8 bit value at byte index
	U16(int) uint16             // 16 bit value at byte index
	U32(int) uint32             // 32 bit value at byte index
}

// binarySegm is a view into a font's bytes. It implements NavLocation.
type binarySegm []byte

func (b binarySegm) Size() int     { return len(b) }
func (b binarySegm) Bytes() []byte { return b }

func (b binarySegm) Slice(from int, to int) NavLocation {
	from, to = max(from, 0), min(to, len(b))
	if from > to {
		return binarySegm{}
	}
	return b[from:to]
}

func (b binarySegm) U8(i int) uint8 {
	if i < 0 || i >= len(b) {
		return 0
	}
	return b[i]
}

func (b binarySegm) U16(i int) uint16 {
	n, _ := b.u16(i)
	return n
}

func (b binarySegm) U32(i int) uint32 {
	n, _ := b.u32(i)
	return n
}

// view returns the n bytes at offset as a sub-slice of b.
func (b binarySegm) view(offset, n int) (binarySegm, error) {
	if offset < 0 || n <= 0 || offset+n > len(b) {
		return nil, errBufferBounds
	}
	return b[offset : offset+n], nil
}

func (b binarySegm) u16(i int) (uint16, error) {
	v, err := b.view(i, 2)
	if err != nil {
		return 0, err
	}
	return u16(v), nil
}

func (b binarySegm) u32(i int) (uint32, error) {
	v, err := b.view(i, 4)
	if err != nil {
		return 0, err
	}
	return u32(v), nil
}

// --- Links -----------------------------------------------------------------

// NavLink leads from one navigation item to another, following an offset.
// Jump returns the bytes of the destination, Navigate interprets them as
// the structure named by Name. A null link (IsNull) leads nowhere.
type NavLink interface {
	Base() NavLocation   // location the offset is relative to
	Jump() NavLocation   // destination location
	IsNull() bool        // true if the link has no valid destination
	Navigate() Navigator // destination as a navigation item
	Name() string        // structure name of the destination
}

// link32 is a link with a 32 bit offset.
type link32 struct {
	err    error
	target string
	base   binarySegm
	offset uint32
}

func (l32 link32) IsNull() bool      { return l32.err != nil || len(l32.base) == 0 }
func (l32 link32) Name() string      { return l32.target }
func (l32 link32) Base() NavLocation { return l32.base }

func (l32 link32) Jump() NavLocation {
	if l32.err != nil {
		return binarySegm{}
	}
	if l32.offset > uint32(len(l32.base)) {
		tracer().Debugf("link to %s: offset %d beyond base of size %d", l32.target, l32.offset, len(l32.base))
		return binarySegm{}
	}
	return l32.base[l32.offset:]
}

func (l32 link32) Navigate() Navigator {
	if l32.err != nil {
		return null(l32.err)
	}
	return NavigatorFactory(l32.target, l32.Jump(), l32.base)
}

// --- Arrays ----------------------------------------------------------------

// array is a sequence of records of equal size.
type array struct {
	name       string
	recordSize int
	length     int
	loc        binarySegm
}

func viewArray(b binarySegm, recordSize int) array {
	return array{recordSize: recordSize, length: len(b) / recordSize, loc: b}
}

// Len returns the number of records.
func (a array) Len() int {
	return a.length
}

// Get returns record #i. Out of range indices yield an empty location.
func (a array) Get(i int) NavLocation {
	if i < 0 || i >= a.length {
		return binarySegm{}
	}
	rec, err := a.loc.view(i*a.recordSize, a.recordSize)
	if err != nil {
		return binarySegm{}
	}
	return rec
}

func (a array) All() []NavLocation {
	all := make([]NavLocation, a.length)
	for i := range all {
		all[i] = a.Get(i)
	}
	return all
}

// tagRecordList is a list of records, each starting with a Tag, e.g. the
// feature records of a patch map's feature map. Records do not link to
// sub-tables.
type tagRecordList struct {
	name    string
	records array
}

func (l tagRecordList) Name() string          { return l.name }
func (l tagRecordList) Len() int              { return l.records.length }
func (l tagRecordList) Get(i int) NavLocation { return l.records.Get(i) }
func (l tagRecordList) All() []NavLocation    { return l.records.All() }
func (l tagRecordList) String() string        { return fmt.Sprintf("%s[%d]", l.name, l.records.length) }

// Tag returns the tag of record #i, or 0.
func (l tagRecordList) Tag(i int) Tag {
	rec := l.records.Get(i)
	if rec.Size() < 4 {
		return 0
	}
	return MakeTag(rec.Bytes()[:4])
}

// emptyList is the list of navigation items without one.
type emptyList struct{}

func (emptyList) Name() string        { return "<empty>" }
func (emptyList) Len() int            { return 0 }
func (emptyList) Get(int) NavLocation { return binarySegm{} }
func (emptyList) All() []NavLocation  { return nil }
