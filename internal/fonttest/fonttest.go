/*
Package fonttest assembles small OpenType fonts in memory, for testing.

Fonts built with fonttest are structurally valid sfnt containers, but carry
only the tables a test adds. Table data is produced by encoders for 'cmap'
(formats 4 and 12), 'head', 'maxp' (version 0.5) and the patch map tables
'IFT ' and 'IFTX'.
*/
package fonttest

import (
	"encoding/binary"
	"sort"
)

// Builder collects tables and assembles them into a font binary.
type Builder struct {
	tables map[string][]byte
}

// NewBuilder creates an empty font builder.
func NewBuilder() *Builder {
	return &Builder{tables: make(map[string][]byte)}
}

// Add adds (or replaces) a table. Tags shorter than 4 letters are padded with spaces.
func (b *Builder) Add(tag string, data []byte) *Builder {
	b.tables[normTag(tag)] = data
	return b
}

// Build returns the font binary, with table records sorted by tag and every
// table starting on a 4-byte boundary.
func (b *Builder) Build() []byte {
	tags := make([]string, 0, len(b.tables))
	for tag := range b.tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	n := len(tags)
	out := make([]byte, 12+16*n)
	binary.BigEndian.PutUint32(out[0:], 0x00010000)
	binary.BigEndian.PutUint16(out[4:], uint16(n))
	// searchRange, entrySelector and rangeShift are not checked by readers of test fonts
	offset := len(out)
	for i, tag := range tags {
		data := b.tables[tag]
		rec := out[12+16*i:]
		copy(rec[0:4], tag)
		binary.BigEndian.PutUint32(rec[4:], checksum(data))
		binary.BigEndian.PutUint32(rec[8:], uint32(offset))
		binary.BigEndian.PutUint32(rec[12:], uint32(len(data)))
		out = append(out, pad4(data)...)
		offset = len(out)
	}
	return out
}

func normTag(tag string) string {
	return (tag + "    ")[:4]
}

func pad4(data []byte) []byte {
	if r := len(data) % 4; r != 0 {
		return append(append([]byte{}, data...), make([]byte, 4-r)...)
	}
	return data
}

func checksum(data []byte) uint32 {
	var sum uint32
	padded := pad4(data)
	for i := 0; i+4 <= len(padded); i += 4 {
		sum += binary.BigEndian.Uint32(padded[i:])
	}
	return sum
}

// --- Table encoders --------------------------------------------------------

// Maxp encodes a version 0.5 'maxp' table.
func Maxp(numGlyphs uint16) []byte {
	b := make([]byte, 6)
	binary.BigEndian.PutUint32(b, 0x00005000)
	binary.BigEndian.PutUint16(b[4:], numGlyphs)
	return b
}

// Head encodes a version 1.0 'head' table with the given units per em and
// all other fields zero.
func Head(unitsPerEm uint16) []byte {
	b := make([]byte, 54)
	binary.BigEndian.PutUint32(b, 0x00010000)
	binary.BigEndian.PutUint32(b[12:], 0x5f0f3cf5) // magic number
	binary.BigEndian.PutUint16(b[18:], unitsPerEm)
	return b
}

// CMap12 encodes a 'cmap' table with a single format 12 subtable for
// platform 3 (Windows), encoding 10 (Unicode full). Every code-point is stored
// as a group of its own.
func CMap12(mapping map[rune]uint16) []byte {
	groups := make([]CMapGroup, 0, len(mapping))
	for r, g := range mapping {
		groups = append(groups, CMapGroup{First: r, Last: r, Glyph: uint32(g)})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].First < groups[j].First })
	return CMap12Groups(groups...)
}

// CMapGroup maps the code-points First…Last to consecutive glyphs, starting
// with Glyph.
type CMapGroup struct {
	First, Last rune
	Glyph       uint32
}

// CMap12Groups encodes a format 12 'cmap' table from groups, in the given order.
func CMap12Groups(groups ...CMapGroup) []byte {
	sub := make([]byte, 16, 16+12*len(groups))
	binary.BigEndian.PutUint16(sub[0:], 12)
	binary.BigEndian.PutUint32(sub[4:], uint32(16+12*len(groups)))
	binary.BigEndian.PutUint32(sub[12:], uint32(len(groups)))
	for _, grp := range groups {
		b := make([]byte, 12)
		binary.BigEndian.PutUint32(b[0:], uint32(grp.First))
		binary.BigEndian.PutUint32(b[4:], uint32(grp.Last))
		binary.BigEndian.PutUint32(b[8:], grp.Glyph)
		sub = append(sub, b...)
	}
	return cmapWith(3, 10, sub)
}

// CMapSegment is a format 4 segment for the code-points First…Last. If
// Glyphs is empty, a code-point c maps to c+Delta. Otherwise Glyphs holds
// one glyph per code-point, to which Delta is added unless it is 0.
type CMapSegment struct {
	First, Last uint16
	Delta       uint16
	Glyphs      []uint16
}

// CMap4 encodes a 'cmap' table with a single format 4 subtable for platform 3
// (Windows), encoding 1 (Unicode BMP). Segments have to be sorted. The
// terminating 0xFFFF segment is appended.
func CMap4(segments ...CMapSegment) []byte {
	segments = append(segments, CMapSegment{First: 0xffff, Last: 0xffff, Delta: 1})
	n := len(segments)
	sub := make([]byte, 16+8*n)
	binary.BigEndian.PutUint16(sub[0:], 4)
	binary.BigEndian.PutUint16(sub[6:], uint16(2*n))
	ends, starts := 14, 16+2*n
	deltas, offsets := starts+2*n, starts+4*n
	var glyphs []uint16
	for i, seg := range segments {
		binary.BigEndian.PutUint16(sub[ends+2*i:], seg.Last)
		binary.BigEndian.PutUint16(sub[starts+2*i:], seg.First)
		binary.BigEndian.PutUint16(sub[deltas+2*i:], seg.Delta)
		if len(seg.Glyphs) > 0 {
			// distance from this idRangeOffset entry to the segment's first glyph
			binary.BigEndian.PutUint16(sub[offsets+2*i:], uint16(2*(n-i)+2*len(glyphs)))
			glyphs = append(glyphs, seg.Glyphs...)
		}
	}
	for _, g := range glyphs {
		sub = binary.BigEndian.AppendUint16(sub, g)
	}
	binary.BigEndian.PutUint16(sub[2:], uint16(len(sub)))
	return cmapWith(3, 1, sub)
}

// cmapWith prepends a cmap header with a single encoding record to subtable.
func cmapWith(platform, encoding uint16, subtable []byte) []byte {
	b := make([]byte, 12, 12+len(subtable))
	binary.BigEndian.PutUint16(b[2:], 1)
	binary.BigEndian.PutUint16(b[4:], platform)
	binary.BigEndian.PutUint16(b[6:], encoding)
	binary.BigEndian.PutUint32(b[8:], 12)
	return append(b, subtable...)
}
