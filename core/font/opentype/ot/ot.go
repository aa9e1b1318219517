package ot

import (
	"fmt"
)

// Font is a parsed OpenType font, reduced to what a client of incremental font
// transfer needs: the table directory, the character map, the glyph count and
// the patch map tables.
//
// A Font holds on to the bytes it was parsed from. Patches never change them;
// applying a patch yields new bytes, which have to be parsed again.
type Font struct {
	Header *FontHeader
	tables map[Tag]Table
	data   binarySegm
	CMap   *CMapTable // nil if the font has no supported character map
}

// FontHeader is the start of the sfnt table directory.
//
// FontType is 0x00010000 for TrueType outlines and 'OTTO' for CFF outlines.
// Apple's 'true' is accepted as well.
type FontHeader struct {
	FontType   uint32
	TableCount uint16
}

// Table returns the table for tag, or nil if the font does not contain it.
// Tables which are not interpreted are returned as generic tables, so every
// table of the font is reachable. Tags are case-sensitive:
//
//	maxp := otf.Table(ot.T("maxp")).Self().AsMaxP()
//	ift  := otf.Table(ot.TagIFT)
func (otf *Font) Table(tag Tag) Table {
	return otf.tables[tag]
}

// TableTags lists the tags of all tables in the font, in no particular order.
func (otf *Font) TableTags() []Tag {
	tags := make([]Tag, 0, len(otf.tables))
	for tag := range otf.tables {
		tags = append(tags, tag)
	}
	return tags
}

// Binary returns the bytes the font has been parsed from. Clients should treat
// them as read-only.
func (otf *Font) Binary() []byte {
	return otf.data
}

// NumGlyphs returns the glyph count of table 'maxp'. It returns false if the
// font has no usable maxp table.
func (otf *Font) NumGlyphs() (int, bool) {
	if t := otf.Table(T("maxp")); t != nil {
		if maxp := t.Self().AsMaxP(); maxp != nil {
			return maxp.NumGlyphs, true
		}
	}
	return 0, false
}

// GlyphIndex maps a code-point to a glyph. It returns false for the missing
// glyph 0, which is also the result for fonts without a supported cmap.
func (otf *Font) GlyphIndex(r rune) (GlyphIndex, bool) {
	if otf.CMap == nil || otf.CMap.GlyphIndexMap == nil {
		return 0, false
	}
	gid := otf.CMap.GlyphIndexMap.Lookup(r)
	return gid, gid != 0
}

// GlyphIndex is a glyph index in a font.
type GlyphIndex uint16

// --- Tag -------------------------------------------------------------------

// Tag is a four byte identifier, used for tables and features.
type Tag uint32

// MakeTag creates a Tag from the first 4 bytes of b. Shorter slices are
// padded with leading zero bytes.
//
//	MakeTag([]byte("cmap"))
func MakeTag(b []byte) Tag {
	var t [4]byte
	if len(b) > 4 {
		b = b[:4]
	}
	copy(t[4-len(b):], b)
	return Tag(u32(t[:]))
}

// T returns the Tag for a string of up to 4 letters, padded with spaces.
// Longer strings are cut.
func T(t string) Tag {
	return Tag(u32([]byte((t + "    ")[:4])))
}

func (t Tag) String() string {
	return string([]byte{byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t)})
}

// Tags of the two patch map tables of an incremental font.
var (
	TagIFT  = T("IFT ")
	TagIFTX = T("IFTX")
)

// --- Table -----------------------------------------------------------------

// Table is a table of a font.
//
// Tables 'cmap', 'head' and 'maxp' are interpreted while parsing. The patch
// map tables 'IFT ' and 'IFTX' are decoded on demand by ParsePatchMap, as a
// broken patch map must not invalidate the font as a whole.
type Table interface {
	Extent() (uint32, uint32) // offset and byte size within the font's binary data
	Binary() []byte           // the table's bytes, read-only
	Fields() Navigator        // start for navigation calls
	Self() TableSelf          // reference to the concrete table
}

type genericTable struct {
	tableBase
}

func newTable(tag Tag, b binarySegm, offset, size uint32) *genericTable {
	t := &genericTable{makeBase(tag, b, offset, size)}
	t.self = t
	return t
}

// tableBase is embedded by every table type. self points to the embedding
// table and makes the conversions of TableSelf possible.
type tableBase struct {
	data   binarySegm // the table's slice of the font data
	name   Tag
	offset uint32
	length uint32
	self   any
}

func makeBase(tag Tag, b binarySegm, offset, size uint32) tableBase {
	return tableBase{data: b, name: tag, offset: offset, length: size}
}

// Extent returns offset and byte size of this table within the font.
func (tb *tableBase) Extent() (uint32, uint32) {
	return tb.offset, tb.length
}

// Binary returns the bytes of this table. It is a view into the font's data
// and must not be modified.
func (tb *tableBase) Binary() []byte {
	return tb.data
}

func (tb *tableBase) Self() TableSelf {
	return TableSelf{tableBase: tb}
}

func (tb *tableBase) Fields() Navigator {
	return NavigatorFactory(tb.name.String(), tb.data, tb.data)
}

// TableSelf refers to a table. It converts a table to its concrete type and
// knows the table's tag.
type TableSelf struct {
	tableBase *tableBase
}

// NameTag returns the tag of the table.
func (tself TableSelf) NameTag() Tag {
	if tself.tableBase == nil {
		return 0
	}
	return tself.tableBase.name
}

func as[T any](tself TableSelf) T {
	var none T
	if tself.tableBase == nil {
		return none
	}
	if t, ok := tself.tableBase.self.(T); ok {
		return t
	}
	return none
}

// AsCMap returns this table as a cmap table, or nil.
func (tself TableSelf) AsCMap() *CMapTable {
	return as[*CMapTable](tself)
}

// AsMaxP returns this table as a maxp table, or nil.
func (tself TableSelf) AsMaxP() *MaxPTable {
	return as[*MaxPTable](tself)
}

// AsHead returns this table as a head table, or nil.
func (tself TableSelf) AsHead() *HeadTable {
	return as[*HeadTable](tself)
}

// AsPatchMap returns this table as a decoded patch map table, or nil.
// Tables retrieved from a font directly are generic tables; only
// ParsePatchMap returns patch map tables.
func (tself TableSelf) AsPatchMap() *PatchMapTable {
	return as[*PatchMapTable](tself)
}

// --- Compatibility ID ------------------------------------------------------

// CompatibilityID identifies the snapshot of a patch map table that a patch
// has been generated against. It is an opaque 128 bit value, stored as four
// uint32 in a patch map table.
type CompatibilityID [4]uint32

func (cid CompatibilityID) String() string {
	return fmt.Sprintf("%08x-%08x-%08x-%08x", cid[0], cid[1], cid[2], cid[3])
}
