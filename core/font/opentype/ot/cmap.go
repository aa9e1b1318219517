package ot

import "sort"

// CMapTable represents an OpenType cmap table, i.e. the table to receive glyphs
// from code-points.
//
// See https://docs.microsoft.com/de-de/typography/opentype/spec/cmap
//
// A cmap table may contain more than one subtable. We decode only the one best
// suited for Unicode lookups and keep it in GlyphIndexMap. Clients who need
// access to the other subtables will have to parse them themselves.
type CMapTable struct {
	tableBase
	GlyphIndexMap CMapGlyphIndex
}

func newCMapTable(tag Tag, b binarySegm, offset, size uint32) *CMapTable {
	t := &CMapTable{tableBase: makeBase(tag, b, offset, size)}
	t.self = t
	return t
}

// CMapGlyphIndex maps code-points to glyphs.
type CMapGlyphIndex interface {
	// Lookup returns the glyph for r, or 0 (the missing glyph).
	Lookup(r rune) GlyphIndex
	// CodePointRanges lists the code-point ranges the subtable has entries for,
	// in ascending order. Code-points inside a range may still map to 0.
	CodePointRanges() []CodePointRange
}

// CodePointRange is an inclusive range of code-points.
type CodePointRange struct {
	First, Last rune
}

// cmapEncoding describes a supported subtable kind. width is the number of
// bytes per code-point the encoding covers, 2 for the BMP and 4 for full Unicode.
type cmapEncoding struct {
	format uint16
	width  int
}

// cmapEncodings lists the platform/encoding pairs we decode. If a font carries
// more than one of them, the wider one wins; "the characters supported by the
// subtable for 32-bit encoding should be a superset".
var cmapEncodings = map[[2]uint16]cmapEncoding{
	{0, 3}:  {format: 4, width: 2},  // Unicode BMP
	{0, 4}:  {format: 12, width: 4}, // Unicode full
	{0, 10}: {format: 12, width: 4}, // written by older FontForge versions
	{3, 1}:  {format: 4, width: 2},  // Windows, Unicode BMP
	{3, 10}: {format: 12, width: 4}, // Windows, Unicode full
}

// parseCMap selects the subtable to use from the encoding records. A cmap
// table without a supported subtable is kept as a generic table, and the font
// will map no code-points at all.
func parseCMap(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	n, err := b.u16(2)
	if err != nil {
		return nil, errFontFormat("size of cmap table")
	}
	const headerSize, recordSize = 4, 8
	if len(b) < headerSize+recordSize*int(n) {
		return nil, errFontFormat("size of cmap table")
	}
	tracer().Debugf("font cmap has %d sub-tables in %d bytes", n, len(b))
	var best cmapEncoding
	var subtable binarySegm
	for i := 0; i < int(n); i++ {
		rec := b[headerSize+recordSize*i:]
		enc, ok := cmapEncodings[[2]uint16{u16(rec), u16(rec[2:])}]
		if !ok || enc.width <= best.width {
			continue
		}
		at := u32(rec[4:])
		if uint64(at)+2 > uint64(len(b)) {
			tracer().Infof("cmap sub-table offset %d out of bounds", at)
			continue
		}
		if format := u16(b[at:]); format != enc.format {
			tracer().Debugf("cmap sub-table has format %d, skipping", format)
			continue
		}
		best, subtable = enc, b[at:]
	}
	if best.width == 0 {
		tracer().Infof("no supported cmap format found, font will not map code-points")
		return newTable(tag, b, offset, size), nil
	}
	t := newCMapTable(tag, b, offset, size)
	if best.format == 4 {
		t.GlyphIndexMap, err = makeFormat4(subtable)
	} else {
		t.GlyphIndexMap, err = makeFormat12(subtable)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// --- Format 4 --------------------------------------------------------------

// Format 4 maps the BMP with segments of consecutive code-points. A segment
// either adds a delta to the code-point or, if its idRangeOffset is non-zero,
// points into the glyph ID array. That offset is relative to the position
// of the idRangeOffset entry itself, which is why we keep the subtable bytes
// around.
type format4GlyphIndex struct {
	segments []cmapSegment
	data     binarySegm
}

type cmapSegment struct {
	start, end  uint16
	delta       uint16 // arithmetic is modulo 65536
	rangeOffset uint16
	at          int // position of rangeOffset within the subtable
}

func makeFormat4(b binarySegm) (format4GlyphIndex, error) {
	const headerSize = 14
	segX2, err := b.u16(6)
	if err != nil || segX2 == 0 || segX2&1 != 0 {
		return format4GlyphIndex{}, errFontFormat("cmap format 4 segment count")
	}
	n := int(segX2 / 2)
	// endCode, reservedPad, startCode, idDelta, idRangeOffset
	ends := headerSize
	starts := ends + 2*n + 2
	deltas := starts + 2*n
	offsets := deltas + 2*n
	if len(b) < offsets+2*n {
		return format4GlyphIndex{}, errFontFormat("cmap format 4 segment arrays")
	}
	f4 := format4GlyphIndex{segments: make([]cmapSegment, n), data: b}
	for i := range f4.segments {
		seg := cmapSegment{
			end:         u16(b[ends+2*i:]),
			start:       u16(b[starts+2*i:]),
			delta:       u16(b[deltas+2*i:]),
			rangeOffset: u16(b[offsets+2*i:]),
			at:          offsets + 2*i,
		}
		if i > 0 && seg.end <= f4.segments[i-1].end {
			return format4GlyphIndex{}, errFontFormat("cmap format 4 segment order")
		}
		f4.segments[i] = seg
	}
	tracer().Debugf("cmap format 4 with %d segments", n)
	return f4, nil
}

func (f4 format4GlyphIndex) Lookup(r rune) GlyphIndex {
	if r < 0 || r > 0xffff {
		return 0
	}
	c := uint16(r)
	i := sort.Search(len(f4.segments), func(i int) bool {
		return f4.segments[i].end >= c
	})
	if i == len(f4.segments) || f4.segments[i].start > c {
		return 0
	}
	seg := f4.segments[i]
	if seg.rangeOffset == 0 {
		return GlyphIndex(c + seg.delta)
	}
	g, err := f4.data.u16(seg.at + int(seg.rangeOffset) + 2*int(c-seg.start))
	if err != nil || g == 0 {
		return 0
	}
	return GlyphIndex(g + seg.delta)
}

func (f4 format4GlyphIndex) CodePointRanges() []CodePointRange {
	ranges := make([]CodePointRange, 0, len(f4.segments))
	for _, seg := range f4.segments {
		if seg.start > seg.end || seg.start == 0xffff { // final segment maps 0xFFFF to .notdef
			continue
		}
		ranges = append(ranges, CodePointRange{First: rune(seg.start), Last: rune(seg.end)})
	}
	return ranges
}

// --- Format 12 -------------------------------------------------------------

// Format 12 maps groups of consecutive code-points to consecutive glyphs.
type format12GlyphIndex struct {
	groups []cmapGroup
}

type cmapGroup struct {
	start, end uint32
	glyph      uint32 // glyph of start
}

func makeFormat12(b binarySegm) (format12GlyphIndex, error) {
	const headerSize, groupSize = 16, 12
	n, err := b.u32(12)
	if err != nil {
		return format12GlyphIndex{}, errFontFormat("cmap format 12 header")
	}
	if uint64(len(b)) < headerSize+groupSize*uint64(n) {
		return format12GlyphIndex{}, errFontFormat("cmap format 12 groups")
	}
	f12 := format12GlyphIndex{groups: make([]cmapGroup, n)}
	for i := range f12.groups {
		g := b[headerSize+groupSize*i:]
		grp := cmapGroup{start: u32(g), end: u32(g[4:]), glyph: u32(g[8:])}
		if grp.start > grp.end || (i > 0 && grp.start <= f12.groups[i-1].end) {
			return format12GlyphIndex{}, errFontFormat("cmap format 12 group order")
		}
		f12.groups[i] = grp
	}
	tracer().Debugf("cmap format 12 with %d groups", n)
	return f12, nil
}

// Lookup returns 0 for glyph IDs which do not fit into 16 bits.
func (f12 format12GlyphIndex) Lookup(r rune) GlyphIndex {
	c := uint32(r)
	i := sort.Search(len(f12.groups), func(i int) bool {
		return f12.groups[i].end >= c
	})
	if i == len(f12.groups) || f12.groups[i].start > c {
		return 0
	}
	g := uint64(f12.groups[i].glyph) + uint64(c-f12.groups[i].start)
	if g > 0xffff {
		return 0
	}
	return GlyphIndex(g)
}

func (f12 format12GlyphIndex) CodePointRanges() []CodePointRange {
	ranges := make([]CodePointRange, len(f12.groups))
	for i, grp := range f12.groups {
		ranges[i] = CodePointRange{First: rune(grp.start), Last: rune(grp.end)}
	}
	return ranges
}
