package ot

// HeadTable holds the fields of table 'head' a client needs. Other fields
// can be reached by navigation:
//
//	head := otf.Table(T("head"))
//	flags := head.Fields().List().Get(5)
type HeadTable struct {
	tableBase
	Flags            uint16
	UnitsPerEm       uint16 // 16 … 16384
	IndexToLocFormat uint16 // 0 for short 'loca' offsets, 1 for long ones
}

func parseHead(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	const headSize = 54
	if len(b) < headSize {
		return nil, errFontFormat("size of head table")
	}
	t := &HeadTable{
		tableBase:        makeBase(tag, b, offset, size),
		Flags:            u16(b[16:]),
		UnitsPerEm:       u16(b[18:]),
		IndexToLocFormat: u16(b[50:]),
	}
	t.self = t
	return t, nil
}

// MaxPTable holds the glyph count of table 'maxp'. Patch map tables state a
// glyph count which has to match it.
type MaxPTable struct {
	tableBase
	NumGlyphs int
}

// Version 0.5 (CFF outlines) and version 1.0 (TrueType outlines) of 'maxp'
// share the version and numGlyphs fields; the rest is not read.
func parseMaxP(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	n, err := b.u16(4)
	if err != nil {
		return nil, errFontFormat("maxp table incomplete")
	}
	t := &MaxPTable{tableBase: makeBase(tag, b, offset, size), NumGlyphs: int(n)}
	t.self = t
	return t, nil
}
