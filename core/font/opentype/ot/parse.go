package ot

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Parse parses an OpenType font from a byte slice. The returned Font keeps
// referring to font, which must not be modified while the Font is in use.
//
// No table is required: an incremental font may start out with very few
// tables. Patch map tables are left to ParsePatchMap.
func Parse(font []byte) (*Font, error) {
	h := FontHeader{}
	if err := binary.Read(bytes.NewReader(font), binary.BigEndian, &h); err != nil {
		return nil, errFontFormat("font header")
	}
	tracer().Debugf("font type %x (%s), %d tables", h.FontType, Tag(h.FontType), h.TableCount)
	switch h.FontType {
	case 0x00010000, uint32(T("OTTO")), uint32(T("true")):
	default:
		return nil, errFontFormat(fmt.Sprintf("font type not supported: %x", h.FontType))
	}
	otf := &Font{Header: &h, tables: make(map[Tag]Table), data: font}
	src := binarySegm(font)
	if h.TableCount == 0 {
		return otf, nil
	}
	// The header of 12 bytes is followed by table records of 16 bytes each:
	// tag, checksum, offset, length. Records are sorted by tag.
	records, err := src.view(12, 16*int(h.TableCount))
	if err != nil {
		return nil, errFontFormat("table record entries")
	}
	for rec, prev := records, Tag(0); len(rec) > 0; rec = rec[16:] {
		tag := MakeTag(rec)
		if tag < prev {
			return nil, errFontFormat("table order")
		}
		prev = tag
		off, size := u32(rec[8:]), u32(rec[12:])
		if off%4 != 0 { // checksums are not verified, alignment is
			return nil, errFontFormat("invalid table offset")
		}
		if uint64(off)+uint64(size) > uint64(len(src)) {
			return nil, errFontFormat(fmt.Sprintf("table %s exceeds font data", tag))
		}
		if otf.tables[tag], err = parseTable(tag, src[off:off+size], off, size); err != nil {
			return nil, err
		}
	}
	if cm := otf.Table(T("cmap")); cm != nil {
		otf.CMap = cm.Self().AsCMap()
	}
	return otf, nil
}

func parseTable(t Tag, b binarySegm, offset, size uint32) (Table, error) {
	switch t {
	case T("cmap"):
		return parseCMap(t, b, offset, size)
	case T("head"):
		return parseHead(t, b, offset, size)
	case T("maxp"):
		return parseMaxP(t, b, offset, size)
	}
	tracer().Debugf("font contains table (%s), will not be interpreted", t)
	return newTable(t, b, offset, size), nil
}
