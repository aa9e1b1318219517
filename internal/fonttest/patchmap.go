package fonttest

import "encoding/binary"

// PatchMap describes a patch map table to encode.
//
// GlyphMap holds the entry indices of glyphs FirstMappedGlyph and following.
// If GlyphCount is 0, it is derived as FirstMappedGlyph + len(GlyphMap).
// Entry indices are encoded with 1 byte if MaxEntryIndex < 256, else with 2 bytes.
type PatchMap struct {
	Format                uint8 // 0 is treated as 1
	CompatID              [4]uint32
	MaxEntryIndex         uint16
	MaxGlyphMapEntryIndex uint16
	GlyphCount            uint32
	FirstMappedGlyph      uint16
	GlyphMap              []uint16
	Features              []Feature // nil: no feature map
	Applied               []uint16
	URITemplate           string
	Encoding              uint8
}

// Feature is a feature record of a feature map, together with its entry map records.
type Feature struct {
	Tag      string
	Mappings [][2]uint16 // first and last entry index
}

// Encode produces the binary table. The glyph map follows the header data, and
// the feature map (if any) follows the glyph map.
func (pm PatchMap) Encode() []byte {
	format := pm.Format
	if format == 0 {
		format = 1
	}
	glyphCount := pm.GlyphCount
	if glyphCount == 0 {
		glyphCount = uint32(pm.FirstMappedGlyph) + uint32(len(pm.GlyphMap))
	}
	width := 1
	if pm.MaxEntryIndex >= 256 {
		width = 2
	}
	b := make([]byte, 37)
	b[0] = format
	for i, id := range pm.CompatID {
		binary.BigEndian.PutUint32(b[5+4*i:], id)
	}
	binary.BigEndian.PutUint16(b[21:], pm.MaxEntryIndex)
	binary.BigEndian.PutUint16(b[23:], pm.MaxGlyphMapEntryIndex)
	binary.BigEndian.PutUint32(b[25:], glyphCount)
	bitmap := make([]byte, (int(pm.MaxEntryIndex)+8)/8)
	for _, i := range pm.Applied {
		if int(i/8) < len(bitmap) {
			bitmap[i/8] |= 1 << (i % 8)
		}
	}
	b = append(b, bitmap...)
	b = binary.BigEndian.AppendUint16(b, uint16(len(pm.URITemplate)))
	b = append(b, pm.URITemplate...)
	b = append(b, pm.Encoding)
	binary.BigEndian.PutUint32(b[29:], uint32(len(b)))
	b = binary.BigEndian.AppendUint16(b, pm.FirstMappedGlyph)
	for _, e := range pm.GlyphMap {
		b = appendN(b, e, width)
	}
	if pm.Features == nil {
		return b
	}
	binary.BigEndian.PutUint32(b[33:], uint32(len(b)))
	b = binary.BigEndian.AppendUint16(b, uint16(len(pm.Features)))
	for _, f := range pm.Features {
		b = append(b, normTag(f.Tag)...)
		b = binary.BigEndian.AppendUint16(b, uint16(len(f.Mappings)))
	}
	for _, f := range pm.Features {
		for _, m := range f.Mappings {
			b = appendN(b, m[0], width)
			b = appendN(b, m[1], width)
		}
	}
	return b
}

func appendN(b []byte, n uint16, width int) []byte {
	if width == 1 {
		return append(b, byte(n))
	}
	return binary.BigEndian.AppendUint16(b, n)
}
