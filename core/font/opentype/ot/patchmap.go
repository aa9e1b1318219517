package ot

import (
	"fmt"

	"github.com/npillmayer/ift/core"
)

// Byte layout of the header of a patch map table (format 1).
//
//	uint8     format
//	uint32    reserved
//	uint32    compatibilityId[4]
//	uint16    maxEntryIndex
//	uint16    maxGlyphMapEntryIndex
//	uint32    glyphCount
//	Offset32  glyphMapOffset
//	Offset32  featureMapOffset            (may be NULL)
//	uint8     appliedEntriesBitmap[(maxEntryIndex+8)/8]
//	uint16    uriTemplateLength
//	uint8     uriTemplate[uriTemplateLength]
//	uint8     patchEncoding
const (
	patchMapCompatIDOffset   = 5
	patchMapPrefixSize       = 21 // format, reserved and compatibility ID
	patchMapMaxEntryOffset   = 21
	patchMapGlyphCountOffset = 25
	patchMapGlyphMapOffset   = 29
	patchMapFeatureMapOffset = 33
	patchMapHeaderSize       = 37
	featureRecordSize        = 6 // Tag + uint16
)

// PatchMapTable is a decoded patch map table, i.e. table 'IFT ' or 'IFTX' of an
// incrementally transferred font. A patch map maps glyphs and features to entries,
// each entry identifying a patch by its index.
//
// Format 2 patch map tables are recognized, but only the compatibility ID is
// decoded. All other fields are zero for them.
type PatchMapTable struct {
	tableBase
	Format                uint8
	CompatibilityID       CompatibilityID
	MaxEntryIndex         uint16
	MaxGlyphMapEntryIndex uint16
	GlyphCount            uint32
	PatchEncoding         uint8 // encoding number as stored, not yet checked
	GlyphMap              GlyphMap
	FeatureMap            *FeatureMap // nil if the table has no feature map
	applied               binarySegm
	uriTemplate           binarySegm
}

// ParsePatchMap decodes a patch map table. It checks the structure of the table
// upfront: truncated headers, glyph maps or feature maps result in an error.
// Semantic checks, as for example comparing the glyph count to the font's
// glyph count, are left to the client.
func ParsePatchMap(t Table) (*PatchMapTable, error) {
	if t == nil {
		return nil, core.Error(core.EINVALID, "patch map table is nil")
	}
	tag := t.Self().NameTag()
	offset, size := t.Extent()
	b := binarySegm(t.Binary())
	pm := &PatchMapTable{tableBase: makeBase(tag, b, offset, size)}
	pm.self = pm
	if len(b) < patchMapPrefixSize {
		return nil, errFontFormat(fmt.Sprintf("%s: truncated header", tag))
	}
	pm.Format = b[0]
	for i := range pm.CompatibilityID {
		pm.CompatibilityID[i] = u32(b[patchMapCompatIDOffset+4*i:])
	}
	switch pm.Format {
	case 1:
	case 2:
		tracer().Debugf("%s table has format 2, decoding compatibility ID only", tag)
		return pm, nil
	default:
		return nil, errFontFormat(fmt.Sprintf("%s: unknown format %d", tag, pm.Format))
	}
	if len(b) < patchMapHeaderSize {
		return nil, errFontFormat(fmt.Sprintf("%s: truncated header", tag))
	}
	pm.MaxEntryIndex = u16(b[patchMapMaxEntryOffset:])
	pm.MaxGlyphMapEntryIndex = u16(b[patchMapMaxEntryOffset+2:])
	pm.GlyphCount = u32(b[patchMapGlyphCountOffset:])
	var err error
	at := patchMapHeaderSize
	if pm.applied, err = b.view(at, (int(pm.MaxEntryIndex)+8)/8); err != nil {
		return nil, errFontFormat(fmt.Sprintf("%s: truncated applied entries bitmap", tag))
	}
	at += len(pm.applied)
	templateLen, err := b.u16(at)
	if err != nil {
		return nil, errFontFormat(fmt.Sprintf("%s: missing URI template", tag))
	}
	at += 2
	if templateLen > 0 {
		if pm.uriTemplate, err = b.view(at, int(templateLen)); err != nil {
			return nil, errFontFormat(fmt.Sprintf("%s: truncated URI template", tag))
		}
	}
	at += int(templateLen)
	if at >= len(b) {
		return nil, errFontFormat(fmt.Sprintf("%s: missing patch encoding", tag))
	}
	pm.PatchEncoding = b[at]
	width := pm.entryWidth()
	if pm.GlyphMap, err = parseGlyphMap(b, u32(b[patchMapGlyphMapOffset:]), pm.GlyphCount, width); err != nil {
		return nil, errFontFormat(fmt.Sprintf("%s: %s", tag, err.Error()))
	}
	if fmOffset := u32(b[patchMapFeatureMapOffset:]); fmOffset != 0 {
		fm, err := parseFeatureMap(b, fmOffset, width)
		if err != nil {
			return nil, errFontFormat(fmt.Sprintf("%s: %s", tag, err.Error()))
		}
		pm.FeatureMap = &fm
	}
	tracer().Debugf("%s table: max entry %d, %d glyphs, encoding %d", tag, pm.MaxEntryIndex,
		pm.GlyphCount, pm.PatchEncoding)
	return pm, nil
}

// entryWidth is the byte size of entry indices in glyph and feature map: 1 byte if
// all entry indices fit into it, 2 otherwise.
func (pm *PatchMapTable) entryWidth() int {
	if pm.MaxEntryIndex < 256 {
		return 1
	}
	return 2
}

// IsEntryApplied returns true if the patch for entry i has already been applied
// to the font, i.e. if bit i%8 of byte i/8 of the applied entries bitmap is set.
func (pm *PatchMapTable) IsEntryApplied(i uint16) bool {
	if int(i/8) >= len(pm.applied) {
		return false
	}
	return pm.applied[i/8]&(1<<(i%8)) != 0
}

// URITemplate returns the raw bytes of the table's URI template. Clients should
// not assume them to be valid UTF-8.
func (pm *PatchMapTable) URITemplate() []byte {
	return pm.uriTemplate
}

// --- Glyph map -------------------------------------------------------------

// GlyphMap maps glyph IDs to entry indices. Glyphs below FirstMappedGlyph
// implicitly map to entry 0.
type GlyphMap struct {
	FirstMappedGlyph uint16
	entries          array
}

func parseGlyphMap(b binarySegm, offset uint32, glyphCount uint32, width int) (GlyphMap, error) {
	gm := GlyphMap{}
	if uint64(offset)+2 > uint64(len(b)) {
		return gm, fmt.Errorf("glyph map offset out of bounds")
	}
	gm.FirstMappedGlyph = u16(b[offset:])
	if uint32(gm.FirstMappedGlyph) > glyphCount {
		return gm, fmt.Errorf("first mapped glyph %d exceeds glyph count %d", gm.FirstMappedGlyph, glyphCount)
	}
	n := int(glyphCount - uint32(gm.FirstMappedGlyph))
	if n == 0 {
		return gm, nil
	}
	entries, err := b.view(int(offset)+2, n*width)
	if err != nil {
		return gm, fmt.Errorf("truncated glyph map")
	}
	gm.entries = array{name: "GlyphMap", recordSize: width, length: n, loc: entries}
	return gm, nil
}

// EntryIndex returns the entry index for glyph gid. If gid is beyond the glyphs
// covered by the glyph map, false is returned.
func (gm GlyphMap) EntryIndex(gid GlyphIndex) (uint16, bool) {
	if gid < GlyphIndex(gm.FirstMappedGlyph) {
		return 0, true
	}
	i := int(gid - GlyphIndex(gm.FirstMappedGlyph))
	if i >= gm.entries.Len() {
		return 0, false
	}
	loc := gm.entries.Get(i)
	if gm.entries.recordSize == 1 {
		return uint16(loc.U8(0)), true
	}
	return loc.U16(0), true
}

// Len returns the number of glyphs with an explicit entry.
func (gm GlyphMap) Len() int {
	return gm.entries.Len()
}

// --- Feature map -----------------------------------------------------------

// FeatureMap maps (feature, entry) combinations to additional entries.
// It consists of a list of feature records, followed by the entry map records of all
// features, packed in record order.
type FeatureMap struct {
	records   tagRecordList
	starts    []int // index of the first entry map record for each feature record
	entryMaps array
}

// FeatureRecord names a feature and the run of entry map records belonging to it.
type FeatureRecord struct {
	Tag           Tag
	EntryMapCount uint16
	start         int
}

// EntryMapRecord is a range of entry indices.
type EntryMapRecord struct {
	First, Last uint16
}

func parseFeatureMap(b binarySegm, offset uint32, width int) (FeatureMap, error) {
	fm := FeatureMap{}
	count, err := b.u16(int(offset))
	if err != nil || uint64(offset)+2 > uint64(len(b)) {
		return fm, fmt.Errorf("feature map offset out of bounds")
	}
	at := int(offset) + 2
	var recs binarySegm
	if count > 0 {
		if recs, err = b.view(at, int(count)*featureRecordSize); err != nil {
			return fm, fmt.Errorf("truncated feature records")
		}
	}
	fm.records = tagRecordList{name: "FeatureMap", records: viewArray(recs, featureRecordSize)}
	fm.starts = make([]int, count)
	total := 0
	for i := 0; i < int(count); i++ {
		fm.starts[i] = total
		total += int(fm.records.Get(i).U16(4))
	}
	at += int(count) * featureRecordSize
	var maps binarySegm
	if total > 0 {
		if maps, err = b.view(at, total*2*width); err != nil {
			return fm, fmt.Errorf("truncated entry map records")
		}
	}
	fm.entryMaps = array{name: "EntryMap", recordSize: 2 * width, length: total, loc: maps}
	return fm, nil
}

// Len returns the number of feature records.
func (fm *FeatureMap) Len() int {
	return fm.records.Len()
}

// Record returns feature record #i.
func (fm *FeatureMap) Record(i int) FeatureRecord {
	if i < 0 || i >= len(fm.starts) {
		return FeatureRecord{}
	}
	return FeatureRecord{
		Tag:           fm.records.Tag(i),
		EntryMapCount: fm.records.Get(i).U16(4),
		start:         fm.starts[i],
	}
}

// EntryMap returns entry map record #k of feature record rec.
func (fm *FeatureMap) EntryMap(rec FeatureRecord, k int) EntryMapRecord {
	if k < 0 || k >= int(rec.EntryMapCount) {
		return EntryMapRecord{}
	}
	loc := fm.entryMaps.Get(rec.start + k)
	if fm.entryMaps.recordSize == 2 {
		return EntryMapRecord{First: uint16(loc.U8(0)), Last: uint16(loc.U8(1))}
	}
	return EntryMapRecord{First: loc.U16(0), Last: loc.U16(2)}
}
