package otquery

import (
	"github.com/npillmayer/ift/core/font/opentype/ot"
)

// FontType returns the font type, encoded in the font header, as a string.
func FontType(otf *ot.Font) string {
	if otf.Header == nil {
		return "<empty>"
	}
	typ := otf.Header.FontType
	switch typ {
	case 0x4f54544f: // OTTO
		return "OpenType (outlines)"
	case 0x00010000: // TrueType
		return "TrueType"
	case 0x74727565: // true
		return "TrueType (Mac legacy)"
	}
	return "<unknown>"
}

// IsIncremental is true if a font contains at least one patch map table.
func IsIncremental(otf *ot.Font) bool {
	return otf.Table(ot.TagIFT) != nil || otf.Table(ot.TagIFTX) != nil
}

// PatchMapInfo summarizes a patch map table.
type PatchMapInfo struct {
	Tag                   ot.Tag
	Format                uint8
	CompatibilityID       ot.CompatibilityID
	MaxEntryIndex         uint16
	MaxGlyphMapEntryIndex uint16
	GlyphCount            uint32
	PatchEncoding         uint8
	URITemplate           string
	Features              []ot.Tag // tags of the feature map, in stored order
	AppliedEntries        int      // number of entries marked as applied
	Err                   error    // set if the table could not be decoded
}

// PatchMaps returns a summary for each patch map table of a font, 'IFT ' first.
// Tables which cannot be decoded are reported with Err set.
func PatchMaps(otf *ot.Font) []PatchMapInfo {
	var infos []PatchMapInfo
	for _, tag := range []ot.Tag{ot.TagIFT, ot.TagIFTX} {
		t := otf.Table(tag)
		if t == nil {
			continue
		}
		pm, err := ot.ParsePatchMap(t)
		if err != nil {
			tracer().Infof("cannot decode %s table: %v", tag, err)
			infos = append(infos, PatchMapInfo{Tag: tag, Err: err})
			continue
		}
		infos = append(infos, summarize(tag, pm))
	}
	return infos
}

func summarize(tag ot.Tag, pm *ot.PatchMapTable) PatchMapInfo {
	info := PatchMapInfo{
		Tag:                   tag,
		Format:                pm.Format,
		CompatibilityID:       pm.CompatibilityID,
		MaxEntryIndex:         pm.MaxEntryIndex,
		MaxGlyphMapEntryIndex: pm.MaxGlyphMapEntryIndex,
		GlyphCount:            pm.GlyphCount,
		PatchEncoding:         pm.PatchEncoding,
		URITemplate:           string(pm.URITemplate()),
	}
	if pm.Format != 1 {
		return info
	}
	for i := 0; i <= int(pm.MaxEntryIndex); i++ {
		if pm.IsEntryApplied(uint16(i)) {
			info.AppliedEntries++
		}
	}
	if fm := pm.FeatureMap; fm != nil {
		for i := 0; i < fm.Len(); i++ {
			info.Features = append(info.Features, fm.Record(i).Tag)
		}
	}
	return info
}

// CodePointForGlyph returns the lowest code-point mapping to glyph gid, or 0 if
// there is none. It scans the cmap's code-point ranges and is meant for
// inspection, not for shaping.
func CodePointForGlyph(otf *ot.Font, gid ot.GlyphIndex) rune {
	if gid == 0 || otf.CMap == nil || otf.CMap.GlyphIndexMap == nil {
		return 0
	}
	cmap := otf.CMap.GlyphIndexMap
	for _, rng := range cmap.CodePointRanges() {
		for r := rng.First; r <= rng.Last; r++ {
			if cmap.Lookup(r) == gid {
				return r
			}
		}
	}
	return 0
}

// UnitsPerEm returns the design units per em from the font's head table, or 0
// if the font has none.
func UnitsPerEm(otf *ot.Font) uint16 {
	if t := otf.Table(ot.T("head")); t != nil {
		if head := t.Self().AsHead(); head != nil {
			return head.UnitsPerEm
		}
	}
	return 0
}
