package ot

import (
	"testing"

	"github.com/npillmayer/ift/core"
	"github.com/npillmayer/ift/internal/fonttest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func patchMapTable(tag Tag, data []byte) Table {
	return newTable(tag, data, 0, uint32(len(data)))
}

func TestParsePatchMap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ift.fonts")
	defer teardown()
	//
	enc := fonttest.PatchMap{
		CompatID:              [4]uint32{6, 7, 8, 9},
		MaxEntryIndex:         10,
		MaxGlyphMapEntryIndex: 4,
		FirstMappedGlyph:      2,
		GlyphMap:              []uint16{1, 4, 2},
		Applied:               []uint16{2, 9},
		URITemplate:           "//foo.bar/{id}",
		Encoding:              4,
	}
	pm, err := ParsePatchMap(patchMapTable(TagIFT, enc.Encode()))
	if err != nil {
		t.Fatal(err)
	}
	if pm.Format != 1 || pm.CompatibilityID != (CompatibilityID{6, 7, 8, 9}) {
		t.Errorf("unexpected format %d or compatibility ID %s", pm.Format, pm.CompatibilityID)
	}
	if pm.MaxEntryIndex != 10 || pm.MaxGlyphMapEntryIndex != 4 || pm.GlyphCount != 5 {
		t.Errorf("unexpected header values %d, %d, %d", pm.MaxEntryIndex, pm.MaxGlyphMapEntryIndex,
			pm.GlyphCount)
	}
	if string(pm.URITemplate()) != "//foo.bar/{id}" || pm.PatchEncoding != 4 {
		t.Errorf("unexpected template %q or encoding %d", pm.URITemplate(), pm.PatchEncoding)
	}
	for i := uint16(0); i <= 12; i++ {
		applied := i == 2 || i == 9
		if pm.IsEntryApplied(i) != applied {
			t.Errorf("expected entry %d to have applied = %v", i, applied)
		}
	}
	if pm.FeatureMap != nil {
		t.Errorf("expected patch map without feature map")
	}
	if pm.Self().AsPatchMap() != pm || pm.Self().NameTag() != TagIFT {
		t.Errorf("expected patch map to reference itself")
	}
	expected := map[GlyphIndex]struct {
		entry uint16
		ok    bool
	}{0: {0, true}, 1: {0, true}, 2: {1, true}, 3: {4, true}, 4: {2, true}, 5: {0, false}}
	for gid, x := range expected {
		entry, ok := pm.GlyphMap.EntryIndex(gid)
		if entry != x.entry || ok != x.ok {
			t.Errorf("expected glyph %d to map to (%d, %v), is (%d, %v)", gid, x.entry, x.ok, entry, ok)
		}
	}
}

func TestPatchMapWideEntries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ift.fonts")
	defer teardown()
	//
	enc := fonttest.PatchMap{
		MaxEntryIndex:         300,
		MaxGlyphMapEntryIndex: 280,
		GlyphMap:              []uint16{0, 280, 1},
		Features: []fonttest.Feature{
			{Tag: "liga", Mappings: [][2]uint16{{1, 280}}},
			{Tag: "smcp", Mappings: [][2]uint16{{0, 1}, {270, 271}}},
		},
		Applied:  []uint16{299},
		Encoding: 1,
	}
	pm, err := ParsePatchMap(patchMapTable(TagIFTX, enc.Encode()))
	if err != nil {
		t.Fatal(err)
	}
	if e, _ := pm.GlyphMap.EntryIndex(1); e != 280 {
		t.Errorf("expected glyph 1 to map to 280, is %d", e)
	}
	if !pm.IsEntryApplied(299) || pm.IsEntryApplied(300) {
		t.Errorf("expected entry 299 to be applied, and 300 not")
	}
	fm := pm.FeatureMap
	if fm == nil || fm.Len() != 2 {
		t.Fatalf("expected feature map with 2 records")
	}
	rec := fm.Record(1)
	if rec.Tag != T("smcp") || rec.EntryMapCount != 2 {
		t.Errorf("expected record #1 to be smcp[2], is %s[%d]", rec.Tag, rec.EntryMapCount)
	}
	if m := fm.EntryMap(rec, 1); m.First != 270 || m.Last != 271 {
		t.Errorf("expected 2nd mapping of smcp to be 270…271, is %d…%d", m.First, m.Last)
	}
	if m := fm.EntryMap(fm.Record(0), 0); m.First != 1 || m.Last != 280 {
		t.Errorf("expected mapping of liga to be 1…280, is %d…%d", m.First, m.Last)
	}
	if m := fm.EntryMap(rec, 2); m != (EntryMapRecord{}) {
		t.Errorf("expected out of range mapping to be empty")
	}
}

func TestPatchMapFormat2(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ift.fonts")
	defer teardown()
	//
	data := fonttest.PatchMap{Format: 2, CompatID: [4]uint32{1, 1, 1, 1}}.Encode()[:21]
	pm, err := ParsePatchMap(patchMapTable(TagIFT, data))
	if err != nil {
		t.Fatal(err)
	}
	if pm.Format != 2 || pm.CompatibilityID != (CompatibilityID{1, 1, 1, 1}) {
		t.Errorf("expected format 2 table to have its compatibility ID decoded")
	}
}

func TestPatchMapMalformed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ift.fonts")
	defer teardown()
	//
	base := fonttest.PatchMap{
		MaxEntryIndex:         3,
		MaxGlyphMapEntryIndex: 3,
		GlyphMap:              []uint16{1, 2, 3},
		URITemplate:           "{id}",
		Encoding:              3,
	}
	good := base.Encode()
	withFeatures := base
	withFeatures.Features = []fonttest.Feature{{Tag: "liga", Mappings: [][2]uint16{{1, 2}, {2, 3}}}}
	features := withFeatures.Encode()
	tooManyGlyphs := base
	tooManyGlyphs.GlyphCount = 10
	firstBeyondCount := base
	firstBeyondCount.GlyphCount = 2
	firstBeyondCount.FirstMappedGlyph = 3
	unknownFormat := append([]byte{}, good...)
	unknownFormat[0] = 3
	badOffset := append([]byte{}, good...)
	badOffset[29] = 0xff
	for i, data := range [][]byte{
		good[:20],                  // no room for compatibility ID
		good[:36],                  // truncated header
		good[:38],                  // applied bitmap present, template length missing
		unknownFormat,              // format 3
		badOffset,                  // glyph map offset out of bounds
		tooManyGlyphs.Encode(),     // glyph map entries missing
		firstBeyondCount.Encode(),  // first mapped glyph > glyph count
		good[:len(good)-1],         // last glyph map entry missing
		features[:len(features)-1], // entry map record truncated
	} {
		_, err := ParsePatchMap(patchMapTable(TagIFT, data))
		if err == nil {
			t.Errorf("expected patch map #%d to be rejected", i)
			continue
		}
		if core.Code(err) != core.EMALFORMED {
			t.Errorf("expected patch map #%d to be reported as malformed, is %v", i, err)
		}
	}
	if _, err := ParsePatchMap(nil); core.Code(err) != core.EINVALID {
		t.Errorf("expected nil table to be rejected as invalid")
	}
}
