package ot

import (
	"testing"

	"github.com/npillmayer/ift/internal/fonttest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestTags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ift.fonts")
	defer teardown()
	//
	tag := Tag(0x636d6170)
	if tag.String() != "cmap" {
		t.Errorf("expected tag 0x636d6170 to be 'cmap', is %s", tag.String())
	}
	tag = MakeTag([]byte("cmap"))
	if tag.String() != "cmap" {
		t.Errorf("expected tag MakeTag(cmap) to be 'cmap', is %s", tag.String())
	}
	tag = T("IFT")
	if tag != TagIFT {
		t.Errorf("expected tag T(IFT) to be padded to 'IFT ', is %q", tag.String())
	}
	if MakeTag([]byte("IFTXX")) != TagIFTX {
		t.Errorf("expected MakeTag to cut tag to 4 bytes")
	}
}

func TestTableName(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ift.fonts")
	defer teardown()
	//
	tb := tableBase{}
	tb.name = 0x636d6170
	s := tb.Self().NameTag().String()
	if s != "cmap" {
		t.Errorf("expected table name to be cmap, is %v", s)
	}
	if (TableSelf{}).AsMaxP() != nil {
		t.Errorf("expected empty table self not to convert to maxp")
	}
}

func TestCompatibilityIDString(t *testing.T) {
	id := CompatibilityID{1, 2, 3, 0xffffffff}
	if id.String() != "00000001-00000002-00000003-ffffffff" {
		t.Errorf("unexpected compatibility ID string %s", id)
	}
}

func TestFieldNavigation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ift.fonts")
	defer teardown()
	//
	pm := fonttest.PatchMap{
		CompatID:              [4]uint32{1, 2, 3, 4},
		MaxEntryIndex:         7,
		MaxGlyphMapEntryIndex: 2,
		GlyphMap:              []uint16{1, 2},
		Features: []fonttest.Feature{
			{Tag: "liga", Mappings: [][2]uint16{{1, 2}}},
			{Tag: "smcp", Mappings: [][2]uint16{{0, 1}, {2, 2}}},
		},
		URITemplate: "//foo.bar/{id}",
		Encoding:    3,
	}
	otf := parseTestFont(t, fonttest.NewBuilder().Add("IFT ", pm.Encode()).Add("maxp", fonttest.Maxp(2)))
	table := otf.Table(TagIFT)
	if table == nil {
		t.Fatal("cannot locate table IFT in font")
	}
	fields := table.Fields().List()
	if fields.Len() != 11 {
		t.Fatalf("expected IFT table to have 11 header fields, has %d", fields.Len())
	}
	if fields.Get(0).U8(0) != 1 {
		t.Errorf("expected field #0 to be format 1, is %d", fields.Get(0).U8(0))
	}
	if fields.Get(3).U32(0) != 2 {
		t.Errorf("expected field #3 to be 2nd part of compatibility ID, is %d", fields.Get(3).U32(0))
	}
	if fields.Get(6).U16(0) != 7 {
		t.Errorf("expected field #6 (max entry index) to be 7, is %d", fields.Get(6).U16(0))
	}
	if fields.Get(8).U32(0) != 2 {
		t.Errorf("expected field #8 (glyph count) to be 2, is %d", fields.Get(8).U32(0))
	}
	if n := len(fields.All()); n != 11 {
		t.Errorf("expected 11 fields from All(), have %d", n)
	}
	features := table.Fields().Link().Navigate().List()
	if features.Name() != "FeatureMap" || features.Len() != 2 {
		t.Fatalf("expected feature map with 2 records, have %s[%d]", features.Name(), features.Len())
	}
	if MakeTag(features.Get(1).Bytes()[:4]) != T("smcp") || features.Get(1).U16(4) != 2 {
		t.Errorf("expected 2nd feature record to be smcp with 2 mappings")
	}
	maxp := otf.Table(T("maxp")).Fields().List()
	if maxp.Get(1).U16(0) != 2 {
		t.Errorf("expected maxp.numGlyphs to be 2, is %d", maxp.Get(1).U16(0))
	}
}

func TestNavigationOfNothing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ift.fonts")
	defer teardown()
	//
	nav := NavigatorFactory("GSUB", binarySegm{}, binarySegm{})
	if !nav.IsVoid() || nav.Error() == nil {
		t.Errorf("expected navigation to unknown structure to be void")
	}
	if nav.List().Len() != 0 || nav.Link().Jump().Size() != 0 {
		t.Errorf("expected void navigator to be null-safe")
	}
	// table shorter than its fields
	short := NavigatorFactory("maxp", binarySegm{0, 0, 0x50, 0}, binarySegm{0, 0, 0x50, 0})
	if short.List().Get(1).Size() != 0 {
		t.Errorf("expected missing field to be empty")
	}
}

// ---------------------------------------------------------------------------

func parseTestFont(t *testing.T, b *fonttest.Builder) *Font {
	otf, err := Parse(b.Build())
	if err != nil {
		t.Fatal(err)
	}
	return otf
}
