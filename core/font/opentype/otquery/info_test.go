package otquery

import (
	"testing"

	"github.com/npillmayer/ift/core"
	"github.com/npillmayer/ift/core/font/opentype/ot"
	"github.com/npillmayer/ift/internal/fonttest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Preparation ------------------------------------------------

type InfoTestEnviron struct {
	suite.Suite
	otf *ot.Font
}

// listen for 'go test' command --> run test methods
func TestInfoFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ift.fonts")
	defer teardown()
	suite.Run(t, new(InfoTestEnviron))
}

// run once, before test suite methods
func (env *InfoTestEnviron) SetupSuite() {
	pm := fonttest.PatchMap{
		CompatID:              [4]uint32{1, 2, 3, 4},
		MaxEntryIndex:         9,
		MaxGlyphMapEntryIndex: 2,
		FirstMappedGlyph:      1,
		GlyphMap:              []uint16{1, 2},
		Features:              []fonttest.Feature{{Tag: "liga", Mappings: [][2]uint16{{1, 1}}}},
		Applied:               []uint16{2, 9},
		URITemplate:           "//fonts/{id}",
		Encoding:              4,
	}
	otf, err := ot.Parse(fonttest.NewBuilder().
		Add("cmap", fonttest.CMap12(map[rune]uint16{'a': 1, 'b': 2})).
		Add("maxp", fonttest.Maxp(3)).
		Add("IFT ", pm.Encode()).
		Add("IFTX", pm.Encode()[:25]).
		Build())
	env.Require().NoError(err)
	env.otf = otf
}

// --- Tests -----------------------------------------------------------------

func (env *InfoTestEnviron) TestFontTypeInfo() {
	env.Equal("TrueType", FontType(env.otf), "expected font type of test font to be TrueType")
	env.Equal("<empty>", FontType(&ot.Font{}))
}

func (env *InfoTestEnviron) TestPatchMaps() {
	env.True(IsIncremental(env.otf))
	infos := PatchMaps(env.otf)
	env.Require().Len(infos, 2)
	ift := infos[0]
	env.NoError(ift.Err)
	env.Equal(ot.TagIFT, ift.Tag)
	env.Equal(ot.CompatibilityID{1, 2, 3, 4}, ift.CompatibilityID)
	env.Equal(uint16(9), ift.MaxEntryIndex)
	env.Equal(uint32(3), ift.GlyphCount)
	env.Equal("//fonts/{id}", ift.URITemplate)
	env.Equal([]ot.Tag{ot.T("liga")}, ift.Features)
	env.Equal(2, ift.AppliedEntries)
	env.Equal(ot.TagIFTX, infos[1].Tag)
	env.Equal(core.EMALFORMED, core.Code(infos[1].Err), "truncated IFTX table should be reported")
}

func (env *InfoTestEnviron) TestNotIncremental() {
	otf, err := ot.Parse(fonttest.NewBuilder().Add("maxp", fonttest.Maxp(3)).Build())
	env.Require().NoError(err)
	env.False(IsIncremental(otf))
	env.Empty(PatchMaps(otf))
}

func (env *InfoTestEnviron) TestCodePointForGlyph() {
	env.Equal('b', CodePointForGlyph(env.otf, 2), "expected code-point to be %#U", 'b')
	env.Equal(rune(0), CodePointForGlyph(env.otf, 7))
	env.Equal(rune(0), CodePointForGlyph(env.otf, 0), "missing glyph should not map back")
	otf, err := ot.Parse(fonttest.NewBuilder().
		Add("cmap", fonttest.CMap4(fonttest.CMapSegment{First: 'a', Last: 'z', Delta: 0xffa0})).
		Build())
	env.Require().NoError(err)
	env.Equal('c', CodePointForGlyph(otf, 3), "'c' + delta should map to glyph 3")
}

func (env *InfoTestEnviron) TestUnitsPerEm() {
	env.Equal(uint16(0), UnitsPerEm(env.otf), "test font has no head table")
	otf, err := ot.Parse(fonttest.NewBuilder().Add("head", fonttest.Head(2048)).Build())
	env.Require().NoError(err)
	env.Equal(uint16(2048), UnitsPerEm(otf))
}
