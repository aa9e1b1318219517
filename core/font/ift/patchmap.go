package ift

import (
	"errors"
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/ift/core"
	"github.com/npillmayer/ift/core/font/opentype/ot"
	"github.com/yosida95/uritemplate/v3"
)

// TableProvider is the view onto a font needed to intersect its patch maps.
// *ot.Font implements it.
type TableProvider interface {
	Table(ot.Tag) ot.Table                 // nil for tables missing in the font
	NumGlyphs() (int, bool)                // glyph count from table 'maxp', if present
	GlyphIndex(rune) (ot.GlyphIndex, bool) // character map lookup
}

var _ TableProvider = (*ot.Font)(nil)

// IntersectingPatches returns the patches of font which intersect with sd and have
// not yet been applied. Candidates from scope IFT come before those from IFTX,
// within a scope they are ordered by entry index.
//
// Each scope is processed independently. If the patch map of a scope is malformed,
// this scope contributes no candidates and its error is returned, joined with a
// possible error of the other scope, together with the candidates found in the
// other scope.
func IntersectingPatches(font TableProvider, sd *SubsetDefinition) ([]PatchURI, error) {
	if font == nil {
		return nil, core.Error(core.EINVALID, "cannot intersect patches of nil font")
	}
	var candidates []PatchURI
	var errs []error
	for _, scope := range []Scope{ScopeIFT, ScopeIFTX} {
		patches, err := intersectScope(font, scope, sd)
		if err != nil {
			tracer().Errorf("%s patch map rejected: %v", scope, err)
			errs = append(errs, fmt.Errorf("%s: %w", scope, err))
			continue
		}
		candidates = append(candidates, patches...)
	}
	tracer().Infof("found %d candidate patches", len(candidates))
	return candidates, errors.Join(errs...)
}

// CompatibilityID returns the compatibility ID of a scope's patch map. If the
// font has no patch map for scope, or the table cannot be decoded, false is returned.
func CompatibilityID(font TableProvider, scope Scope) (ot.CompatibilityID, bool) {
	t := font.Table(scope.Tag())
	if t == nil {
		return ot.CompatibilityID{}, false
	}
	pm, err := ot.ParsePatchMap(t)
	if err != nil {
		return ot.CompatibilityID{}, false
	}
	return pm.CompatibilityID, true
}

func intersectScope(font TableProvider, scope Scope, sd *SubsetDefinition) ([]PatchURI, error) {
	t := font.Table(scope.Tag())
	if t == nil {
		tracer().Debugf("font has no %s patch map", scope)
		return nil, nil
	}
	pm, err := ot.ParsePatchMap(t)
	if err != nil {
		return nil, err
	}
	if pm.Format == 2 {
		return nil, core.Error(core.ENOTIMPL, "patch map format 2 is not supported")
	}
	m, err := newScopeMapping(font, scope, pm)
	if err != nil {
		return nil, err
	}
	entries := treeset.NewWith(utils.UInt16Comparator)
	m.addGlyphEntries(font, sd.Codepoints(), entries)
	m.addFeatureEntries(sd.Features(), entries)
	return m.materialize(entries)
}

// scopeMapping is a validated patch map of one scope.
type scopeMapping struct {
	tag      TableTag
	pm       *ot.PatchMapTable
	template *uritemplate.Template
	encoding PatchEncoding
}

func newScopeMapping(font TableProvider, scope Scope, pm *ot.PatchMapTable) (*scopeMapping, error) {
	if n, ok := font.NumGlyphs(); ok && uint32(n) != pm.GlyphCount {
		return nil, core.Error(core.EMALFORMED, "glyph count %d of patch map does not match maxp (%d)",
			pm.GlyphCount, n)
	}
	if pm.MaxGlyphMapEntryIndex > pm.MaxEntryIndex {
		return nil, core.Error(core.EMALFORMED, "max glyph map entry index %d exceeds max entry index %d",
			pm.MaxGlyphMapEntryIndex, pm.MaxEntryIndex)
	}
	tmpl, err := compileTemplate(pm.URITemplate())
	if err != nil {
		return nil, err
	}
	enc, err := EncodingFromFormat(pm.PatchEncoding)
	if err != nil {
		return nil, core.WrapError(err, core.EMALFORMED, "patch map has unrecognized patch encoding")
	}
	return &scopeMapping{
		tag:      TableTag{Scope: scope, CompatID: pm.CompatibilityID},
		pm:       pm,
		template: tmpl,
		encoding: enc,
	}, nil
}

// addGlyphEntries collects the entries of the glyphs the code-points map to.
func (m *scopeMapping) addGlyphEntries(font TableProvider, codepoints []uint32, entries *treeset.Set) {
	for _, cp := range codepoints {
		gid, ok := font.GlyphIndex(rune(cp))
		if !ok {
			continue
		}
		entry, ok := m.pm.GlyphMap.EntryIndex(gid)
		if !ok {
			tracer().Debugf("glyph %d of code-point %#x is not covered by glyph map", gid, cp)
			continue
		}
		if entry > m.pm.MaxGlyphMapEntryIndex {
			continue
		}
		entries.Add(entry)
	}
}

// addFeatureEntries collects the entries mapped from (feature, entry) combinations.
// Feature records and requested features are both walked in ascending tag order.
// Records not strictly ascending are skipped, as are invalid mappings.
func (m *scopeMapping) addFeatureEntries(features []ot.Tag, entries *treeset.Set) {
	fm := m.pm.FeatureMap
	if fm == nil || len(features) == 0 {
		return
	}
	maxGlyphEntry, maxEntry := uint32(m.pm.MaxGlyphMapEntryIndex), uint32(m.pm.MaxEntryIndex)
	next := 0
	var prev ot.Tag
	for r := 0; r < fm.Len() && next < len(features); r++ {
		rec := fm.Record(r)
		if r > 0 && rec.Tag <= prev {
			tracer().Debugf("feature record %s out of order, skipped", rec.Tag)
			continue
		}
		prev = rec.Tag
		for next < len(features) && features[next] < rec.Tag {
			next++
		}
		if next == len(features) || features[next] != rec.Tag {
			continue
		}
		for i := 0; i < int(rec.EntryMapCount); i++ {
			em := fm.EntryMap(rec, i)
			target := uint32(em.First) + uint32(i)
			if em.First > em.Last || uint32(em.Last) > maxGlyphEntry ||
				target <= maxGlyphEntry || target > maxEntry {
				tracer().Debugf("invalid mapping #%d of feature %s", i, rec.Tag)
				continue
			}
			entries.Add(uint16(target))
		}
	}
}

// materialize creates patch candidates for entries, dropping entry 0 and entries
// already applied.
func (m *scopeMapping) materialize(entries *treeset.Set) ([]PatchURI, error) {
	patches := make([]PatchURI, 0, entries.Size())
	it := entries.Iterator()
	for it.Next() {
		index := it.Value().(uint16)
		if index == 0 || m.pm.IsEntryApplied(index) {
			continue
		}
		uri, err := expand(m.template, index)
		if err != nil {
			return nil, err
		}
		patches = append(patches, PatchURI{
			URI:        uri,
			EntryIndex: index,
			Encoding:   m.encoding,
			Source:     m.tag,
		})
	}
	tracer().Debugf("%s patch map yields %d candidates", m.tag.Scope, len(patches))
	return patches, nil
}
