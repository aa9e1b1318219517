package patchgroup

import (
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/npillmayer/ift/core/font/ift"
	"github.com/npillmayer/ift/core/font/opentype/ot"
)

// Select picks a compatible group from candidate patches. iftCompat and iftxCompat
// are the compatibility IDs the font currently carries for each scope, or nil if
// the font lacks the scope.
//
// Partially invalidating and glyph keyed candidates are assigned to the scope whose
// compatibility ID they expect, IFT checked first. Candidates expecting neither are
// stale and dropped. If there are fully invalidating candidates, the group consists
// of the first of them. Otherwise each scope gets its first partially invalidating
// candidate, if it has one, or else its set of glyph keyed candidates. Ties are
// broken by input order.
//
// Select never fails; no candidates result in an empty group.
func Select(candidates []ift.PatchURI, iftCompat, iftxCompat *ot.CompatibilityID) CompatibleGroup {
	var full []ift.PatchInfo
	var partial [2][]ift.PatchInfo
	noInvalidation := [2]*treemap.Map{treemap.NewWithStringComparator(), treemap.NewWithStringComparator()}
	for _, c := range candidates {
		if c.Encoding == ift.FullyInvalidatingTableKeyed {
			full = append(full, c.Info())
			continue
		}
		scope, ok := scopeFor(c, iftCompat, iftxCompat)
		if !ok {
			tracer().Debugf("dropping stale candidate %s", c)
			continue
		}
		switch c.Encoding {
		case ift.PartiallyInvalidatingTableKeyed:
			partial[scope] = append(partial[scope], c.Info())
		case ift.GlyphKeyed:
			noInvalidation[scope].Put(c.URI, c.Info())
		default:
			tracer().Errorf("candidate %s has unknown encoding", c.URI)
		}
	}
	if len(full) > 0 {
		tracer().Debugf("%d fully invalidating candidates, selecting %s", len(full), full[0].URI)
		return CompatibleGroup{full: &full[0]}
	}
	g := CompatibleGroup{}
	if len(partial[ift.ScopeIFT]) > 0 {
		g.ift.partial = &partial[ift.ScopeIFT][0]
	} else {
		g.ift.noInvalidation = noInvalidation[ift.ScopeIFT]
	}
	for i, p := range partial[ift.ScopeIFTX] {
		if g.ift.partial == nil || p.URI != g.ift.partial.URI {
			g.iftx.partial = &partial[ift.ScopeIFTX][i]
			break
		}
	}
	if g.iftx.partial == nil {
		g.iftx.noInvalidation = noInvalidation[ift.ScopeIFTX]
	}
	// a URI must not be selected in both scopes
	switch {
	case g.ift.partial != nil && g.iftx.partial == nil:
		g.iftx.noInvalidation.Remove(g.ift.partial.URI)
	case g.ift.partial == nil && g.iftx.partial != nil:
		g.ift.noInvalidation.Remove(g.iftx.partial.URI)
	case g.ift.partial == nil && g.iftx.partial == nil:
		for _, uri := range g.ift.noInvalidation.Keys() {
			g.iftx.noInvalidation.Remove(uri)
		}
	}
	tracer().Debugf("selected group %s", g)
	return g
}

func scopeFor(c ift.PatchURI, iftCompat, iftxCompat *ot.CompatibilityID) (ift.Scope, bool) {
	expected := c.ExpectedCompatibilityID()
	if iftCompat != nil && *iftCompat == expected {
		return ift.ScopeIFT, true
	}
	if iftxCompat != nil && *iftxCompat == expected {
		return ift.ScopeIFTX, true
	}
	return ift.ScopeIFT, false
}
