package patchgroup

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/npillmayer/ift/core/font/ift"
)

// CompatibleGroup is a group of patches which may be applied together, i.e. one
// after the other without re-selecting.
//
// A group either holds a single fully invalidating patch, or a scoped group for
// each of the two scopes. At most one patch of a group is invalidating, and no
// URI appears twice in a group.
type CompatibleGroup struct {
	full *ift.PatchInfo
	ift  ScopedGroup
	iftx ScopedGroup
}

// ScopedGroup is the part of a compatible group belonging to one scope. It either
// holds a single partially invalidating patch, or a set of non-invalidating patches,
// ordered by URI.
type ScopedGroup struct {
	partial        *ift.PatchInfo
	noInvalidation *treemap.Map // URI → ift.PatchInfo
}

// Full returns the fully invalidating patch of g, if g is a group of this kind.
func (g CompatibleGroup) Full() (ift.PatchInfo, bool) {
	if g.full == nil {
		return ift.PatchInfo{}, false
	}
	return *g.full, true
}

// Scope returns the scoped group for scope s. For groups holding a fully
// invalidating patch, the scoped groups are empty.
func (g CompatibleGroup) Scope(s ift.Scope) ScopedGroup {
	if s == ift.ScopeIFTX {
		return g.iftx
	}
	return g.ift
}

// URIs returns the URIs of all patches of the group. Invalidating patches come
// first, IFT before IFTX. Non-invalidating patches follow, the ones of scope IFT
// first, each scope's URIs sorted.
func (g CompatibleGroup) URIs() []string {
	var uris []string
	for _, info := range g.invalidating() {
		uris = append(uris, info.URI)
	}
	for _, info := range g.noInvalidation() {
		uris = append(uris, info.URI)
	}
	return uris
}

// HasURIs is true if the group contains at least one patch.
func (g CompatibleGroup) HasURIs() bool {
	return len(g.invalidating()) > 0 || g.ift.size() > 0 || g.iftx.size() > 0
}

func (g CompatibleGroup) String() string {
	if g.full != nil {
		return fmt.Sprintf("Full(%s)", g.full.URI)
	}
	return fmt.Sprintf("Mixed{ift: %s, iftx: %s}", g.ift, g.iftx)
}

// invalidating returns the invalidating patches of g, in order of application.
func (g CompatibleGroup) invalidating() []ift.PatchInfo {
	if g.full != nil {
		return []ift.PatchInfo{*g.full}
	}
	var infos []ift.PatchInfo
	if p, ok := g.ift.Partial(); ok {
		infos = append(infos, p)
	}
	if p, ok := g.iftx.Partial(); ok {
		infos = append(infos, p)
	}
	return infos
}

func (g CompatibleGroup) noInvalidation() []ift.PatchInfo {
	return append(g.ift.NoInvalidation(), g.iftx.NoInvalidation()...)
}

// Partial returns the partially invalidating patch of sg, if any.
func (sg ScopedGroup) Partial() (ift.PatchInfo, bool) {
	if sg.partial == nil {
		return ift.PatchInfo{}, false
	}
	return *sg.partial, true
}

// NoInvalidation returns the non-invalidating patches of sg, sorted by URI.
func (sg ScopedGroup) NoInvalidation() []ift.PatchInfo {
	if sg.noInvalidation == nil {
		return nil
	}
	infos := make([]ift.PatchInfo, 0, sg.noInvalidation.Size())
	it := sg.noInvalidation.Iterator()
	for it.Next() {
		infos = append(infos, it.Value().(ift.PatchInfo))
	}
	return infos
}

func (sg ScopedGroup) size() int {
	if sg.partial != nil {
		return 1
	}
	if sg.noInvalidation == nil {
		return 0
	}
	return sg.noInvalidation.Size()
}

func (sg ScopedGroup) String() string {
	if sg.partial != nil {
		return fmt.Sprintf("Partial(%s)", sg.partial.URI)
	}
	uris := make([]string, 0, sg.size())
	for _, info := range sg.NoInvalidation() {
		uris = append(uris, info.URI)
	}
	return fmt.Sprintf("NoInvalidation{%s}", strings.Join(uris, ", "))
}
