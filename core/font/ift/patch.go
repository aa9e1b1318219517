package ift

import (
	"fmt"

	"github.com/npillmayer/ift/core/font/opentype/ot"
)

// Scope is one of the two independent patch map tables of a font.
type Scope uint8

// Scopes, in the order they are processed.
const (
	ScopeIFT Scope = iota
	ScopeIFTX
)

// Tag returns the table tag of a scope.
func (s Scope) Tag() ot.Tag {
	if s == ScopeIFTX {
		return ot.TagIFTX
	}
	return ot.TagIFT
}

func (s Scope) String() string {
	if s == ScopeIFTX {
		return "IFTX"
	}
	return "IFT"
}

// TableTag identifies the patch map table a patch has been found in, together with
// the compatibility ID that table carried.
type TableTag struct {
	Scope    Scope
	CompatID ot.CompatibilityID
}

func (tt TableTag) String() string {
	return fmt.Sprintf("%s(%s)", tt.Scope, tt.CompatID)
}

// PatchURI is a candidate patch, as found by intersecting a subset definition with
// a patch map.
type PatchURI struct {
	URI        string
	EntryIndex uint16
	Encoding   PatchEncoding
	Source     TableTag
}

// ExpectedCompatibilityID is the compatibility ID the patch's scope has to carry
// for the patch to be applicable.
func (p PatchURI) ExpectedCompatibilityID() ot.CompatibilityID {
	return p.Source.CompatID
}

// Info reduces p to the data needed after selection.
func (p PatchURI) Info() PatchInfo {
	return PatchInfo{URI: p.URI, Source: p.Source}
}

func (p PatchURI) String() string {
	return fmt.Sprintf("%s[%d] %s %s", p.Source.Scope, p.EntryIndex, p.Encoding, p.URI)
}

// PatchInfo is what is retained of a patch once it has been selected.
type PatchInfo struct {
	URI    string
	Source TableTag
}
