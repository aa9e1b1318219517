package ift

import (
	"github.com/npillmayer/ift/core"
)

// PatchEncoding is the kind of a patch, telling what applying it invalidates.
type PatchEncoding uint8

// The three kinds of patches. Format numbers 1 and 2 of the patch map denote
// fully invalidating table keyed patches, 3 partially invalidating table keyed
// patches and 4 glyph keyed patches.
const (
	FullyInvalidatingTableKeyed     PatchEncoding = iota + 1 // invalidates every other patch
	PartiallyInvalidatingTableKeyed                          // invalidates patches of the same scope
	GlyphKeyed                                               // invalidates nothing
)

// EncodingFromFormat maps a format number to its patch encoding. Unknown
// format numbers result in an error with code core.EENCODING.
func EncodingFromFormat(format uint8) (PatchEncoding, error) {
	switch format {
	case 1, 2:
		return FullyInvalidatingTableKeyed, nil
	case 3:
		return PartiallyInvalidatingTableKeyed, nil
	case 4:
		return GlyphKeyed, nil
	}
	return 0, core.Error(core.EENCODING, "unrecognized patch encoding format %d", format)
}

// Invalidates is true for table keyed patches.
func (enc PatchEncoding) Invalidates() bool {
	return enc == FullyInvalidatingTableKeyed || enc == PartiallyInvalidatingTableKeyed
}

func (enc PatchEncoding) String() string {
	switch enc {
	case FullyInvalidatingTableKeyed:
		return "FullyInvalidatingTableKeyed"
	case PartiallyInvalidatingTableKeyed:
		return "PartiallyInvalidatingTableKeyed"
	case GlyphKeyed:
		return "GlyphKeyed"
	}
	return "UnknownEncoding"
}
