/*
Package ift reads the patch maps of an incrementally transferred font.

An incremental font carries up to two patch map tables, 'IFT ' and 'IFTX'.
Each maps glyphs and features to entries, and each entry to a patch, identified
by a URI. Given a subset definition, i.e. the code-points and features an
application needs, IntersectingPatches determines the patches which extend the
font towards that subset.

	sd := ift.NewSubsetDefinition([]rune("Hello"), []ot.Tag{ot.T("liga")})
	candidates, err := ift.IntersectingPatches(otf, sd)

The two tables are independent scopes. A malformed table in one of them
does not keep the other from contributing candidates; in this case both
candidates and an error are returned.

Selecting a compatible set of patches from the candidates and applying them is
the task of package patchgroup.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package ift

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ift.patches'
func tracer() tracing.Trace {
	return tracing.Select("ift.patches")
}
