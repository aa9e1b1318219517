/*
Package patchgroup selects a compatible group of patches for an incrementally
transferred font and coordinates applying them.

Patches differ in what applying them invalidates. A fully invalidating patch
replaces the font's patch maps altogether, so every other candidate becomes
stale. A partially invalidating patch does so for the patches of its own scope
(table 'IFT ' or 'IFTX'). Glyph keyed patches invalidate nothing and may be
applied together in a single pass. Select picks a group of candidates which
may safely be applied in sequence:

	group := patchgroup.Select(candidates, &iftID, &iftxID)
	for _, uri := range group.URIs() {
	    … // fetch
	}

Applying is done in rounds. Each round applies either one invalidating patch or
the batch of all non-invalidating ones, and yields a new font binary. Clients then
parse the new font, select again, fetch, and apply, until no more patches are
selected:

	status := map[string]patchgroup.URIStatus{}
	for {
	    group, err := patchgroup.SelectNextPatches(otf, sd)
	    … // check err
	    if !group.HasURIs() {
	        break
	    }
	    … // fetch group.URIs() not yet present in status, store them as Pending(data)
	    font, err := group.ApplyNextPatches(status, patcher)
	    … // check err, then parse font into otf
	}

Status bookkeeping is left to the client. Patch groups flip entries of the
status map from Pending to Applied, but never create or delete entries.
Fetching patch data, including any retry policy, happens between rounds and is
not a concern of this package.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package patchgroup

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ift.patches'
func tracer() tracing.Trace {
	return tracing.Select("ift.patches")
}
