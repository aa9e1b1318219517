package patchgroup

import (
	"strings"

	"github.com/npillmayer/ift/core"
	"github.com/npillmayer/ift/core/font/ift"
	"github.com/npillmayer/ift/core/font/opentype/ot"
)

// Patcher applies patch data to a font binary. Implementations return a new
// binary and leave the input untouched. Failures should be reported as errors
// with code core.EPATCH.
type Patcher interface {
	// ApplyTableKeyedPatch applies a single table keyed patch.
	ApplyTableKeyedPatch(font []byte, info ift.PatchInfo, patch []byte) ([]byte, error)
	// ApplyGlyphKeyedPatches applies a batch of glyph keyed patches in one pass.
	ApplyGlyphKeyedPatches(font []byte, patches []PatchPayload) ([]byte, error)
}

// PatchPayload is a patch together with its fetched data.
type PatchPayload struct {
	Info ift.PatchInfo
	Data []byte
}

// PatchGroup is a compatible group of patches, bound to the font binary it has
// been selected for. A patch group is good for one round of patch application.
// It is not safe for concurrent use.
type PatchGroup struct {
	font    []byte
	group   CompatibleGroup
	applied bool
}

// SelectNextPatches intersects the patch maps of otf with sd and selects a compatible
// group from the candidates.
//
// If the patch map of one scope is malformed, the group is selected from the
// candidates of the other scope, and returned together with the error.
func SelectNextPatches(otf *ot.Font, sd *ift.SubsetDefinition) (*PatchGroup, error) {
	if otf == nil {
		return nil, core.Error(core.EINVALID, "cannot select patches for nil font")
	}
	candidates, err := ift.IntersectingPatches(otf, sd)
	if err != nil {
		tracer().Errorf("patch maps partially unusable: %v", err)
	}
	var iftCompat, iftxCompat *ot.CompatibilityID
	if id, ok := ift.CompatibilityID(otf, ift.ScopeIFT); ok {
		iftCompat = &id
	}
	if id, ok := ift.CompatibilityID(otf, ift.ScopeIFTX); ok {
		iftxCompat = &id
	}
	pg := &PatchGroup{
		font:  otf.Binary(),
		group: Select(candidates, iftCompat, iftxCompat),
	}
	tracer().Infof("selected %d of %d candidate patches", len(pg.group.URIs()), len(candidates))
	return pg, err
}

// Group returns the compatible group of pg.
func (pg *PatchGroup) Group() CompatibleGroup {
	return pg.group
}

// URIs returns the URIs of the patches of pg, see CompatibleGroup.URIs.
func (pg *PatchGroup) URIs() []string {
	return pg.group.URIs()
}

// HasURIs is true if pg contains at least one patch.
func (pg *PatchGroup) HasURIs() bool {
	return pg.group.HasURIs()
}

// ApplyNextPatches applies the next step of the group and returns the new font
// binary. status has to contain an entry for every patch needed.
//
// If the group holds an invalidating patch which is still pending, only this
// patch is applied. Invalidating patches already applied are skipped. Otherwise
// all pending non-invalidating patches of both scopes are applied in one batch.
// Applied patches are marked as Applied in status.
//
// Errors are:
//
//	core.EMISSING   a patch needed has no entry in status
//	core.EEMPTY     every patch of the group has already been applied
//	core.EINVALID   the group has already been applied
//
// Errors of the patcher are returned unchanged. If an error is returned, status
// is left untouched and the call may be repeated.
func (pg *PatchGroup) ApplyNextPatches(status map[string]URIStatus, patcher Patcher) ([]byte, error) {
	if pg.applied {
		return nil, core.Error(core.EINVALID, "patch group has already been applied")
	}
	if patcher == nil {
		return nil, core.Error(core.EINVALID, "no patcher to apply patches with")
	}
	for _, info := range pg.group.invalidating() {
		st, ok := status[info.URI]
		if !ok {
			return nil, core.Error(core.EMISSING, "missing patch data for %s", info.URI)
		}
		if st.IsApplied() {
			tracer().Debugf("invalidating patch %s already applied", info.URI)
			continue
		}
		font, err := patcher.ApplyTableKeyedPatch(pg.font, info, st.Data())
		if err != nil {
			return nil, err
		}
		status[info.URI] = Applied()
		pg.applied = true
		tracer().Infof("applied invalidating patch %s", info.URI)
		return font, nil
	}
	var payloads []PatchPayload
	var missing []string
	for _, info := range pg.group.noInvalidation() {
		st, ok := status[info.URI]
		if !ok {
			missing = append(missing, info.URI)
			continue
		}
		if !st.IsApplied() {
			payloads = append(payloads, PatchPayload{Info: info, Data: st.Data()})
		}
	}
	if len(missing) > 0 {
		return nil, core.Error(core.EMISSING, "missing patch data for %s", strings.Join(missing, ", "))
	}
	if len(payloads) == 0 {
		return nil, core.Error(core.EEMPTY, "no patches left to apply")
	}
	font, err := patcher.ApplyGlyphKeyedPatches(pg.font, payloads)
	if err != nil {
		return nil, err
	}
	for _, p := range payloads {
		status[p.Info.URI] = Applied()
	}
	pg.applied = true
	tracer().Infof("applied %d glyph keyed patches", len(payloads))
	return font, nil
}
