package ift

import (
	"sort"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/ift/core/font/opentype/ot"
)

// SubsetDefinition is a request for the code-points and features an application
// needs a font to support. It is immutable after construction.
type SubsetDefinition struct {
	codepoints *treeset.Set // of uint32
	features   []ot.Tag     // sorted, unique
}

// NewSubsetDefinition creates a subset definition. Duplicates in either argument
// are removed.
func NewSubsetDefinition(codepoints []rune, features []ot.Tag) *SubsetDefinition {
	sd := &SubsetDefinition{codepoints: treeset.NewWith(utils.UInt32Comparator)}
	for _, r := range codepoints {
		sd.codepoints.Add(uint32(r))
	}
	if len(features) > 0 {
		tags := append([]ot.Tag{}, features...)
		sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
		sd.features = tags[:1]
		for _, tag := range tags[1:] {
			if tag != sd.features[len(sd.features)-1] {
				sd.features = append(sd.features, tag)
			}
		}
	}
	return sd
}

// Codepoints creates a subset definition without features.
func Codepoints(codepoints ...rune) *SubsetDefinition {
	return NewSubsetDefinition(codepoints, nil)
}

// Codepoints returns the code-points of sd in ascending order.
func (sd *SubsetDefinition) Codepoints() []uint32 {
	if sd == nil || sd.codepoints == nil {
		return nil
	}
	cps := make([]uint32, 0, sd.codepoints.Size())
	it := sd.codepoints.Iterator()
	for it.Next() {
		cps = append(cps, it.Value().(uint32))
	}
	return cps
}

// Features returns the feature tags of sd, sorted.
func (sd *SubsetDefinition) Features() []ot.Tag {
	if sd == nil {
		return nil
	}
	return append([]ot.Tag{}, sd.features...)
}

// IsEmpty is true if sd requests neither code-points nor features.
func (sd *SubsetDefinition) IsEmpty() bool {
	return sd == nil || ((sd.codepoints == nil || sd.codepoints.Empty()) && len(sd.features) == 0)
}
