package ot

import "fmt"

// Navigator is an item of a navigation through a font's structures. An item
// may offer a list (List), a link to another item (Link), or both; what it
// does not offer is returned as a null value.
//
// Errors stick: once a navigation step fails, the following items are void
// and report the error.
type Navigator interface {
	Name() string  // name of the underlying structure
	Link() NavLink // null if the item does not link
	List() NavList // empty if the item is not list-like
	IsVoid() bool  // true after an error in the navigation chain
	Error() error  // the error which voided the chain, if any
}

// NavList is a sequence of items, possibly of different sizes.
type NavList interface {
	Name() string        // name of the underlying structure
	Len() int            // number of items
	Get(int) NavLocation // bytes of item #n
	All() []NavLocation  // bytes of all items
}

// NavigatorFactory creates a Navigator for a given OpenType object `obj` at location
// `loc`.
//
// Patch map tables navigate to a list of their header fields, and link to their
// feature map (if present). A feature map navigates to the list of its feature
// records, each being a Tag followed by an uint16 count of entry map records.
func NavigatorFactory(obj string, loc NavLocation, base NavLocation) Navigator {
	tracer().Debugf("navigator factory for %s", obj)
	switch obj {
	case "IFT ", "IFTX":
		fields := fieldsOf(obj, base)
		link := nullLink("patch map has no feature map")
		if off := base.U32(patchMapFeatureMapOffset); off != 0 && base.U8(0) == 1 {
			link = makeLink32(off, base.Bytes(), "FeatureMap")
		}
		return linkAndList{link: link, list: fields}
	case "FeatureMap":
		n, err := binarySegm(loc.Bytes()).u16(0)
		if err != nil {
			return null(err)
		}
		records := loc.Slice(2, 2+int(n)*featureRecordSize).Bytes()
		if len(records) < int(n)*featureRecordSize {
			return null(errFontFormat("feature map records"))
		}
		return linkAndList{
			link: nullLink("feature records do not link"),
			list: tagRecordList{name: obj, records: viewArray(records, featureRecordSize)},
		}
	}
	if _, ok := tableFields[obj]; ok {
		return linkAndList{link: nullLink("fields do not link"), list: fieldsOf(obj, base)}
	}
	tracer().Debugf("no navigator found -> null navigator")
	return null(errDanglingLink(obj))
}

var tableFields = map[string][]uint8{
	// sum of fields is first entry
	"head": {54, 2, 2, 4, 4, 4, 2, 2, 8, 8, 2, 2, 2, 2, 2, 2, 2, 2, 2},
	"maxp": {6, 4, 2},
	"IFT ": {37, 1, 4, 4, 4, 4, 4, 2, 2, 4, 4, 4},
	"IFTX": {37, 1, 4, 4, 4, 4, 4, 2, 2, 4, 4, 4},
}

// fieldsOf creates a fields list for obj. Tables shorter than the sum of their
// fields produce empty locations for the missing fields.
func fieldsOf(obj string, base NavLocation) otFields {
	pattern := tableFields[obj]
	if len(pattern) == 0 {
		return otFields{name: obj}
	}
	b := binarySegm(base.Bytes())
	if size := int(pattern[0]); len(b) > size {
		b = b[:size]
	}
	return otFields{name: obj, pattern: pattern[1:], b: b}
}

func makeLink32(offset uint32, base binarySegm, target string) NavLink {
	return link32{target: target, base: base, offset: offset}
}

// navBase is the void navigator.
type navBase struct {
	err error
}

func (nbase navBase) Link() NavLink { return nullLink("void navigator") }
func (nbase navBase) List() NavList { return nullList }
func (nbase navBase) IsVoid() bool  { return true }
func (nbase navBase) Error() error  { return nbase.err }

func (nbase navBase) Name() string {
	if nbase.err != nil {
		return nbase.err.Error()
	}
	return "<void>"
}

// linkAndList is a navigator with a list, and possibly a link.
type linkAndList struct {
	err  error
	link NavLink
	list NavList
}

func (ll linkAndList) Link() NavLink { return ll.link }
func (ll linkAndList) List() NavList { return ll.list }
func (ll linkAndList) IsVoid() bool  { return ll.list == nil }
func (ll linkAndList) Name() string  { return ll.list.Name() }
func (ll linkAndList) Error() error  { return ll.err }

func null(err error) Navigator {
	return navBase{err: err}
}

func nullLink(errmsg string) NavLink {
	return link32{err: fmt.Errorf("link: %s", errmsg)}
}

func errDanglingLink(obj string) error {
	return fmt.Errorf("cannot resolve link to %s", obj)
}

var nullList = emptyList{}

// otFields is the list of a table's fixed header fields. pattern holds the
// byte size of each field.
type otFields struct {
	name    string
	pattern []uint8
	b       binarySegm
}

func (f otFields) Name() string { return f.name }
func (f otFields) Len() int     { return len(f.pattern) }

// offset returns the position of field #i.
func (f otFields) offset(i int) int {
	at := 0
	for _, size := range f.pattern[:i] {
		at += int(size)
	}
	return at
}

// Get returns field #i, or an empty location if the table is too short.
func (f otFields) Get(i int) NavLocation {
	if i < 0 || i >= len(f.pattern) {
		return binarySegm{}
	}
	if field, err := f.b.view(f.offset(i), int(f.pattern[i])); err == nil {
		return field
	}
	return binarySegm{}
}

func (f otFields) All() []NavLocation {
	all := make([]NavLocation, len(f.pattern))
	for i := range all {
		all[i] = f.Get(i)
	}
	return all
}
