/*
Package ot provides access to the OpenType font tables needed by an incremental
font transfer client.

Intended audience for this package are packages which need to inspect the
binary structure of a font without rasterizing it, most importantly package
`ift`, which reads the patch map tables 'IFT ' and 'IFTX' to decide which
patches to fetch next.

Package `ot` will not provide functions to interpret every table of a font, but rather
just expose the tables to the client. Tables interpreted are 'cmap' (for mapping
code-points to glyphs), 'head', 'maxp' and, on demand, the patch map tables.
All other tables are carried as generic tables with access to their binary data,
so no table information is dropped. This package is not intended for font
manipulation: applying a patch to a font produces a new binary, which has to
be parsed again.

# Navigating Tables

The binary data of a font can be thought of as a bunch of structures
connected by links. The linking is done by offsets (u16 or u32) from link anchors
defined by the OpenType specification. Data-structures may be categorized into fields-like,
list-like and map-like. Conceptually it should be possible to navigate the graph,
spanned by links and structures, without caring about implementation details.

As an example, to read the maximum entry index of an 'IFT ' table, clients
consult the table layout and find it to be field #6 (counting from 0):

	ift := otf.Table(ot.T("IFT "))
	maxEntryIndex := ift.Fields().List().Get(6).U16(0)

This is null-safe: if the table is too short, the resulting location is empty
and reading from it yields 0. For anything beyond debugging, clients should
rather decode the table with `ParsePatchMap`, which checks the table's
structure upfront:

	pm, err := ot.ParsePatchMap(ift)
	if err != nil {
	    … // table is malformed
	}
	fmt.Printf("entries up to %d, template %q\n", pm.MaxEntryIndex, pm.URITemplate())

# Status

No font collections nor variable fonts are supported. The second format of
patch map tables is recognized, but not decoded.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Some code has originally been copied over from golang.org/x/image/font/sfnt/cmap.go,
as the cmap-routines are not accessible through the sfnt package's API.

	Copyright 2017 The Go Authors. All rights reserved.
	Use of this source code is governed by a BSD-style
	license that can be found in the LICENSE file.
*/
package ot

import (
	"github.com/npillmayer/ift/core"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ift.fonts'
func tracer() tracing.Trace {
	return tracing.Select("ift.fonts")
}

// errFontFormat produces user level errors for font parsing.
func errFontFormat(x string) error {
	return core.Error(core.EMALFORMED, "OpenType font format: %s", x)
}
