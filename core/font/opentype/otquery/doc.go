/*
Package otquery queries information from OpenType fonts.

Package otquery provides functions to summarize the tables of a font which
are relevant for incremental font transfer. Clients of this package are
tools which inspect fonts, such as the interactive IFT client in package
iftcli, and tests.

# Status

Only fonts with a single face are supported. Patch map tables of format 2 are
reported with their compatibility ID only.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otquery

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ift.fonts'
func tracer() tracing.Trace {
	return tracing.Select("ift.fonts")
}
