/*
Package resources resolves fonts and patch data for an incremental font
transfer client.

As resource loading may be a time-consuming task, functions in this
package work in an async/await fashion by returning a promise.
Functions named

	Resolve…(…)

will return a resource-specific promise type, which the client will call later
to receive the loaded resource. The call to the promise-function will then block
until loading has completed.

Patch data is read from a local directory, configured with key 'patches'.
A patch URI is mapped to a file below this directory by its host and path,
e.g. with 'patches' set to "/tmp/p", URI "//fonts.example.com/ift/04" resolves
to "/tmp/p/fonts.example.com/ift/04". Network access is left to other tools.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package resources

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'ift.resources'.
func tracer() tracing.Trace {
	return tracing.Select("ift.resources")
}
