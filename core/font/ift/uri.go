package ift

import (
	"encoding/base32"
	"encoding/base64"

	"github.com/npillmayer/ift/core"
	"github.com/yosida95/uritemplate/v3"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

var base32Hex = base32.HexEncoding.WithPadding(base32.NoPadding)

// ExpandURITemplate resolves a patch map's URI template for an entry index.
// Templates follow RFC 6570, with these variables defined:
//
//	id    entry index, big endian with leading zero bytes removed, in base32hex without padding
//	d1    last character of id, or '_'
//	d2    second to last character of id, or '_'
//	d3    third to last character of id, or '_'
//	id64  same bytes as for id, in url-safe base64 with padding
//
// For example, template "//foo.bar/{id}" expands to "//foo.bar/04" for entry 1.
func ExpandURITemplate(template string, index uint16) (string, error) {
	tmpl, err := uritemplate.New(template)
	if err != nil {
		return "", core.WrapError(err, core.EMALFORMED, "invalid URI template %q", template)
	}
	return expand(tmpl, index)
}

func expand(tmpl *uritemplate.Template, index uint16) (string, error) {
	b := []byte{byte(index >> 8), byte(index)}
	if b[0] == 0 {
		b = b[1:]
	}
	id := base32Hex.EncodeToString(b)
	vars := uritemplate.Values{}
	vars.Set("id", uritemplate.String(id))
	vars.Set("d1", uritemplate.String(digit(id, 1)))
	vars.Set("d2", uritemplate.String(digit(id, 2)))
	vars.Set("d3", uritemplate.String(digit(id, 3)))
	vars.Set("id64", uritemplate.String(base64.URLEncoding.EncodeToString(b)))
	uri, err := tmpl.Expand(vars)
	if err != nil {
		return "", core.WrapError(err, core.EMALFORMED, "cannot expand URI template for entry %d", index)
	}
	return uri, nil
}

// digit returns the n-th to last character of id.
func digit(id string, n int) string {
	if len(id) < n {
		return "_"
	}
	return id[len(id)-n : len(id)-n+1]
}

// compileTemplate checks that raw is valid UTF-8 and a valid URI template.
func compileTemplate(raw []byte) (*uritemplate.Template, error) {
	s, _, err := transform.String(encoding.UTF8Validator, string(raw))
	if err != nil {
		return nil, core.WrapError(err, core.EMALFORMED, "URI template is not valid UTF-8")
	}
	tmpl, err := uritemplate.New(s)
	if err != nil {
		return nil, core.WrapError(err, core.EMALFORMED, "invalid URI template %q", s)
	}
	return tmpl, nil
}
