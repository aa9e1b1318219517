package ift

import (
	"testing"

	"github.com/npillmayer/ift/core"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestExpandURITemplate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ift.patches")
	defer teardown()
	//
	for i, x := range []struct {
		template string
		index    uint16
		uri      string
	}{
		{"//foo.bar/{id}", 0, "//foo.bar/00"},
		{"//foo.bar/{id}", 1, "//foo.bar/04"},
		{"//foo.bar/{id}", 2, "//foo.bar/08"},
		{"//foo.bar/{id}", 3, "//foo.bar/0C"},
		{"//foo.bar/{id}", 4, "//foo.bar/0G"},
		{"//foo.bar/{id}", 5, "//foo.bar/0K"},
		{"//foo.bar/{id}", 256, "//foo.bar/0400"},
		{"//foo.bar/{d3}/{d2}/{d1}/{id}", 1, "//foo.bar/_/0/4/04"},
		{"//foo.bar/{d3}/{d2}/{d1}/{id}", 256, "//foo.bar/4/0/0/0400"},
		{"https://foo.bar/{id64}", 0, "https://foo.bar/AA%3D%3D"},
		{"https://foo.bar/{id64}", 0x1234, "https://foo.bar/EjQ%3D"},
		{"static.woff2", 7, "static.woff2"},
	} {
		uri, err := ExpandURITemplate(x.template, x.index)
		if err != nil {
			t.Errorf("test #%d: unexpected error %v", i, err)
			continue
		}
		if uri != x.uri {
			t.Errorf("test #%d: expected %q to expand to %q for entry %d, is %q", i, x.template, x.uri,
				x.index, uri)
		}
	}
}

func TestInvalidURITemplate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ift.patches")
	defer teardown()
	//
	if _, err := ExpandURITemplate("//foo.bar/{id", 1); core.Code(err) != core.EMALFORMED {
		t.Errorf("expected unterminated expression to be malformed, error is %v", err)
	}
	if _, err := compileTemplate([]byte("//foo.bar/\xff{id}")); core.Code(err) != core.EMALFORMED {
		t.Errorf("expected invalid UTF-8 to be malformed, error is %v", err)
	}
	if _, err := compileTemplate([]byte("//foo.bar/{d1}/{id}")); err != nil {
		t.Errorf("expected template to compile, error is %v", err)
	}
}
