package resources

import (
	"context"
	"fmt"
	"os"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/ift/core"
	"github.com/npillmayer/ift/core/font/opentype/ot"
)

type resourceType int

// resource types
const (
	unknownResourceType resourceType = iota
	fontResourceType
	patchResourceType
)

// NotFound returns an application error for a missing resource.
func NotFound(res string, rtype resourceType) error {
	e := fmt.Errorf("resource missing: %v", res)
	var s string
	switch rtype {
	case fontResourceType:
		s = fmt.Sprintf("font not found: %s", res)
	case patchResourceType:
		s = fmt.Sprintf("patch not found: %s", res)
	default:
		s = fmt.Sprintf("resource not found: %s", res)
	}
	return core.WrapError(e, core.EMISSING, s)
}

// --- Fonts -----------------------------------------------------------------

// FontPromise is the promise of a parsed font.
type FontPromise interface {
	Font() (*ot.Font, error)
}

type fontLoader struct {
	*promise[*ot.Font]
}

// Font waits for the font to be loaded. It may be called more than once.
func (loader fontLoader) Font() (*ot.Font, error) {
	return loader.await(context.Background())
}

// ResolveFont loads and parses a font. name is either the path of a font file
// or the name of a font installed on the system.
func ResolveFont(name string) FontPromise {
	return fontLoader{resolve(func() (*ot.Font, error) {
		fpath := name
		if _, err := os.Stat(fpath); err != nil {
			fpath, err = findfont.Find(name) // try to find as system font
			if err != nil || fpath == "" {
				return nil, NotFound(name, fontResourceType)
			}
			tracer().Debugf("%s is a system font", name)
		}
		data, err := os.ReadFile(fpath)
		if err != nil {
			return nil, err
		}
		tracer().Infof("loading font %s", fpath)
		return ot.Parse(data)
	})}
}
