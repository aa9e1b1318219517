package resources

import (
	"context"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/npillmayer/ift/core"
)

// Configuration is the part of an application configuration the resolvers read.
// Schuko configurations, e.g. testconfig.Conf, satisfy it.
type Configuration interface {
	GetString(key string) string
}

var errNoPatchDir = errors.New("patch directory not configured")

// PatchPath maps a patch URI to a file below directory base. Only host and path
// of the URI are considered; the result never leaves base.
func PatchPath(base, uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", core.WrapError(err, core.EINVALID, "patch URI %q cannot be parsed", uri)
	}
	p := path.Join("/", u.Host, path.Clean("/"+u.Path))
	if p == "/" {
		return "", core.Error(core.EINVALID, "patch URI %q has no path", uri)
	}
	return filepath.Join(base, filepath.FromSlash(p[1:])), nil
}

// PatchPromise is the promise of patch data for a set of URIs.
type PatchPromise interface {
	Patches() (map[string][]byte, error)
}

type patchLoader struct {
	*promise[map[string][]byte]
}

// Patches waits for the patches to be loaded. It may be called more than once.
func (loader patchLoader) Patches() (map[string][]byte, error) {
	return loader.await(context.Background())
}

// ResolvePatches loads the data of patches from the directory configured with key
// 'patches'. The promise returns the data of every patch found, keyed by URI.
// If patches are missing, an error with code core.EMISSING is returned in addition,
// naming them.
func ResolvePatches(conf Configuration, uris []string) PatchPromise {
	return patchLoader{resolve(func() (map[string][]byte, error) {
		patches := make(map[string][]byte, len(uris))
		base := conf.GetString("patches")
		if base == "" {
			return patches, core.WrapError(errNoPatchDir, core.EINVALID,
				"key 'patches' should point to a directory of patch files")
		}
		var missing []string
		for _, uri := range uris {
			fpath, err := PatchPath(base, uri)
			if err != nil {
				return patches, err
			}
			data, err := os.ReadFile(fpath)
			if errors.Is(err, fs.ErrNotExist) {
				tracer().Debugf("no patch file %s", fpath)
				missing = append(missing, uri)
				continue
			} else if err != nil {
				return patches, core.WrapError(err, core.EINVALID, "cannot read patch file %s", fpath)
			}
			patches[uri] = data
		}
		tracer().Infof("loaded %d of %d patches", len(patches), len(uris))
		if len(missing) > 0 {
			return patches, NotFound(strings.Join(missing, ", "), patchResourceType)
		}
		return patches, nil
	})}
}
