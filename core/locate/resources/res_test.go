package resources

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/ift/core"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func TestPatchPath(t *testing.T) {
	base := filepath.FromSlash("/tmp/patches")
	for uri, expected := range map[string]string{
		"//foo.bar/04":               "/tmp/patches/foo.bar/04",
		"https://foo.bar/ift/0G":     "/tmp/patches/foo.bar/ift/0G",
		"//foo.bar/../../etc/passwd": "/tmp/patches/foo.bar/etc/passwd",
		"patches/AA%3D%3D":           "/tmp/patches/patches/AA==",
		"//foo.bar/./a//b":           "/tmp/patches/foo.bar/a/b",
	} {
		p, err := PatchPath(base, uri)
		require.NoError(t, err, uri)
		assert.Equal(t, filepath.FromSlash(expected), p, uri)
	}
	_, err := PatchPath(base, "//")
	assert.Equal(t, core.EINVALID, core.Code(err))
}

func TestResolvePatches(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ift.resources")
	defer teardown()
	//
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "foo.bar"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "foo.bar", "04"), []byte("patch 1"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "foo.bar", "08"), []byte("patch 2"), 0644))
	conf := testconfig.Conf{"patches": dir}
	//
	patches, err := ResolvePatches(conf, []string{"//foo.bar/04", "//foo.bar/08"}).Patches()
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{
		"//foo.bar/04": []byte("patch 1"),
		"//foo.bar/08": []byte("patch 2"),
	}, patches)
	//
	patches, err = ResolvePatches(conf, []string{"//foo.bar/04", "//foo.bar/0C", "//foo.bar/0G"}).Patches()
	assert.Equal(t, core.EMISSING, core.Code(err))
	assert.Contains(t, err.Error(), "//foo.bar/0C, //foo.bar/0G")
	assert.Len(t, patches, 1, "patches found are returned with the error")
	//
	_, err = ResolvePatches(testconfig.Conf{}, []string{"//foo.bar/04"}).Patches()
	assert.Equal(t, core.EINVALID, core.Code(err))
}

func TestResolveFontFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ift.resources")
	defer teardown()
	//
	fpath := filepath.Join(t.TempDir(), "goregular.ttf")
	require.NoError(t, os.WriteFile(fpath, goregular.TTF, 0644))
	otf, err := ResolveFont(fpath).Font()
	require.NoError(t, err)
	n, ok := otf.NumGlyphs()
	assert.True(t, ok)
	assert.Greater(t, n, 0)
	//
	_, err = ResolveFont("no-such-font-3f9a1c").Font()
	assert.Equal(t, core.EMISSING, core.Code(err))
}

func TestPromisesAwaitTwice(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ift.resources")
	defer teardown()
	//
	fpath := filepath.Join(t.TempDir(), "goregular.ttf")
	require.NoError(t, os.WriteFile(fpath, goregular.TTF, 0644))
	fp := ResolveFont(fpath)
	otf1, err1 := fp.Font()
	otf2, err2 := fp.Font()
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Same(t, otf1, otf2, "every await should return the same font")
	//
	missing := ResolveFont("no-such-font-3f9a1c")
	for i := 0; i < 2; i++ {
		_, err := missing.Font()
		assert.Equal(t, core.EMISSING, core.Code(err), "await #%d", i)
	}
	//
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "foo.bar"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "foo.bar", "04"), []byte("patch 1"), 0644))
	pp := ResolvePatches(testconfig.Conf{"patches": dir}, []string{"//foo.bar/04", "//foo.bar/08"})
	for i := 0; i < 2; i++ {
		patches, err := pp.Patches()
		assert.Equal(t, core.EMISSING, core.Code(err), "await #%d", i)
		assert.Equal(t, []byte("patch 1"), patches["//foo.bar/04"], "await #%d", i)
	}
}

func TestPromiseCanceled(t *testing.T) {
	block := make(chan struct{})
	p := resolve(func() (int, error) {
		<-block
		return 7, nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.await(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	close(block)
	n, err := p.await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n, "a canceled await should not consume the result")
}
