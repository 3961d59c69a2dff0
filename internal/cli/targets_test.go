package cli

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjamin-asdf/prefab-checker/internal/config"
	"github.com/benjamin-asdf/prefab-checker/internal/testutil"
)

func TestCollectTargets(t *testing.T) {
	p := testutil.NewTestProject(t).
		WithFile("Assets/Player.prefab", "x").
		WithFile("Assets/Player.prefab.meta", "x").
		WithFile("Assets/Scenes/Main.unity", "x").
		WithFile("Assets/ThirdParty/Kit.prefab", "x").
		WithFile("Library/Cache.prefab", "x").
		WithFile("Assets/readme.txt", "x").
		Build()

	c := config.Default()
	c.Exclude = []string{"Assets/ThirdParty/"}

	paths, err := collectTargets([]string{p.Path}, c)
	require.NoError(t, err)
	assert.Equal(t, []string{p.Abs("Assets/Player.prefab")}, paths)

	c.Extensions = []string{".prefab", ".unity"}
	paths, err = collectTargets([]string{p.Path}, c)
	require.NoError(t, err)
	assert.Equal(t, []string{
		p.Abs("Assets/Player.prefab"),
		p.Abs("Assets/Scenes/Main.unity"),
	}, paths)
}

func TestCollectTargetsExplicitFiles(t *testing.T) {
	p := testutil.NewTestProject(t).
		WithFile("Assets/Player.prefab", "x").
		WithFile("Assets/odd.asset", "x").
		Build()

	paths, err := collectTargets([]string{
		p.Abs("Assets/odd.asset"),
		p.Abs("Assets"),
		p.Abs("Assets/Player.prefab"),
	}, config.Default())
	require.NoError(t, err)
	assert.Equal(t, []string{p.Abs("Assets/odd.asset"), p.Abs("Assets/Player.prefab")}, paths)
}

func TestCollectTargetsMissing(t *testing.T) {
	_, err := collectTargets([]string{filepath.Join(t.TempDir(), "gone")}, config.Default())
	require.Error(t, err)
}

func TestProcessAllKeepsOrder(t *testing.T) {
	paths := []string{"a", "b", "c", "d", "e"}
	var inFlight, peak int32

	results := processAll(context.Background(), paths, 2, func(ctx context.Context, path string) fileResult {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return fileResult{Path: path, Status: StatusOK}
	})

	require.Len(t, results, len(paths))
	for i, r := range results {
		assert.Equal(t, paths[i], r.Path)
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestProcessAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := processAll(ctx, []string{"a"}, 1, func(ctx context.Context, path string) fileResult {
		t.Fatal("fn must not run after cancel")
		return fileResult{}
	})
	assert.Equal(t, StatusError, results[0].Status)
	assert.Equal(t, ErrCanceled, results[0].Code)
}

func TestSummarize(t *testing.T) {
	s := summarize([]fileResult{
		{Status: StatusOK},
		{Status: StatusFixed, Written: true, Fixes: []fixResult{{}, {}}},
		{Status: StatusUnsupported, Written: true, Fixes: []fixResult{{}}},
		{Status: StatusSkipped},
		{Status: StatusError},
	})
	assert.Equal(t, 5, s.Documents)
	assert.Equal(t, 3, s.FixesMade)
	assert.Equal(t, 2, s.Failed())
	assert.Equal(t, "(1 fixed, 1 skipped, 1 unsupported, 1 error)", s.tally())
}
