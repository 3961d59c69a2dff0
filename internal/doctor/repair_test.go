package doctor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjamin-asdf/prefab-checker/internal/audit"
	"github.com/benjamin-asdf/prefab-checker/internal/check"
	"github.com/benjamin-asdf/prefab-checker/internal/fault"
	"github.com/benjamin-asdf/prefab-checker/internal/testutil"
)

// twoIssues needs two passes: a fresh id for Player's script, then a block
// rewrite for Weapon.
func twoIssues() string {
	return testutil.NewPrefab().
		GameObject("100", "Player", "200").
		Transform("200", "100", "0").
		MonoBehaviour("", "100").
		GameObject("400", "Weapon", "500").
		Transform("500", "400", "0").
		MonoBehaviour("600", "400").
		String()
}

func TestRepairWritesSingleFix(t *testing.T) {
	p := testutil.NewTestProject(t).WithFile("Assets/Player.prefab", twoIssues()).Build()

	out, err := Repair(context.Background(), p.Abs("Assets/Player.prefab"), RepairOptions{})
	require.NoError(t, err)
	require.Len(t, out.Fixes, 1)
	assert.True(t, out.Written)
	assert.True(t, out.Remaining)
	assert.Equal(t, check.AssignFreshID, out.Fixes[0].Kind)

	p.AssertFileContains("Assets/Player.prefab", "--- !u!114 &-1337")
}

func TestRepairMultiplePasses(t *testing.T) {
	p := testutil.NewTestProject(t).WithFile("Player.prefab", twoIssues()).Build()

	out, err := Repair(context.Background(), p.Abs("Player.prefab"), RepairOptions{MaxPasses: 5})
	require.NoError(t, err)
	require.Len(t, out.Fixes, 2)
	assert.False(t, out.Remaining)
	assert.Equal(t, check.RewriteCompRefBlock, out.Fixes[1].Kind)

	res, err := Analyze("Player.prefab", p.ReadFile("Player.prefab"))
	require.NoError(t, err)
	assert.False(t, res.HasFix())
}

func TestRepairDryRun(t *testing.T) {
	p := testutil.NewTestProject(t).WithFile("Player.prefab", twoIssues()).Build()

	out, err := Repair(context.Background(), p.Abs("Player.prefab"), RepairOptions{DryRun: true, MaxPasses: 2})
	require.NoError(t, err)
	assert.Len(t, out.Fixes, 2)
	assert.False(t, out.Written)
	p.AssertFileUnchanged("Player.prefab")
}

func TestRepairConsistentFileUntouched(t *testing.T) {
	p := testutil.NewTestProject(t).WithFile("Player.prefab", testutil.ValidPrefab().String()).Build()

	out, err := Repair(context.Background(), p.Abs("Player.prefab"), RepairOptions{MaxPasses: 3})
	require.NoError(t, err)
	assert.Empty(t, out.Fixes)
	assert.False(t, out.Written)
	p.AssertFileUnchanged("Player.prefab")
}

func TestRepairKeepsEarlierPassesOnFailure(t *testing.T) {
	// Pass one restores the script id; pass two finds the orphan.
	content := testutil.NewPrefab().
		GameObject("100", "Player", "200", "300").
		Transform("200", "100", "0").
		MonoBehaviour("", "100").
		GameObject("700", "Lonely", "800").
		String()
	p := testutil.NewTestProject(t).WithFile("Player.prefab", content).Build()

	out, err := Repair(context.Background(), p.Abs("Player.prefab"), RepairOptions{MaxPasses: 3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fault.ErrUnsupported))
	require.NotNil(t, out)
	assert.Len(t, out.Fixes, 1)
	assert.True(t, out.Written)
	p.AssertFileContains("Player.prefab", "--- !u!114 &300")
}

func TestRepairRefusalLeavesFile(t *testing.T) {
	content := testutil.ValidPrefab().Line("  - 1: {fileID: 2}").String()
	p := testutil.NewTestProject(t).WithFile("Legacy.prefab", content).Build()

	out, err := Repair(context.Background(), p.Abs("Legacy.prefab"), RepairOptions{})
	assert.True(t, errors.Is(err, fault.ErrSkipped))
	assert.False(t, out.Written)
	p.AssertFileUnchanged("Legacy.prefab")
}

func TestRepairMissingFile(t *testing.T) {
	_, err := Repair(context.Background(), filepath.Join(t.TempDir(), "nope.prefab"), RepairOptions{})
	require.Error(t, err)
	assert.Equal(t, fault.Kind(0), fault.KindOf(err))
}

func TestRepairWritesAudit(t *testing.T) {
	p := testutil.NewTestProject(t).WithFile("Player.prefab", twoIssues()).Build()
	logPath := filepath.Join(p.Path, ".prefab-checker", "audit.log")

	_, err := Repair(context.Background(), p.Abs("Player.prefab"), RepairOptions{
		MaxPasses: 2,
		Audit:     audit.New(logPath, true),
	})
	require.NoError(t, err)

	entries, err := audit.ReadEntries(logPath)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "fix", entries[0].Operation)
	assert.Equal(t, "assign-fresh-id", entries[0].Anomaly)
	assert.Equal(t, "-1337", entries[0].AssignedID)
	assert.Equal(t, "rewrite-component-block", entries[1].Anomaly)
}

func TestRepairCanceled(t *testing.T) {
	p := testutil.NewTestProject(t).WithFile("Player.prefab", twoIssues()).Build()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := Repair(ctx, p.Abs("Player.prefab"), RepairOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, out.Written)
	p.AssertFileUnchanged("Player.prefab")
}
