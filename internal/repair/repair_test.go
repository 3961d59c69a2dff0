package repair

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjamin-asdf/prefab-checker/internal/check"
	"github.com/benjamin-asdf/prefab-checker/internal/fault"
	"github.com/benjamin-asdf/prefab-checker/internal/parser"
	"github.com/benjamin-asdf/prefab-checker/internal/testutil"
)

func analyze(t *testing.T, lines []string) (*check.Report, *check.Anomaly) {
	t.Helper()
	records, err := parser.Parse(lines)
	require.NoError(t, err)
	report, anomaly, err := check.Validate(records)
	require.NoError(t, err)
	require.NotNil(t, anomaly)
	return report, anomaly
}

func compBlock(t *testing.T, lines []string, ownerID string) []string {
	t.Helper()
	records, err := parser.Parse(lines)
	require.NoError(t, err)
	for _, r := range records {
		if r.Kind == parser.KindGameObject && r.ID.ID == ownerID {
			return r.CompRefIDs()
		}
	}
	t.Fatalf("game object %s not found", ownerID)
	return nil
}

func TestApplyRepairPairing(t *testing.T) {
	lines := testutil.NewPrefab().
		GameObject("100", "Player", "200", "300").
		Transform("200", "100", "0").
		MonoBehaviour("", "100").
		Lines()
	anchor := testutil.IndexOf(lines, "--- !u!114 &")

	report, anomaly := analyze(t, lines)
	edit, err := Apply(lines, anomaly, report)
	require.NoError(t, err)

	assert.Equal(t, "300", edit.AssignedID)
	assert.Len(t, edit.Lines, len(lines))
	assert.Equal(t, parser.Splice{}, edit.Splice)
	assert.Equal(t, "--- !u!114 &300", edit.Lines[anchor])
	assert.Equal(t, []string{"200", "300"}, compBlock(t, edit.Lines, "100"))
	// Input is not modified.
	assert.Equal(t, "--- !u!114 &", lines[anchor])
}

func TestApplyAssignFreshID(t *testing.T) {
	lines := testutil.NewPrefab().
		GameObject("100", "Player", "200").
		Transform("200", "100", "0").
		MonoBehaviour("", "100").
		Lines()
	anchor := testutil.IndexOf(lines, "--- !u!114 &")

	report, anomaly := analyze(t, lines)
	edit, err := Apply(lines, anomaly, report)
	require.NoError(t, err)

	assert.Equal(t, "-1337", edit.AssignedID)
	assert.Len(t, edit.Lines, len(lines)+1)
	assert.Equal(t, parser.Splice{Start: anomaly.Owner.GameObject.BlockStart, Removed: 1, Inserted: 2}, edit.Splice)
	_, leaked := report.IDs["-1337"]
	assert.False(t, leaked, "allocated id must not be added to the report")
	// The block grew by one line above the component.
	assert.Equal(t, "--- !u!114 &-1337", edit.Lines[anchor+1])
	assert.Equal(t, []string{"200", "-1337"}, compBlock(t, edit.Lines, "100"))
	assert.Contains(t, edit.Summary, "-1337")
}

func TestApplyAssignFreshIDAvoidsTakenIDs(t *testing.T) {
	lines := testutil.NewPrefab().
		GameObject("-1337", "Player", "-1336").
		Transform("-1336", "-1337", "0").
		MonoBehaviour("", "-1337").
		Lines()

	report, anomaly := analyze(t, lines)
	edit, err := Apply(lines, anomaly, report)
	require.NoError(t, err)
	assert.Equal(t, "-1335", edit.AssignedID)
}

func TestApplyRewriteBlock(t *testing.T) {
	lines := testutil.NewPrefab().
		GameObject("100", "Player", "", "200", "999").
		Transform("200", "100", "0").
		MonoBehaviour("300", "100").
		Lines()

	report, anomaly := analyze(t, lines)
	require.Equal(t, check.RewriteCompRefBlock, anomaly.Kind)

	edit, err := Apply(lines, anomaly, report)
	require.NoError(t, err)
	assert.Empty(t, edit.AssignedID)
	assert.Len(t, edit.Lines, len(lines)-1)
	assert.Equal(t, parser.Splice{Start: anomaly.Owner.GameObject.BlockStart, Removed: 3, Inserted: 2}, edit.Splice)
	assert.Equal(t, anomaly.Refs, compBlock(t, edit.Lines, "100"))

	start := anomaly.Owner.GameObject.BlockStart
	assert.Equal(t, "  m_Component:", edit.Lines[start-1])
	assert.Equal(t, "  - component: {fileID: 200}", edit.Lines[start])
	assert.Equal(t, "  - component: {fileID: 300}", edit.Lines[start+1])
	assert.Equal(t, "  m_Layer: 0", edit.Lines[start+2])
}

func TestApplyStructuralFaults(t *testing.T) {
	t.Run("missing anchor marker", func(t *testing.T) {
		lines := testutil.NewPrefab().
			GameObject("100", "Player", "200", "300").
			Transform("200", "100", "0").
			MonoBehaviour("", "100").
			Lines()
		report, anomaly := analyze(t, lines)
		lines[anomaly.Component.ID.Line] = "--- !u!114 broken"

		_, err := Apply(lines, anomaly, report)
		var fe *fault.Error
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, fault.ReasonMissingAnchorMarker, fe.Reason)
	})

	t.Run("non-contiguous component block", func(t *testing.T) {
		lines := []string{
			"--- !u!1 &100",
			"GameObject:",
			"  m_Component:",
			"  - component: {fileID: 200}",
			"  m_Layer: 0",
			"  - component: {fileID: 999}",
			"--- !u!4 &200",
			"  m_GameObject: {fileID: 100}",
		}
		report, anomaly := analyze(t, lines)
		require.Equal(t, check.RewriteCompRefBlock, anomaly.Kind)

		_, err := Apply(lines, anomaly, report)
		var fe *fault.Error
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, fault.KindStructural, fe.Kind)
		assert.Equal(t, fault.ReasonNonContiguousBlock, fe.Reason)
	})
}

func TestAllocator(t *testing.T) {
	t.Run("starts at seed", func(t *testing.T) {
		id, err := NewAllocator(nil).Next()
		require.NoError(t, err)
		assert.Equal(t, "-1337", id)
	})

	t.Run("ids are unique across calls", func(t *testing.T) {
		a := NewAllocator(map[string]struct{}{"-1337": {}})
		first, err := a.Next()
		require.NoError(t, err)
		second, err := a.Next()
		require.NoError(t, err)
		assert.Equal(t, "-1336", first)
		assert.Equal(t, "-1335", second)
	})

	t.Run("taken set is not modified", func(t *testing.T) {
		taken := map[string]struct{}{"5": {}}
		_, err := NewAllocator(taken).Next()
		require.NoError(t, err)
		assert.Equal(t, map[string]struct{}{"5": {}}, taken)
	})

	t.Run("skips the null id", func(t *testing.T) {
		taken := make(map[string]struct{})
		for i := seedFileID; i < 0; i++ {
			taken[strconv.FormatInt(i, 10)] = struct{}{}
		}
		id, err := NewAllocator(taken).Next()
		require.NoError(t, err)
		assert.Equal(t, "1", id)
	})

	t.Run("exhausted", func(t *testing.T) {
		taken := make(map[string]struct{}, maxAttempts)
		for i := int64(0); i < maxAttempts; i++ {
			taken[strconv.FormatInt(seedFileID+i, 10)] = struct{}{}
		}
		_, err := NewAllocator(taken).Next()
		require.Error(t, err)
		assert.True(t, errors.Is(err, fault.ErrStructural))
	})
}
