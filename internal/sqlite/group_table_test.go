package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskbase/pkg/types"
)

func mustGroups(t *testing.T, b *Backend) types.GroupNotificationStore {
	t.Helper()
	groups, err := b.GroupNotifications()
	require.NoError(t, err)
	return groups
}

func TestGroupNotificationTable_CreateGet(t *testing.T) {
	b := setupBackend(t)
	groups := mustGroups(t, b)
	ctx := context.Background()

	n := &types.GroupNotification{GroupID: "grp-1", TaskID: types.NewID(), OwnerID: "alice", Role: 2}
	require.NoError(t, groups.Create(ctx, n))

	got, err := groups.Get(ctx, "grp-1", n.TaskID, "alice")
	require.NoError(t, err)
	assert.Equal(t, int8(2), got.Role)

	err = groups.Create(ctx, &types.GroupNotification{GroupID: "grp-1", TaskID: n.TaskID, OwnerID: "alice"})
	assert.ErrorIs(t, err, types.ErrConflict)

	_, err = groups.Get(ctx, "grp-1", types.NewID(), "alice")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestGroupNotificationTable_Delete(t *testing.T) {
	b := setupBackend(t)
	groups := mustGroups(t, b)
	ctx := context.Background()

	n := &types.GroupNotification{GroupID: "grp-1", TaskID: types.NewID(), OwnerID: "alice"}
	require.NoError(t, groups.Create(ctx, n))

	require.NoError(t, groups.Delete(ctx, "grp-1", n.TaskID, "alice"))
	_, err := groups.Get(ctx, "grp-1", n.TaskID, "alice")
	assert.ErrorIs(t, err, types.ErrNotFound)

	// Absent row deletes succeed.
	require.NoError(t, groups.Delete(ctx, "grp-1", n.TaskID, "alice"))
}

func TestGroupNotificationTable_List(t *testing.T) {
	b := setupBackend(t)
	groups := mustGroups(t, b)
	ctx := context.Background()

	var taskIDs []string
	for i := 0; i < 3; i++ {
		n := &types.GroupNotification{GroupID: "grp-1", TaskID: types.NewID(), OwnerID: "alice", Role: int8(i % 2)}
		require.NoError(t, groups.Create(ctx, n))
		taskIDs = append(taskIDs, n.TaskID)
	}
	require.NoError(t, groups.Create(ctx,
		&types.GroupNotification{GroupID: "grp-2", TaskID: types.NewID(), OwnerID: "alice"}))

	t.Run("scoped to the group, newest first", func(t *testing.T) {
		res, err := groups.List(ctx, "grp-1", 10, "", nil)
		require.NoError(t, err)
		require.Len(t, res, 3)
		assert.Equal(t, taskIDs[2], res[0].TaskID)
	})

	t.Run("role filter", func(t *testing.T) {
		role := int8(1)
		res, err := groups.List(ctx, "grp-1", 10, "", &role)
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, taskIDs[1], res[0].TaskID)
	})

	t.Run("cursor pagination", func(t *testing.T) {
		page1, err := groups.List(ctx, "grp-1", 2, "", nil)
		require.NoError(t, err)
		require.Len(t, page1, 2)

		page2, err := groups.List(ctx, "grp-1", 2, page1[1].TaskID, nil)
		require.NoError(t, err)
		require.Len(t, page2, 1)
		assert.Equal(t, taskIDs[0], page2[0].TaskID)
	})
}
