package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkeye/Parley/internal/core"
)

func TestRegistry_PreservesJoinOrder(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register("s1", "alice"))
	require.NoError(t, r.Register("s2", "bob"))
	require.NoError(t, r.Register("s3", "carol"))

	require.Equal(t, []string{"alice", "bob", "carol"}, r.ListUsernames())
}

func TestRegistry_DuplicateUsernamesKept(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register("s1", "alice"))
	require.NoError(t, r.Register("s2", "alice"))

	// One entry per session, not deduplicated by name.
	require.Equal(t, []string{"alice", "alice"}, r.ListUsernames())

	_, err := r.Unregister("s1")
	require.NoError(t, err)
	require.Equal(t, []string{"alice"}, r.ListUsernames())

	name, ok := r.Username("s2")
	require.True(t, ok)
	require.Equal(t, "alice", name)
}

func TestRegistry_FirstBindingWins(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register("s1", "alice"))
	require.ErrorIs(t, r.Register("s1", "impostor"), ErrAlreadyRegistered)

	name, ok := r.Username("s1")
	require.True(t, ok)
	require.Equal(t, "alice", name)
}

func TestRegistry_UnregisterReturnsBoundName(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("s1", "alice"))

	name, err := r.Unregister("s1")
	require.NoError(t, err)
	require.Equal(t, "alice", name)

	_, err = r.Unregister("s1")
	require.ErrorIs(t, err, ErrNotRegistered)
	require.Empty(t, r.ListUsernames())
}

func TestRegistry_SnapshotCarriesJoinTime(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(core.SessionID("s1"), "alice"))

	members := r.MembersSnapshot()
	require.Len(t, members, 1)
	require.Equal(t, "alice", members[0].Username)
	require.NotZero(t, members[0].JoinedAt)
}
