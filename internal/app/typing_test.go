package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypingTracker_SignalOrder(t *testing.T) {
	tr := NewTypingTracker()

	tr.SetTyping("s1", "alice", true)
	tr.SetTyping("s2", "bob", true)
	require.Equal(t, []string{"alice", "bob"}, tr.ListUsernames())

	// Re-signaling moves the entry behind the most recent signal.
	tr.SetTyping("s1", "alice", true)
	require.Equal(t, []string{"bob", "alice"}, tr.ListUsernames())
}

func TestTypingTracker_FalseRemoves(t *testing.T) {
	tr := NewTypingTracker()

	tr.SetTyping("s1", "alice", true)
	tr.SetTyping("s1", "alice", false)
	require.Empty(t, tr.ListUsernames())

	// Removing an absent entry is not an error.
	tr.SetTyping("s1", "alice", false)
	require.Empty(t, tr.ListUsernames())
}

func TestTypingTracker_Clear(t *testing.T) {
	tr := NewTypingTracker()

	tr.SetTyping("s1", "alice", true)
	tr.SetTyping("s2", "bob", true)

	tr.Clear("s1")
	require.Equal(t, []string{"bob"}, tr.ListUsernames())

	tr.Clear("s1")
	require.Equal(t, []string{"bob"}, tr.ListUsernames())
}
