package state

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreCreatesSessionOnFirstUse(t *testing.T) {
	st := NewStore()

	snap := st.Update("sess-1", func(s *ConversationState) {
		s.ResetTurn("hello")
	})

	assert.Equal(t, "sess-1", snap.SessionID)
	assert.Equal(t, "hello", snap.Question)
	assert.Equal(t, 1, st.Len())
}

func TestStoreIsolatesSessions(t *testing.T) {
	st := NewStore()
	st.Update("a", func(s *ConversationState) { s.ResetTurn("question a") })
	st.Update("b", func(s *ConversationState) { s.ResetTurn("question b") })

	snapA, ok := st.Snapshot("a")
	require.True(t, ok)
	snapB, ok := st.Snapshot("b")
	require.True(t, ok)

	assert.Equal(t, "question a", snapA.Question)
	assert.Equal(t, "question b", snapB.Question)
}

func TestStoreSnapshotUnknownSession(t *testing.T) {
	st := NewStore()
	_, ok := st.Snapshot("nope")
	assert.False(t, ok)
}

func TestStoreRemove(t *testing.T) {
	st := NewStore()
	st.Update("a", func(s *ConversationState) {})
	st.Remove("a")
	assert.Equal(t, 0, st.Len())
	st.Remove("a") // no-op
}

func TestStoreSerializesConcurrentUpdates(t *testing.T) {
	st := NewStore()
	const writers = 16
	const perWriter = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				st.Update("shared", func(s *ConversationState) {
					s.Answer += fmt.Sprintf("[%d:%d]", w, i)
				})
			}
		}(w)
	}
	wg.Wait()

	snap, ok := st.Snapshot("shared")
	require.True(t, ok)
	// every append survived; the per-session mutex prevents lost updates
	for w := 0; w < writers; w++ {
		for i := 0; i < perWriter; i++ {
			assert.Contains(t, snap.Answer, fmt.Sprintf("[%d:%d]", w, i))
		}
	}
}
