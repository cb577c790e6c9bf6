package state

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civic-report/civic-report-service/internal/domain"
)

func TestStoreDispatchAppliesAndReturnsSnapshot(t *testing.T) {
	store := NewStore(domain.DefaultState())

	snapshot := store.Dispatch(SubmitComplaint{Complaint: newComplaint("c-1", time.Now())})
	_, ok := snapshot.ComplaintByID("c-1")
	assert.True(t, ok)

	current := store.State()
	_, ok = current.ComplaintByID("c-1")
	assert.True(t, ok)
}

func TestStoreNotifiesListenersAfterEachTransition(t *testing.T) {
	store := NewStore(domain.DefaultState())

	var seen []domain.AppState
	store.Subscribe(func(s domain.AppState) {
		seen = append(seen, s)
	})

	store.Dispatch(SubmitComplaint{Complaint: newComplaint("c-1", time.Now())})
	store.Dispatch(UpvoteComplaint{ComplaintID: "c-1", UserID: "voter-1"})

	require.Len(t, seen, 2)
	c, ok := seen[1].ComplaintByID("c-1")
	require.True(t, ok)
	assert.Equal(t, 1, c.Upvotes)
}

func TestStoreStateIsIsolatedFromInternals(t *testing.T) {
	store := NewStore(domain.DefaultState())
	store.Dispatch(SubmitComplaint{Complaint: newComplaint("c-1", time.Now())})

	leaked := store.State()
	leaked.Complaints[0].Description = "tampered"
	leaked.Users[0].Name = "tampered"

	fresh := store.State()
	c, _ := fresh.ComplaintByID("c-1")
	assert.NotEqual(t, "tampered", c.Description)
	assert.NotEqual(t, "tampered", fresh.Users[0].Name)
}

func TestStoreDoesNotAliasSeedState(t *testing.T) {
	seed := domain.DefaultState()
	store := NewStore(seed)

	seed.Users[0].Name = "tampered"
	assert.NotEqual(t, "tampered", store.State().Users[0].Name)
}

func TestStoreSerializesConcurrentDispatches(t *testing.T) {
	store := NewStore(domain.DefaultState())
	store.Dispatch(SubmitComplaint{Complaint: newComplaint("c-1", time.Now())})

	const voters = 50
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			store.Dispatch(UpvoteComplaint{ComplaintID: "c-1", UserID: fmt.Sprintf("voter-%d", n)})
		}(i)
	}
	wg.Wait()

	c, ok := store.State().ComplaintByID("c-1")
	require.True(t, ok)
	assert.Equal(t, voters, c.Upvotes)
	assert.Len(t, c.UpvotedBy, voters)
}
