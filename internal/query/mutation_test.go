package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"churchportal/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutationInvalidatesBeforeReturning(t *testing.T) {
	store := cache.New()
	store.Set(cache.Key{"testimonies", "pending"}, []string{"t1"})
	store.Set(cache.Key{"testimonies", "approved"}, []string{})
	store.Set(cache.Key{"blog"}, []string{"post"})

	approve := NewMutation(store,
		func(ctx context.Context, id string) (string, error) { return id, nil },
		func(id, _ string) []cache.Key { return []cache.Key{{"testimonies"}} },
	)

	out, err := approve.MutateAsync(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", out)

	assert.True(t, store.Peek(cache.Key{"testimonies", "pending"}).Invalidated)
	assert.True(t, store.Peek(cache.Key{"testimonies", "approved"}).Invalidated)
	assert.False(t, store.Peek(cache.Key{"blog"}).Invalidated)

	state := approve.State()
	assert.Equal(t, StatusSuccess, state.Status)
	assert.Equal(t, "t1", state.Data)
}

func TestFailedMutationLeavesCacheAlone(t *testing.T) {
	store := cache.New()
	store.Set(cache.Key{"members"}, 1)
	boom := errors.New("boom")

	del := NewMutation(store,
		func(ctx context.Context, id string) (struct{}, error) { return struct{}{}, boom },
		func(string, struct{}) []cache.Key { return []cache.Key{{"members"}} },
	)

	_, err := del.MutateAsync(context.Background(), "m1")
	assert.ErrorIs(t, err, boom)
	assert.False(t, store.Peek(cache.Key{"members"}).Invalidated)
	assert.Equal(t, StatusError, del.State().Status)

	del.Reset()
	assert.Equal(t, StatusIdle, del.State().Status)
}

func TestInvalidationKeysSeeOutput(t *testing.T) {
	store := cache.New()
	store.Set(cache.Key{"choirs", "c1", "songs"}, 0)
	store.Set(cache.Key{"choirs", "c2", "songs"}, 0)

	create := NewMutation(store,
		func(ctx context.Context, title string) (string, error) { return "c2", nil },
		func(_ string, choirID string) []cache.Key { return []cache.Key{{"choirs", choirID, "songs"}} },
	)
	_, err := create.MutateAsync(context.Background(), "Amazing Grace")
	require.NoError(t, err)

	assert.False(t, store.Peek(cache.Key{"choirs", "c1", "songs"}).Invalidated)
	assert.True(t, store.Peek(cache.Key{"choirs", "c2", "songs"}).Invalidated)
}

func TestMutateNeverPanics(t *testing.T) {
	store := cache.New()
	m := NewMutation[string, int](store,
		func(ctx context.Context, in string) (int, error) { panic("handler bug") },
		nil,
	)

	select {
	case out := <-m.Mutate(context.Background(), "x"):
		require.Error(t, out.Err)
		assert.Contains(t, out.Err.Error(), "handler bug")
	case <-time.After(time.Second):
		t.Fatal("no outcome delivered")
	}
	assert.Equal(t, StatusError, m.State().Status)
}

func TestMutateFireAndForget(t *testing.T) {
	store := cache.New()
	store.Set(cache.Key{"gallery"}, 1)
	m := NewMutation(store,
		func(ctx context.Context, in string) (string, error) { return in, nil },
		func(string, string) []cache.Key { return []cache.Key{{"gallery"}} },
	)

	_ = m.Mutate(context.Background(), "photo")
	require.Eventually(t, func() bool { return m.State().Status == StatusSuccess }, time.Second, 5*time.Millisecond)
	assert.True(t, store.Peek(cache.Key{"gallery"}).Invalidated)
}

func TestDebounceKeepsLatestValue(t *testing.T) {
	in := make(chan string)
	out := Debounce(context.Background(), in, 30*time.Millisecond)

	for _, term := range []string{"g", "gr", "gra", "grace"} {
		in <- term
	}

	select {
	case v := <-out:
		assert.Equal(t, "grace", v)
	case <-time.After(time.Second):
		t.Fatal("debounced value not delivered")
	}

	in <- "hope"
	close(in)
	v, ok := <-out
	assert.True(t, ok)
	assert.Equal(t, "hope", v)
	_, ok = <-out
	assert.False(t, ok)
}

func TestDebounceStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan int)
	out := Debounce(ctx, in, time.Hour)
	in <- 1
	cancel()

	select {
	case _, ok := <-out:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("output not closed after cancel")
	}
}
