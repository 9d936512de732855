package bus

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_DeliversOncePerSubscriber(t *testing.T) {
	b := NewMemory()

	var a, c int32
	require.NoError(t, b.Subscribe("t", "one", func(ctx context.Context, body []byte) error {
		atomic.AddInt32(&a, 1)
		return nil
	}))
	require.NoError(t, b.Subscribe("t", "two", func(ctx context.Context, body []byte) error {
		atomic.AddInt32(&c, 1)
		return nil
	}))

	require.NoError(t, b.Publish("t", []byte("x")))
	require.NoError(t, b.Publish("t", []byte("y")))
	b.Wait()

	assert.Equal(t, int32(2), atomic.LoadInt32(&a))
	assert.Equal(t, int32(2), atomic.LoadInt32(&c))
}

func TestMemory_UnsubscribedTopicIsDropped(t *testing.T) {
	b := NewMemory()
	require.NoError(t, b.Publish("nobody-listens", []byte("x")))
	b.Wait()
}

func TestMemory_WaitCoversCascadingPublishes(t *testing.T) {
	b := NewMemory()

	var done int32
	require.NoError(t, b.Subscribe("first", "p", func(ctx context.Context, body []byte) error {
		return b.Publish("second", body)
	}))
	require.NoError(t, b.Subscribe("second", "p", func(ctx context.Context, body []byte) error {
		atomic.AddInt32(&done, 1)
		return nil
	}))

	require.NoError(t, b.Publish("first", []byte("x")))
	b.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&done))
}
