package closer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestClose_LIFOOrder(t *testing.T) {
	c := NewCloser(time.Second)

	var order []string
	c.AddFunc("db", func() { order = append(order, "db") })
	c.AddFunc("cache", func() { order = append(order, "cache") })
	c.AddFunc("http", func() { order = append(order, "http") })

	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, []string{"http", "cache", "db"}, order)
}

func TestClose_CollectsErrors(t *testing.T) {
	c := NewCloser(time.Second)
	c.Add("redis", func(context.Context) error { return errors.New("connection reset") })
	c.Add("kafka", func(context.Context) error { return nil })

	err := c.Close(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis: connection reset")
}

func TestClose_OnlyOnce(t *testing.T) {
	c := NewCloser(time.Second)
	calls := 0
	c.AddFunc("res", func() { calls++ })

	require.NoError(t, c.Close(context.Background()))
	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestClose_ForcedAfterTimeout(t *testing.T) {
	c := NewCloser(200 * time.Millisecond)

	c.Add("slow", func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Close(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shutdown interrupted")
	assert.Contains(t, err.Error(), "[FORCED] slow")
}
