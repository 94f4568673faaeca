package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisValueToBytes(t *testing.T) {
	data, err := redisValueToBytes("abc", "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), data)

	data, err = redisValueToBytes([]byte("x"), "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)

	data, err = redisValueToBytes(nil, "k")
	require.NoError(t, err)
	assert.Nil(t, data)

	_, err = redisValueToBytes(42, "k")
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []string{"product:1", "product:2"}, buildProductCacheKeys([]string{"1", "2"}))
	assert.Equal(t, "cart:sess", cartKey("sess"))
}
