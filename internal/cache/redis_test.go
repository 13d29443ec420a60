package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/config"
)

func TestConnectRedisUnreachableAddr(t *testing.T) {
	// Port 1 is never a Redis server; the ping must fail and no client may
	// leak out.
	cfg := &config.Config{
		RedisAddr: "127.0.0.1:1",
		RedisDB:   0,
	}

	client, err := ConnectRedis(cfg)

	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}

func TestDisconnectRedisNilClient(t *testing.T) {
	assert.NoError(t, DisconnectRedis(nil))
}
