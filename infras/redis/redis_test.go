package redis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"termin/config"
	"termin/infras/redis"
)

func TestOptions(t *testing.T) {
	opts := redis.Options(config.RedisEndpoint{Host: "cache", Port: "6380", Password: "pw", DB: 2})

	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)

	assert.Equal(t, "[::1]:6379", redis.Options(config.RedisEndpoint{Host: "::1", Port: "6379"}).Addr)
}
