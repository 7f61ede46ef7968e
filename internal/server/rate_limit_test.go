package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	assert := assert.New(t)
	rl := NewRateLimiter(3, time.Minute)

	assert.True(rl.Allow("conn-1"))
	assert.True(rl.Allow("conn-1"))
	assert.True(rl.Allow("conn-1"))
	assert.False(rl.Allow("conn-1"))
}

func TestRateLimiter_PerConnection(t *testing.T) {
	assert := assert.New(t)
	rl := NewRateLimiter(1, time.Minute)

	assert.True(rl.Allow("conn-1"))
	assert.False(rl.Allow("conn-1"))
	assert.True(rl.Allow("conn-2"))
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	assert := assert.New(t)
	rl := NewRateLimiter(1, 10*time.Millisecond)

	assert.True(rl.Allow("conn-1"))
	assert.False(rl.Allow("conn-1"))

	time.Sleep(20 * time.Millisecond)
	assert.True(rl.Allow("conn-1"))
}

func TestRateLimiter_Forget(t *testing.T) {
	assert := assert.New(t)
	rl := NewRateLimiter(1, time.Minute)

	rl.Allow("conn-1")
	rl.Forget("conn-1")
	assert.True(rl.Allow("conn-1"))
}
