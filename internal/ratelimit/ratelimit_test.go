package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/geodata/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewUploadLimiter_Disabled(t *testing.T) {
	l, err := NewUploadLimiter(config.Config{}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, l)
	assert.False(t, l.Enabled())
}

func TestNewUploadLimiter_Validation(t *testing.T) {
	base := config.RateLimitConfig{
		Enabled:              true,
		RedisAddr:            "localhost:6379",
		UploadRate:           1,
		UploadBurst:          2,
		ImportLockTTLSeconds: 60,
	}

	noAddr := base
	noAddr.RedisAddr = " "
	zeroRate := base
	zeroRate.UploadRate = 0
	zeroTTL := base
	zeroTTL.ImportLockTTLSeconds = 0

	for name, rl := range map[string]config.RateLimitConfig{
		"no addr":   noAddr,
		"zero rate": zeroRate,
		"zero ttl":  zeroTTL,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewUploadLimiter(config.Config{RateLimit: rl}, zap.NewNop())
			assert.Error(t, err)
		})
	}

	l, err := NewUploadLimiter(config.Config{RateLimit: base}, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, l.Enabled())
	assert.Equal(t, time.Minute, l.lockTTL)
}

func TestNilLimiterAllowsEverything(t *testing.T) {
	var l *UploadLimiter
	ctx := context.Background()

	res, err := l.AllowUpload(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	lease, ok, err := l.TryLockImport(ctx, "cities", "co")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Nil(t, lease)
	assert.NoError(t, l.ReleaseImport(ctx, lease))
}

func TestImportLockKey(t *testing.T) {
	assert.Equal(t, "geodata:import:lock:cities:CO", importLockKey(" Cities", "co "))
	assert.Equal(t, "geodata:import:lock:countries:", importLockKey("countries", ""))
}

func TestTokenBucket_Unconfigured(t *testing.T) {
	var b *TokenBucket
	res, err := b.Allow(context.Background(), "k", 1, 1)
	assert.Error(t, err)
	assert.False(t, res.Allowed)
	assert.Nil(t, NewTokenBucket(nil))
	assert.Nil(t, NewLocker(nil))
}

func TestLocker_Unconfigured(t *testing.T) {
	var l *Locker
	lease, err := l.TryLock(context.Background(), "k", time.Second)
	assert.Error(t, err)
	assert.Nil(t, lease)
	assert.NoError(t, l.Release(context.Background(), &Lease{Key: "k", Token: "t"}))
}

func TestBucketResult(t *testing.T) {
	res := bucketResult([]any{int64(1), "2.5", int64(1700000000000)}, 0.5, 5)
	assert.True(t, res.Allowed)
	assert.Equal(t, 2, res.Remaining)
	assert.Equal(t, 5, res.Limit)
	assert.Zero(t, res.RetryAfter)

	res = bucketResult([]any{int64(0), "0.5", int64(1700000000000)}, 0.5, 5)
	assert.False(t, res.Allowed)
	assert.Equal(t, time.Second, res.RetryAfter)
}

func TestBucketTTL(t *testing.T) {
	assert.Equal(t, time.Second, bucketTTL(0, 5))
	assert.Equal(t, 20*time.Second, bucketTTL(0.5, 5))
	assert.Equal(t, time.Second, bucketTTL(100, 1))
}

func TestCasts(t *testing.T) {
	assert.Equal(t, int64(3), castToInt("3"))
	assert.Equal(t, int64(3), castToInt(3.9))
	assert.Equal(t, int64(0), castToInt(nil))
	assert.Equal(t, 0.25, castToFloat("0.25"))
	assert.Equal(t, float64(4), castToFloat(int64(4)))
}
