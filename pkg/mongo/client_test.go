package mongo_test

import (
	"context"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wagate/pkg/mongo"
)

func TestConfig_Defaults(t *testing.T) {
	var cfg mongo.Config
	require.NoError(t, env.Parse(&cfg))

	assert.Equal(t, "mongodb://localhost:27017", cfg.ConnectionURL)
	assert.Equal(t, "wagate", cfg.Database)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
}

func TestNew_EmptyURL(t *testing.T) {
	_, err := mongo.New(context.Background(), mongo.Config{})
	assert.ErrorIs(t, err, mongo.ErrEmptyConnectionURL)
}

func TestNew_Unreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping network test in short mode")
	}

	cfg := mongo.Config{
		ConnectionURL:  "mongodb://127.0.0.1:1/?directConnection=true",
		ConnectTimeout: 200 * time.Millisecond,
		RetryAttempts:  2,
		RetryInterval:  10 * time.Millisecond,
		MaxPoolSize:    1,
	}

	start := time.Now()
	_, err := mongo.New(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, mongo.ErrFailedToConnectToMongo)
	assert.Less(t, time.Since(start), 10*time.Second)
}
