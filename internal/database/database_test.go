package database

import (
	"context"
	"testing"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
	"movierec/config"
)

func TestCacheConstants(t *testing.T) {
	assert.Equal(t, 0, GENERAL_CACHE_INDEX)
	assert.Equal(t, 1, USER_CACHE_INDEX)
	assert.Equal(t, 2, EVENTS_CACHE_INDEX)
}

func TestDB_StructCreation(t *testing.T) {
	log := logger.New("test")

	db := &DB{
		log: log,
	}

	assert.NotNil(t, db)
	assert.Nil(t, db.SQL)
	assert.Len(t, db.cacheClients(), 3)
}

func TestPostgresDSN(t *testing.T) {
	dsn := PostgresDSN(config.Config{
		DatabaseHost:     "localhost",
		DatabasePort:     5432,
		DatabaseUser:     "movierec",
		DatabasePassword: "secret",
		DatabaseName:     "movies",
	})

	assert.Equal(
		t,
		"host=localhost port=5432 user=movierec password=secret dbname=movies sslmode=disable TimeZone=UTC",
		dsn,
	)
}

func TestCacheClientForIndex(t *testing.T) {
	_, name, ok := cacheClientForIndex(USER_CACHE_INDEX, Cache{})
	assert.True(t, ok)
	assert.Equal(t, "User", name)

	_, _, ok = cacheClientForIndex(42, Cache{})
	assert.False(t, ok)
}

func TestCacheBuilder_Key(t *testing.T) {
	tests := []struct {
		name     string
		builder  *CacheBuilder
		expected string
	}{
		{
			name:     "int key with hash",
			builder:  NewCacheBuilder(nil, 42).WithHash("recommendations"),
			expected: "recommendations:42",
		},
		{
			name:     "string key without hash",
			builder:  NewCacheBuilder(nil, "snapshot").WithHash(""),
			expected: "snapshot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.builder.Key())
		})
	}
}

func TestCacheBuilder_ValidationErrors(t *testing.T) {
	err := NewCacheBuilder(nil, "").WithValue("x").Set()
	assert.ErrorIs(t, err, ErrCacheKeyRequired)

	err = NewCacheBuilder(nil, "key").Set()
	assert.ErrorIs(t, err, ErrCacheValueRequired)

	err = NewCacheBuilder(nil, "key").WithStruct(func() {}).Set()
	assert.Error(t, err)

	_, err = NewCacheBuilder(nil, "").Get(&struct{}{})
	assert.ErrorIs(t, err, ErrCacheKeyRequired)
}

func TestCacheBuilder_TimeoutContextRespectsShorterDeadline(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	ctx, cancelChild := NewCacheBuilder(nil, "key").WithContext(parent).createTimeoutContext()
	defer cancelChild()

	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(100*time.Millisecond), deadline, 100*time.Millisecond)
}
