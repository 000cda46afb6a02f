package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapClient is an in-process Client for tests.
type mapClient struct {
	data map[string]string
}

func (m *mapClient) Get(_ context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", ErrCacheMiss
	}
	return v, nil
}

func (m *mapClient) Set(_ context.Context, key string, value any, _ time.Duration) error {
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	return nil
}

func TestJSONRoundTrip(t *testing.T) {
	// given
	ctx := context.Background()
	c := &mapClient{data: map[string]string{}}

	// when
	require.NoError(t, SetJSON(ctx, c, "suggest:run", []string{"Runner Lite", "Runner Pro"}, time.Minute))
	names, err := GetJSON[[]string](ctx, c, "suggest:run")

	// then
	require.NoError(t, err)
	assert.Equal(t, []string{"Runner Lite", "Runner Pro"}, names)
}

func TestGetJSON_Miss(t *testing.T) {
	_, err := GetJSON[[]string](context.Background(), Noop{}, "anything")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestGetJSON_Corrupted(t *testing.T) {
	c := &mapClient{data: map[string]string{"k": "{not json"}}
	_, err := GetJSON[[]string](context.Background(), c, "k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}
