package testutil

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/scribe/redis"
)

// Start runs a miniredis server for the duration of the test and returns
// it with a connected client. Both are closed at test end.
func Start(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mini := miniredis.RunT(t)
	client := redis.Wrap(goredis.NewClient(&goredis.Options{Addr: mini.Addr()}), nil)
	t.Cleanup(func() { _ = client.Close() })
	return mini, client
}
