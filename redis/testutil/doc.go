// Package testutil starts an in-memory Redis server backed by miniredis.
//
//	mini, client := testutil.Start(t)
//	mini.FastForward(time.Minute)
package testutil
