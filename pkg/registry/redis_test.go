package registry

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*Redis[*entry], *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis[*entry](client, "tickets"), mr
}

func TestRedis_Key(t *testing.T) {
	s := NewRedis[*entry](redis.NewClient(&redis.Options{Addr: "localhost:0"}), "tickets")
	require.Equal(t, "tickets:1234", s.key("1234"))
}

func TestRedis(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		seed  map[string]*entry
		run   func(t *testing.T, s *Redis[*entry])
		want  map[string]*entry
		stale []string
	}{
		{
			name: "get missing",
			run: func(t *testing.T, s *Redis[*entry]) {
				got, ok, err := s.Get(ctx, "1")
				require.NoError(t, err)
				require.False(t, ok)
				require.Nil(t, got)
			},
			stale: []string{"1"},
		},
		{
			name: "set then get",
			run: func(t *testing.T, s *Redis[*entry]) {
				require.NoError(t, s.Set(ctx, "1", &entry{ChannelID: "a", Files: []string{"1.png"}}))
			},
			want: map[string]*entry{"1": {ChannelID: "a", Files: []string{"1.png"}}},
		},
		{
			name: "set replaces",
			seed: map[string]*entry{"1": {ChannelID: "a"}},
			run: func(t *testing.T, s *Redis[*entry]) {
				require.NoError(t, s.Set(ctx, "1", &entry{ChannelID: "b"}))
			},
			want: map[string]*entry{"1": {ChannelID: "b"}},
		},
		{
			name: "add first wins",
			seed: map[string]*entry{"1": {ChannelID: "a"}},
			run: func(t *testing.T, s *Redis[*entry]) {
				added, err := s.Add(ctx, "1", &entry{ChannelID: "b"})
				require.NoError(t, err)
				require.False(t, added)

				added, err = s.Add(ctx, "2", &entry{ChannelID: "c"})
				require.NoError(t, err)
				require.True(t, added)
			},
			want: map[string]*entry{"1": {ChannelID: "a"}, "2": {ChannelID: "c"}},
		},
		{
			name: "delete",
			seed: map[string]*entry{"1": {ChannelID: "a"}},
			run: func(t *testing.T, s *Redis[*entry]) {
				require.NoError(t, s.Delete(ctx, "1"))
				require.NoError(t, s.Delete(ctx, "1"))
			},
			stale: []string{"1"},
		},
		{
			name: "has",
			seed: map[string]*entry{"1": {ChannelID: "a"}},
			run: func(t *testing.T, s *Redis[*entry]) {
				has, err := s.Has(ctx, "1")
				require.NoError(t, err)
				require.True(t, has)

				has, err = s.Has(ctx, "2")
				require.NoError(t, err)
				require.False(t, has)
			},
			want: map[string]*entry{"1": {ChannelID: "a"}},
		},
		{
			name: "update present",
			seed: map[string]*entry{"1": {ChannelID: "a", Files: []string{"1.png"}}},
			run: func(t *testing.T, s *Redis[*entry]) {
				got, ok, err := s.Update(ctx, "1", appendFile("2.png"))
				require.NoError(t, err)
				require.True(t, ok)
				require.Equal(t, []string{"1.png", "2.png"}, got.Files)
			},
			want: map[string]*entry{"1": {ChannelID: "a", Files: []string{"1.png", "2.png"}}},
		},
		{
			name: "update missing",
			run: func(t *testing.T, s *Redis[*entry]) {
				_, ok, err := s.Update(ctx, "1", func(e *entry) *entry {
					t.Error("update called for a missing key")
					return e
				})
				require.NoError(t, err)
				require.False(t, ok)
			},
			stale: []string{"1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mr := newTestRedis(t)
			for k, v := range tt.seed {
				require.NoError(t, s.Set(ctx, k, v))
			}

			tt.run(t, s)

			for k, v := range tt.want {
				got, ok, err := s.Get(ctx, k)
				require.NoError(t, err)
				require.True(t, ok, k)
				require.Equal(t, v, got)
			}
			for _, k := range tt.stale {
				require.False(t, mr.Exists(s.key(k)), k)
			}
		})
	}
}

func TestRedis_CorruptValue(t *testing.T) {
	s, mr := newTestRedis(t)
	require.NoError(t, mr.Set("tickets:1", "not json"))

	_, ok, err := s.Get(context.Background(), "1")
	require.Error(t, err)
	require.False(t, ok)
}

func TestRedis_AddIsExclusive(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestRedis(t)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins []string
	)
	for _, ch := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		wg.Add(1)
		go func(ch string) {
			defer wg.Done()
			ok, err := s.Add(ctx, "user", &entry{ChannelID: ch})
			if err != nil {
				t.Errorf("adding %s: %v", ch, err)
				return
			}
			if ok {
				mu.Lock()
				wins = append(wins, ch)
				mu.Unlock()
			}
		}(ch)
	}
	wg.Wait()

	require.Len(t, wins, 1)
	got, ok, err := s.Get(ctx, "user")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, wins[0], got.ChannelID)
}

func TestRedis_UpdateKeepsConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestRedis(t)
	require.NoError(t, s.Set(ctx, "user", &entry{ChannelID: "a"}))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := s.Update(ctx, "user", appendFile("f")); err != nil {
				t.Errorf("updating: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _, err := s.Get(ctx, "user")
	require.NoError(t, err)
	require.Len(t, got.Files, 4)
}
