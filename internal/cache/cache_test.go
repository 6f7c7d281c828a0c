package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pratik-mahalle/mxcloud/internal/domain/snapshot"
)

func TestPartitionCacheKeepsNonEmptyEntry(t *testing.T) {
	r := require.New(t)

	c, err := NewPartitionCache(8)
	r.NoError(err)

	c.Set("acc-1", []string{"cn-bj2", "cn-sh2"})
	c.Set("acc-1", nil)
	c.Set("acc-1", []string{})

	got, ok := c.Get("acc-1")
	r.True(ok)
	r.Equal([]string{"cn-bj2", "cn-sh2"}, got)

	c.Set("acc-1", []string{"hk"})
	got, _ = c.Get("acc-1")
	r.Equal([]string{"hk"}, got)
}

func TestPartitionCacheReturnsCopies(t *testing.T) {
	r := require.New(t)

	c, err := NewPartitionCache(8)
	r.NoError(err)

	in := []string{"cn-bj2"}
	c.Set("acc-1", in)
	in[0] = "mutated"

	got, _ := c.Get("acc-1")
	got[0] = "mutated too"

	again, _ := c.Get("acc-1")
	r.Equal([]string{"cn-bj2"}, again)
}

func TestPartitionCacheDeleteAndEvict(t *testing.T) {
	r := require.New(t)

	c, err := NewPartitionCache(2)
	r.NoError(err)

	c.Set("acc-1", []string{"a"})
	c.Delete("acc-1")
	_, ok := c.Get("acc-1")
	r.False(ok)

	for i := 0; i < 10; i++ {
		c.Set(fmt.Sprintf("acc-%d", i), []string{"a"})
	}
	r.LessOrEqual(c.Len(), 2)
}

func TestSnapshotStoreReplace(t *testing.T) {
	r := require.New(t)
	s := NewSnapshotStore()

	s.Put(&snapshot.Snapshot{AccountID: "acc-1", Images: []snapshot.Image{{ImageID: "img"}}})
	s.Put(&snapshot.Snapshot{AccountID: "acc-1"})

	got, ok := s.Get("acc-1")
	r.True(ok)
	r.Empty(got.Images)

	all := s.All()
	r.Len(all, 1)
	delete(all, "acc-1")
	_, ok = s.Get("acc-1")
	r.True(ok)

	s.Delete("acc-1")
	_, ok = s.Get("acc-1")
	r.False(ok)
}

func TestSnapshotStoreConcurrentAccess(t *testing.T) {
	s := NewSnapshotStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("acc-%d", i%5)
			s.Put(&snapshot.Snapshot{AccountID: id})
			s.Get(id)
			s.All()
		}(i)
	}
	wg.Wait()
	require.Len(t, s.All(), 5)
}
