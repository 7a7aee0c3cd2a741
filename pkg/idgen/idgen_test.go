package idgen

import (
	"strconv"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandom_MessageID(t *testing.T) {
	id := Random{}.MessageID()

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
	assert.Equal(t, parsed.String(), id, "should be canonical form")
}

func TestRandom_ShortID(t *testing.T) {
	id := Random{}.ShortID()

	require.NotEmpty(t, id)
	assert.Less(t, len(id), 36, "short ID should be shorter than a UUID")
	_, err := strconv.ParseUint(id, 36, 64)
	assert.NoError(t, err, "short ID should be base-36")
}

func TestRandom_Unique(t *testing.T) {
	const n = 1000
	ids := make(map[string]struct{}, n)
	short := make(map[string]struct{}, n)

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, s := MessageID(), ShortID()
			mu.Lock()
			ids[id] = struct{}{}
			short[s] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, ids, n)
	assert.Len(t, short, n)
}

func TestSequence(t *testing.T) {
	seq := &Sequence{IDs: []string{"a", "b"}, ShortIDs: []string{"s1"}}

	assert.Equal(t, "a", seq.MessageID())
	assert.Equal(t, "b", seq.MessageID())
	assert.Equal(t, "b", seq.MessageID())
	assert.Equal(t, "s1", seq.ShortID())
	assert.Equal(t, "s1", seq.ShortID())

	empty := &Sequence{}
	assert.Equal(t, "", empty.MessageID())
}

func TestSequence_Concurrent(t *testing.T) {
	ids := make([]string, 100)
	for i := range ids {
		ids[i] = strconv.Itoa(i)
	}
	seq := &Sequence{IDs: ids}

	var (
		mu   sync.Mutex
		seen = make(map[string]int)
		wg   sync.WaitGroup
	)
	for w := 0; w < 10; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				id := seq.MessageID()
				mu.Lock()
				seen[id]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, len(ids))
	for _, id := range ids {
		assert.Equal(t, 1, seen[id], "id %s handed out once", id)
	}
}
