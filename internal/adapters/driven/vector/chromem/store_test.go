package chromem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitVec(dims, hot int) []float32 {
	v := make([]float32, dims)
	v[hot] = 1
	return v
}

func TestQuery_EmptyIndex(t *testing.T) {
	s := NewInMemory()

	hits, err := s.Query(context.Background(), unitVec(4, 0), 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestUpsertAndQuery(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	err := s.Upsert(ctx,
		[]string{"a_0", "a_1"},
		[][]float32{unitVec(4, 0), unitVec(4, 1)},
		[]string{"first chunk", "second chunk"},
		[]map[string]string{
			{"source": "a.txt", "locator": "chunk 0"},
			{"source": "a.txt", "locator": "chunk 1"},
		},
	)
	require.NoError(t, err)

	hits, err := s.Query(ctx, unitVec(4, 1), 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "second chunk", hits[0].Text)
	assert.Equal(t, "chunk 1", hits[0].Metadata["locator"])
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-5)
}

func TestQuery_KAboveCollectionSize(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	err := s.Upsert(ctx,
		[]string{"a_0"},
		[][]float32{unitVec(4, 0)},
		[]string{"only chunk"},
		[]map[string]string{{"source": "a.txt", "locator": "chunk 0"}},
	)
	require.NoError(t, err)

	hits, err := s.Query(ctx, unitVec(4, 0), 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestUpsert_MismatchedLengths(t *testing.T) {
	s := NewInMemory()

	err := s.Upsert(context.Background(),
		[]string{"a_0"},
		nil,
		[]string{"text"},
		[]map[string]string{{}},
	)
	assert.Error(t, err)
}

func TestDropAndCount(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx,
		[]string{"a_0"},
		[][]float32{unitVec(4, 0)},
		[]string{"text"},
		[]map[string]string{{"source": "a.txt", "locator": "chunk 0"}},
	))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, s.Drop(ctx))

	count, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	hits, err := s.Query(ctx, unitVec(4, 0), 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
