package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteBuffer(t *testing.T) {
	bb := NewByteBuffer(8)
	require.Zero(t, bb.Len())
	require.Equal(t, 8, cap(bb.B))

	n, err := bb.Write([]byte{0xC0, 0x11})
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.NoError(t, bb.WriteByte(0x01))
	require.Equal(t, []byte{0xC0, 0x11, 0x01}, bb.Bytes())

	cp := bb.Copy()
	bb.Reset()
	require.Zero(t, bb.Len())
	require.Equal(t, 8, cap(bb.B))
	require.Equal(t, []byte{0xC0, 0x11, 0x01}, cp)
}

func TestByteBufferPool_Reuse(t *testing.T) {
	p := NewByteBufferPool(16, 64)

	bb := p.Get()
	require.NotNil(t, bb)
	_, _ = bb.Write([]byte("payload"))
	p.Put(bb)

	again := p.Get()
	require.Zero(t, again.Len(), "pooled buffers come back empty")
	p.Put(nil)
}

func TestByteBufferPool_MaxThreshold(t *testing.T) {
	p := NewByteBufferPool(16, 64)

	bb := p.Get()
	_, _ = bb.Write(make([]byte, 128))
	require.Greater(t, cap(bb.B), 64)
	p.Put(bb)

	// The oversized buffer was dropped, so a fresh default buffer is returned.
	fresh := p.Get()
	require.LessOrEqual(t, cap(fresh.B), 64)
}

func TestPayloadBuffer_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bb := GetPayloadBuffer()
			defer PutPayloadBuffer(bb)

			for j := range 32 {
				_ = bb.WriteByte(byte(i + j))
			}
			assert.Equal(t, 32, bb.Len())
			assert.Equal(t, byte(i), bb.Bytes()[0])
		}(i)
	}
	wg.Wait()
}
