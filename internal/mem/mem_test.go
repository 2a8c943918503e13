package mem

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignUp(t *testing.T) {
	assert.Equal(t, uintptr(0), AlignUp(0, 8))
	assert.Equal(t, uintptr(8), AlignUp(1, 8))
	assert.Equal(t, uintptr(8), AlignUp(8, 8))
	assert.Equal(t, uintptr(16), AlignUp(9, 8))
	assert.Equal(t, uintptr(4096), AlignUp(1, 4096))
	assert.Equal(t, uintptr(8192), AlignUp(4097, 4096))
}

func TestAlignDown(t *testing.T) {
	assert.Equal(t, uintptr(0), AlignDown(7, 8))
	assert.Equal(t, uintptr(8), AlignDown(8, 8))
	assert.Equal(t, uintptr(8), AlignDown(15, 8))
	assert.Equal(t, uintptr(4096), AlignDown(8191, 4096))
}

func TestIsAligned(t *testing.T) {
	assert.True(t, IsAligned(0, 8))
	assert.True(t, IsAligned(64, 64))
	assert.False(t, IsAligned(65, 64))
}

func TestIsPow2(t *testing.T) {
	assert.False(t, IsPow2(0))
	for _, n := range []uintptr{1, 2, 4, 8, 4096, 1 << 20} {
		assert.True(t, IsPow2(n), "%d", n)
	}
	for _, n := range []uintptr{3, 6, 12, 4095, 4097} {
		assert.False(t, IsPow2(n), "%d", n)
	}
}

func TestLoadStorePtr(t *testing.T) {
	var words [4]uintptr
	base := uintptr(unsafe.Pointer(&words[0]))

	StorePtr(base, 0xdeadbeef)
	StorePtr(base+PtrSize, base)

	assert.Equal(t, uintptr(0xdeadbeef), LoadPtr(base))
	assert.Equal(t, base, LoadPtr(base+PtrSize))
	assert.Equal(t, uintptr(0xdeadbeef), words[0])
}

func TestCopyAndZero(t *testing.T) {
	src := make([]byte, 32)
	dst := make([]byte, 32)
	for i := range src {
		src[i] = byte(i + 1)
	}

	Copy(uintptr(unsafe.Pointer(&dst[0])), uintptr(unsafe.Pointer(&src[0])), 32)
	require.Equal(t, src, dst)

	Zero(uintptr(unsafe.Pointer(&dst[0])), 16)
	for i := 0; i < 16; i++ {
		assert.Zero(t, dst[i])
	}
	for i := 16; i < 32; i++ {
		assert.Equal(t, byte(i+1), dst[i])
	}
}

func TestPtrSizeMatchesPlatform(t *testing.T) {
	assert.Equal(t, unsafe.Sizeof(uintptr(0)), uintptr(PtrSize))
}
