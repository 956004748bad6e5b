package libfi_test

import (
	"strconv"
	"testing"

	"github.com/mdouchement/findit/pkg/libfi"
	"github.com/stretchr/testify/assert"
)

func TestResource_States(t *testing.T) {
	assert.True(t, libfi.Idle[int]().IsIdle())
	assert.True(t, libfi.Loading[int]().IsLoading())
	assert.False(t, libfi.Loading[int]().Terminal())

	r := libfi.Success(42)
	assert.True(t, r.IsSuccess())
	assert.True(t, r.Terminal())
	assert.Equal(t, 42, r.Data())

	r = libfi.Error[int]("boom")
	assert.True(t, r.IsError())
	assert.True(t, r.Terminal())
	assert.Equal(t, "boom", r.Message())
	assert.Equal(t, "error", r.State().String())
}

func TestMap(t *testing.T) {
	itoa := func(i int) string { return strconv.Itoa(i) }

	assert.Equal(t, libfi.Success("42"), libfi.Map(libfi.Success(42), itoa))
	assert.Equal(t, libfi.Error[string]("boom"), libfi.Map(libfi.Error[int]("boom"), itoa))
	assert.Equal(t, libfi.Loading[string](), libfi.Map(libfi.Loading[int](), itoa))
	assert.Equal(t, libfi.Idle[string](), libfi.Map(libfi.Idle[int](), itoa))
}

func TestLast(t *testing.T) {
	stream := make(chan libfi.Resource[int], 2)
	stream <- libfi.Loading[int]()
	stream <- libfi.Success(42)
	close(stream)

	assert.Equal(t, libfi.Success(42), libfi.Last(stream))

	empty := make(chan libfi.Resource[int])
	close(empty)
	assert.True(t, libfi.Last(empty).IsIdle())
}
