package libfi_test

import (
	"testing"
	"time"

	"github.com/mdouchement/findit/pkg/libfi"
	"github.com/stretchr/testify/assert"
)

func TestUnixMillisecond(t *testing.T) {
	now := time.Now()
	assert.Equal(t, now.UnixNano()/int64(time.Millisecond), libfi.UnixMillisecond(now))
}

func TestFromUnixMillisecond(t *testing.T) {
	now := time.Now()
	mnow := now.UnixNano() / int64(time.Millisecond)

	assert.Equal(t, time.Unix(0, mnow*int64(time.Millisecond)), libfi.FromUnixMillisecond(mnow))
}

func TestDayMillisecond(t *testing.T) {
	assert.Equal(t, (24 * time.Hour).Milliseconds(), libfi.DayMillisecond)
}
