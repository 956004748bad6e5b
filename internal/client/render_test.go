package client

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/mdouchement/findit/pkg/libfi"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testPrinter() (*printer, *bytes.Buffer) {
	var buf bytes.Buffer
	p := newPrinter(&buf, discard())
	p.now = func() time.Time { return now }
	return p, &buf
}

func TestPrinter_Lane(t *testing.T) {
	p, buf := testPrinter()

	p.lane(libfi.StatusLost, libfi.Idle[[]libfi.Item]())
	assert.Equal(t, "== Lost ==\nNot loaded yet.\n", buf.String())

	buf.Reset()
	p.lane(libfi.StatusFound, libfi.Loading[[]libfi.Item]())
	assert.Equal(t, "== Found ==\nLoading...\n", buf.String())

	buf.Reset()
	p.lane(libfi.StatusLost, libfi.Error[[]libfi.Item]("connection refused"))
	assert.Equal(t, "== Lost ==\n"+MessageGeneric+"\n", buf.String())

	buf.Reset()
	p.lane(libfi.StatusLost, libfi.Success([]libfi.Item{}))
	assert.Equal(t, "== Lost ==\nNo items.\n", buf.String())

	buf.Reset()
	p.lane(libfi.StatusLost, libfi.Success([]libfi.Item{
		{
			ID:               "umbrella",
			Title:            "Umbrella",
			Category:         "Accessories",
			LastSeenLocation: libfi.Location{Address: "Paris"},
			CreatedAt:        libfi.UnixMillisecond(now.Add(-3 * time.Hour)),
		},
		{
			ID:        "keys",
			Title:     "Keys",
			Category:  "Keys",
			CreatedAt: libfi.UnixMillisecond(now.Add(-50 * time.Hour)),
			ClaimedBy: "peter",
		},
	}))
	assert.Equal(t, "== Lost ==\n"+
		"umbrella  Umbrella  Accessories  Paris  3h ago  \n"+
		"keys      Keys      Keys                2d ago  claimed\n", buf.String())
}

func TestPrinter_Item(t *testing.T) {
	p, buf := testPrinter()

	p.item(libfi.Item{
		ID:               "umbrella",
		Title:            "Umbrella",
		Description:      "Red",
		Category:         "Accessories",
		Status:           libfi.StatusLost,
		LastSeenLocation: libfi.Location{Latitude: 48.8566, Longitude: 2.3522, Address: "Paris"},
		CreatedAt:        libfi.UnixMillisecond(now.Add(-10 * time.Minute)),
		PosterEmail:      "george.abitbol@nowhere.lan",
	})

	assert.Equal(t, ""+
		"ID:           umbrella\n"+
		"Title:        Umbrella\n"+
		"Status:       Lost\n"+
		"Category:     Accessories\n"+
		"Description:  Red\n"+
		"Last seen:    Paris (48.85660, 2.35220)\n"+
		"Posted:       10m ago\n"+
		"Email:        george.abitbol@nowhere.lan\n", buf.String())
}

func TestPrinter_Profile(t *testing.T) {
	p, buf := testPrinter()

	p.profile(libfi.User{Name: "Anonymous", Email: "george.abitbol@nowhere.lan"})
	assert.Equal(t, ""+
		"Name:     Anonymous\n"+
		"Email:    george.abitbol@nowhere.lan\n"+
		"Phone:    -\n"+
		"Picture:  none\n", buf.String())
}

func TestPrinter_Filters(t *testing.T) {
	p, buf := testPrinter()

	p.filters("", libfi.FilterState{})
	assert.Empty(t, buf.String())

	p.filters("red", libfi.NewFilterState("keys", "", "7"))
	assert.Equal(t, "Filters: search=\"red\" category=\"keys\" days=7\n", buf.String())
}

func TestPrinter_Ago(t *testing.T) {
	p, _ := testPrinter()

	assert.Equal(t, "-", p.ago(0))
	assert.Equal(t, "just now", p.ago(libfi.UnixMillisecond(now.Add(-30*time.Second))))
	assert.Equal(t, "5m ago", p.ago(libfi.UnixMillisecond(now.Add(-5*time.Minute))))
	assert.Equal(t, "23h ago", p.ago(libfi.UnixMillisecond(now.Add(-23*time.Hour))))
	assert.Equal(t, "7d ago", p.ago(libfi.UnixMillisecond(now.Add(-7*24*time.Hour))))
}
