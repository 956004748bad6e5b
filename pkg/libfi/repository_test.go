package libfi_test

import (
	"context"
	"testing"
	"time"

	"github.com/mdouchement/findit/pkg/libfi"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

var george = libfi.Session{
	UserID: "george",
	Email:  "george.abitbol@nowhere.lan",
	Token:  "token-george",
}

const (
	umbrella = `{"title":"Umbrella","description":"Red","category":"Accessories","imageUrl":"aW1hZ2U=","status":"LOST","createdAt":2000,"postedId":"george"}`
	keys     = `{"title":"Keys","description":"Three keys","category":"Keys","imageUrl":"aW1hZ2U=","status":"LOST","createdAt":3000,"postedId":"peter"}`
	wallet   = `{"title":"Wallet","description":"Brown","category":"Wallets","imageUrl":"aW1hZ2U=","status":"FOUND","createdAt":1000,"postedId":"george"}`
	broken   = `{"title":"Broken","category":"Misc","imageUrl":"aW1hZ2U=","status":"LOST","createdAt":4000}`
)

func seed(store *memstore) {
	store.put(libfi.CollectionItems, "umbrella", umbrella)
	store.put(libfi.CollectionItems, "keys", keys)
	store.put(libfi.CollectionItems, "wallet", wallet)
}

func TestItemRepository_GetItemsByStatus(t *testing.T) {
	store := newMemstore()
	seed(store)
	repo := libfi.NewItemRepository(store, george)

	emissions := collect(repo.GetItemsByStatus(context.Background(), libfi.StatusLost))
	assert.Equal(t, []libfi.State{libfi.StateLoading, libfi.StateSuccess}, states(emissions))
	assert.Equal(t, []string{"keys", "umbrella"}, ids(emissions[1].Data()))

	emissions = collect(repo.GetItemsByStatus(context.Background(), libfi.StatusFound))
	assert.Equal(t, []string{"wallet"}, ids(emissions[1].Data()))
}

func TestItemRepository_GetItemsByStatus_Failure(t *testing.T) {
	store := newMemstore()
	store.err = errors.New("network unreachable")
	repo := libfi.NewItemRepository(store, george)

	emissions := collect(repo.GetItemsByStatus(context.Background(), libfi.StatusLost))
	assert.Equal(t, []libfi.State{libfi.StateLoading, libfi.StateError}, states(emissions))
	assert.Equal(t, "network unreachable", emissions[1].Message())
}

func TestItemRepository_GetItemsByStatus_InvalidDocument(t *testing.T) {
	store := newMemstore()
	seed(store)
	store.put(libfi.CollectionItems, "broken", broken)

	repo := libfi.NewItemRepository(store, george)
	r := libfi.Last(repo.GetItemsByStatus(context.Background(), libfi.StatusLost))
	assert.True(t, r.IsError())
	assert.Equal(t, "invalid item broken: missing required field description", r.Message())

	repo = libfi.NewItemRepository(store, george, libfi.WithLenientDecoding())
	r = libfi.Last(repo.GetItemsByStatus(context.Background(), libfi.StatusLost))
	assert.True(t, r.IsSuccess())
	assert.Equal(t, []string{"keys", "umbrella"}, ids(r.Data()))
}

func TestItemRepository_GetItemsByPoster(t *testing.T) {
	store := newMemstore()
	seed(store)

	r := libfi.Last(libfi.NewItemRepository(store, george).GetItemsByPoster(context.Background()))
	assert.True(t, r.IsSuccess())
	assert.Equal(t, []string{"umbrella", "wallet"}, ids(r.Data()))

	r = libfi.Last(libfi.NewItemRepository(store, libfi.NoSession).GetItemsByPoster(context.Background()))
	assert.Equal(t, libfi.Error[[]libfi.Item](libfi.MessageNoSession), r)
}

func TestItemRepository_GetItemByID(t *testing.T) {
	store := newMemstore()
	seed(store)
	repo := libfi.NewItemRepository(store, george)

	r := libfi.Last(repo.GetItemByID(context.Background(), "keys"))
	assert.True(t, r.IsSuccess())
	assert.Equal(t, "Keys", r.Data().Title)
	assert.Equal(t, int64(3000), r.Data().CreatedAt)

	r = libfi.Last(repo.GetItemByID(context.Background(), "unknown"))
	assert.Equal(t, libfi.Error[libfi.Item](libfi.MessageItemNotFound), r)

	r = libfi.Last(repo.GetItemByID(context.Background(), ""))
	assert.Equal(t, libfi.Error[libfi.Item](libfi.MessageItemNotFound), r)
}

func TestItemRepository_ClaimItem(t *testing.T) {
	store := newMemstore()
	seed(store)
	repo := libfi.NewItemRepository(store, george)

	r := libfi.Last(repo.ClaimItem(context.Background(), libfi.Item{ID: "keys"}))
	assert.True(t, r.IsSuccess())
	assert.Equal(t, "george", r.Data().ClaimedBy)
	assert.True(t, r.Data().Claimed())

	r = libfi.Last(repo.ClaimItem(context.Background(), libfi.Item{ID: "keys"}))
	assert.Equal(t, libfi.Error[libfi.Item]("Item already claimed"), r)

	r = libfi.Last(repo.ClaimItem(context.Background(), libfi.Item{ID: "unknown"}))
	assert.Equal(t, libfi.Error[libfi.Item](libfi.MessageItemNotFound), r)

	r = libfi.Last(repo.ClaimItem(context.Background(), libfi.Item{}))
	assert.Equal(t, libfi.Error[libfi.Item](libfi.MessageItemNotFound), r)
}

func TestItemRepository_ClaimItem_NoSession(t *testing.T) {
	store := newMemstore()
	seed(store)
	repo := libfi.NewItemRepository(store, libfi.NoSession)

	emissions := collect(repo.ClaimItem(context.Background(), libfi.Item{ID: "keys"}))
	assert.Equal(t, []libfi.State{libfi.StateLoading, libfi.StateError}, states(emissions))
	assert.Equal(t, libfi.MessageNoSession, emissions[1].Message())
	assert.Zero(t, store.calls)
}

func TestItemRepository_PostItem(t *testing.T) {
	store := newMemstore()
	repo := libfi.NewItemRepository(store, george, libfi.WithClock(func() time.Time { return now }))

	draft := libfi.Item{
		ID:               "ignored",
		Title:            "  Scarf ",
		Description:      "Green wool",
		Category:         "Clothes",
		ImageURL:         "aW1hZ2U=",
		LastSeenLocation: libfi.Location{Latitude: 48.85, Longitude: 2.35, Address: "Park"},
		Status:           libfi.StatusFound,
		PosterPhone:      "0102030405",
		ClaimedBy:        "peter",
	}

	emissions := collect(repo.PostItem(context.Background(), draft))
	assert.Equal(t, []libfi.State{libfi.StateLoading, libfi.StateSuccess}, states(emissions))

	item := emissions[1].Data()
	assert.False(t, item.IsDraft())
	assert.NotEqual(t, "ignored", item.ID)
	assert.Equal(t, "Scarf", item.Title)
	assert.Equal(t, libfi.UnixMillisecond(now), item.CreatedAt)
	assert.Equal(t, "george", item.PostedID)
	assert.Equal(t, george.Email, item.PosterEmail)
	assert.Equal(t, "0102030405", item.PosterPhone)
	assert.Equal(t, draft.LastSeenLocation, item.LastSeenLocation)
	assert.False(t, item.Claimed())

	// Read back from the store.
	r := libfi.Last(repo.GetItemByID(context.Background(), item.ID))
	assert.Equal(t, item, r.Data())
}

func TestItemRepository_PostItem_Validation(t *testing.T) {
	valid := libfi.Item{
		Title:       "Scarf",
		Description: "Green wool",
		Category:    "Clothes",
		ImageURL:    "aW1hZ2U=",
		Status:      libfi.StatusFound,
	}

	data := []struct {
		name    string
		session libfi.Session
		mutate  func(*libfi.Item)
		message string
	}{
		{
			name:    "no session",
			session: libfi.NoSession,
			mutate:  func(*libfi.Item) {},
			message: libfi.MessageNoSession,
		},
		{
			name:    "blank title",
			session: george,
			mutate:  func(i *libfi.Item) { i.Title = "   " },
			message: libfi.MessageMissingField,
		},
		{
			name:    "no category",
			session: george,
			mutate:  func(i *libfi.Item) { i.Category = "" },
			message: libfi.MessageMissingField,
		},
		{
			name:    "no status",
			session: george,
			mutate:  func(i *libfi.Item) { i.Status = "" },
			message: libfi.MessageMissingField,
		},
		{
			name:    "no photo",
			session: george,
			mutate:  func(i *libfi.Item) { i.ImageURL = "" },
			message: libfi.MessageMissingPhoto,
		},
	}

	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			store := newMemstore()
			draft := valid
			d.mutate(&draft)

			r := libfi.Last(libfi.NewItemRepository(store, d.session).PostItem(context.Background(), draft))
			assert.Equal(t, libfi.Error[libfi.Item](d.message), r)
			assert.Zero(t, store.calls)
		})
	}
}

func TestItemRepository_DeleteItem(t *testing.T) {
	store := newMemstore()
	seed(store)
	repo := libfi.NewItemRepository(store, george)

	keys := libfi.Last(repo.GetItemByID(context.Background(), "keys")).Data()
	r := libfi.Last(repo.DeleteItem(context.Background(), keys))
	assert.Equal(t, libfi.Error[libfi.Item](libfi.MessageNotPoster), r)

	umbrella := libfi.Last(repo.GetItemByID(context.Background(), "umbrella")).Data()
	r = libfi.Last(repo.DeleteItem(context.Background(), umbrella))
	assert.True(t, r.IsSuccess())
	assert.Equal(t, umbrella, r.Data())

	r = libfi.Last(repo.DeleteItem(context.Background(), umbrella))
	assert.Equal(t, libfi.Error[libfi.Item](libfi.MessageItemNotFound), r)

	r = libfi.Last(repo.GetItemByID(context.Background(), "umbrella"))
	assert.Equal(t, libfi.Error[libfi.Item](libfi.MessageItemNotFound), r)
}

func TestItemRepository_Profile(t *testing.T) {
	store := newMemstore()
	repo := libfi.NewItemRepository(store, george)

	r := libfi.Last(repo.GetProfile(context.Background()))
	assert.Equal(t, libfi.User{ID: "george", Name: libfi.AnonymousName, Email: george.Email}, r.Data())

	r = libfi.Last(repo.UpdateProfile(context.Background(), libfi.User{Name: "George Abitbol", Phone: "0102030405"}))
	assert.True(t, r.IsSuccess())
	assert.Equal(t, "George Abitbol", r.Data().Name)

	r = libfi.Last(repo.GetProfile(context.Background()))
	assert.Equal(t, libfi.User{
		ID:    "george",
		Name:  "George Abitbol",
		Email: george.Email,
		Phone: "0102030405",
	}, r.Data())

	r = libfi.Last(libfi.NewItemRepository(store, libfi.NoSession).GetProfile(context.Background()))
	assert.Equal(t, libfi.Error[libfi.User](libfi.MessageNoSession), r)
}

type panicstore struct {
	libfi.Store
}

func (panicstore) Get(context.Context, libfi.Session, string, string) (libfi.Document, error) {
	panic("unexpected")
}

func TestItemRepository_Panic(t *testing.T) {
	repo := libfi.NewItemRepository(panicstore{}, george)

	emissions := collect(repo.GetItemByID(context.Background(), "keys"))
	assert.Equal(t, []libfi.State{libfi.StateLoading, libfi.StateError}, states(emissions))
	assert.Equal(t, "Failed to fetch item", emissions[1].Message())
}
