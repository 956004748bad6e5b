package libfi

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Messages of the errors raised by the repositories.
const (
	MessageNoSession    = "No user signed in"
	MessageItemNotFound = "Item not found"
	MessageMissingPhoto = "Please add a photo"
	MessageMissingField = "Please fill in all the required fields"
	MessageNotPoster    = "Only the poster can delete this item"
	MessageCredentials  = "Email and password are required"
)

// AnonymousName is the profile name used when the signed in user has no profile yet.
const AnonymousName = "Anonymous"

type (
	// An Option configures a repository.
	Option func(*options)

	options struct {
		now     func() time.Time
		lenient bool
		logger  logrus.FieldLogger
	}

	// An ItemRepository is the only component talking to the Store about items and profiles.
	// It translates documents into typed records and reports every operation as a
	// stream of Resource: Loading, then exactly one Success or Error, then the stream is closed.
	ItemRepository struct {
		store   Store
		session Session
		options
	}
)

// WithClock sets the clock used to date new items.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithLenientDecoding skips (and logs) the invalid documents of a list
// instead of failing the whole fetch.
func WithLenientDecoding() Option {
	return func(o *options) {
		o.lenient = true
	}
}

// WithLogger sets the logger used to report failures.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) options {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	o := options{
		now:    time.Now,
		logger: discard,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewItemRepository returns a new ItemRepository acting on behalf of the given session.
// NoSession restricts the repository to the operations that do not need an identity.
func NewItemRepository(store Store, session Session, opts ...Option) *ItemRepository {
	return &ItemRepository{
		store:   store,
		session: session,
		options: newOptions(opts),
	}
}

// Session returns the session of the repository.
func (r *ItemRepository) Session() Session {
	return r.session
}

// GetItemsByStatus returns the items with the given status, newest first.
func (r *ItemRepository) GetItemsByStatus(ctx context.Context, status Status) <-chan Resource[[]Item] {
	return produce(ctx, r.logger, "Failed to fetch items", func(ctx context.Context) ([]Item, error) {
		docs, err := r.store.Where(ctx, r.session, CollectionItems, "status", string(status))
		if err != nil {
			return nil, err
		}
		return r.decodeItems(docs)
	})
}

// GetItemsByPoster returns the items posted by the signed in user, newest first.
func (r *ItemRepository) GetItemsByPoster(ctx context.Context) <-chan Resource[[]Item] {
	return produce(ctx, r.logger, "Failed to fetch your items", func(ctx context.Context) ([]Item, error) {
		if !r.session.Defined() {
			return nil, errors.New(MessageNoSession)
		}

		docs, err := r.store.Where(ctx, r.session, CollectionItems, "postedId", r.session.UserID)
		if err != nil {
			return nil, err
		}
		return r.decodeItems(docs)
	})
}

// GetItemByID returns one item.
func (r *ItemRepository) GetItemByID(ctx context.Context, id string) <-chan Resource[Item] {
	return produce(ctx, r.logger, "Failed to fetch item", func(ctx context.Context) (Item, error) {
		if id == "" {
			return Item{}, errors.New(MessageItemNotFound)
		}
		return r.get(ctx, id)
	})
}

// ClaimItem claims the item on behalf of the signed in user and returns its stored state.
func (r *ItemRepository) ClaimItem(ctx context.Context, item Item) <-chan Resource[Item] {
	return produce(ctx, r.logger, "Failed to claim item", func(ctx context.Context) (Item, error) {
		if !r.session.Defined() {
			return Item{}, errors.New(MessageNoSession)
		}
		if item.IsDraft() {
			return Item{}, errors.New(MessageItemNotFound)
		}

		doc, err := r.store.Call(ctx, r.session, CollectionItems, item.ID, "claim")
		if err != nil {
			if IsNotFound(err) {
				return Item{}, errors.New(MessageItemNotFound)
			}
			return Item{}, err
		}
		return DecodeItem(doc)
	})
}

// PostItem stores the given draft and returns the stored item.
// The submission date and the poster fields are set from the clock and the session.
func (r *ItemRepository) PostItem(ctx context.Context, draft Item) <-chan Resource[Item] {
	return produce(ctx, r.logger, "Failed to post item", func(ctx context.Context) (Item, error) {
		if !r.session.Defined() {
			return Item{}, errors.New(MessageNoSession)
		}

		draft.Title = strings.TrimSpace(draft.Title)
		draft.Description = strings.TrimSpace(draft.Description)
		draft.Category = strings.TrimSpace(draft.Category)
		if draft.Title == "" || draft.Description == "" || draft.Category == "" || !draft.Status.Valid() {
			return Item{}, errors.New(MessageMissingField)
		}
		if draft.ImageURL == "" {
			return Item{}, errors.New(MessageMissingPhoto)
		}

		draft.ID = ""
		draft.CreatedAt = UnixMillisecond(r.now())
		draft.PostedID = r.session.UserID
		draft.ClaimedBy = ""
		draft.ClaimedAt = 0
		if draft.PosterEmail == "" {
			draft.PosterEmail = r.session.Email
		}

		id, err := r.store.Add(ctx, r.session, CollectionItems, draft.Record())
		if err != nil {
			return Item{}, err
		}

		// The write is acknowledged, read it back.
		return r.get(ctx, id)
	})
}

// DeleteItem removes an item posted by the signed in user.
// The deleted item is the payload of the success.
func (r *ItemRepository) DeleteItem(ctx context.Context, item Item) <-chan Resource[Item] {
	return produce(ctx, r.logger, "Failed to delete item", func(ctx context.Context) (Item, error) {
		if !r.session.Defined() {
			return Item{}, errors.New(MessageNoSession)
		}
		if item.IsDraft() {
			return Item{}, errors.New(MessageItemNotFound)
		}
		if item.PostedID != r.session.UserID {
			return Item{}, errors.New(MessageNotPoster)
		}

		err := r.store.Delete(ctx, r.session, CollectionItems, item.ID)
		if IsNotFound(err) {
			return Item{}, errors.New(MessageItemNotFound)
		}
		return item, err
	})
}

// GetProfile returns the profile of the signed in user.
// A profile is built from the session when none is stored.
func (r *ItemRepository) GetProfile(ctx context.Context) <-chan Resource[User] {
	return produce(ctx, r.logger, "Failed to load profile", func(ctx context.Context) (User, error) {
		if !r.session.Defined() {
			return User{}, errors.New(MessageNoSession)
		}

		doc, err := r.store.Get(ctx, r.session, CollectionUsers, r.session.UserID)
		if err != nil {
			if IsNotFound(err) {
				return User{
					ID:    r.session.UserID,
					Name:  AnonymousName,
					Email: r.session.Email,
				}, nil
			}
			return User{}, err
		}

		user, err := DecodeUser(doc)
		if err != nil {
			return User{}, err
		}
		if user.Email == "" {
			user.Email = r.session.Email
		}
		return user, nil
	})
}

// UpdateProfile writes the editable fields of the given user into the profile
// of the signed in user and returns the stored profile.
func (r *ItemRepository) UpdateProfile(ctx context.Context, user User) <-chan Resource[User] {
	return produce(ctx, r.logger, "Failed to update profile", func(ctx context.Context) (User, error) {
		if !r.session.Defined() {
			return User{}, errors.New(MessageNoSession)
		}

		doc, err := r.store.Merge(ctx, r.session, CollectionUsers, r.session.UserID, user.Record())
		if err != nil {
			return User{}, err
		}
		return DecodeUser(doc)
	})
}

func (r *ItemRepository) get(ctx context.Context, id string) (Item, error) {
	doc, err := r.store.Get(ctx, r.session, CollectionItems, id)
	if err != nil {
		if IsNotFound(err) {
			return Item{}, errors.New(MessageItemNotFound)
		}
		return Item{}, err
	}
	return DecodeItem(doc)
}

func (r *ItemRepository) decodeItems(docs []Document) ([]Item, error) {
	items := make([]Item, 0, len(docs))
	for _, doc := range docs {
		item, err := DecodeItem(doc)
		if err != nil {
			if r.lenient {
				r.logger.WithError(err).WithField("id", doc.ID).Warn("skipping invalid item")
				continue
			}
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// produce runs fn in its own goroutine and reports it as a Resource stream.
// The stream is buffered so the producer never blocks on an abandoned consumer.
func produce[T any](ctx context.Context, logger logrus.FieldLogger, fallback string, fn func(context.Context) (T, error)) <-chan Resource[T] {
	stream := make(chan Resource[T], 2)
	stream <- Loading[T]()

	go func() {
		defer close(stream)
		defer func() {
			if r := recover(); r != nil {
				logger.WithField("panic", fmt.Sprint(r)).Error(fallback)
				stream <- Error[T](fallback)
			}
		}()

		data, err := fn(ctx)
		if err != nil {
			logger.WithError(err).Warn(fallback)
			stream <- Error[T](message(err, fallback))
			return
		}
		stream <- Success(data)
	}()

	return stream
}
