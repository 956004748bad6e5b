package service

import (
	"context"
	"net/http"
	"time"

	"github.com/mdouchement/findit/internal/database"
	"github.com/mdouchement/findit/internal/fierror"
	"github.com/mdouchement/findit/internal/model"
	"github.com/mdouchement/findit/internal/server/notifier"
	"github.com/mdouchement/findit/internal/server/serializer"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// queryable maps the document fields that can be queried to their indexed model field.
var queryable = map[string]string{
	"status":   "Status",
	"postedId": "PostedID",
}

type (
	// An ItemService handles the lost and found postings.
	ItemService interface {
		List(params ListItemsParams) (Render, error)
		Show(id string) (Render, error)
		Create(ctx context.Context, user *model.User, params CreateItemParams) (Render, error)
		Claim(ctx context.Context, user *model.User, id string) (Render, error)
		Delete(ctx context.Context, user *model.User, id string) error
	}

	// ListItemsParams are used to query items on one field.
	ListItemsParams struct {
		Params
		Field string `query:"field" validate:"required"`
		Value string `query:"value" validate:"required"`
	}

	// CreateItemParams are used to post an item.
	CreateItemParams struct {
		Params
		Title       string         `json:"title"            validate:"required"`
		Description string         `json:"description"      validate:"required"`
		Category    string         `json:"category"         validate:"required"`
		ImageURL    string         `json:"imageUrl"         validate:"required"`
		Location    LocationParams `json:"lastSeenLocation"`
		Status      string         `json:"status"           validate:"required,oneof=LOST FOUND"`
		CreatedAt   int64          `json:"createdAt"        validate:"gte=0"`
		PosterEmail string         `json:"posterEmail"      validate:"omitempty,email"`
		PosterPhone string         `json:"posterPhone"`
	}

	// LocationParams are the coordinates and address where an item was lost or found.
	LocationParams struct {
		Latitude  float64 `json:"latitude"  validate:"lat"`
		Longitude float64 `json:"longitude" validate:"lng"`
		Address   string  `json:"address"`
	}

	itemService struct {
		db       database.Client
		notifier notifier.Notifier
	}
)

// NewItem returns a new ItemService.
func NewItem(db database.Client, n notifier.Notifier) ItemService {
	return &itemService{
		db:       db,
		notifier: n,
	}
}

// List returns the items matching the query, newest first.
func (s *itemService) List(params ListItemsParams) (Render, error) {
	field, ok := queryable[params.Field]
	if !ok {
		return nil, fierror.NewWithTagCode(http.StatusBadRequest, fierror.TagMissingIndex, "The query requires an index on "+params.Field+".")
	}

	if field == "Status" && params.Value != model.StatusLost && params.Value != model.StatusFound {
		return nil, fierror.NewWithTagCode(http.StatusBadRequest, fierror.TagInvalidParams, "Unknown status: "+params.Value)
	}

	items, err := s.db.FindItemsBy(field, params.Value)
	if err != nil {
		return nil, errors.Wrap(err, "could not get items")
	}
	return serializer.Items(items), nil
}

// Show returns the item for the given id.
func (s *itemService) Show(id string) (Render, error) {
	item, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return serializer.Item(item), nil
}

// Create stores a new item posted by the given user.
func (s *itemService) Create(ctx context.Context, user *model.User, params CreateItemParams) (Render, error) {
	item := &model.Item{
		Title:       params.Title,
		Description: params.Description,
		Category:    params.Category,
		ImageURL:    params.ImageURL,
		Location: model.Location{
			Latitude:  params.Location.Latitude,
			Longitude: params.Location.Longitude,
			Address:   params.Location.Address,
		},
		Status:      params.Status,
		PostedID:    user.ID,
		PosterEmail: params.PosterEmail,
		PosterPhone: params.PosterPhone,
	}
	item.CreatedAt = params.CreatedAt // Save uses now when not provided.

	if item.PosterEmail == "" {
		item.PosterEmail = user.Email
	}
	if item.PosterPhone == "" {
		item.PosterPhone = user.Phone
	}

	if err := s.db.Save(item); err != nil {
		return nil, errors.Wrap(err, "could not persist item")
	}

	s.publish(ctx, notifier.ItemPosted, item, user)
	return M{"id": item.ID}, nil
}

// Claim records the given user as the claimer of the item.
func (s *itemService) Claim(ctx context.Context, user *model.User, id string) (Render, error) {
	item, err := s.db.ClaimItem(id, func(item *model.Item) error {
		if item.PostedID == user.ID {
			return fierror.NewWithTagCode(http.StatusForbidden, fierror.TagForbidden, "You cannot claim your own item.")
		}
		if item.Claimed() {
			return fierror.NewWithTagCode(http.StatusConflict, fierror.TagConflict, "Item already claimed")
		}

		item.ClaimedBy = user.ID
		item.ClaimedAt = time.Now().UnixMilli()
		return nil
	})
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, fierror.NotFound("Item not found")
		}
		return nil, err
	}

	s.publish(ctx, notifier.ItemClaimed, item, user)
	return serializer.Item(item), nil
}

// Delete removes the item if the given user posted it.
func (s *itemService) Delete(ctx context.Context, user *model.User, id string) error {
	item, err := s.find(id)
	if err != nil {
		return err
	}

	if item.PostedID != user.ID {
		return fierror.NewWithTagCode(http.StatusForbidden, fierror.TagForbidden, "Only the poster can delete this item.")
	}

	if err = s.db.DeleteItem(item.ID, user.ID); err != nil {
		return errors.Wrap(err, "could not delete item")
	}

	s.publish(ctx, notifier.ItemDeleted, item, user)
	return nil
}

func (s *itemService) find(id string) (*model.Item, error) {
	item, err := s.db.FindItem(id)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, fierror.NotFound("Item not found")
		}
		return nil, errors.Wrap(err, "could not get item")
	}
	return item, nil
}

// publish never fails the request, the event is lost when the broker is unreachable.
func (s *itemService) publish(ctx context.Context, kind string, item *model.Item, actor *model.User) {
	err := s.notifier.Publish(ctx, notifier.Event{
		Kind:      kind,
		ItemID:    item.ID,
		Status:    item.Status,
		Title:     item.Title,
		PostedID:  item.PostedID,
		ActorID:   actor.ID,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		logrus.WithError(err).WithField("kind", kind).Error("could not publish event")
	}
}
