package client

import (
	"context"
	"fmt"
	"os"

	"github.com/mdouchement/findit/internal/imaging"
	"github.com/mdouchement/findit/pkg/libfi"
	"github.com/pkg/errors"
)

type (
	// FeedOptions are the search query and the filters of the feed command.
	FeedOptions struct {
		Status   string // Empty for both lanes.
		Query    string
		Category string
		Location string
		Days     string
	}

	// PostOptions describe the item to post.
	PostOptions struct {
		Title       string
		Description string
		Category    string
		Status      string
		Photo       string // Path to a JPEG or PNG file.
		Address     string
		Latitude    float64
		Longitude   float64
		Phone       string
	}
)

// Feed prints the lost and found items.
func (a *App) Feed(opts FeedOptions) error {
	repo, err := a.repository()
	if err != nil {
		return err
	}

	ctx, cancel := a.context()
	defer cancel()

	return a.feed(ctx, repo, opts)
}

func (a *App) feed(ctx context.Context, source libfi.ItemSource, opts FeedOptions) error {
	statuses := libfi.Statuses
	if opts.Status != "" {
		status, err := libfi.ParseStatus(opts.Status)
		if err != nil {
			return err
		}
		statuses = []libfi.Status{status}
	}

	filters := libfi.NewFilterState(opts.Category, opts.Location, opts.Days)

	feed := libfi.NewFeed(source)
	feed.ApplyFilters(filters.Category, filters.Location, filters.DaysAgo)
	<-feed.FetchItems(ctx)

	p := a.printer()
	p.filters(opts.Query, feed.Filters())
	for _, status := range statuses {
		p.lane(status, feed.View(status, opts.Query, p.now()))
	}
	return nil
}

// Mine prints the items posted by the signed in user.
func (a *App) Mine() error {
	repo, err := a.repository()
	if err != nil {
		return err
	}

	ctx, cancel := a.context()
	defer cancel()

	return a.mine(ctx, repo)
}

func (a *App) mine(ctx context.Context, repo *libfi.ItemRepository) error {
	r := await(a.Logger, repo.GetItemsByPoster(ctx))
	if !r.IsSuccess() {
		return failure(a.Logger, r)
	}

	a.printer().list(r.Data())
	return nil
}

// Show prints the details of an item and optionally writes its picture into a file.
func (a *App) Show(id, picture string) error {
	repo, err := a.repository()
	if err != nil {
		return err
	}

	ctx, cancel := a.context()
	defer cancel()

	return a.show(ctx, repo, id, picture)
}

func (a *App) show(ctx context.Context, repo *libfi.ItemRepository, id, picture string) error {
	r := await(a.Logger, repo.GetItemByID(ctx, id))
	if !r.IsSuccess() {
		return failure(a.Logger, r)
	}
	a.printer().item(r.Data())

	if picture == "" {
		return nil
	}

	format, width, height, err := imaging.Config(r.Data().ImageURL)
	if err != nil {
		return err
	}

	data, err := imaging.Decode(r.Data().ImageURL)
	if err != nil {
		return err
	}

	err = os.WriteFile(picture, data, 0644)
	if err != nil {
		return errors.Wrap(err, "could not write picture")
	}

	fmt.Fprintf(a.Out, "Picture written to %s (%s %dx%d)\n", picture, format, width, height)
	return nil
}

// Claim claims an item on behalf of the signed in user.
func (a *App) Claim(id string) error {
	repo, err := a.repository()
	if err != nil {
		return err
	}

	ctx, cancel := a.context()
	defer cancel()

	return a.claim(ctx, repo, id)
}

func (a *App) claim(ctx context.Context, repo *libfi.ItemRepository, id string) error {
	r := await(a.Logger, repo.ClaimItem(ctx, libfi.Item{ID: id}))
	if !r.IsSuccess() {
		return failure(a.Logger, r)
	}

	item := r.Data()
	fmt.Fprintf(a.Out, "You claimed %q, please contact the poster:\n", item.Title)
	if item.PosterEmail != "" {
		fmt.Fprintf(a.Out, "  Email: %s\n", item.PosterEmail)
	}
	if item.PosterPhone != "" {
		fmt.Fprintf(a.Out, "  Phone: %s\n", item.PosterPhone)
	}
	return nil
}

// Delete removes an item posted by the signed in user.
func (a *App) Delete(id string) error {
	repo, err := a.repository()
	if err != nil {
		return err
	}

	ctx, cancel := a.context()
	defer cancel()

	return a.delete(ctx, repo, id)
}

func (a *App) delete(ctx context.Context, repo *libfi.ItemRepository, id string) error {
	// The owner is checked against the stored item.
	item := await(a.Logger, repo.GetItemByID(ctx, id))
	if !item.IsSuccess() {
		return failure(a.Logger, item)
	}

	r := await(a.Logger, repo.DeleteItem(ctx, item.Data()))
	if !r.IsSuccess() {
		return failure(a.Logger, r)
	}

	fmt.Fprintf(a.Out, "Deleted %q\n", r.Data().Title)
	return nil
}

// Post publishes a new item.
func (a *App) Post(opts PostOptions) error {
	draft, err := opts.draft()
	if err != nil {
		return err
	}

	repo, err := a.repository()
	if err != nil {
		return err
	}

	ctx, cancel := a.context()
	defer cancel()

	return a.post(ctx, repo, draft)
}

func (a *App) post(ctx context.Context, repo *libfi.ItemRepository, draft libfi.Item) error {
	r := await(a.Logger, repo.PostItem(ctx, draft))
	if !r.IsSuccess() {
		return failure(a.Logger, r)
	}

	fmt.Fprintf(a.Out, "Posted %q (%s)\n", r.Data().Title, r.Data().ID)
	return nil
}

func (opts PostOptions) draft() (libfi.Item, error) {
	draft := libfi.Item{
		Title:       opts.Title,
		Description: opts.Description,
		Category:    opts.Category,
		LastSeenLocation: libfi.Location{
			Latitude:  opts.Latitude,
			Longitude: opts.Longitude,
			Address:   opts.Address,
		},
		PosterPhone: opts.Phone,
	}

	if opts.Status != "" {
		status, err := libfi.ParseStatus(opts.Status)
		if err != nil {
			return draft, err
		}
		draft.Status = status
	}

	if opts.Photo != "" {
		f, err := os.Open(opts.Photo)
		if err != nil {
			return draft, errors.Wrap(err, "could not open photo")
		}
		defer f.Close()

		draft.ImageURL, err = imaging.Encode(f)
		if err != nil {
			return draft, err
		}
	}

	return draft, nil
}
