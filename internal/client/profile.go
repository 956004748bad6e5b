package client

import (
	"context"
	"fmt"
	"os"

	"github.com/mdouchement/findit/internal/imaging"
	"github.com/mdouchement/findit/pkg/libfi"
	"github.com/pkg/errors"
)

// ProfileOptions are the profile fields to change. A nil field is left untouched.
type ProfileOptions struct {
	Name    *string
	Phone   *string
	Picture *string // Path to a JPEG or PNG file, empty removes the picture.
}

// Profile prints the profile of the signed in user.
func (a *App) Profile() error {
	repo, err := a.repository()
	if err != nil {
		return err
	}

	ctx, cancel := a.context()
	defer cancel()

	return a.profile(ctx, repo)
}

func (a *App) profile(ctx context.Context, repo *libfi.ItemRepository) error {
	r := await(a.Logger, repo.GetProfile(ctx))
	if !r.IsSuccess() {
		return failure(a.Logger, r)
	}

	a.printer().profile(r.Data())
	return nil
}

// EditProfile updates the profile of the signed in user.
func (a *App) EditProfile(opts ProfileOptions) error {
	repo, err := a.repository()
	if err != nil {
		return err
	}

	ctx, cancel := a.context()
	defer cancel()

	return a.editProfile(ctx, repo, opts)
}

func (a *App) editProfile(ctx context.Context, repo *libfi.ItemRepository, opts ProfileOptions) error {
	// All the editable fields are written, start from the stored ones.
	current := await(a.Logger, repo.GetProfile(ctx))
	if !current.IsSuccess() {
		return failure(a.Logger, current)
	}

	user := current.Data()
	if opts.Name != nil {
		user.Name = *opts.Name
	}
	if opts.Phone != nil {
		user.Phone = *opts.Phone
	}
	if opts.Picture != nil {
		user.ProfilePictureURL = ""
		if *opts.Picture != "" {
			f, err := os.Open(*opts.Picture)
			if err != nil {
				return errors.Wrap(err, "could not open picture")
			}
			defer f.Close()

			user.ProfilePictureURL, err = imaging.Encode(f)
			if err != nil {
				return err
			}
		}
	}

	r := await(a.Logger, repo.UpdateProfile(ctx, user))
	if !r.IsSuccess() {
		return failure(a.Logger, r)
	}

	fmt.Fprintln(a.Out, "Profile updated successfully")
	a.printer().profile(r.Data())
	return nil
}
