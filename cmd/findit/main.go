package main

import (
	"fmt"
	"os"

	"github.com/mdouchement/findit/internal/client"
	"github.com/spf13/cobra"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	app *client.App
)

func main() {
	c := &cobra.Command{
		Use:     "findit",
		Short:   "FindIt lost and found client",
		Version: fmt.Sprintf("%s - build %.7s @ %s", version, revision, date),
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) (err error) {
			app, err = client.New()
			return err
		},
		SilenceUsage: true,
	}
	c.AddCommand(signupCmd)
	c.AddCommand(loginCmd)
	c.AddCommand(logoutCmd)
	c.AddCommand(feedCmd)
	c.AddCommand(browseCmd)
	c.AddCommand(showCmd)
	c.AddCommand(claimCmd)
	c.AddCommand(deleteCmd)
	c.AddCommand(postCmd)
	c.AddCommand(mineCmd)
	profileCmd.AddCommand(profileEditCmd)
	c.AddCommand(profileCmd)

	if err := execute(c); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

func execute(c *cobra.Command) error {
	defer func() {
		if r := recover(); r != nil {
			if app == nil {
				panic(r)
			}
			app.Crash(r)
		}
	}()
	return c.Execute()
}

var (
	signupCmd = &cobra.Command{
		Use:   "signup",
		Short: "Create an account on a FindIt server",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.Signup()
		},
	}

	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Login to a FindIt server",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.Login()
		},
	}

	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Logout from the FindIt server session",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.Logout()
		},
	}

	browseCmd = &cobra.Command{
		Use:   "browse",
		Short: "Browse the lost and found items interactively",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.Browse()
		},
	}

	showCmd = &cobra.Command{
		Use:   "show ID",
		Short: "Show the details of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			picture, _ := cmd.Flags().GetString("image")
			return app.Show(args[0], picture)
		},
	}

	claimCmd = &cobra.Command{
		Use:   "claim ID",
		Short: "Claim an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.Claim(args[0])
		},
	}

	deleteCmd = &cobra.Command{
		Use:   "delete ID",
		Short: "Delete one of your items",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.Delete(args[0])
		},
	}

	mineCmd = &cobra.Command{
		Use:   "mine",
		Short: "List your items",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.Mine()
		},
	}

	profileCmd = &cobra.Command{
		Use:   "profile",
		Short: "Show your profile",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.Profile()
		},
	}
)

var feedOpts client.FeedOptions

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "List the lost and found items",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return app.Feed(feedOpts)
	},
}

var postOpts client.PostOptions

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Post a lost or found item",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return app.Post(postOpts)
	},
}

var profileEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit your profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var opts client.ProfileOptions
		for name, dst := range map[string]**string{
			"name":    &opts.Name,
			"phone":   &opts.Phone,
			"picture": &opts.Picture,
		} {
			if cmd.Flags().Changed(name) {
				value, _ := cmd.Flags().GetString(name)
				*dst = &value
			}
		}
		return app.EditProfile(opts)
	},
}

func init() {
	showCmd.Flags().String("image", "", "Write the picture of the item into the given file")

	feedCmd.Flags().StringVar(&feedOpts.Status, "status", "", "Only list LOST or FOUND items")
	feedCmd.Flags().StringVarP(&feedOpts.Query, "query", "q", "", "Search in titles, descriptions and addresses")
	feedCmd.Flags().StringVar(&feedOpts.Category, "category", "", "Filter on category")
	feedCmd.Flags().StringVar(&feedOpts.Location, "location", "", "Filter on address")
	feedCmd.Flags().StringVar(&feedOpts.Days, "days", "", "Only list the items posted in the last days")

	postCmd.Flags().StringVar(&postOpts.Title, "title", "", "Title")
	postCmd.Flags().StringVar(&postOpts.Description, "description", "", "Description")
	postCmd.Flags().StringVar(&postOpts.Category, "category", "", "Category")
	postCmd.Flags().StringVar(&postOpts.Status, "status", "", "LOST or FOUND")
	postCmd.Flags().StringVar(&postOpts.Photo, "photo", "", "JPEG or PNG photo of the item")
	postCmd.Flags().StringVar(&postOpts.Address, "address", "", "Where the item was last seen")
	postCmd.Flags().Float64Var(&postOpts.Latitude, "lat", 0, "Latitude of the last seen location")
	postCmd.Flags().Float64Var(&postOpts.Longitude, "lng", 0, "Longitude of the last seen location")
	postCmd.Flags().StringVar(&postOpts.Phone, "phone", "", "Phone number to contact you")

	profileEditCmd.Flags().String("name", "", "Your name")
	profileEditCmd.Flags().String("phone", "", "Your phone number")
	profileEditCmd.Flags().String("picture", "", "JPEG or PNG picture (empty removes it)")
}
