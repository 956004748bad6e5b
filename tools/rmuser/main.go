package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/mdouchement/findit/internal/database"
	"github.com/muesli/coral"
	"github.com/pkg/errors"
)

func main() {
	var codec string

	c := &coral.Command{
		Use:   "rmuser DATABASE EMAIL",
		Short: "Remove a user, their sessions and their items from the database",
		Args:  coral.ExactArgs(2),
		RunE: func(_ *coral.Command, args []string) error {
			//
			//
			fmt.Println("Opening", args[0])
			db, err := database.StormOpen(args[0], codec)
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			// Fetch user
			user, err := db.FindUserByMail(strings.ToLower(strings.TrimSpace(args[1])))
			if err != nil {
				if db.IsNotFound(err) {
					fmt.Println("No account for this email")
					return nil
				}
				return errors.Wrap(err, "find user by mail")
			}

			fmt.Println("User found:", user.ID)

			if err = db.DeleteUser(user.ID); err != nil {
				return errors.Wrap(err, "delete user")
			}
			fmt.Println("User, sessions and items removed")

			return nil
		},
	}
	c.Flags().StringVar(&codec, "codec", database.DefaultCodec, "Codec of the database (msgpack, cbor or binc)")

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}
