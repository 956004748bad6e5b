package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/asdine/storm/v3"
	"github.com/mdouchement/findit/internal/database"
	"github.com/mdouchement/findit/internal/model"
	"github.com/mdouchement/findit/pkg/stormsql"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// go run tools/console/main.go findit.db " SELECT count(*) FROM items WHERE Status = 'LOST' AND CreatedAt > '2024-02-16 20:52:55';  "

func main() {
	var codec string

	c := &cobra.Command{
		Use:   "console DATABASE SQL",
		Short: "SQL console for findit database",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			//
			//
			sc, err := stormsql.ParseSelect(args[1])
			if err != nil {
				return err
			}

			//
			//
			mu, err := database.Codec(codec)
			if err != nil {
				return err
			}

			fmt.Println("Opening", args[0])
			db, err := storm.Open(args[0], storm.Codec(mu))
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			//
			// Prepare request
			//

			query := db.Select(sc.Matcher)
			if sc.Skip > 0 {
				query.Skip(sc.Skip)
			}
			if sc.Limit > 0 {
				query.Limit(sc.Limit)
			}
			if len(sc.OrderBy) > 0 {
				query.OrderBy(sc.OrderBy...)
				if sc.OrderByReversed {
					query.Reverse()
				}
			}

			// Execute

			if sc.Count {
				return count(sc, query)
			}

			return list(sc, query)
		},
	}
	c.Flags().StringVar(&codec, "codec", database.DefaultCodec, "Codec of the database (msgpack, cbor or binc)")

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func record(tablename string) (any, error) {
	switch tablename {
	case "users":
		return &model.User{}, nil
	case "sessions":
		return &model.Session{}, nil
	case "items":
		return &model.Item{}, nil
	}
	return nil, errors.Errorf("unknown tablename: %s", tablename)
}

func records(tablename string) (any, error) {
	switch tablename {
	case "users":
		return &[]*model.User{}, nil
	case "sessions":
		return &[]*model.Session{}, nil
	case "items":
		return &[]*model.Item{}, nil
	}
	return nil, errors.Errorf("unknown tablename: %s", tablename)
}

func count(sc *stormsql.SelectClause, query storm.Query) error {
	r, err := record(sc.Tablename)
	if err != nil {
		return err
	}

	n, err := query.Count(r)
	if err != nil {
		return errors.Wrap(err, "could not perform query")
	}

	fmt.Println("Count:", n)
	return nil
}

func list(sc *stormsql.SelectClause, query storm.Query) error {
	rs, err := records(sc.Tablename)
	if err != nil {
		return err
	}

	err = query.Find(rs)
	if err == storm.ErrNotFound {
		fmt.Println("[]")
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "could not perform query")
	}

	return jsondump(rs)
}

func jsondump(v any) error {
	d, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not serialize records")
	}
	fmt.Println(string(d))
	return nil
}
