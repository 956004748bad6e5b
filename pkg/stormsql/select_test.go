package stormsql_test

import (
	"testing"
	"time"

	"github.com/mdouchement/findit/pkg/stormsql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Status    string
	PostedID  string
	CreatedAt int64
	ClaimedBy string
}

func TestParseSelect(t *testing.T) {
	sc, err := stormsql.ParseSelect("SELECT Title, CreatedAt FROM items ORDER BY CreatedAt DESC LIMIT 2, 5")
	require.NoError(t, err)
	assert.Equal(t, []string{"Title", "CreatedAt"}, sc.SelectedFields)
	assert.False(t, sc.Count)
	assert.Equal(t, "items", sc.Tablename)
	assert.Equal(t, 2, sc.Skip)
	assert.Equal(t, 5, sc.Limit)
	assert.Equal(t, []string{"CreatedAt"}, sc.OrderBy)
	assert.True(t, sc.OrderByReversed)

	sc, err = stormsql.ParseSelect("SELECT count(*) FROM users")
	require.NoError(t, err)
	assert.True(t, sc.Count)
	assert.Equal(t, "users", sc.Tablename)
}

func TestParseSelect_Where(t *testing.T) {
	since := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	lost := record{Status: "LOST", PostedID: "george", CreatedAt: since.Add(time.Hour).UnixMilli()}
	old := record{Status: "LOST", PostedID: "george", CreatedAt: since.Add(-time.Hour).UnixMilli()}
	found := record{Status: "FOUND", PostedID: "peter", CreatedAt: since.Add(time.Hour).UnixMilli(), ClaimedBy: "george"}

	data := []struct {
		where   string
		matches []record
	}{
		{
			where:   "Status = 'LOST'",
			matches: []record{lost, old},
		},
		{
			where:   "Status = 'LOST' AND CreatedAt > '2024-03-01 00:00:00'",
			matches: []record{lost},
		},
		{
			where:   "(Status = 'FOUND' OR PostedID != 'george') AND CreatedAt >= 0",
			matches: []record{found},
		},
		{
			where:   "PostedID IN ('peter', 'paul')",
			matches: []record{found},
		},
		{
			where:   "ClaimedBy LIKE '^geo'",
			matches: []record{found},
		},
	}

	for _, d := range data {
		t.Run(d.where, func(t *testing.T) {
			sc, err := stormsql.ParseSelect("SELECT * FROM items WHERE " + d.where)
			require.NoError(t, err)

			var matches []record
			for _, r := range []record{lost, old, found} {
				ok, err := sc.Matcher.Match(&r)
				require.NoError(t, err)
				if ok {
					matches = append(matches, r)
				}
			}
			assert.Equal(t, d.matches, matches)
		})
	}
}

func TestParseSelect_Errors(t *testing.T) {
	data := map[string]string{
		"DELETE FROM items":                "not a select statement",
		"SELECT max(CreatedAt) FROM items": "unsupported function max",
		"SELECT * FROM items WHERE 1 = 1":  "the left operand must be a column",
	}

	for sql, message := range data {
		t.Run(sql, func(t *testing.T) {
			_, err := stormsql.ParseSelect(sql)
			assert.EqualError(t, err, message)
		})
	}

	_, err := stormsql.ParseSelect("SELECT * FROM items WHERE Title = ?")
	assert.Error(t, err)

	_, err = stormsql.ParseSelect("SELEC")
	assert.Error(t, err)
}
