package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/shelfscout/appraise-cli/internal/model"
)

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	data := `[
  {
    "book": {
      "isbn": "9780441172719",
      "title": "Dune",
      "creators": ["Frank Herbert"],
      "signed": true,
      "snapshots": {
        "ebay": {"platform": "ebay", "sold_count": 12, "offer_count": 6, "median_price": 11.5}
      }
    },
    "cost": 2.0
  },
  {"book": {"isbn": "9780553382563", "title": "A Game of Thrones"}}
]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	items, err := Load(path)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "9780441172719", items[0].Book.ISBN)
	assert.True(t, items[0].Book.Signed)
	require.NotNil(t, items[0].Cost)
	assert.Equal(t, 2.0, *items[0].Cost)

	snap, ok := items[0].Book.Snapshot(model.PlatformEbay)
	require.True(t, ok)
	assert.Equal(t, 12, snap.SoldCount)

	assert.Nil(t, items[1].Cost)
}

func writeScanSheet(t *testing.T, header []string, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("scans")
	require.NoError(t, err)

	hr := sheet.AddRow()
	for _, h := range header {
		hr.AddCell().SetString(h)
	}
	for _, row := range rows {
		r := sheet.AddRow()
		for _, v := range row {
			r.AddCell().SetString(v)
		}
	}

	path := filepath.Join(t.TempDir(), "scans.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestLoadXLSX(t *testing.T) {
	path := writeScanSheet(t,
		[]string{"ISBN", "Title", "Creators", "Condition", "Signed", "First_Edition", "Cost"},
		[][]string{
			{"9780441172719", "Dune", "Frank Herbert; Brian Herbert", "Very Good", "yes", "", "2.50"},
			{"9780553382563", "A Game of Thrones", "George R.R. Martin", "good", "", "true", "$1.00"},
			{"", "", "", "", "", "", ""}, // blank row is skipped
		})

	items, err := Load(path)
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "9780441172719", first.Book.ISBN)
	assert.Equal(t, []string{"Frank Herbert", "Brian Herbert"}, first.Book.Creators)
	assert.Equal(t, model.ConditionVeryGood, first.Book.Condition)
	assert.True(t, first.Book.Signed)
	assert.False(t, first.Book.FirstEdition)
	require.NotNil(t, first.Cost)
	assert.Equal(t, 2.50, *first.Cost)

	second := items[1]
	assert.True(t, second.Book.FirstEdition)
	require.NotNil(t, second.Cost)
	assert.Equal(t, 1.00, *second.Cost)
	assert.Nil(t, second.BuybackPrice)
}

func TestLoadXLSX_Errors(t *testing.T) {
	// Header without isbn or title.
	path := writeScanSheet(t, []string{"sku", "price"}, [][]string{{"a", "1"}})
	_, err := LoadXLSX(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neither isbn nor title")

	// Header only, no data.
	path = writeScanSheet(t, []string{"isbn"}, nil)
	_, err = LoadXLSX(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data rows")
}
