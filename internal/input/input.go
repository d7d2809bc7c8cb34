// Package input loads batch scoring items from JSON and XLSX files.
// JSON carries the full record including market snapshots; XLSX covers
// the scan-sheet workflow where scouts list books with catalog fields
// only.
package input

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/shelfscout/appraise-cli/internal/model"
)

// Item is one batch entry: the book plus optional per-item economics.
type Item struct {
	Book         model.BookRecord `json:"book"`
	Cost         *float64         `json:"cost,omitempty"`
	BuybackPrice *float64         `json:"buyback_price,omitempty"`
}

// Load reads items from path, dispatching on extension. ".xlsx" parses a
// scan sheet; anything else is decoded as a JSON array.
func Load(path string) ([]Item, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return LoadXLSX(path)
	}
	return LoadJSON(path)
}

// LoadJSON decodes a JSON array of items.
func LoadJSON(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "input: open %s", path)
	}
	defer f.Close()

	var items []Item
	if err := json.NewDecoder(f).Decode(&items); err != nil {
		return nil, eris.Wrapf(err, "input: decode %s", path)
	}
	return items, nil
}

// Scan-sheet column headers recognized in the first row, matched
// case-insensitively. Unknown columns are ignored.
const (
	colISBN      = "isbn"
	colTitle     = "title"
	colCreators  = "creators"
	colBinding   = "binding"
	colCondition = "condition"
	colSigned    = "signed"
	colFirstEd   = "first_edition"
	colPages     = "page_count"
	colYear      = "published_year"
	colListPrice = "list_price"
	colCost      = "cost"
	colBuyback   = "buyback_price"
)

// LoadXLSX parses the first sheet of a scan-sheet workbook. The first
// row is the header; creators are semicolon-separated.
func LoadXLSX(path string) ([]Item, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "input: open %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("input: %s has no sheets", path)
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) < 2 {
		return nil, eris.Errorf("input: %s has no data rows", path)
	}

	cols := map[string]int{}
	for j, cell := range sheet.Rows[0].Cells {
		cols[strings.ToLower(strings.TrimSpace(cell.String()))] = j
	}
	if _, ok := cols[colISBN]; !ok {
		if _, ok := cols[colTitle]; !ok {
			return nil, eris.Errorf("input: %s header has neither isbn nor title column", path)
		}
	}

	var items []Item
	for _, row := range sheet.Rows[1:] {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = strings.TrimSpace(cell.String())
		}
		item, empty := rowToItem(cols, cells)
		if empty {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func rowToItem(cols map[string]int, cells []string) (Item, bool) {
	get := func(name string) string {
		j, ok := cols[name]
		if !ok || j >= len(cells) {
			return ""
		}
		return cells[j]
	}

	var item Item
	item.Book.ISBN = get(colISBN)
	item.Book.Title = get(colTitle)
	if item.Book.ISBN == "" && item.Book.Title == "" {
		return Item{}, true
	}

	if creators := get(colCreators); creators != "" {
		for _, c := range strings.Split(creators, ";") {
			if c = strings.TrimSpace(c); c != "" {
				item.Book.Creators = append(item.Book.Creators, c)
			}
		}
	}
	item.Book.Binding = get(colBinding)
	if cond := get(colCondition); cond != "" {
		item.Book.Condition = model.ParseCondition(cond)
	}
	item.Book.Signed = parseBool(get(colSigned))
	item.Book.FirstEdition = parseBool(get(colFirstEd))
	item.Book.PageCount = parseInt(get(colPages))
	item.Book.PublishedYear = parseInt(get(colYear))
	item.Book.ListPrice = parseFloat(get(colListPrice))

	if v := get(colCost); v != "" {
		if f := parseFloat(v); f > 0 {
			item.Cost = &f
		}
	}
	if v := get(colBuyback); v != "" {
		if f := parseFloat(v); f > 0 {
			item.BuybackPrice = &f
		}
	}
	return item, false
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimPrefix(s, "$"), 64)
	if err != nil {
		return 0
	}
	return f
}
