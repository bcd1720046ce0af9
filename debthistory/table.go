package debthistory

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"salon/models"
)

// DefaultPageSize is the only page size the table offers.
const DefaultPageSize = 5

// Column maps a debt record to one display cell.
type Column struct {
	Field  string
	Header string
	Width  int
	Value  func(models.DebtRecord) string

	// Numeric values are written as numbers in spreadsheet exports.
	Numeric bool

	// compare orders records for this column; nil sorts Value text.
	compare func(a, b models.DebtRecord) int
}

// Columns returns the result table layout. Dates are shown in loc.
func Columns(loc *time.Location) []Column {
	return []Column{
		{
			Field:  "requester.lastName",
			Header: "Nom",
			Width:  120,
			Value:  func(r models.DebtRecord) string { return r.Requester.LastName },
		},
		{
			Field:  "requester.firstName",
			Header: "Prenom",
			Width:  120,
			Value:  func(r models.DebtRecord) string { return r.Requester.FirstName },
		},
		{
			Field:  "requester.otherNames",
			Header: "Surnom",
			Width:  120,
			Value:  func(r models.DebtRecord) string { return r.Requester.OtherNames },
		},
		{
			Field:  "debtDate",
			Header: "Date d'acquisation de dette",
			Width:  200,
			Value: func(r models.DebtRecord) string {
				d, ok := r.DateIn(loc)
				if !ok {
					return ""
				}
				return models.FormatDate(d)
			},
			compare: func(a, b models.DebtRecord) int {
				da, okA := a.DateIn(loc)
				db, okB := b.DateIn(loc)
				switch {
				case !okA && !okB:
					return 0
				case !okA:
					return -1
				case !okB:
					return 1
				case da.Before(db):
					return -1
				case da.After(db):
					return 1
				}
				return 0
			},
		},
		{
			Field:   "debtAmount",
			Header:  "Montant",
			Width:   120,
			Numeric: true,
			Value:   func(r models.DebtRecord) string { return r.DebtAmount.String() },
			compare: func(a, b models.DebtRecord) int { return a.DebtAmount.Cmp(b.DebtAmount) },
		},
		{
			Field:  "details",
			Header: "Motif d'acquisation de dette",
			Width:  220,
			Value:  func(r models.DebtRecord) string { return r.Details },
		},
		{
			Field:  "responsible.firstName",
			Header: "Prenom du responsable",
			Width:  150,
			Value:  func(r models.DebtRecord) string { return r.Responsible.FirstName },
		},
		{
			Field:  "responsible.lastName",
			Header: "Nom du responsable",
			Width:  150,
			Value:  func(r models.DebtRecord) string { return r.Responsible.LastName },
		},
	}
}

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// TableQuery is the client-side sorting, quick filter and paging of the
// table, carried in the page URL.
type TableQuery struct {
	Sort   string `form:"sort" validate:"omitempty,max=64"`
	Order  string `form:"order" validate:"omitempty,oneof=asc desc"`
	Filter string `form:"q" validate:"max=200"`
	Page   int    `form:"page" validate:"gte=0"`
}

type Table struct {
	Columns         []Column
	Rows            [][]string
	Query           TableQuery
	Page            int
	PageCount       int
	PageSize        int
	PageSizeOptions []int
	// MatchingRows counts rows left after filtering, across all pages.
	MatchingRows int
	FirstRow     int
	LastRow      int
}

func (t Table) HasPrev() bool { return t.Page > 1 }
func (t Table) HasNext() bool { return t.Page < t.PageCount }

// BuildTable filters, sorts and pages records.
func BuildTable(records []models.DebtRecord, cols []Column, q TableQuery, pageSize int) Table {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	rows := Rows(records, cols, q)

	pageCount := (len(rows) + pageSize - 1) / pageSize
	if pageCount == 0 {
		pageCount = 1
	}
	page := min(max(q.Page, 1), pageCount)
	q.Page = page

	from := min((page-1)*pageSize, len(rows))
	to := min(from+pageSize, len(rows))

	t := Table{
		Columns:         cols,
		Rows:            rows[from:to],
		Query:           q,
		Page:            page,
		PageCount:       pageCount,
		PageSize:        pageSize,
		PageSizeOptions: []int{pageSize},
		MatchingRows:    len(rows),
	}
	if to > from {
		t.FirstRow, t.LastRow = from+1, to
	}
	return t
}

// Rows returns every filtered, sorted row as display text.
func Rows(records []models.DebtRecord, cols []Column, q TableQuery) [][]string {
	sorted := sortRecords(records, cols, q)

	fold := cases.Fold()
	terms := strings.Fields(fold.String(q.Filter))

	rows := make([][]string, 0, len(sorted))
	for _, r := range sorted {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = c.Value(r)
		}
		if matches(row, terms, fold) {
			rows = append(rows, row)
		}
	}
	return rows
}

// matches reports whether every term appears in at least one cell.
func matches(row []string, terms []string, fold cases.Caser) bool {
	if len(terms) == 0 {
		return true
	}
	folded := make([]string, len(row))
	for i, cell := range row {
		folded[i] = fold.String(cell)
	}
	for _, term := range terms {
		found := false
		for _, cell := range folded {
			if strings.Contains(cell, term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func sortRecords(records []models.DebtRecord, cols []Column, q TableQuery) []models.DebtRecord {
	sorted := slices.Clone(records)
	idx := slices.IndexFunc(cols, func(c Column) bool { return c.Field == q.Sort })
	if idx < 0 {
		return sorted
	}
	col := cols[idx]

	cmp := col.compare
	if cmp == nil {
		collator := collate.New(language.French, collate.IgnoreCase)
		cmp = func(a, b models.DebtRecord) int {
			return collator.CompareString(col.Value(a), col.Value(b))
		}
	}
	if q.Order == OrderDesc {
		asc := cmp
		cmp = func(a, b models.DebtRecord) int { return -asc(a, b) }
	}
	slices.SortStableFunc(sorted, cmp)
	return sorted
}
