package handlers

import (
	"net/url"
	"strconv"

	"salon/debthistory"
)

type employeeOption struct {
	Value    string
	Label    string
	Selected bool
}

type headerCell struct {
	Label     string
	Width     int
	SortURL   string
	Indicator string
}

func viewURL(id string) string {
	return basePath + "/" + url.PathEscape(id)
}

func (h *DebtHistoryHandler) pageData(state debthistory.State, q debthistory.TableQuery) map[string]interface{} {
	base := viewURL(state.ID)
	table := debthistory.BuildTable(state.Records, h.columns, q, h.config.PageSize)

	options := make([]employeeOption, 0, len(state.Employees))
	for _, e := range state.Employees {
		options = append(options, employeeOption{
			Value:    e.ID.String(),
			Label:    e.DisplayName(),
			Selected: e.ID.String() == state.Criteria.EmployeeID,
		})
	}

	headers := make([]headerCell, 0, len(table.Columns))
	for _, col := range table.Columns {
		next := nextSort(table.Query, col.Field)
		cell := headerCell{
			Label:   col.Header,
			Width:   col.Width,
			SortURL: tableURL(base, next),
		}
		if table.Query.Sort == col.Field {
			switch table.Query.Order {
			case debthistory.OrderDesc:
				cell.Indicator = "↓"
			default:
				cell.Indicator = "↑"
			}
		}
		headers = append(headers, cell)
	}

	prev, next := table.Query, table.Query
	prev.Page--
	next.Page++
	exportQuery := table.Query
	exportQuery.Page = 0

	return map[string]interface{}{
		"ViewID":          state.ID,
		"BaseURL":         base,
		"Criteria":        state.Criteria,
		"EmployeeOptions": options,
		"Total":           state.Total.String(),
		"SearchError":     state.SearchError,
		"EmployeeError":   state.EmployeeError,
		"Loading":         state.Loading,
		"Table":           table,
		"Headers":         headers,
		"PrevURL":         tableURL(base, prev),
		"NextURL":         tableURL(base, next),
		"ExportCSVURL":    tableURL(base+"/export.csv", exportQuery),
		"ExportXLSXURL":   tableURL(base+"/export.xlsx", exportQuery),
	}
}

// nextSort cycles a column through ascending, descending and unsorted, and
// goes back to the first page.
func nextSort(q debthistory.TableQuery, field string) debthistory.TableQuery {
	q.Page = 0
	switch {
	case q.Sort != field:
		q.Sort, q.Order = field, debthistory.OrderAsc
	case q.Order == debthistory.OrderDesc:
		q.Sort, q.Order = "", ""
	default:
		q.Order = debthistory.OrderDesc
	}
	return q
}

func tableURL(path string, q debthistory.TableQuery) string {
	values := url.Values{}
	if q.Sort != "" {
		values.Set("sort", q.Sort)
		if q.Order != "" {
			values.Set("order", q.Order)
		}
	}
	if q.Filter != "" {
		values.Set("q", q.Filter)
	}
	if q.Page > 1 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if len(values) == 0 {
		return path
	}
	return path + "?" + values.Encode()
}
