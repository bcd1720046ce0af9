// Package debthistory holds the state and behaviour of the debt history page:
// the search form, the result set and its total, and the table built from it.
package debthistory

import (
	"context"
	"errors"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"salon/logging"
	"salon/metrics"
	"salon/models"
)

var (
	ErrInvalidDates = errors.New("Please enter valid dates")
	ErrDateOrder    = errors.New("La date de depart doit etre superieur a la derniere date")
)

// EmployeeDirectory lists the employees offered in the selector.
type EmployeeDirectory interface {
	ListEmployees(ctx context.Context) ([]models.Employee, error)
}

// DebtSearcher finds the debts of one employee within an inclusive date range.
type DebtSearcher interface {
	SearchDebt(ctx context.Context, employeeID string, start, end civil.Date) ([]models.DebtRecord, error)
}

type API interface {
	EmployeeDirectory
	DebtSearcher
}

// State is a consistent copy of a view, ready to render.
type State struct {
	ID            string
	Criteria      models.SearchCriteria
	Employees     []models.Employee
	Records       []models.DebtRecord
	Total         decimal.Decimal
	SearchError   string
	EmployeeError string
	Loading       bool
}

// View is one mounted debt history page.
type View struct {
	id  string
	api API

	mu            sync.Mutex
	criteria      models.SearchCriteria
	employees     []models.Employee
	records       []models.DebtRecord
	searchErr     string
	employeeErr   string
	loading       bool
	lastSearch    uint64
	lastTouchedAt time.Time
}

func NewView(id string, api API, today civil.Date) *View {
	return &View{
		id:            id,
		api:           api,
		criteria:      models.NewSearchCriteria(today),
		loading:       true,
		lastTouchedAt: time.Now(),
	}
}

func (v *View) ID() string {
	return v.id
}

// Initialize fetches the employee list once. A failure is kept as the
// employee alert and leaves the selector empty.
func (v *View) Initialize(ctx context.Context) {
	employees, err := v.api.ListEmployees(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()
	if err != nil {
		v.log(ctx).WithError(err).Warn("employee list unavailable")
		v.employeeErr = err.Error()
		return
	}
	v.employees = employees
}

// UpdateField patches one form field. When both dates then parse, any
// search error on display is cleared without re-checking their order.
func (v *View) UpdateField(u models.FieldUpdate) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()
	v.criteria = v.criteria.Apply(u)
	if v.criteria.DatesParse() {
		v.searchErr = ""
	}
}

// SubmitSearch validates the dates and, when they hold, asks the API for the
// matching debts. The returned error is also what the page displays.
func (v *View) SubmitSearch(ctx context.Context) error {
	v.mu.Lock()
	v.touch()
	criteria := v.criteria
	start, end, err := Validate(criteria)
	if err != nil {
		v.searchErr = err.Error()
		v.mu.Unlock()
		v.log(ctx).WithError(err).Debug("search rejected")
		metrics.ObserveSearch(validationOutcome(err))
		return err
	}
	v.lastSearch++
	seq := v.lastSearch
	v.mu.Unlock()

	log := v.log(ctx).WithFields(logrus.Fields{
		"employee_id": criteria.EmployeeID,
		"start_date":  models.FormatDate(start),
		"end_date":    models.FormatDate(end),
		"search_seq":  seq,
	})

	records, err := v.api.SearchDebt(ctx, criteria.EmployeeID, start, end)

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.lastSearch {
		log.WithField("latest_seq", v.lastSearch).Info("discarding stale search response")
		metrics.ObserveSearch(metrics.OutcomeStale)
		return err
	}
	v.loading = false
	if err != nil {
		log.WithError(err).Warn("search failed")
		metrics.ObserveSearch(metrics.OutcomeRequestError)
		v.searchErr = err.Error()
		return err
	}
	log.WithField("records", len(records)).Debug("search done")
	metrics.ObserveSearch(metrics.OutcomeSuccess)
	v.records = records
	return nil
}

func (v *View) DismissSearchError() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()
	v.searchErr = ""
}

func (v *View) DismissEmployeeError() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()
	v.employeeErr = ""
}

func (v *View) Snapshot() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return State{
		ID:            v.id,
		Criteria:      v.criteria,
		Employees:     append([]models.Employee(nil), v.employees...),
		Records:       append([]models.DebtRecord(nil), v.records...),
		Total:         models.TotalDebt(v.records),
		SearchError:   v.searchErr,
		EmployeeError: v.employeeErr,
		Loading:       v.loading,
	}
}

// Validate parses the date bounds of c and checks their order.
func Validate(c models.SearchCriteria) (start, end civil.Date, err error) {
	start, startErr := models.ParseDate(c.StartDate)
	end, endErr := models.ParseDate(c.EndDate)
	if startErr != nil || endErr != nil {
		return civil.Date{}, civil.Date{}, ErrInvalidDates
	}
	if end.Before(start) {
		return civil.Date{}, civil.Date{}, ErrDateOrder
	}
	return start, end, nil
}

func validationOutcome(err error) string {
	if errors.Is(err, ErrDateOrder) {
		return metrics.OutcomeDateOrder
	}
	return metrics.OutcomeInvalidDates
}

func (v *View) idleSince() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastTouchedAt
}

// touch must be called with mu held.
func (v *View) touch() {
	v.lastTouchedAt = time.Now()
}

func (v *View) log(ctx context.Context) *logrus.Entry {
	return logging.FromContext(ctx).WithField("view_id", v.id)
}
