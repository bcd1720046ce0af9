package debthistory

import (
	"context"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"salon/models"
)

type searchCall struct {
	EmployeeID string
	Start      civil.Date
	End        civil.Date
}

type fakeAPI struct {
	mu sync.Mutex

	employees    []models.Employee
	employeesErr error
	listCalls    int

	searchFn func(ctx context.Context, call searchCall) ([]models.DebtRecord, error)
	searches []searchCall
}

func (f *fakeAPI) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.employeesErr != nil {
		return nil, f.employeesErr
	}
	return f.employees, nil
}

func (f *fakeAPI) SearchDebt(ctx context.Context, employeeID string, start, end civil.Date) ([]models.DebtRecord, error) {
	call := searchCall{EmployeeID: employeeID, Start: start, End: end}
	f.mu.Lock()
	f.searches = append(f.searches, call)
	fn := f.searchFn
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(ctx, call)
}

func (f *fakeAPI) searchCalls() []searchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]searchCall(nil), f.searches...)
}

func debt(lastName string, amount string) models.DebtRecord {
	return models.DebtRecord{
		Requester:  models.Requester{LastName: lastName},
		DebtAmount: decimal.RequireFromString(amount),
	}
}

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}
