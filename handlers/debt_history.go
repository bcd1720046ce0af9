package handlers

import (
	"bytes"
	"context"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/form"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"salon/config"
	"salon/debthistory"
	"salon/logging"
	"salon/middleware"
	"salon/models"
)

const basePath = "/debts/history"

type DebtHistoryHandler struct {
	config    *config.Config
	templates map[string]*template.Template
	views     *debthistory.Registry
	columns   []debthistory.Column
	decoder   *form.Decoder
	validate  *validator.Validate
}

func NewDebtHistoryHandler(cfg *config.Config, templates map[string]*template.Template, views *debthistory.Registry) *DebtHistoryHandler {
	return &DebtHistoryHandler{
		config:    cfg,
		templates: templates,
		views:     views,
		columns:   debthistory.Columns(cfg.Location()),
		decoder:   form.NewDecoder(),
		validate:  validator.New(),
	}
}

// fieldForm is one live form change.
type fieldForm struct {
	Field string `form:"field" validate:"required,oneof=employeeId startDate endDate"`
	Value string `form:"value" validate:"max=64"`
}

// searchForm carries the three search inputs. Absent inputs keep the value
// the view already holds.
type searchForm struct {
	EmployeeID string `form:"employeeId" validate:"max=64"`
	StartDate  string `form:"startDate" validate:"max=64"`
	EndDate    string `form:"endDate" validate:"max=64"`
}

// Mount starts a fresh view and renders it. A reload always lands here, so
// nothing from an earlier visit survives.
func (h *DebtHistoryHandler) Mount(w http.ResponseWriter, r *http.Request) {
	view := h.views.Mount(r.Context())
	h.renderPage(w, r, view.Snapshot(), debthistory.TableQuery{})
}

func (h *DebtHistoryHandler) Show(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}

	var q debthistory.TableQuery
	if err := h.decoder.Decode(&q, r.URL.Query()); err != nil {
		http.Error(w, "Invalid table query", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(q); err != nil {
		http.Error(w, "Invalid table query", http.StatusBadRequest)
		return
	}

	h.renderPage(w, r, view.Snapshot(), q)
}

// UpdateField applies a single field change and answers with the alerts
// fragment, since a change may clear the search alert.
func (h *DebtHistoryHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	var f fieldForm
	if err := h.decoder.Decode(&f, r.PostForm); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(f); err != nil {
		http.Error(w, "Unknown field", http.StatusBadRequest)
		return
	}
	field, ok := models.ParseField(f.Field)
	if !ok {
		http.Error(w, "Unknown field", http.StatusBadRequest)
		return
	}

	view.UpdateField(models.FieldUpdate{Field: field, Value: f.Value})
	h.render(w, r, http.StatusOK, "debt-history", "alerts", h.pageData(view.Snapshot(), debthistory.TableQuery{}))
}

// Search applies the submitted inputs, runs the search and redirects back to
// the view. Validation and request failures end up as the search alert.
func (h *DebtHistoryHandler) Search(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	var f searchForm
	if err := h.decoder.Decode(&f, r.PostForm); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(f); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	submitted := []struct {
		field models.Field
		value string
	}{
		{models.FieldEmployeeID, f.EmployeeID},
		{models.FieldStartDate, f.StartDate},
		{models.FieldEndDate, f.EndDate},
	}
	for _, s := range submitted {
		if r.PostForm.Has(s.field.String()) {
			view.UpdateField(models.FieldUpdate{Field: s.field, Value: s.value})
		}
	}

	// The search outlives the request: leaving the page does not abort it.
	if err := view.SubmitSearch(context.WithoutCancel(r.Context())); err != nil {
		logging.FromContext(r.Context()).WithError(err).Debug("search ended with an alert")
	}
	http.Redirect(w, r, viewURL(view.ID()), http.StatusSeeOther)
}

func (h *DebtHistoryHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}

	switch chi.URLParam(r, "alert") {
	case "search":
		view.DismissSearchError()
	case "employees":
		view.DismissEmployeeError()
	default:
		http.Error(w, "Unknown alert", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, viewURL(view.ID()), http.StatusSeeOther)
}

// Export writes every row matching the current sort and quick filter.
func (h *DebtHistoryHandler) Export(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}

	format := chi.URLParam(r, "format")
	if format != "csv" && format != "xlsx" {
		http.Error(w, "Unknown export format", http.StatusNotFound)
		return
	}

	var q debthistory.TableQuery
	if err := h.decoder.Decode(&q, r.URL.Query()); err != nil {
		http.Error(w, "Invalid table query", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(q); err != nil {
		http.Error(w, "Invalid table query", http.StatusBadRequest)
		return
	}

	state := view.Snapshot()
	rows := debthistory.Rows(state.Records, h.columns, q)
	filename := debthistory.ExportFilename(models.FormatDate(models.Today(h.config.Location())), format)

	var buf bytes.Buffer
	var err error
	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		err = debthistory.WriteCSV(&buf, h.columns, rows)
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		err = debthistory.WriteXLSX(&buf, h.columns, rows)
	}
	if err != nil {
		logging.FromContext(r.Context()).WithError(err).Error("export failed")
		http.Error(w, "Export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func (h *DebtHistoryHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// view resolves the viewID URL parameter, answering 404 when the view is
// unknown or was evicted.
func (h *DebtHistoryHandler) view(w http.ResponseWriter, r *http.Request) (*debthistory.View, bool) {
	id := chi.URLParam(r, "viewID")
	view, ok := h.views.Get(id)
	if !ok {
		logging.FromContext(r.Context()).WithField("view_id", id).Info("unknown view")
		data := map[string]interface{}{"HomeURL": basePath}
		h.render(w, r, http.StatusNotFound, "not-found", "base", data)
		return nil, false
	}
	return view, true
}

func (h *DebtHistoryHandler) renderPage(w http.ResponseWriter, r *http.Request, state debthistory.State, q debthistory.TableQuery) {
	data := h.pageData(state, q)
	if claims := middleware.GetClaimsFromContext(r.Context()); claims != nil {
		data["UserName"] = claims.Name
	}
	h.render(w, r, http.StatusOK, "debt-history", "base", data)
}

// render executes into a buffer first so a template failure still yields a
// clean 500.
func (h *DebtHistoryHandler) render(w http.ResponseWriter, r *http.Request, status int, page, name string, data interface{}) {
	var buf bytes.Buffer
	if err := h.templates[page].ExecuteTemplate(&buf, name, data); err != nil {
		logging.FromContext(r.Context()).WithFields(logrus.Fields{
			"page":     page,
			"template": name,
		}).WithError(err).Error("render failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Register mounts the debt history routes on r.
func (h *DebtHistoryHandler) Register(r chi.Router) {
	r.Get(basePath, h.Mount)
	r.Route(basePath+"/{viewID}", func(r chi.Router) {
		r.Get("/", h.Show)
		r.Post("/fields", h.UpdateField)
		r.Post("/search", h.Search)
		r.Post("/alerts/{alert}/dismiss", h.Dismiss)
		r.Get("/export.{format}", h.Export)
	})
}
