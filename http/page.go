package http

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"go.uber.org/zap"

	"housepredictor/app"
	"housepredictor/ml"
	"housepredictor/report"
)

//go:embed web/page.html
var pageFS embed.FS

//go:embed web/static
var staticFS embed.FS

type pageField struct {
	Key   string
	Label string
	Value string
	Min   float64
	Max   float64
}

type pageData struct {
	Lang         string
	Title        string
	InputTitle   string
	ResultTitle  string
	PredictLabel string
	ResetLabel   string
	Fields       []pageField
	Report       string
	Status       string
	Error        string
}

type pageRenderer struct {
	tmpl *template.Template
}

func newPageRenderer() (*pageRenderer, error) {
	tmpl, err := template.ParseFS(pageFS, "web/page.html")
	if err != nil {
		return nil, err
	}
	return &pageRenderer{tmpl: tmpl}, nil
}

func (p *pageRenderer) render(w http.ResponseWriter, status int, formatter *report.Formatter, state app.FormState) error {
	data := pageData{
		Lang:         formatter.Locale(),
		Title:        formatter.T("House Price Predictor"),
		InputTitle:   formatter.T("House data"),
		ResultTitle:  formatter.T("Prediction result"),
		PredictLabel: formatter.T("PREDICT PRICE"),
		ResetLabel:   formatter.T("RESET"),
		Report:       state.Report,
		Status:       state.Status,
		Error:        state.Error,
	}
	for _, field := range ml.Fields() {
		data.Fields = append(data.Fields, pageField{
			Key:   field.Key,
			Label: formatter.FieldLabel(field.Key),
			Value: state.Fields[field.Key],
			Min:   field.Min,
			Max:   field.Max,
		})
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return p.tmpl.Execute(w, data)
}

func (h *handlers) handleForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, h.svc.NewForm())
}

// handleFormSubmit serves the plain form post used without javascript.
func (h *handlers) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	form := h.svc.NewForm()
	values := make(map[string]string)
	for _, key := range ml.FeatureNames() {
		if _, ok := r.PostForm[key]; ok {
			values[key] = r.PostForm.Get(key)
		}
	}
	form.Update(values)

	status := http.StatusOK
	switch r.PostForm.Get("action") {
	case "reset":
		form.Reset()
	default:
		if err := form.Predict(); err != nil {
			status, _ = classifyError(err)
		}
	}
	h.renderForm(w, r, status, form)
}

func (h *handlers) renderForm(w http.ResponseWriter, r *http.Request, status int, form *app.Form) {
	if err := h.page.render(w, status, h.svc.Formatter(), form.State()); err != nil {
		h.logger.Error("render form failed", zap.String("request_id", GetRequestID(r.Context())), zap.Error(err))
	}
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "web/static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
