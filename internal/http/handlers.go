package http

import (
	"errors"
	"net/http"

	"cashbook/internal/core"
	"cashbook/internal/filter"
	"cashbook/internal/log"
	"cashbook/internal/services"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	win, err := parseWindow(r, s.location)
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	res, err := s.api.List(r.Context(), filter.Query{Window: win, Text: r.URL.Query().Get("q")})
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	NewJSONResponse().Write(w, newListView(res, s.api.DateLayout()))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	form, submitted, err := parseEntryForm(r)
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	tx, err := s.api.Create(r.Context(), form)
	if err != nil {
		s.writeError(w, r, err, &submitted)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).
		Header("Location", "/api/transactions/"+tx.ID).
		Write(w, newTransactionView(tx, s.api.DateLayout()))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.api.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	NewJSONResponse().Write(w, newTransactionView(tx, s.api.DateLayout()))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	form, submitted, err := parseEntryForm(r)
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	tx, err := s.api.Update(r.Context(), r.PathValue("id"), form)
	if err != nil {
		s.writeError(w, r, err, &submitted)
		return
	}
	NewJSONResponse().Write(w, newTransactionView(tx, s.api.DateLayout()))
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	form, err := s.api.EditForm(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	NewJSONResponse().Write(w, newFormView(form))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.api.Delete(r.Context(), r.PathValue("id"), confirmed(r)); err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w, nil)
}

func (s *Server) handleClearTransactions(w http.ResponseWriter, r *http.Request) {
	if err := s.api.Clear(r.Context(), confirmed(r)); err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w, nil)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	win, err := parseWindow(r, s.location)
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	ov, err := s.api.Overview(r.Context(), win)
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	NewJSONResponse().Write(w, newOverviewView(ov))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	win, err := parseWindow(r, s.location)
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	rep, err := s.api.Report(r.Context(), win)
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	NewJSONResponse().Write(w, newReportView(rep))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Write(w, map[string][]string{"categories": s.api.Categories()})
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Note string `json:"note"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	sug := s.api.Suggest(req.Note)
	matches := sug.Matches
	if matches == nil {
		matches = []string{}
	}
	NewJSONResponse().Write(w, map[string]any{"matches": matches, "selected": sug.Selected})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	win, err := parseWindow(r, s.location)
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	res, err := s.api.RequestExport(r.Context(), win)
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	if res.Queued {
		NewJSONResponse().Status(http.StatusAccepted).Write(w, map[string]any{"queued": true})
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Write(w, map[string]any{"queued": false, "ref": res.Ref})
}

// writeError maps service and parsing errors to a status code and JSON body.
// submitted is echoed back when a save fails so the client can retry.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, submitted *submittedForm) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		NewJSONResponse().Status(http.StatusUnprocessableEntity).
			Write(w, errorBody{Error: "validation failed", Errors: verr.Messages()})
	case errors.Is(err, errBadBody):
		NewJSONResponse().Status(http.StatusBadRequest).Write(w, errorBody{Error: err.Error()})
	case errors.Is(err, filter.ErrInvalidMode), errors.Is(err, core.ErrInvalidDate):
		NewJSONResponse().Status(http.StatusBadRequest).Write(w, errorBody{Error: err.Error()})
	case errors.Is(err, services.ErrNotFound):
		NewJSONResponse().Status(http.StatusNotFound).Write(w, errorBody{Error: err.Error()})
	case errors.Is(err, services.ErrConfirmationRequired):
		NewJSONResponse().Status(http.StatusConflict).
			Write(w, errorBody{Error: "confirmation required: repeat the request with confirm=true"})
	case errors.Is(err, services.ErrExportUnavailable):
		NewJSONResponse().Status(http.StatusServiceUnavailable).Write(w, errorBody{Error: err.Error()})
	case errors.Is(err, services.ErrSaveFailed):
		logger.ErrorContext(ctx, "Save failed", log.FieldError, err, log.FieldPath, r.URL.Path)
		NewJSONResponse().Status(http.StatusInternalServerError).
			Write(w, errorBody{Error: "save failed, please retry", Form: submitted})
	default:
		logger.ErrorContext(ctx, "Request failed", log.FieldError, err, log.FieldPath, r.URL.Path)
		NewJSONResponse().Status(http.StatusInternalServerError).Write(w, errorBody{Error: "internal error"})
	}
}
