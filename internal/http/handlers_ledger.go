package http

import (
	"net/http"
	"time"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

type createTransactionRequest struct {
	Kind        string     `json:"kind"`
	Amount      Amount     `json:"amount"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Timestamp   *time.Time `json:"timestamp"`
}

type categoryRequest struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	kind, err := ParseKind(req.Kind)
	if err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}
	tx := core.Transaction{
		Kind:        kind,
		Amount:      float64(req.Amount),
		Category:    sanitizeInput(req.Category),
		Description: sanitizeInput(req.Description),
	}
	if req.Timestamp != nil {
		tx.Timestamp = *req.Timestamp
	}

	ctx := r.Context()
	userID := UserID(ctx)
	saved, err := s.deps.Transactions.AddTransaction(ctx, userID, tx)
	if err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}
	applog.NewStructuredLogger(applog.FromContext(ctx)).LogTransactionCreated(ctx,
		userID, string(saved.Kind), saved.ID, saved.Category, saved.Amount)
	NewResponse().Status(http.StatusCreated).JSON(newTransactionView(saved)).Write(w)
}

// handleTransactionsByCategory lists transactions of one kind whose
// category matches the category query parameter.
func (s *Server) handleTransactionsByCategory(w http.ResponseWriter, r *http.Request) {
	kind, err := ParseKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	name := sanitizeInput(r.URL.Query().Get("category"))
	if name == "" {
		writeError(w, r, applog.OpList, core.ErrEmptyCategory)
		return
	}
	txs, err := s.deps.Transactions.ByCategory(r.Context(), UserID(r.Context()), kind, name)
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	NewResponse().JSON(newTransactionViews(txs)).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	kind, err := ParseKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, r, applog.OpDelete, err)
		return
	}
	if err := s.deps.Transactions.DeleteTransaction(r.Context(), UserID(r.Context()), kind, r.PathValue("id")); err != nil {
		writeError(w, r, applog.OpDelete, err)
		return
	}
	NoContent().Write(w)
}

// handleReset deletes every transaction and goal. Categories and the profile
// survive.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Transactions.Reset(r.Context(), UserID(r.Context())); err != nil {
		writeError(w, r, applog.OpDelete, err)
		return
	}
	NoContent().Write(w)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	typ, err := ParseKind(r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, r, applog.OpList, core.ErrInvalidCategoryType)
		return
	}
	cats, err := s.deps.Categories.ListCategories(r.Context(), UserID(r.Context()), typ)
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	out := make([]categoryView, len(cats))
	for i, c := range cats {
		out[i] = newCategoryView(c)
	}
	NewResponse().JSON(out).Write(w)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	typ, err := ParseKind(req.Type)
	if err != nil {
		writeError(w, r, applog.OpCreate, core.ErrInvalidCategoryType)
		return
	}
	c, err := s.deps.Categories.AddCategory(r.Context(), UserID(r.Context()), typ, sanitizeInput(req.Name))
	if err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}
	NewResponse().Status(http.StatusCreated).JSON(newCategoryView(c)).Write(w)
}

func (s *Server) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if err := s.deps.Categories.RenameCategory(r.Context(), UserID(r.Context()), r.PathValue("id"), sanitizeInput(req.Name)); err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	NoContent().Write(w)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Categories.DeleteCategory(r.Context(), UserID(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, r, applog.OpDelete, err)
		return
	}
	NoContent().Write(w)
}
