package http

import (
	"net/http"

	"fintrack/internal/backup"
	applog "fintrack/internal/log"
)

// updateProfileRequest fields left out of the body keep their stored value.
type updateProfileRequest struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	SavingsGoal *Amount `json:"savingsGoal"`
	Settings    *struct {
		Currency      *string `json:"currency"`
		Theme         *string `json:"theme"`
		Notifications *bool   `json:"notifications"`
	} `json:"settings"`
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.deps.Profiles.GetProfile(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	NewResponse().JSON(newProfileView(p)).Write(w)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	ctx := r.Context()
	userID := UserID(ctx)
	p, err := s.deps.Profiles.GetProfile(ctx, userID)
	if err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	if req.Name != nil {
		p.Name = sanitizeInput(*req.Name)
	}
	if req.Phone != nil {
		p.Phone = sanitizeInput(*req.Phone)
	}
	if req.SavingsGoal != nil {
		p.SavingsGoal = float64(*req.SavingsGoal)
	}
	if st := req.Settings; st != nil {
		if st.Currency != nil {
			p.Settings.Currency = *st.Currency
		}
		if st.Theme != nil {
			p.Settings.Theme = sanitizeInput(*st.Theme)
		}
		if st.Notifications != nil {
			p.Settings.Notifications = *st.Notifications
		}
	}

	updated, err := s.deps.Profiles.UpdateProfile(ctx, userID, p)
	if err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	NewResponse().JSON(newProfileView(updated)).Write(w)
}

func (s *Server) handleExportBackup(w http.ResponseWriter, r *http.Request) {
	data, err := s.deps.Backups.Export(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	filename := "fintrack-backup-" + s.now().Format("2006-01-02") + ".json"
	NewResponse().RawJSON(data).Attachment(filename).Write(w)
}

// handleRestoreBackup replaces the user's data with an uploaded backup
// document and reports what was restored.
func (s *Server) handleRestoreBackup(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, maxBackupBytes)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	ctx := r.Context()
	userID := UserID(ctx)
	report, err := s.deps.Backups.Restore(ctx, userID, body)
	if err != nil {
		writeError(w, r, applog.OpRestore, err)
		return
	}
	logRestore(r, userID, report)
	NewResponse().JSON(report).Write(w)
}

func (s *Server) handleListBackups(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Backups.List(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	NewResponse().JSON(newBackupViews(list)).Write(w)
}

// handleSaveBackup stores a backup of the user's current data.
func (s *Server) handleSaveBackup(w http.ResponseWriter, r *http.Request) {
	info, err := s.deps.Backups.Save(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}
	NewResponse().Status(http.StatusCreated).JSON(newBackupView(info)).Write(w)
}

func (s *Server) handleRestoreSavedBackup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserID(ctx)
	report, err := s.deps.Backups.RestoreSaved(ctx, userID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, applog.OpRestore, err)
		return
	}
	logRestore(r, userID, report)
	NewResponse().JSON(report).Write(w)
}

func (s *Server) handleDeleteBackup(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Backups.DeleteSaved(r.Context(), UserID(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, r, applog.OpDelete, err)
		return
	}
	NoContent().Write(w)
}

func logRestore(r *http.Request, userID string, report backup.Report) {
	ctx := r.Context()
	applog.FromContext(ctx).InfoContext(ctx, "Backup restored",
		applog.FieldUserID, userID,
		"income", report.Income,
		"expenses", report.Expenses,
		"savings", report.Savings,
		"goals", report.Goals,
		"skipped", report.Skipped)
}
