package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/backup"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// BackupLedger is the slice of the store backup and restore touch.
type BackupLedger interface {
	backup.Source
	backup.Target
	ledger.BackupArchive
}

// BackupService exports and restores the backup document, either as an
// upload or from copies kept in the store.
type BackupService struct {
	store      BackupLedger
	notifier   *Notifier
	normalizer core.Normalizer
	now        func() time.Time
}

func NewBackupService(store BackupLedger, notifier *Notifier, normalizer core.Normalizer) *BackupService {
	return &BackupService{store: store, notifier: notifier, normalizer: normalizer, now: time.Now}
}

// Export returns the encoded backup document of userID.
func (s *BackupService) Export(ctx context.Context, userID string) ([]byte, error) {
	doc, err := backup.Export(ctx, s.store, userID, s.normalizer, s.now())
	if err != nil {
		return nil, err
	}
	return backup.Encode(doc)
}

// Restore replaces the user's data with the contents of an encoded backup
// document. The document is fully decoded before anything is deleted.
func (s *BackupService) Restore(ctx context.Context, userID string, data []byte) (backup.Report, error) {
	contents, err := backup.Decode(data, s.normalizer)
	if err != nil {
		return backup.Report{}, err
	}
	report, err := backup.Restore(ctx, s.store, userID, contents)
	// A failed restore may already have reset the user, so announce it
	// either way.
	s.notifier.Changed(ctx, userID, amqp.CollectionAll, amqp.OpRestore)
	return report, err
}

// Save stores a backup of the user's current data and returns its
// description.
func (s *BackupService) Save(ctx context.Context, userID string) (ledger.BackupInfo, error) {
	data, err := s.Export(ctx, userID)
	if err != nil {
		return ledger.BackupInfo{}, err
	}
	info, err := s.store.SaveBackup(ctx, userID, data, s.now())
	if err != nil {
		return ledger.BackupInfo{}, fmt.Errorf("save backup: %w", err)
	}
	slog.InfoContext(ctx, "Backup saved",
		"user_id", userID, "backup_id", info.ID, "size", info.Size)
	return info, nil
}

func (s *BackupService) List(ctx context.Context, userID string) ([]ledger.BackupInfo, error) {
	list, err := s.store.ListBackups(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	return list, nil
}

// RestoreSaved restores a stored backup through the same decoding as an
// uploaded one.
func (s *BackupService) RestoreSaved(ctx context.Context, userID, backupID string) (backup.Report, error) {
	data, err := s.store.GetBackup(ctx, userID, backupID)
	if err != nil {
		return backup.Report{}, err
	}
	return s.Restore(ctx, userID, data)
}

func (s *BackupService) DeleteSaved(ctx context.Context, userID, backupID string) error {
	return s.store.DeleteBackup(ctx, userID, backupID)
}

var _ BackupLedger = ledger.Store(nil)
