package helper

import (
	"time"

	"gorm.io/gorm"
)

/* =========================
   Soft-archive primitives
   ========================= */

// ArchiveRow stamps archivedCol on an active row. false means the row is missing or already archived.
func ArchiveRow(tx *gorm.DB, model any, idCol string, id any, archivedCol string, now time.Time) (bool, error) {
	res := tx.Model(model).Where(idCol+" = ?", id).Update(archivedCol, now)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// RestoreRow clears archivedCol on an archived row. false means the row is missing or active.
func RestoreRow(tx *gorm.DB, model any, idCol string, id any, archivedCol string) (bool, error) {
	res := tx.Unscoped().Model(model).
		Where(idCol+" = ? AND "+archivedCol+" IS NOT NULL", id).
		Update(archivedCol, nil)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ForceDeleteRow removes an archived row for good. false means the row is missing or still active.
func ForceDeleteRow(tx *gorm.DB, model any, idCol string, id any, archivedCol string) (bool, error) {
	res := tx.Unscoped().
		Where(idCol+" = ? AND "+archivedCol+" IS NOT NULL", id).
		Delete(model)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Ref names a column that points at another row.
type Ref struct {
	Table  string
	Column string
}

// Referenced reports whether any row in refs points at id, archived rows included.
func Referenced(tx *gorm.DB, id any, refs ...Ref) (bool, error) {
	for _, r := range refs {
		var n int64
		if err := tx.Table(r.Table).Where(r.Column+" = ?", id).Count(&n).Error; err != nil {
			return false, err
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}
