package main

import (
	"errors"

	"storeapi/models"

	"gorm.io/gorm"
)

// RefreshLedger owns the set of currently-valid refresh token strings.
// A token is valid for the refresh flow only while its row exists; expiry
// embedded in the token itself is a secondary check.
type RefreshLedger struct {
	db *gorm.DB
}

func NewRefreshLedger(db *gorm.DB) *RefreshLedger {
	return &RefreshLedger{db: db}
}

// errDuplicateToken means the exact token string is already recorded. With
// random jti-free JWTs this is cryptographically improbable, but the unique
// index can still fire (e.g. a replayed register call) and must surface.
var errDuplicateToken = errors.New("refresh token already recorded")

func (l *RefreshLedger) Record(token string) error {
	rt := models.RefreshToken{Token: token}
	if err := l.db.Create(&rt).Error; err != nil {
		if isUniqueConstraintError(err) {
			return errDuplicateToken
		}
		return err
	}
	return nil
}

// Revoke deletes the matching row. Deleting a token that is not present is
// not an error, so repeated logout calls stay idempotent.
func (l *RefreshLedger) Revoke(token string) error {
	return l.db.Where("token = ?", token).Delete(&models.RefreshToken{}).Error
}

func (l *RefreshLedger) Exists(token string) (bool, error) {
	var cnt int64
	if err := l.db.Model(&models.RefreshToken{}).Where("token = ?", token).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}
