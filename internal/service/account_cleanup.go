package service

import (
	"bitwise74/auth-api/internal/model"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AccountCleanup periodically deletes accounts that were registered but
// never verified within the verification window. Accounts with a linked
// social login are left alone since those arrive pre-verified. A missed
// tick only delays a deletion, the next sweep picks it up
func AccountCleanup(t time.Duration, db *gorm.DB) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Account cleanup attached", zap.Duration("tick_every", t))

	go func() {
		for range ticker.C {
			n, err := ReapUnverifiedAccounts(db)
			if err != nil {
				zap.L().Error("Failed to clean up unverified accounts", zap.Error(err))
				continue
			}

			if n > 0 {
				zap.L().Debug("Account cleanup finished", zap.Int64("deleted", n))
			}
		}
	}()
}

// ReapUnverifiedAccounts runs one sweep and returns how many users were
// deleted. Verification codes go first so the user delete can't leave
// orphaned rows behind
func ReapUnverifiedAccounts(db *gorm.DB) (int64, error) {
	cutoff := time.Now().Add(-VerificationWindow)

	var toCleanUserIds []string

	err := db.
		Model(model.User{}).
		Where("verified = ? AND created_at < ? AND google_id IS NULL AND facebook_id IS NULL", false, cutoff).
		Pluck("id", &toCleanUserIds).
		Error
	if err != nil {
		return 0, err
	}

	if len(toCleanUserIds) == 0 {
		return 0, nil
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("user_id IN ?", toCleanUserIds).
			Delete(&model.VerificationCode{}).
			Error; err != nil {
			return err
		}

		return tx.
			Where("id IN ?", toCleanUserIds).
			Delete(&model.User{}).
			Error
	})
	if err != nil {
		return 0, err
	}

	return int64(len(toCleanUserIds)), nil
}
