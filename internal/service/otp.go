package service

import (
	"bitwise74/auth-api/internal/model"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// VerificationWindow is both the OTP lifetime and the grace period the
// account cleanup gives unverified users. The two must stay identical,
// otherwise a still-valid code could point at an already deleted user
const VerificationWindow = time.Minute * 30

type OTPService struct {
	db   *gorm.DB
	mail Mailer
}

func NewOTPService(d *gorm.DB, m Mailer) *OTPService {
	return &OTPService{db: d, mail: m}
}

// Issue creates a fresh verification code for the user registered under
// email and mails it out. A failed delivery is logged but doesn't undo
// the stored code, so the user can still be given the code out-of-band.
// Older unexpired codes stay valid, a resend doesn't invalidate them
func (s *OTPService) Issue(email string) (*model.VerificationCode, error) {
	var user model.User

	err := s.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	if user.Verified {
		return nil, ErrAlreadyVerified
	}

	code, err := generateOTP()
	if err != nil {
		return nil, err
	}

	vc := &model.VerificationCode{
		UserID:    user.ID,
		Code:      code,
		ExpiresAt: time.Now().Add(VerificationWindow),
	}

	if err := s.db.Create(vc).Error; err != nil {
		return nil, err
	}

	if err := s.mail.SendOTP(email, code); err != nil {
		zap.L().Error("Failed to send verification email", zap.Error(err), zap.String("email", email))
	}

	return vc, nil
}

// Verify consumes code for the user registered under email. On success
// the code is flagged used and the user becomes verified, both inside
// one transaction. Any unused, unexpired code with a matching value is
// accepted
func (s *OTPService) Verify(email, code string) (*model.User, error) {
	var user model.User

	err := s.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	var vc model.VerificationCode

	err = s.db.
		Where("user_id = ? AND code = ? AND used = ? AND expires_at > ?", user.ID, code, false, time.Now()).
		First(&vc).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidOTP
		}

		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.VerificationCode{}).
			Where("id = ?", vc.ID).
			Update("used", true).Error; err != nil {
			return err
		}

		return tx.Model(&model.User{}).
			Where("id = ?", user.ID).
			Update("verified", true).Error
	})
	if err != nil {
		return nil, err
	}

	user.Verified = true
	return &user, nil
}

// generateOTP returns a uniformly random 6-digit decimal code. The
// range starts at 100000 so a leading zero can't happen
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}

	return n.Add(n, big.NewInt(100000)).String(), nil
}
