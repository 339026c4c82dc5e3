package service

import (
	"bitwise74/auth-api/internal/model"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var otpFormat = regexp.MustCompile(`^[1-9][0-9]{5}$`)

func TestIssueCreatesCode(t *testing.T) {
	db := newTestDB(t)
	mail := &stubMailer{}
	otp := NewOTPService(db, mail)
	createTestUser(t, db, "a@x.com", "pw123456", false)

	vc, err := otp.Issue("a@x.com")
	require.NoError(t, err)

	assert.Regexp(t, otpFormat, vc.Code)
	assert.False(t, vc.Used)
	assert.WithinDuration(t, time.Now().Add(VerificationWindow), vc.ExpiresAt, time.Second*5)

	require.Len(t, mail.sentTo, 1)
	assert.Equal(t, "a@x.com", mail.sentTo[0])
	assert.Equal(t, vc.Code, mail.sentCodes[0])
}

func TestIssueUnknownUser(t *testing.T) {
	db := newTestDB(t)
	otp := NewOTPService(db, &stubMailer{})

	_, err := otp.Issue("nobody@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestIssueAlreadyVerified(t *testing.T) {
	db := newTestDB(t)
	otp := NewOTPService(db, &stubMailer{})
	createTestUser(t, db, "a@x.com", "pw123456", true)

	_, err := otp.Issue("a@x.com")
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestIssueSurvivesMailFailure(t *testing.T) {
	db := newTestDB(t)
	otp := NewOTPService(db, &stubMailer{err: errors.New("smtp down")})
	createTestUser(t, db, "a@x.com", "pw123456", false)

	vc, err := otp.Issue("a@x.com")
	require.NoError(t, err)

	// The code has to exist even though the mail never went out
	var stored model.VerificationCode
	require.NoError(t, db.First(&stored, "id = ?", vc.ID).Error)
}

func TestVerifyMarksCodeUsedAndUserVerified(t *testing.T) {
	db := newTestDB(t)
	otp := NewOTPService(db, &stubMailer{})
	user := createTestUser(t, db, "a@x.com", "pw123456", false)

	vc, err := otp.Issue("a@x.com")
	require.NoError(t, err)

	verified, err := otp.Verify("a@x.com", vc.Code)
	require.NoError(t, err)
	assert.True(t, verified.Verified)
	assert.Equal(t, user.ID, verified.ID)

	var storedUser model.User
	require.NoError(t, db.First(&storedUser, "id = ?", user.ID).Error)
	assert.True(t, storedUser.Verified)

	var storedCode model.VerificationCode
	require.NoError(t, db.First(&storedCode, "id = ?", vc.ID).Error)
	assert.True(t, storedCode.Used)
}

func TestVerifySingleUse(t *testing.T) {
	db := newTestDB(t)
	otp := NewOTPService(db, &stubMailer{})
	createTestUser(t, db, "a@x.com", "pw123456", false)

	vc, err := otp.Issue("a@x.com")
	require.NoError(t, err)

	_, err = otp.Verify("a@x.com", vc.Code)
	require.NoError(t, err)

	_, err = otp.Verify("a@x.com", vc.Code)
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestVerifyWrongCode(t *testing.T) {
	db := newTestDB(t)
	otp := NewOTPService(db, &stubMailer{})
	createTestUser(t, db, "a@x.com", "pw123456", false)

	_, err := otp.Issue("a@x.com")
	require.NoError(t, err)

	_, err = otp.Verify("a@x.com", "000000")
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestVerifyExpiredCode(t *testing.T) {
	db := newTestDB(t)
	otp := NewOTPService(db, &stubMailer{})
	user := createTestUser(t, db, "a@x.com", "pw123456", false)

	expired := &model.VerificationCode{
		UserID:    user.ID,
		Code:      "123456",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, db.Create(expired).Error)

	_, err := otp.Verify("a@x.com", "123456")
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestVerifyUnknownUser(t *testing.T) {
	db := newTestDB(t)
	otp := NewOTPService(db, &stubMailer{})

	_, err := otp.Verify("nobody@x.com", "123456")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestResendKeepsOlderCodesValid(t *testing.T) {
	db := newTestDB(t)
	otp := NewOTPService(db, &stubMailer{})
	createTestUser(t, db, "a@x.com", "pw123456", false)

	first, err := otp.Issue("a@x.com")
	require.NoError(t, err)

	_, err = otp.Issue("a@x.com")
	require.NoError(t, err)

	// A resend doesn't invalidate the earlier code
	_, err = otp.Verify("a@x.com", first.Code)
	assert.NoError(t, err)
}
