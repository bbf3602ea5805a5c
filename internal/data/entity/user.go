package entity

import "time"

// User is the account record. ID is assigned by the store and never changes.
// OTP expiries are epoch milliseconds; a zero expiry pairs with an empty code.
type User struct {
	ID                string
	Name              string
	Email             string
	PasswordHash      string
	IsAccountVerified bool
	VerifyOTP         string
	VerifyOTPExpireAt int64
	ResetOTP          string
	ResetOTPExpireAt  int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OTPSlot returns the stored code and expiry for purpose.
func (u *User) OTPSlot(purpose OTPPurpose) (code string, expireAt int64) {
	if purpose == OTPPurposeReset {
		return u.ResetOTP, u.ResetOTPExpireAt
	}
	return u.VerifyOTP, u.VerifyOTPExpireAt
}

// SetOTPSlot overwrites the code and expiry for purpose.
func (u *User) SetOTPSlot(purpose OTPPurpose, code string, expireAt int64) {
	if purpose == OTPPurposeReset {
		u.ResetOTP, u.ResetOTPExpireAt = code, expireAt
		return
	}
	u.VerifyOTP, u.VerifyOTPExpireAt = code, expireAt
}
