package entity

import "time"

type OTPPurpose string

const (
	OTPPurposeVerify OTPPurpose = "verify"
	OTPPurposeReset  OTPPurpose = "reset"
)

type OTPCheck int

const (
	OTPValid OTPCheck = iota
	OTPInvalid
	OTPExpired
)

// CheckOTP compares a submitted code against a stored slot. A code is valid
// only while now is strictly before expireAt.
func CheckOTP(stored string, expireAt int64, submitted string, now time.Time) OTPCheck {
	if stored == "" || stored != submitted {
		return OTPInvalid
	}
	if now.UnixMilli() >= expireAt {
		return OTPExpired
	}
	return OTPValid
}
