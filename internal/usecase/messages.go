package usecase

// User-facing failure messages.
const (
	MsgAllFieldsRequired  = "All fields are required"
	MsgEmailRequired      = "Email is required"
	MsgUserExists         = "User already exists"
	MsgInvalidCredentials = "Invalid credentials"
	MsgUserDoesNotExist   = "User does not exist"
	MsgUserNotFound       = "User not found"
	MsgInvalidOTP         = "Invalid OTP"
	MsgOTPExpired         = "OTP expired"
	MsgTooManyAttempts    = "Too many attempts. Try again later"
)
