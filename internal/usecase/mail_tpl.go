package usecase

import (
	"fmt"

	"advance-auth/internal/data/entity"
	"advance-auth/pkg/mail"
)

func welcomeMail(from string, user *entity.User) mail.Message {
	return mail.Message{
		From:    from,
		To:      []string{user.Email},
		Subject: "Welcome to Advance Auth",
		TextBody: fmt.Sprintf(
			"Hello %s, welcome to Advance Auth. We're glad to have you with us. Your account has been created with email: %s",
			user.Name, user.Email,
		),
	}
}

func otpMail(from, to string, purpose entity.OTPPurpose, code string) mail.Message {
	if purpose == entity.OTPPurposeReset {
		return mail.Message{
			From:     from,
			To:       []string{to},
			Subject:  "Password reset OTP",
			TextBody: "Your OTP for resetting your password is " + code,
		}
	}
	return mail.Message{
		From:     from,
		To:       []string{to},
		Subject:  "Verify your email",
		TextBody: "Your verification OTP is " + code,
	}
}
