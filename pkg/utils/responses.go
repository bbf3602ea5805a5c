package utils

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope every endpoint returns. Failures are signalled by
// Success=false, never by the HTTP status.
type Response struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	UserData any    `json:"userData,omitempty"`
	Errors   any    `json:"errors,omitempty"`
}

func ResponseJSON(w http.ResponseWriter, code int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(resp)
}

func ResponseSuccess(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusOK, Response{Success: true, Message: message})
}

func ResponseUserData(w http.ResponseWriter, userData any) {
	ResponseJSON(w, http.StatusOK, Response{Success: true, UserData: userData})
}

func ResponseFailure(w http.ResponseWriter, message string, errors any) {
	ResponseJSON(w, http.StatusOK, Response{Success: false, Message: message, Errors: errors})
}

// ResponseTooManyRequests is used by the IP limiter, which runs before any
// handler and has no business outcome to report.
func ResponseTooManyRequests(w http.ResponseWriter) {
	ResponseJSON(w, http.StatusTooManyRequests, Response{Success: false, Message: "Too many requests"})
}

func ResponseInternalError(w http.ResponseWriter) {
	ResponseJSON(w, http.StatusInternalServerError, Response{Success: false, Message: "Internal server error"})
}
