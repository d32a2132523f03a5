package delegated

import "entry-gate/internal/auth/provider"

const (
	msgPasswordUnavailable    = "Email sign-in is not available."
	msgSignupUnavailable      = "Email sign-up is not available."
	msgUnknownProvider        = "Unknown sign-in provider."
	msgUnsupportedCredentials = "Unsupported sign-in method."
)

var messagesByCode = map[string]string{
	"invalid_grant":            "Invalid email or password.",
	"invalid_client":           "Sign-in is misconfigured. Please contact support.",
	"unauthorized_client":      "Sign-in is misconfigured. Please contact support.",
	"access_denied":            "Sign-in was cancelled.",
	"temporarily_unavailable":  "The sign-in service is temporarily unavailable.",
	"server_error":             "The sign-in service is temporarily unavailable.",
	provider.CodeUserExists:    "An account with this email already exists.",
	provider.CodeMissingClaims: "Your provider account has no email address.",
	provider.CodeNoIDToken:     "The sign-in provider returned an incomplete response.",
}

func messageFor(err *provider.Error) string {
	if msg, ok := messagesByCode[err.Code]; ok {
		return msg
	}
	if err.Code == provider.CodeInvalidUser && err.Description != "" {
		return err.Description
	}
	if err.Code == provider.CodeInvalidUser {
		return "The account details were rejected."
	}
	return "Sign-in failed (" + err.Code + ")."
}
