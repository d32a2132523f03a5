package appservice

const (
	msgInvalidCredentials   = "Invalid credentials"
	msgEmailExists          = "Email already exists"
	msgPasswordTooShort     = "Password must be at least 6 characters long."
	msgFederatedUnsupported = "Sign-in with an external provider is not available."
	msgUnexpectedResponse   = "The sign-in service returned an unexpected response."
)
