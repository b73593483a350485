package domain

// User-facing copy shared by the service layer and the views.
const (
	MsgLoginFailed        = "Login failed. Please check your credentials."
	MsgRegisterFailed     = "Registration failed. Please try again."
	MsgRegisterSucceeded  = "Registration successful! Please log in."
	MsgAdminExists        = "An admin account already exists. Please use the regular registration."
	MsgAdminCreated       = "Admin account created successfully! Please log in."
	MsgLoadUsersFailed    = "Failed to load users. Please try again."
	MsgUpdateRoleFailed   = "Failed to update role. Please try again."
	MsgRoleUpdatedPrefix  = "Role updated for user "
	MsgLoadingIdentity    = "Loading user information..."
	MsgUnexpectedFailure  = "Something went wrong. Please try again."
	MsgPageNotFound       = "Page not found."
	MsgTooManyAttempts    = "Too many attempts. Please wait a moment and try again."
	MsgInvalidFormRequest = "Your form expired. Please reload the page and try again."
)
