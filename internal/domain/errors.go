package domain

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrLandNotFound     = errors.New("land not found")
	ErrDocumentNotFound = errors.New("document not found")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account is deactivated")

	ErrAccessDenied   = errors.New("access denied")
	ErrGovernmentOnly = errors.New("access denied, government role required")
	ErrNotOwner       = errors.New("only the land owner can perform this action")

	ErrDuplicateEmail       = errors.New("user with this email already exists")
	ErrDuplicateWallet      = errors.New("user with this wallet address already exists")
	ErrGovernmentExists     = errors.New("government user already exists")
	ErrDuplicateLandAddress = errors.New("land with this address already exists")

	ErrAlreadyReviewed    = errors.New("land has already been reviewed")
	ErrOwnLandRequest     = errors.New("cannot request your own land")
	ErrLandNotAvailable   = errors.New("land is not available for purchase")
	ErrRequestOutstanding = errors.New("land already has a pending request")
	ErrNoPendingRequest   = errors.New("no pending request to process")

	ErrMissingFields       = errors.New("all fields are required")
	ErrInvalidEmail        = errors.New("please enter a valid email address")
	ErrInvalidWallet       = errors.New("please enter a valid ethereum wallet address")
	ErrPasswordLength      = errors.New("password must be at least 8 characters")
	ErrMissingCredentials  = errors.New("email and password are required")
	ErrMissingLandFields   = errors.New("land address, price, description, and area are required")
	ErrInvalidPrice        = errors.New("price must be greater than 0")
	ErrEmptyDescription    = errors.New("description cannot be empty")
	ErrInvalidStatus       = errors.New("invalid status, must be 'Approved' or 'Rejected'")
	ErrMissingNotification = errors.New("email and message are required")
	ErrUploadTooLarge      = errors.New("uploaded file exceeds the size limit")
	ErrTooManyUploads      = errors.New("too many uploaded files")
)
