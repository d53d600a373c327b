package server

const (
	// Validation (1xxx)
	ErrCodeInvalidArgument    = 1000
	ErrCodeInvalidJSON        = 1001
	ErrCodeRequestTooLarge    = 1002
	ErrCodeInvalidQuery       = 1003
	ErrCodeInvalidID          = 1004
	ErrCodeInvalidStatus      = 1005
	ErrCodeInvalidPriority    = 1007
	ErrCodeInvalidLabel       = 1008
	ErrCodeMissingRequired    = 1009
	ErrCodeInvalidTimeFilter  = 1010
	ErrCodeInvalidParentID    = 1013
	ErrCodeInvalidSearchQuery = 1014
	ErrCodeInvalidDate        = 1015
	ErrCodeInvalidView        = 1016
	ErrCodeInvalidList        = 1017
	ErrCodeInvalidRecurrence  = 1018
	ErrCodeInvalidMinutes     = 1019

	// Domain state (2xxx)
	ErrCodeTaskNotFound       = 2001
	ErrCodeListNotFound       = 2002
	ErrCodeAttachmentNotFound = 2003
	ErrCodeLabelNotFound      = 2004
	ErrCodeReminderNotFound   = 2005
	ErrCodeConflict           = 2102
	ErrCodeLabelNameExists    = 2103
	ErrCodeDefaultListLocked  = 2104

	// Limits (3xxx)
	ErrCodeResourceExhausted = 3003

	// Internal/system (4xxx)
	ErrCodeInternal     = 4001
	ErrCodeStoreFailure = 4002
	ErrCodeBlobFailure  = 4003
)

func defaultErrorCodeByStatus(status int) int {
	switch status {
	case 400:
		return ErrCodeInvalidArgument
	case 404:
		return ErrCodeTaskNotFound
	case 409:
		return ErrCodeConflict
	case 429:
		return ErrCodeResourceExhausted
	case 500:
		return ErrCodeInternal
	default:
		return 0
	}
}
