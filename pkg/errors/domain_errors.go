package errors

var (
	// Domain errors — used in usecase/repository
	ErrIdentityMissing      = Unauthorized("no authenticated identity")
	ErrEmptyParticipant     = InvalidArg("participant id cannot be empty")
	ErrSelfConversation     = InvalidArg("a conversation needs two distinct participants")
	ErrConversationNotFound = NotFound("conversation not found")
	ErrMessageNotFound      = NotFound("message not found")
	ErrUserNotFound         = NotFound("user not found")
	ErrAlreadyViewed        = FailedPrecondition("media already viewed")
	ErrMalformedDocument    = InvalidArg("document is missing required fields")
	ErrEmptyUpload          = InvalidArg("upload has no content")
)

func ErrTransferFailed(cause error) error {
	return Wrap(CodeInternal, "media transfer failed", cause)
}

func ErrSendFailed(cause error) error {
	return Wrap(CodeInternal, "message send failed", cause)
}

func ErrSubscribeFailed(cause error) error {
	return Wrap(CodeUnavailable, "subscription failed", cause)
}
