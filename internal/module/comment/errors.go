package comment

import "errors"

var (
	// ErrCommentNotFound is returned when a comment does not exist or is
	// out of the caller's reach.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrNotAuthor is returned when someone other than the author edits a
	// comment.
	ErrNotAuthor = errors.New("not the comment author")
	// ErrInsufficientPermission is returned when the actor may not delete
	// the comment.
	ErrInsufficientPermission = errors.New("insufficient permission")
	// ErrParentNotTopLevel is returned when replying to a reply.
	ErrParentNotTopLevel = errors.New("parent comment is not top level")
	// ErrParentVideoMismatch is returned when the parent belongs to a
	// different video.
	ErrParentVideoMismatch = errors.New("parent comment belongs to another video")
	// ErrInvalidReaction is returned for an unknown reaction type.
	ErrInvalidReaction = errors.New("invalid reaction type")
)
