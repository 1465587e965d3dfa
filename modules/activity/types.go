package activity

import (
	"github.com/example/task-board/domain/apperror"
	"github.com/example/task-board/domain/user"
)

// RecentActivityRequest asks for the newest feed entries. UserID is the
// requested owner filter, subject to the same scope rules as task listing.
type RecentActivityRequest struct {
	Principal user.Principal `json:"principal"`
	UserID    string         `json:"user_id,omitempty"`
	Limit     int            `json:"limit,omitempty"`
}

// RecentActivityReply carries the entries or a domain error.
type RecentActivityReply struct {
	Entries []Entry         `json:"entries"`
	Error   *apperror.Error `json:"error,omitempty"`
}
