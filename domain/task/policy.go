package task

import (
	"github.com/example/task-board/domain/apperror"
	"github.com/example/task-board/domain/user"
)

// CanRead reports whether p may view t. Admins see every task.
func CanRead(p user.Principal, t *Task) bool {
	return p.IsAdmin() || t.UserID == p.ID
}

// CanMutate reports whether p may update, move or delete t. Only the owner
// may, whatever their role.
func CanMutate(p user.Principal, t *Task) bool {
	return t.UserID == p.ID
}

// ResolveListScope returns the owner id a listing is restricted to. An empty
// scope means every user's tasks. A non-admin naming any user id, their own
// included, is refused.
func ResolveListScope(p user.Principal, requestedUserID string) (string, error) {
	if !p.IsAdmin() {
		if requestedUserID != "" {
			return "", apperror.Forbidden("only ADMIN can filter by user_id")
		}
		return p.ID, nil
	}
	return requestedUserID, nil
}
