package models

import (
	"time"

	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
)

// Lock is an exclusive edit lock on a document. Token is issued by the
// document registry and must accompany every update made under the lock.
// Temporary locks exist only for the duration of a single mutation.
type Lock struct {
	DocumentID id.DocumentID `json:"documentId"`
	HolderID   id.UserID     `json:"holderId"`
	Token      string        `json:"token"`
	Temporary  bool          `json:"temporary"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// HeldBy reports whether user holds the lock.
func (l Lock) HeldBy(user id.UserID) bool { return l.HolderID == user }
