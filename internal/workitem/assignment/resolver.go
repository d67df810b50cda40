// Package assignment maps a requested target and the current state of a work
// item to the ordered gateway calls that realize it.
package assignment

import (
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/models"
)

// Resolve returns the gateway ops for moving current to target.
//
// Group and user grants are emitted in that order. A task moved without a
// named user loses its previous assignee so it re-enters the group queue; for
// cases group and user are independent role grants and are left alone. A
// target with neither group nor user is a pure release.
func Resolve(current models.WorkItem, target models.AssignmentTarget) []models.GatewayOp {
	if target.IsRelease() {
		return []models.GatewayOp{models.Release(current.Assignee)}
	}

	ops := make([]models.GatewayOp, 0, 2)
	if !target.Group.IsZero() {
		ops = append(ops, models.AssignToGroup(target.Group))
	}
	if !target.User.IsZero() {
		ops = append(ops, models.AssignToUser(target.User))
	}
	if current.IsTask() && target.User.IsZero() && current.HasAssignee() {
		ops = append(ops, models.Release(current.Assignee))
	}
	return ops
}

// ClearsAssignee reports whether applying ops removes or replaces the
// previous personal assignee of current.
func ClearsAssignee(current models.WorkItem, ops []models.GatewayOp) bool {
	if !current.HasAssignee() {
		return false
	}
	return current.ApplyAll(ops).Assignee != current.Assignee
}
