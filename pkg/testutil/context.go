package testutil

import (
	"context"
	"net/http"

	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/requestcontext"
)

// WithUser adds a user and their group memberships to the request context.
// This simulates what the auth middleware would do for authenticated requests.
// An invalid user id is silently ignored.
func WithUser(req *http.Request, userID string, groups ...string) *http.Request {
	ctx := req.Context()
	if parsedUserID, err := id.ParseUserID(userID); err == nil {
		ctx = requestcontext.WithUserID(ctx, parsedUserID)
	}
	if len(groups) > 0 {
		parsed := make([]id.GroupID, 0, len(groups))
		for _, g := range groups {
			if group, err := id.ParseGroupID(g); err == nil {
				parsed = append(parsed, group)
			}
		}
		ctx = requestcontext.WithGroups(ctx, parsed)
	}
	return req.WithContext(ctx)
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
