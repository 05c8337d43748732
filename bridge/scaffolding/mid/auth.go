package mid

import (
	"context"
	"net/http"

	"github.com/jrazmi/taskdeck/bridge/scaffolding/errs"
	"github.com/jrazmi/taskdeck/core/identity"
	"github.com/jrazmi/taskdeck/infrastructure/web"
)

// Authenticate resolves the request's session identity once and places
// the user id in the context. Requests without a resolvable identity are
// rejected before any handler or store code runs.
func Authenticate(resolver identity.Resolver) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			ident, err := resolver.ResolveRequest(r)
			if err != nil {
				return errs.Newf(errs.Unauthenticated, "unauthorized")
			}

			ctx = setUserID(ctx, ident.ID)

			return next(ctx, r)
		}
	}
}
