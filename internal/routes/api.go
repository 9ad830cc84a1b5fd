package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/handler"
	"github.com/dukerupert/shopery/internal/router"
)

// Pinger reports whether a dependency is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OpsDeps contains dependencies for the operational routes
type OpsDeps struct {
	DB      Pinger
	Metrics http.Handler
}

// RegisterOpsRoutes registers /health and /metrics.
func RegisterOpsRoutes(r *router.Router, deps OpsDeps) {
	r.Get("/health", healthHandler(deps.DB))
	if deps.Metrics != nil {
		r.Mount("GET /metrics", deps.Metrics)
	}

	r.NotFound(handler.NotFoundResponse)
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				handler.ErrorResponse(w, r, domain.Errorf(domain.EUNAVAILABLE, "health", "Database unavailable"))
				return
			}
		}
		handler.OK(w, "ok", map[string]string{"database": "ok"})
	}
}
