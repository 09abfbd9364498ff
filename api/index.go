package api

import (
	"context"
	"net/http"
	"sync"

	"market-directory/app"
	"market-directory/internal/httpjson"
)

var (
	initOnce   sync.Once
	apiRuntime *app.Runtime
	initErr    error
)

// Handler is the serverless entry point. The runtime is built on the first
// request and reused for the life of the process; migrations only run when
// RUN_MIGRATIONS is set. The platform's edge sets the forwarding headers, so
// they are trusted unless TRUST_PROXY_HEADERS says otherwise.
func Handler(w http.ResponseWriter, r *http.Request) {
	initOnce.Do(func() {
		apiRuntime, initErr = app.Build(context.Background(), app.Options{
			LoadDotEnv:          false,
			MigrateByDefault:    false,
			TrustProxyByDefault: true,
		})
	})

	if initErr != nil {
		httpjson.WriteError(w, http.StatusInternalServerError, "application bootstrap failed")
		return
	}

	apiRuntime.Handler.ServeHTTP(w, r)
}
