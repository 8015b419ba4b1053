package api

import (
	"fmt"
	"log"
	"net/http"

	_ "github.com/shahwaizSattar/mern-blog/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/rs/cors"
	"github.com/shahwaizSattar/mern-blog/internal/api/handlers"
	"github.com/shahwaizSattar/mern-blog/internal/api/middleware"
	"github.com/shahwaizSattar/mern-blog/internal/config"
)

type RouterDeps struct {
	Auth  *handlers.AuthHandler
	Posts *handlers.PostHandler
	Users *handlers.UserHandler
	Guard *middleware.Middleware

	// UploadsDir enables the static /uploads/ route when the disk media
	// backend is in use; empty for object storage.
	UploadsDir string
}

func SetupRouter(cfg *config.Config, deps RouterDeps) http.Handler {
	mux := http.NewServeMux()
	c := cors.New(cfg.CorsConfig)

	// ---------- PUBLIC ROUTES ----------
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	mux.HandleFunc("POST /api/auth/signup", deps.Auth.Signup)
	mux.HandleFunc("POST /api/auth/login", deps.Auth.Login)

	mux.HandleFunc("GET /api/posts", deps.Posts.List)
	mux.HandleFunc("GET /api/posts/{id}", deps.Posts.Get)

	if deps.UploadsDir != "" {
		mux.Handle("GET /uploads/",
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(deps.UploadsDir))),
		)
	}

	// ---------- PROTECTED ROUTES ----------
	requireAuth := func(h http.HandlerFunc) http.Handler {
		return deps.Guard.RequireAuth(h)
	}

	mux.Handle("POST /api/posts", requireAuth(deps.Posts.Create))
	mux.Handle("PUT /api/posts/{id}", requireAuth(deps.Posts.Update))
	mux.Handle("DELETE /api/posts/{id}", requireAuth(deps.Posts.Delete))
	mux.Handle("GET /api/posts/user/{userId}", requireAuth(deps.Posts.ListByUser))

	mux.Handle("GET /api/users/{id}", requireAuth(deps.Users.Get))
	mux.Handle("PUT /api/users/{id}", requireAuth(deps.Users.Update))
	mux.Handle("DELETE /api/users/{id}", requireAuth(deps.Users.Delete))

	log.Println("Router initialized")
	handler := c.Handler(mux)
	handler = middleware.Logger(handler)
	return handler
}
