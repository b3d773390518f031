// SkillForge web: serves the WebAssembly client shell and reverse-proxies
// /api/* to the REST backend. The backend itself lives elsewhere; this
// process only hosts the browser app.
package main

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/skillforge/skillforge/internal/config"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	proxy, err := apiProxy(cfg.APIBaseURL)
	if err != nil {
		logger.Fatal("invalid API base URL", zap.String("url", cfg.APIBaseURL), zap.Error(err))
	}

	r := mux.NewRouter()
	r.PathPrefix("/api/").Handler(proxy)
	r.PathPrefix("/").Handler(&app.Handler{
		Name:        "SkillForge",
		ShortName:   "skillforge",
		Description: "A social learning platform",
		Styles:      []string{"/web/app.css"},
	})

	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}).Handler(r)

	logger.Info("skillforge web listening",
		zap.String("addr", cfg.Addr),
		zap.String("api", cfg.APIBaseURL))
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(logLevel string) *zap.Logger {
	c := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	c.Level.SetLevel(level)
	logger, _ := c.Build()
	return logger
}

// apiProxy forwards /api/* to the backend with the prefix stripped, so the
// client can keep same-origin URLs and the bearer header passes through
// untouched.
func apiProxy(base string) (http.Handler, error) {
	target, err := url.Parse(base)
	if err != nil {
		return nil, err
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	director := proxy.Director
	proxy.Director = func(req *http.Request) {
		director(req)
		req.URL.Path = strings.TrimPrefix(req.URL.Path, "/api")
		if req.URL.Path == "" {
			req.URL.Path = "/"
		}
		req.Host = target.Host
	}
	return proxy, nil
}
