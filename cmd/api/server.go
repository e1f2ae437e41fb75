package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"horizon/internal/shared/config"
	"horizon/internal/shared/middleware"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Handler         http.Handler
	Addr            string
	TLSEnabled      bool
	CertPath        string
	KeyPath         string
	RedirectHTTP    bool
	AllowedHosts    []string
	ShutdownTimeout time.Duration
}

// Serve runs the API server, plus the HTTP to HTTPS redirector when TLS
// redirect is enabled, until ctx is done or the API listener fails. Both
// servers are drained before it returns.
func Serve(ctx context.Context, scfg ServerConfig, logger *zap.Logger) error {
	api := &http.Server{
		Addr:              scfg.Addr,
		Handler:           scfg.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	servers := []*http.Server{api}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if scfg.TLSEnabled {
			logger.Info("HTTPS server starting", zap.String("addr", api.Addr))
			err = api.ListenAndServeTLS(scfg.CertPath, scfg.KeyPath)
		} else {
			logger.Info("HTTP server starting", zap.String("addr", api.Addr))
			err = api.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	if scfg.TLSEnabled && scfg.RedirectHTTP {
		redirect := createRedirectServer(scfg.AllowedHosts)
		servers = append(servers, redirect)
		// The redirector is a convenience; losing it must not stop the API.
		g.Go(func() error {
			logger.Info("HTTP redirect server starting", zap.String("addr", redirect.Addr))
			if err := redirect.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("HTTP redirect server error", zap.Error(err))
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return shutdown(servers, scfg.ShutdownTimeout, logger)
	})

	return g.Wait()
}

func shutdown(servers []*http.Server, timeout time.Duration, logger *zap.Logger) error {
	logger.Info("server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("server shutdown failed", zap.String("addr", srv.Addr), zap.Error(err))
			errs = append(errs, err)
		}
	}

	logger.Info("server stopped")
	return errors.Join(errs...)
}

// createRedirectServer answers plain HTTP on :80 with a permanent redirect
// to the same path over HTTPS, for allowed hosts only.
func createRedirectServer(allowedHosts []string) *http.Server {
	redirect := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := r.Header.Get("X-Forwarded-Host")
		if host == "" {
			host = r.Host
		}
		if !middleware.IsHostAllowed(host, allowedHosts) {
			http.Error(w, "Invalid host", http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, "https://"+withoutPort(host)+r.RequestURI, http.StatusMovedPermanently)
	})

	return &http.Server{
		Addr:              ":80",
		Handler:           redirect,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func withoutPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if strings.Contains(host, ":") && !strings.HasPrefix(host, "[") {
		return "[" + host + "]"
	}
	return host
}

// NewServerConfigFromConfig creates ServerConfig from application config.
// Redirects are only issued for the hosts of the allowed origins.
func NewServerConfigFromConfig(handler http.Handler, cfg *config.Config) ServerConfig {
	return ServerConfig{
		Handler:         handler,
		Addr:            cfg.Server.Host + ":" + cfg.Server.Port,
		TLSEnabled:      cfg.TLS.Enabled,
		CertPath:        cfg.TLS.CertPath,
		KeyPath:         cfg.TLS.KeyPath,
		RedirectHTTP:    cfg.TLS.RedirectHTTP,
		AllowedHosts:    originHosts(cfg.Server.AllowedOrigins),
		ShutdownTimeout: shutdownTimeout,
	}
}

// originHosts strips scheme, path and port from each origin.
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		if _, rest, ok := strings.Cut(o, "://"); ok {
			o = rest
		}
		o, _, _ = strings.Cut(o, "/")
		if o = withoutPort(o); o != "" {
			hosts = append(hosts, o)
		}
	}
	return hosts
}
