package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/caseworks/directory-cli/internal/distance"
	"github.com/caseworks/directory-cli/internal/match"
	"github.com/caseworks/directory-cli/internal/model"
	"github.com/caseworks/directory-cli/internal/normalize"
	"github.com/caseworks/directory-cli/internal/translate"
	"github.com/caseworks/directory-cli/pkg/geocode"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the directory search API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		r := chi.NewRouter()
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
		}))
		r.Use(requestLogger)

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Get("/api/types", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, env.Types.All())
		})
		r.Post("/api/search", env.handleSearch)
		r.Post("/api/translate", env.handleTranslate)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		zap.L().Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// searchRequest is the /api/search payload. The filter arrives in raw form
// so string-encoded arrays survive; zip selects the default reference point
// and address overrides it via geocoding.
type searchRequest struct {
	Filters normalize.RawFilter `json:"filters"`
	Zip     string              `json:"zip,omitempty"`
	Address string              `json:"address,omitempty"`
}

type searchResponse struct {
	model.MatchResult
	Reference    *model.ReferencePoint `json:"reference,omitempty"`
	GeocodeError string                `json:"geocode_error,omitempty"`
}

func (e *appEnv) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	filters := normalize.Request(req.Filters)

	// Resolve the reference point: geocoded address wins, zip centroid is
	// the default, neither means no distance annotation. A geocoding
	// failure degrades to the zip centroid rather than failing the search.
	var geocodeErr string
	ref := model.ReferenceContext{}
	if req.Address != "" && e.Geocoder != nil {
		res, err := e.Geocoder.Geocode(r.Context(), req.Address)
		if err != nil {
			geocodeErr = userMessage(err)
			zap.L().Warn("search: geocode failed",
				zap.String("address", req.Address),
				zap.Error(err),
			)
		} else {
			ref.Point = &model.ReferencePoint{
				Latitude:  res.Latitude,
				Longitude: res.Longitude,
				Source:    model.RefSourceAddress,
				Label:     res.FormattedAddress,
			}
		}
	}
	if ref.Point == nil && req.Zip != "" {
		ref.Point = e.Snapshot.Reference(req.Zip)
	}

	// Routed distances only make sense from a real street address.
	if ref.Point != nil && ref.Point.Source == model.RefSourceAddress && e.Router != nil {
		ref.RoutedMiles = distance.RoutedTable(r.Context(), e.Router, *ref.Point, e.Snapshot.Resources)
	}

	result := match.Match(e.Snapshot.Resources, filters, ref)
	writeJSON(w, http.StatusOK, searchResponse{
		MatchResult:  result,
		Reference:    ref.Point,
		GeocodeError: geocodeErr,
	})
}

type translateRequest struct {
	Query string `json:"query"`
}

type translateResponse struct {
	Success        bool                 `json:"success"`
	Filters        *model.FilterRequest `json:"filters,omitempty"`
	Interpretation string               `json:"interpretation,omitempty"`
	GeocodeAddress string               `json:"geocode_address,omitempty"`
	Message        string               `json:"message,omitempty"`
}

func (e *appEnv) handleTranslate(w http.ResponseWriter, r *http.Request) {
	if e.Session == nil {
		writeJSON(w, http.StatusServiceUnavailable, translateResponse{
			Success: false,
			Message: "free-text search is not configured",
		})
		return
	}

	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, translateResponse{Success: false, Message: "invalid request body"})
		return
	}

	res, stale, err := e.Session.Translate(r.Context(), req.Query, e.translateContext())
	if stale {
		writeJSON(w, http.StatusConflict, translateResponse{
			Success: false,
			Message: "superseded by a newer query",
		})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusBadGateway, translateResponse{
			Success: false,
			Message: userMessage(err),
		})
		return
	}

	writeJSON(w, http.StatusOK, translateResponse{
		Success:        true,
		Filters:        &res.Filters,
		Interpretation: res.Interpretation,
		GeocodeAddress: res.GeocodeAddress,
	})
}

// userMessage extracts the display message from typed collaborator
// failures, falling back to a generic line.
func userMessage(err error) string {
	var tErr *translate.Error
	if eris.As(err, &tErr) {
		return tErr.Message
	}
	var gErr *geocode.Failure
	if eris.As(err, &gErr) {
		return gErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "the request could not be completed"
}
