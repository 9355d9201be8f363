package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/revulabs/revu-cli/internal/analyzer"
	"github.com/revulabs/revu-cli/internal/api"
	"github.com/revulabs/revu-cli/internal/review"
	"github.com/revulabs/revu-cli/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the review pipeline as a REST API service",
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		addr, _ := cmd.Flags().GetString("addr")
		authToken, _ := cmd.Flags().GetString("auth-token")
		listLimit, _ := cmd.Flags().GetInt("list-limit")
		shutdownTimeout, _ := cmd.Flags().GetDuration("shutdown-timeout")
		corsOrigins, _ := cmd.Flags().GetStringSlice("cors-origins")
		rateLimit, _ := cmd.Flags().GetInt("rate-limit")
		rateBurst, _ := cmd.Flags().GetInt("rate-burst")
		maxBodySize, _ := cmd.Flags().GetInt64("max-body-size")

		logger, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer func() {
			if err := logger.Sync(); err != nil {
				fmt.Fprintf(os.Stderr, "failed to sync logger: %v\n", err)
			}
		}()

		svc, err := newReviewService(appCtx, cliConfig.Review)
		if err != nil {
			return err
		}
		st, err := store.New(appCtx.DataDir)
		if err != nil {
			return fmt.Errorf("open review store: %w", err)
		}
		reviews := &reviewAPIService{svc: svc, store: st, reviewer: appCtx.Reviewer}

		server := api.NewServer(api.Config{
			Reviews:     reviews,
			Tools:       &toolsAPIService{registry: svc.Registry},
			Health:      &healthAPIService{appCtx: appCtx, python: cliConfig.Review.Python},
			Jobs:        &jobAPIService{manager: api.NewJobManager(), reviews: reviews},
			AuthToken:   authToken,
			ListLimit:   listLimit,
			Logger:      logger,
			CORSOrigins: corsOrigins,
			RateLimit:   rateLimit,
			RateBurst:   rateBurst,
			MaxBodySize: maxBodySize,
		})

		httpServer := &http.Server{
			Addr:         addr,
			Handler:      server,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("%s API server listening on %s (data dir: %s)\n", colorInfo("->"), addr, appCtx.DataDir)
			fmt.Printf("%s Press Ctrl+C to gracefully shutdown\n", colorInfo("->"))
			serverErrors <- httpServer.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
		case sig := <-shutdown:
			fmt.Printf("\n%s Received signal %v, initiating graceful shutdown...\n", colorInfo("->"), sig)

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := httpServer.Shutdown(ctx); err != nil {
				if closeErr := httpServer.Close(); closeErr != nil {
					return fmt.Errorf("failed to gracefully shutdown server: %w (close error: %v)", err, closeErr)
				}
				return fmt.Errorf("failed to gracefully shutdown server: %w", err)
			}

			fmt.Printf("%s Server shutdown complete\n", colorSuccess("OK"))
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Address for the API server")
	serveCmd.Flags().String("auth-token", "", "Optional shared secret for API requests")
	serveCmd.Flags().Int("list-limit", 20, "Default number of reviews to return from list endpoints")
	serveCmd.Flags().Duration("shutdown-timeout", 30*time.Second, "Graceful shutdown timeout")
	serveCmd.Flags().StringSlice("cors-origins", []string{}, "Allowed CORS origins (empty = allow all)")
	serveCmd.Flags().Int("rate-limit", 10, "Rate limit per IP (requests/second, 0 = disabled)")
	serveCmd.Flags().Int("rate-burst", 20, "Rate limit burst size")
	serveCmd.Flags().Int64("max-body-size", 1<<20, "Maximum request body size in bytes")
}

type reviewAPIService struct {
	svc      *review.Service
	store    *store.Store
	reviewer string
}

func (s *reviewAPIService) Create(ctx context.Context, req api.ReviewRequest) (*review.Review, error) {
	rev, err := s.svc.Review(ctx, review.Request{
		Code:             []byte(req.Code),
		Filename:         req.Filename,
		Language:         req.Language,
		Reviewer:         s.reviewer,
		Smoke:            req.Smoke,
		WarningsAsErrors: req.WarningsAsErrors,
		Advise:           req.Advise,
	})
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, rev); err != nil {
		return nil, fmt.Errorf("save review: %w", err)
	}
	return rev, nil
}

func (s *reviewAPIService) Get(ctx context.Context, id string) (*review.Review, error) {
	return s.store.Get(ctx, id)
}

func (s *reviewAPIService) List(ctx context.Context, limit int) ([]store.ReviewSummary, error) {
	return s.store.List(ctx, limit)
}

func (s *reviewAPIService) FindingsCSV(ctx context.Context, id string) ([]byte, error) {
	rev, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return review.FindingsCSV(rev.Findings)
}

type toolsAPIService struct {
	registry *analyzer.Registry
}

func (s *toolsAPIService) Tools(ctx context.Context) []analyzer.ToolInfo {
	return s.registry.Tools()
}

type healthAPIService struct {
	appCtx *AppContext
	python string
}

func (s *healthAPIService) Check(ctx context.Context) error {
	if s.appCtx.DataDir == "" {
		return fmt.Errorf("data directory not configured")
	}
	return nil
}

// Ready requires the Python interpreter on top of the basic health check,
// since every analyzer and the smoke test depend on it.
func (s *healthAPIService) Ready(ctx context.Context) error {
	if err := s.Check(ctx); err != nil {
		return err
	}
	python := s.python
	if python == "" {
		python = "python3"
	}
	registry := analyzer.NewRegistry(python)
	for _, t := range registry.Tools() {
		if t.Name == "syntax" && !t.Available {
			return fmt.Errorf("python interpreter %q not found", python)
		}
	}
	return nil
}

type jobAPIService struct {
	manager *api.JobManager
	reviews *reviewAPIService
}

func (s *jobAPIService) StartJob(ctx context.Context, req api.JobRequest) (*api.Job, error) {
	if req.Code == "" {
		return nil, fmt.Errorf("code required")
	}
	job := s.manager.CreateJob()
	go s.execute(job, req)
	return job, nil
}

func (s *jobAPIService) execute(job *api.Job, req api.JobRequest) {
	now := time.Now()
	s.manager.UpdateJob(job.ID, func(j *api.Job) {
		j.Status = "running"
		j.StartedAt = &now
	})
	// Bound job execution: seven tools plus smoke and advisor fit well
	// inside 90 seconds.
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	rev, err := s.reviews.Create(ctx, api.ReviewRequest{
		Code:             req.Code,
		Filename:         req.Filename,
		Language:         req.Language,
		Smoke:            req.Smoke,
		WarningsAsErrors: req.WarningsAsErrors,
		Advise:           req.Advise,
	})
	if err != nil {
		errTime := time.Now()
		s.manager.UpdateJob(job.ID, func(j *api.Job) {
			j.Status = "error"
			j.Error = err.Error()
			j.FinishedAt = &errTime
		})
		return
	}
	doneTime := time.Now()
	s.manager.UpdateJob(job.ID, func(j *api.Job) {
		j.Status = "done"
		j.ReviewID = rev.ID
		j.FinishedAt = &doneTime
	})
}

func (s *jobAPIService) GetJob(ctx context.Context, id string) (*api.Job, error) {
	job := s.manager.GetJob(id)
	if job == nil {
		return nil, fmt.Errorf("job not found")
	}
	return job, nil
}

func (s *jobAPIService) ListJobs(ctx context.Context, limit int) ([]api.Job, error) {
	return s.manager.ListJobs(limit), nil
}

func (s *jobAPIService) Subscribe() (chan api.Job, func()) {
	return s.manager.Subscribe()
}
