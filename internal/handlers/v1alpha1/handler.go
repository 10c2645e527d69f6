package v1alpha1

import (
	"errors"
	"net/http"

	api "github.com/forecast-ops/job-tracker/api/v1alpha1"
	"github.com/forecast-ops/job-tracker/internal/service"
	"github.com/forecast-ops/job-tracker/pkg/requestid"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

var errEmptyBody = errors.New("empty body")

type ServiceHandler struct {
	jobSrv      *service.JobService
	pipelineSrv *service.PipelineService
}

func NewServiceHandler(jobService *service.JobService, pipelineService *service.PipelineService) *ServiceHandler {
	return &ServiceHandler{
		jobSrv:      jobService,
		pipelineSrv: pipelineService,
	}
}

// HandlerFromMux registers the API routes on r. The middlewares wrap the /api
// routes only, so the health check stays reachable without credentials.
func HandlerFromMux(h *ServiceHandler, r chi.Router, middlewares ...func(http.Handler) http.Handler) http.Handler {
	r.Get("/health", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(middlewares...)

		r.Route("/api/jobs", func(r chi.Router) {
			r.Get("/", h.ListJobs)
			r.Post("/", h.CreateJob)
			r.Get("/{id}", h.GetJob)
			r.Post("/{id}", h.UpdateJob)
			r.Delete("/{id}", h.DeleteJob)
			r.Post("/{id}/retry", h.RetryJob)
		})

		r.Route("/api/pipelines", func(r chi.Router) {
			r.Get("/", h.ListPipelines)
			r.Post("/", h.CreatePipeline)
			r.Get("/{id}", h.GetPipeline)
			r.Put("/{id}", h.UpdatePipeline)
		})
	})

	return r
}

// (GET /health)
func (h *ServiceHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, api.Status{Message: "ok"})
}

func respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	respond(w, r, status, api.Error{Message: msg, RequestId: requestid.FromContextPtr(r.Context())})
}

// respondServiceError maps service errors to their HTTP status.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch err.(type) {
	case *service.ErrResourceNotFound:
		respondError(w, r, http.StatusNotFound, err.Error())
	case *service.ErrInvalidArgs, *service.ErrUnknownPipeline, *service.ErrTriggerNotFound, *service.ErrInvalidFilter:
		respondError(w, r, http.StatusBadRequest, err.Error())
	case *service.ErrJobNotRetryable:
		respondError(w, r, http.StatusConflict, err.Error())
	default:
		zap.S().Named("handlers").Errorw("request failed", "path", r.URL.Path, "error", err, "request_id", requestid.FromRequest(r))
		respondError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func decode(r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return errEmptyBody
	}
	return render.DecodeJSON(r.Body, v)
}
