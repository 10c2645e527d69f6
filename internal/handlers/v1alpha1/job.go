package v1alpha1

import (
	"fmt"
	"net/http"

	api "github.com/forecast-ops/job-tracker/api/v1alpha1"
	"github.com/forecast-ops/job-tracker/internal/handlers/v1alpha1/mappers"
	"github.com/forecast-ops/job-tracker/internal/handlers/validator"
	"github.com/forecast-ops/job-tracker/internal/service"
	"github.com/go-chi/chi/v5"
)

// (GET /api/jobs)
func (h *ServiceHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	from, err := service.ParseDateBound("dateFrom", query.Get("dateFrom"), false)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	to, err := service.ParseDateBound("dateTo", query.Get("dateTo"), true)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	filter := service.NewJobFilter().
		WithType(query.Get("type")).
		WithStatus(query.Get("status")).
		WithPipelineID(query.Get("pipeline_id")).
		WithDateRange(from, to)

	jobs, err := h.jobSrv.ListJobs(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, mappers.JobListToApi(jobs))
}

// (GET /api/jobs/{id})
func (h *ServiceHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobSrv.GetJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, mappers.JobToApi(*job))
}

// (POST /api/jobs)
func (h *ServiceHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var body api.JobCreate
	if err := decode(r, &body); err != nil {
		respondError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid request body: %s", err))
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewJobValidationRules()...)
	if err := v.Struct(body); err != nil {
		respondError(w, r, http.StatusBadRequest, validator.Message(err))
		return
	}

	form, err := mappers.JobCreateFormApi(body)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	job, err := h.jobSrv.CreateJob(r.Context(), form)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, mappers.JobToApi(*job))
}

// (POST /api/jobs/{id})
func (h *ServiceHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	var body api.JobUpdate
	if err := decode(r, &body); err != nil {
		respondError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid request body: %s", err))
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewJobValidationRules()...)
	if err := v.Struct(body); err != nil {
		respondError(w, r, http.StatusBadRequest, validator.Message(err))
		return
	}

	form, err := mappers.JobUpdateFormApi(body)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	job, err := h.jobSrv.UpdateJob(r.Context(), chi.URLParam(r, "id"), form)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, mappers.JobToApi(*job))
}

// (DELETE /api/jobs/{id})
func (h *ServiceHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := h.jobSrv.DeleteJob(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, api.Status{Message: "Job deleted successfully"})
}

// (POST /api/jobs/{id}/retry)
func (h *ServiceHandler) RetryJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobSrv.RetryJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, mappers.JobToApi(*job))
}
