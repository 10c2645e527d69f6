package v1alpha1

import (
	"fmt"
	"net/http"

	api "github.com/forecast-ops/job-tracker/api/v1alpha1"
	"github.com/forecast-ops/job-tracker/internal/handlers/v1alpha1/mappers"
	"github.com/forecast-ops/job-tracker/internal/handlers/validator"
	"github.com/go-chi/chi/v5"
)

// (GET /api/pipelines)
func (h *ServiceHandler) ListPipelines(w http.ResponseWriter, r *http.Request) {
	pipelines, err := h.pipelineSrv.ListPipelines(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, mappers.PipelineListToApi(pipelines))
}

// (POST /api/pipelines)
func (h *ServiceHandler) CreatePipeline(w http.ResponseWriter, r *http.Request) {
	var body api.PipelineCreate
	if err := decode(r, &body); err != nil {
		respondError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid request body: %s", err))
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewPipelineValidationRules()...)
	if err := v.Struct(body); err != nil {
		respondError(w, r, http.StatusBadRequest, validator.Message(err))
		return
	}

	pipeline, err := h.pipelineSrv.CreatePipeline(r.Context(), mappers.PipelineCreateFormApi(body))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, mappers.PipelineToApi(*pipeline))
}

// (GET /api/pipelines/{id})
func (h *ServiceHandler) GetPipeline(w http.ResponseWriter, r *http.Request) {
	pipeline, counts, err := h.pipelineSrv.GetPipeline(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, mappers.PipelineWithCountsToApi(*pipeline, counts))
}

// (PUT /api/pipelines/{id})
func (h *ServiceHandler) UpdatePipeline(w http.ResponseWriter, r *http.Request) {
	var body api.PipelineUpdate
	if err := decode(r, &body); err != nil {
		respondError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid request body: %s", err))
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewPipelineValidationRules()...)
	if err := v.Struct(body); err != nil {
		respondError(w, r, http.StatusBadRequest, validator.Message(err))
		return
	}

	pipeline, err := h.pipelineSrv.UpdatePipeline(r.Context(), chi.URLParam(r, "id"), mappers.PipelineUpdateFormApi(body))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, mappers.PipelineToApi(*pipeline))
}
