package v1

import (
	"net/http"

	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/internal/service"
	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	service service.PlanService
	log     *logger.Logger
}

func NewPlanHandler(service service.PlanService, log *logger.Logger) *PlanHandler {
	return &PlanHandler{service: service, log: log}
}

// @Summary Create a billing plan
// @Description Creates the plan with the provider and records it locally
// @Tags Plans
// @Accept json
// @Produce json
// @Security OpenAM
// @Param plan body object true "Provider billing plan"
// @Success 201 {object} object
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 401 {object} ierr.ErrorResponse
// @Router /payments/billing-plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	req, err := readProviderRequest(c)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.CreatePlan(c.Request.Context(), req)
	if err != nil {
		h.log.Errorw("failed to create plan", "error", err)
		c.Error(err)
		return
	}

	writeProviderResponse(c, resp, http.StatusCreated)
}

// @Summary Activate a billing plan
// @Tags Plans
// @Produce json
// @Security OpenAM
// @Param id path string true "Provider plan id"
// @Success 200 {object} object
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /payments/billing-plans/{id} [patch]
func (h *PlanHandler) ActivatePlan(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Plan ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ActivatePlan(c.Request.Context(), id)
	if err != nil {
		h.log.Errorw("failed to activate plan", "plan_id", id, "error", err)
		c.Error(err)
		return
	}

	writeProviderResponse(c, resp, 0)
}
