package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"farmcore/internal/dynaflow"
	"farmcore/internal/flows"
	"farmcore/internal/reports"
	"farmcore/pkg/domain"
)

type (
	// ErrorResponse is the body of every failed request.
	ErrorResponse struct {
		Error      string              `json:"error"`
		Status     int                 `json:"status"`
		Field      string              `json:"field,omitempty"`
		Violations []ViolationResponse `json:"violations,omitempty"`
	}

	// ViolationResponse is one rule violation of a blocked write.
	ViolationResponse struct {
		Rule     string `json:"rule"`
		Severity string `json:"severity"`
		Message  string `json:"message"`
		Entity   string `json:"entity"`
		EntityID string `json:"entity_id,omitempty"`
	}

	// HealthResponse reports liveness.
	HealthResponse struct {
		Service       string    `json:"service"`
		Status        string    `json:"status"`
		SchemaVersion string    `json:"schema_version"`
		Time          time.Time `json:"time"`
	}

	// DynaFlowResponse is a dyna flow with its executed tasks.
	DynaFlowResponse struct {
		domain.DynaFlow
		Tasks []domain.DynaFlowTask `json:"tasks"`
	}

	// ReportListResponse lists the available report definitions.
	ReportListResponse struct {
		Reports []reports.Definition `json:"reports"`
		Count   int                  `json:"count"`
	}
)

var (
	ErrInvalidJSON       = errors.New("invalid JSON")
	ErrReportsDisabled   = errors.New("reports are not available on this storage driver")
	ErrExportUnavailable = errors.New("report export is not configured")
)

func (s *Server) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	resp := ErrorResponse{Error: err.Error(), Status: status}

	var verr flows.FlowValidationError
	if errors.As(err, &verr) {
		resp.Field = verr.Field
	}
	var perr reports.ParameterError
	if errors.As(err, &perr) {
		resp.Field = perr.Param
	}
	var rerr domain.RuleViolationError
	if errors.As(err, &rerr) {
		for _, v := range rerr.Result.Violations {
			resp.Violations = append(resp.Violations, ViolationResponse{
				Rule:     v.Rule,
				Severity: string(v.Severity),
				Message:  v.Message,
				Entity:   string(v.Entity),
				EntityID: v.EntityID,
			})
		}
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, resp)
}

func statusFor(err error) int {
	switch {
	case errors.As(err, new(flows.FlowValidationError)),
		errors.As(err, new(reports.ParameterError)),
		errors.Is(err, dynaflow.ErrInvalidParam),
		errors.Is(err, dynaflow.ErrUnknownFlowType),
		errors.Is(err, ErrInvalidJSON):
		return http.StatusBadRequest
	case errors.Is(err, flows.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.As(err, new(flows.FlowSecurityError)):
		return http.StatusForbidden
	case errors.As(err, new(domain.ErrNotFound)),
		errors.Is(err, reports.ErrReportNotFound):
		return http.StatusNotFound
	case errors.As(err, new(domain.ErrStaleRecord)),
		errors.As(err, new(domain.RuleViolationError)),
		errors.As(err, new(domain.ErrInUse)),
		errors.Is(err, dynaflow.ErrFlowFinished):
		return http.StatusConflict
	case errors.Is(err, ErrReportsDisabled),
		errors.Is(err, ErrExportUnavailable),
		errors.Is(err, flows.ErrDynaFlowsDisabled):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
