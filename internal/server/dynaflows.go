package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"farmcore/internal/flows"
	"farmcore/pkg/domain"
)

func (s *Server) requestDynaFlow(c *gin.Context) {
	var req flows.TacRequestDynaFlowRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	req.TacID = c.Param("tacID")
	process(s, c, s.catalog.TacRequestDynaFlow(), req, http.StatusAccepted)
}

func (s *Server) cancelDynaFlow(c *gin.Context) {
	req := flows.DynaFlowCancelRequest{DynaFlowID: c.Param("flowID")}
	process(s, c, s.catalog.DynaFlowCancel(), req, http.StatusOK)
}

func (s *Server) getDynaFlow(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("flowID")

	if s.dispatcher == nil {
		s.writeError(c, flows.ErrDynaFlowsDisabled)
		return
	}
	flow, err := s.dispatcher.Get(ctx, id)
	if err != nil && !errors.As(err, new(domain.ErrNotFound)) {
		s.writeError(c, err)
		return
	}
	// A missing flow is reported like one of another tac.
	if sess := session(c); err != nil || flow.TacID == "" || flow.TacID != sess.TacID {
		s.writeError(c, flows.FlowSecurityError{Message: "dyna flow belongs to another tac"})
		return
	}
	tasks, err := s.dispatcher.Tasks(ctx, id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, DynaFlowResponse{DynaFlow: flow, Tasks: tasks})
}
