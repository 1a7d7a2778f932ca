package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"farmcore/internal/flows"
)

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return nil
}

func process[Req, Resp any](
	s *Server, c *gin.Context, flow flows.Flow[Req, Resp], req Req, status int,
) {
	resp, err := flow.Process(c.Request.Context(), session(c), req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(status, resp)
}

func (s *Server) bindLookup(c *gin.Context) (flows.LookupRequest, bool) {
	var req flows.LookupRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return req, false
	}
	req.PacID = c.Param("pacID")
	return req, true
}

func (s *Server) addTac(c *gin.Context) {
	if req, ok := s.bindLookup(c); ok {
		process(s, c, s.catalog.PacAddTac(), req, http.StatusCreated)
	}
}

func (s *Server) addFlavor(c *gin.Context) {
	if req, ok := s.bindLookup(c); ok {
		process(s, c, s.catalog.PacAddFlavor(), req, http.StatusCreated)
	}
}

func (s *Server) addLand(c *gin.Context) {
	if req, ok := s.bindLookup(c); ok {
		process(s, c, s.catalog.PacAddLand(), req, http.StatusCreated)
	}
}

func (s *Server) addPlant(c *gin.Context) {
	var req flows.LandAddPlantRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	req.LandID = c.Param("landID")
	process(s, c, s.catalog.LandAddPlant(), req, http.StatusCreated)
}

func (s *Server) savePlant(c *gin.Context) {
	var req flows.PlantUserSaveRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	req.PlantID = c.Param("plantID")
	process(s, c, s.catalog.PlantUserSave(), req, http.StatusOK)
}

func (s *Server) deletePlant(c *gin.Context) {
	req := flows.PlantDeleteRequest{PlantID: c.Param("plantID")}
	process(s, c, s.catalog.PlantUserDelete(), req, http.StatusOK)
}

func (s *Server) addOrgAPIKey(c *gin.Context) {
	var req flows.TacAddOrgAPIKeyRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	req.TacID = c.Param("tacID")
	process(s, c, s.catalog.TacAddOrgAPIKey(), req, http.StatusCreated)
}
