package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"farmcore/internal/flows"
	"farmcore/internal/reports"
)

// Query string keys that select the page rather than report parameters.
const (
	pageNumberKey        = "page_number"
	itemCountPerPageKey  = "item_count_per_page"
	orderByColumnNameKey = "order_by_column_name"
	orderByDescendingKey = "order_by_descending"
)

func (s *Server) listReports(c *gin.Context) {
	if s.provider == nil {
		s.writeError(c, ErrReportsDisabled)
		return
	}
	defs := s.provider.Definitions()
	c.JSON(http.StatusOK, ReportListResponse{Reports: defs, Count: len(defs)})
}

func (s *Server) runReport(c *gin.Context) {
	name, params, req, ok := s.bindReport(c)
	if !ok {
		return
	}
	page, err := s.provider.Run(c.Request.Context(), name, params, req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) exportReport(c *gin.Context) {
	if s.provider != nil && s.exporter == nil {
		s.writeError(c, ErrExportUnavailable)
		return
	}
	name, params, req, ok := s.bindReport(c)
	if !ok {
		return
	}
	res, err := s.exporter.Export(c.Request.Context(), name, params, req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// bindReport reads the page request and report parameters from the query
// string and pins the scope parameters to the caller's session.
func (s *Server) bindReport(c *gin.Context) (string, map[string]any, reports.PageRequest, bool) {
	var req reports.PageRequest
	if s.provider == nil {
		s.writeError(c, ErrReportsDisabled)
		return "", nil, req, false
	}
	name := c.Param("name")
	def, ok := s.provider.Definition(name)
	if !ok {
		s.writeError(c, fmt.Errorf("%w: %s", reports.ErrReportNotFound, name))
		return "", nil, req, false
	}

	query := c.Request.URL.Query()
	var err error
	if req.PageNumber, err = queryInt(name, query.Get(pageNumberKey), pageNumberKey); err != nil {
		s.writeError(c, err)
		return "", nil, req, false
	}
	if req.ItemCountPerPage, err = queryInt(name, query.Get(itemCountPerPageKey), itemCountPerPageKey); err != nil {
		s.writeError(c, err)
		return "", nil, req, false
	}
	req.OrderByColumnName = query.Get(orderByColumnNameKey)
	if v := query.Get(orderByDescendingKey); v != "" {
		if req.OrderByDescending, err = strconv.ParseBool(v); err != nil {
			s.writeError(c, reports.ParameterError{Report: name, Param: orderByDescendingKey, Message: "must be a boolean"})
			return "", nil, req, false
		}
	}

	params := map[string]any{}
	for key, values := range query {
		switch key {
		case pageNumberKey, itemCountPerPageKey, orderByColumnNameKey, orderByDescendingKey:
			continue
		}
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	if err := s.scopeReport(c.Request.Context(), session(c), def, params); err != nil {
		s.writeError(c, err)
		return "", nil, req, false
	}
	return name, params, req, true
}

func (s *Server) scopeReport(ctx context.Context, sess flows.SessionContext, def reports.Definition, params map[string]any) error {
	for _, p := range def.Params {
		switch p.Name {
		case "tac_id":
			params[p.Name] = sess.TacID
		case "pac_id":
			params[p.Name] = sess.PacID
		case "land_id":
			id, _ := params[p.Name].(string)
			if id == "" {
				continue
			}
			land, err := s.svc.GetLand(ctx, id)
			if err != nil {
				return err
			}
			if land.PacID != sess.PacID {
				return flows.FlowSecurityError{Flow: def.Name, Message: "land belongs to another pac"}
			}
		case "plant_id":
			id, _ := params[p.Name].(string)
			if id == "" {
				continue
			}
			plant, err := s.svc.GetPlant(ctx, id)
			if err != nil {
				return err
			}
			land, err := s.svc.GetLand(ctx, plant.LandID)
			if err != nil {
				return err
			}
			if land.PacID != sess.PacID {
				return flows.FlowSecurityError{Flow: def.Name, Message: "plant belongs to another pac"}
			}
		}
	}
	return nil
}

func queryInt(report, raw, key string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, reports.ParameterError{Report: report, Param: key, Message: "must be an integer"}
	}
	return n, nil
}
