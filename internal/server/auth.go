package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"farmcore/internal/flows"
)

const sessionKey = "farmcore.session"

func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := s.auth.Authenticate(c.Request.Context(), c.GetHeader(APIKeyHeader))
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func session(c *gin.Context) flows.SessionContext {
	v, ok := c.Get(sessionKey)
	if !ok {
		return flows.SessionContext{}
	}
	sess, _ := v.(flows.SessionContext)
	return sess
}

func (s *Server) getSession(c *gin.Context) {
	c.JSON(http.StatusOK, session(c))
}
