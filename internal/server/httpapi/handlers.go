package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/keeper/internal/api"
	"github.com/dmitrijs2005/keeper/internal/apperr"
)

func (s *HTTPServer) rpc(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var req api.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, apperr.ErrRequestMalformed)
		return
	}

	resp, err := s.dispatcher.Dispatch(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *HTTPServer) account(c *gin.Context) {
	acc, err := s.accounts.Get(c.Request.Context(), c.GetString(accountIDKey))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, acc)
}

func (s *HTTPServer) health(c *gin.Context) {
	if err := s.db.PingContext(c.Request.Context()); err != nil {
		s.fail(c, apperr.FromStorage(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
