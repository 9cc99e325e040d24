package handlers

import (
	"net/http"
	"strconv"

	"qr_ordering/internal/apperror"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: true, Message: message})
}

// respondError maps err onto a status code. Store failures are logged with
// their driver text, which the caller never sees.
func respondError(c *gin.Context, log logrus.FieldLogger, err error) {
	c.Error(err)
	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("request failed")
	}
	c.JSON(status, Response{Success: false, Error: apperror.PublicMessage(err)})
}

func bindJSON(c *gin.Context, log logrus.FieldLogger, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, log, apperror.Validation("invalid request body: %v", err))
		return false
	}
	return true
}

func paramID(c *gin.Context, log logrus.FieldLogger, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, log, apperror.Validation("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

// queryID parses an optional numeric query parameter.
func queryID(c *gin.Context, log logrus.FieldLogger, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		respondError(c, log, apperror.Validation("invalid %s", name))
		return nil, false
	}
	v := uint(id)
	return &v, true
}
