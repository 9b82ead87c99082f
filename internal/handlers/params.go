package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/red_social/pkg/errors"
)

func idParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New(errors.ErrCodeValidation, "invalid "+name)
	}
	return uint(id), nil
}
