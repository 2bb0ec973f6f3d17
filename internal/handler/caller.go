package handler

import (
	"errors"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/tegami/tegami-backend/internal/common"
	"github.com/tegami/tegami-backend/internal/middleware"
)

// resolveCaller picks the acting user id. A verified token wins; a claimed id
// that disagrees with it is refused. Anonymous requests keep the claimed id.
func resolveCaller(c *gin.Context, claimed string) (string, error) {
	tokenUser := middleware.GetUserID(c)
	if tokenUser == "" {
		return claimed, nil
	}
	if claimed != "" && claimed != tokenUser {
		return "", fmt.Errorf("%w: user id does not match the authenticated user", common.ErrForbidden)
	}
	return tokenUser, nil
}

// bindError reports a malformed request body as a validation error
func bindError(c *gin.Context, err error) {
	common.HandleError(c, fmt.Errorf("%w: %s", common.ErrValidation, err.Error()), "")
}

// bindOptionalJSON binds a JSON body that may be omitted entirely
func bindOptionalJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
