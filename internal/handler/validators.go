package handler

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/tegami/tegami-backend/internal/domain"
	pkglogger "github.com/tegami/tegami-backend/pkg/logger"
)

var registerOnce sync.Once

var customTags = map[string]validator.Func{
	"mood": func(fl validator.FieldLevel) bool {
		return domain.IsValidMood(fl.Field().String())
	},
}

// RegisterValidators adds the custom binding tags used by request bodies
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			pkglogger.GetLogger().Error().Msg("binding engine is not validator/v10, custom tags not registered")
			return
		}
		if err := registerTags(v, customTags); err != nil {
			pkglogger.GetLogger().Error().Err(err).Msg("custom validator registration failed")
		}
	})
}

func registerTags(v *validator.Validate, tags map[string]validator.Func) error {
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %q: %w", tag, err)
		}
	}
	return nil
}
