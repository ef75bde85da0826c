package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/kubev2v/rack-planner/internal/store/model"
	"github.com/thoas/go-funk"
)

var (
	resourceIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,254}$`)
)

func resourceIDValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	return resourceIDRegex.MatchString(val)
}

// oneOfValidator accepts strings listed in values.
func oneOfValidator(values []string) func(fl validator.FieldLevel) bool {
	return func(fl validator.FieldLevel) bool {
		val, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return funk.ContainsString(values, val)
	}
}

var (
	deviceTypeValidator   = oneOfValidator(model.DeviceTypes)
	deviceStatusValidator = oneOfValidator(model.DeviceStatuses)
	nicStatusValidator    = oneOfValidator(model.NetworkCardStatuses)
	portTypeValidator     = oneOfValidator(model.PortTypes)
	portSpeedValidator    = oneOfValidator(model.PortSpeeds)
	portStatusValidator   = oneOfValidator(model.PortStatuses)
	cableTypeValidator    = oneOfValidator(model.CableTypes)
	cableStatusValidator  = oneOfValidator(model.CableStatuses)
)
