package validator

import "github.com/go-playground/validator/v10"

func registerFn(tag string, fn func(fl validator.FieldLevel) bool) func(v *validator.Validate) {
	return func(v *validator.Validate) {
		_ = v.RegisterValidation(tag, fn)
	}
}

func NewRackValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("resource_id", resourceIDValidator),
		},
	}
}

func NewDeviceValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("resource_id", resourceIDValidator),
		},
		{
			Rule: registerFn("device_type", deviceTypeValidator),
		},
		{
			Rule: registerFn("device_status", deviceStatusValidator),
		},
	}
}

func NewHierarchyValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("resource_id", resourceIDValidator),
		},
		{
			Rule: registerFn("nic_status", nicStatusValidator),
		},
		{
			Rule: registerFn("port_type", portTypeValidator),
		},
		{
			Rule: registerFn("port_speed", portSpeedValidator),
		},
		{
			Rule: registerFn("port_status", portStatusValidator),
		},
	}
}

func NewCableValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("resource_id", resourceIDValidator),
		},
		{
			Rule: registerFn("cable_type", cableTypeValidator),
		},
		{
			Rule: registerFn("cable_status", cableStatusValidator),
		},
	}
}

// NewInventoryValidationRules registers every rule used by the inventory API.
func NewInventoryValidationRules() []ValidationRule {
	rules := NewRackValidationRules()
	rules = append(rules, NewDeviceValidationRules()...)
	rules = append(rules, NewHierarchyValidationRules()...)
	rules = append(rules, NewCableValidationRules()...)
	return rules
}
