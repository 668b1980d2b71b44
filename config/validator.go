package config

// Validator is implemented by configuration structs that can check
// themselves.
type Validator interface {
	Validate() error
}

// ValidateAll runs every validator, stopping at the first failure.
func ValidateAll(validators ...Validator) error {
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
