package validator

// Validator validates tag-annotated structs.
type Validator interface {
	Validate(data any) error
}

var _ Validator = (*V10Validator)(nil)
