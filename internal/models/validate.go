package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate validates a manifest category.
func (c Category) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ID, validation.Required),
	)
}

// Validate validates a manifest level.
func (l Level) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.ID, validation.Required),
	)
}

// Validate validates the manifest shape. Every category and level is
// validated in turn; uniqueness is checked by the pack validator.
func (m *Manifest) Validate() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.ID, validation.Required),
		validation.Field(&m.Categories),
		validation.Field(&m.Levels),
	)
}
