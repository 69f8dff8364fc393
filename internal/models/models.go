// package models defines the data model for the soundboard client
package models

import "time"

// Model is anything the client persists locally. Sounds live on the server; only play history is
// stored on disk today.
type Model interface {
	ID() string
	CreatedAt() time.Time
	UpdatedAt() time.Time
	Validate() error // rejects records that would violate table constraints
}

// Repository is the CRUD surface over one sqlite table. Each implementation documents the List
// criteria keys it understands; other keys are ignored.
type Repository[T Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	Update(model T) error
	Delete(id string) error
	List(criteria map[string]any) ([]T, error)
}
