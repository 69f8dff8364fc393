// package services defines the client side of the soundboard HTTP API
package services

import (
	"context"
	"io"

	"github.com/desertthunder/sbx/internal/models"
)

// Soundboard is the set of backend operations the client issues.
//
// Every method performs at most one HTTP request. Transport failures wrap [shared.ErrTransport];
// non-2xx responses are returned as [*RejectionError].
type Soundboard interface {
	ListSounds(ctx context.Context) (models.Catalog, error)
	Play(ctx context.Context, path string) (string, error)
	Stop(ctx context.Context) (string, error)
	StopAll(ctx context.Context) (string, error)
	Upload(ctx context.Context, filename string, r io.Reader, folder string) (string, error)
	ListFolders(ctx context.Context) ([]string, error)
	Move(ctx context.Context, source, folder string) error
	CreateCategory(ctx context.Context, name string) (string, error)
	ListEmptyCategories(ctx context.Context) ([]string, error)
	RemoveCategories(ctx context.Context, names []string) (*models.RemoveResult, error)
	FetchAudio(ctx context.Context, path string, w io.Writer) error
}
