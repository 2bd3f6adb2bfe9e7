package render

import "github.com/cockroachdb/errors"

var (
	// ErrResourceCreation marks every failure to build the resource pool. There is no
	// partially built pool to fall back to.
	ErrResourceCreation = errors.New("resource creation failed")

	ErrClosed = errors.New("presenter is closed")
	// ErrNoSwapchain is returned once a rebuild has failed and left the presenter without a
	// swapchain bundle.
	ErrNoSwapchain = errors.New("presenter has no swapchain")
	// ErrZeroExtent means the surface currently allows no image area at all, as some
	// platforms report while a window is minimized. It is not fatal: build again later.
	ErrZeroExtent = errors.New("surface extent is zero")
)

func resourceError(err error, op string) error {
	return errors.Mark(errors.Wrap(err, op), ErrResourceCreation)
}
