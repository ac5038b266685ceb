//go:build !linux

package platform

import (
	"fmt"

	"github.com/1broseidon/idealdisplay/internal/geom"
)

func openX11(string, geom.Size) (Backend, error) {
	return nil, fmt.Errorf("x11: %w on this platform", ErrUnavailable)
}
