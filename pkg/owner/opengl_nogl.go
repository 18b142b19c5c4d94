//go:build !gl

package owner

import "github.com/giongto35/glremote/pkg/logger"

// NewOpenGL needs the binary built with the gl tag (cgo, SDL2 and GL headers).
func NewOpenGL(*logger.Logger) (Driver, error) { return nil, ErrNoOpenGL }
