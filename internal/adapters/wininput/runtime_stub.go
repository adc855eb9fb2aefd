//go:build !windows

package wininput

import (
	"context"
	"fmt"

	"github.com/sean-niemann/Clicker-Macro/internal/core/autoclicker"
)

var errUnsupported = fmt.Errorf("windows input runtime is only available on Windows")

type Runtime struct{}

func NewRuntime(cfg RuntimeConfig, logger autoclicker.Logger) (*Runtime, error) {
	return nil, fmt.Errorf("%w: %w", autoclicker.ErrInjectorUnavailable, errUnsupported)
}

func (r *Runtime) Injector() autoclicker.Injector {
	return nil
}

func (r *Runtime) GlobalHotkeys() bool {
	return false
}

func (r *Runtime) Listen(onAction func(autoclicker.Action)) error {
	return errUnsupported
}

func (r *Runtime) Stop() {}

func CaptureNextKeyCode(ctx context.Context) (uint16, error) {
	return 0, errUnsupported
}
