package wininput

import "github.com/sean-niemann/Clicker-Macro/internal/core/autoclicker"

type RuntimeConfig struct {
	Bindings autoclicker.Bindings
}
