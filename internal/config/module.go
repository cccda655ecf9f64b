package config

import "go.uber.org/fx"

// Module exposes configuration loader for fx graphs.
var Module = fx.Provide(Load)

// EnvModule loads configuration from the environment only.
var EnvModule = fx.Provide(LoadEnv)
