// Package config owns the viper configuration engine: defaults, environment bindings and the config file.
package config

import (
	"strings"

	"github.com/anisan-cli/vigil/constant"
	"github.com/anisan-cli/vigil/filesystem"
	"github.com/anisan-cli/vigil/key"
	"github.com/anisan-cli/vigil/where"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// EnvKeyReplacer maps configuration keys onto environment variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup registers defaults, binds environment variables and reads the toml file from where.Config().
// A missing config file is not an error.
func Setup() error {
	viper.SetConfigName(constant.Vigil)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Vigil)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return nil
}

// ClampOffset returns the streaming override for the distance kept from the end of the seekable range.
// None means the playback default applies. Negative values are ignored.
func ClampOffset() mo.Option[float64] {
	if !viper.IsSet(key.StreamingClampOffset) {
		return mo.None[float64]()
	}
	offset := viper.GetFloat64(key.StreamingClampOffset)
	if offset < 0 {
		return mo.None[float64]()
	}
	return mo.Some(offset)
}
