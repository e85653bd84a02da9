package config

import (
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/smykla-skalski/liftoff/pkg/config"
)

// CustomDecoderConfig returns a mapstructure decoder config writing into
// result, with hooks for Duration values and comma-separated lists from
// environment variables.
func CustomDecoderConfig(result any) *mapstructure.DecoderConfig {
	return &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToDurationHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           result,
	}
}

// stringToDurationHookFunc returns a decode hook for converting strings to config.Duration.
//
//nolint:ireturn // required by mapstructure.DecodeHookFunc interface
func stringToDurationHookFunc() mapstructure.DecodeHookFunc {
	return func(
		_ reflect.Type,
		t reflect.Type,
		data any,
	) (any, error) {
		if t != reflect.TypeFor[config.Duration]() {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			var d config.Duration
			if err := d.UnmarshalText([]byte(v)); err != nil {
				return nil, err
			}

			return d, nil

		case int64:
			return config.Duration(time.Duration(v)), nil

		case float64:
			return config.Duration(time.Duration(v)), nil

		default:
			return data, nil
		}
	}
}
