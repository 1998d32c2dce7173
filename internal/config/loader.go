package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/v2"

	"github.com/leapstack-labs/taskerslab/pkg/core"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "taskerslab.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "taskerslab.yml"

// FindConfigFile returns the config file in dir, or "" if there is none.
func FindConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var (
	millerType     = reflect.TypeOf(core.Miller{})
	millerListType = reflect.TypeOf([]core.Miller{})
)

// MillerHook decodes a string such as "1 1 0" or "110" into a core.Miller.
func MillerHook() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != millerType {
			return data, nil
		}
		return core.ParseMiller(data.(string))
	}
}

// MillerListHook decodes a single string into a Miller list. Indices are
// separated by ';' or whitespace when every field is a compact index
// ("100 110 111"); otherwise the string is one index.
func MillerListHook() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != millerListType {
			return data, nil
		}
		return ParseMillerList(data.(string))
	}
}

// ParseMillerList parses a list of Miller indices, see MillerListHook.
func ParseMillerList(s string) ([]core.Miller, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var parts []string
	if strings.Contains(s, ";") {
		parts = strings.Split(s, ";")
	} else if fields := strings.Fields(s); len(fields) > 1 && allCompact(fields) {
		parts = fields
	} else {
		parts = []string{s}
	}

	out := make([]core.Miller, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		m, err := core.ParseMiller(p)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func allCompact(fields []string) bool {
	for _, f := range fields {
		if len(f) != 3 || strings.ContainsAny(f, ",()[]") {
			return false
		}
	}
	return true
}

// DecodeHook is the hook chain used to unmarshal configuration.
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		MillerListHook(),
		MillerHook(),
		mapstructure.StringToWeakSliceHookFunc(","),
		mapstructure.StringToTimeDurationHookFunc(),
	)
}

// Unmarshal decodes the koanf tree at path into out using DecodeHook.
func Unmarshal(k *koanf.Koanf, path string, out any) error {
	err := k.UnmarshalWithConf(path, out, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       DecodeHook(),
			Result:           out,
			WeaklyTypedInput: true,
		},
	})
	if err != nil {
		return fmt.Errorf("unable to decode config: %w", err)
	}
	return nil
}
