package helpers

import (
	"os"
	"strings"

	"github.com/Felo0o0/PrimeSecure/utils/constant"
	"github.com/spf13/viper"
)

// GetEnvironment resolves the run environment. PRIMESECURE_ENVIRONMENT wins
// over the legacy run mode variable, which wins over the loaded config.
func GetEnvironment() string {
	for _, key := range []string{constant.EnvPrefix + "_ENVIRONMENT", constant.RunMode} {
		if env := os.Getenv(key); env != "" {
			return env
		}
	}
	if env := viper.GetString(constant.Environment); env != "" {
		return env
	}
	return constant.DefaultEnvironment
}

// IsProdEnvironment reports whether GetEnvironment names production.
func IsProdEnvironment() bool {
	env := strings.ToLower(GetEnvironment())
	return env == "prod" || env == "production"
}

// GetServiceName is the configured service name or the binary name.
func GetServiceName() string {
	if name := viper.GetString(constant.Service); name != "" {
		return name
	}
	return constant.DefaultServiceName
}
