// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2025 UnderNET

// Package config provides viper backed configuration keys for the service.
package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// K is a configuration key
type K string

const (
	// ServiceHost is the address the HTTP server binds to
	ServiceHost K = `service.host`
	// ServicePort is the port the HTTP server listens on
	ServicePort K = `service.port`
	// ServiceAPIPrefix is the path prefix for versioned API routes
	ServiceAPIPrefix K = `service.api_prefix`
	// ServiceDevMode enables debug logging
	ServiceDevMode K = `service.dev_mode`
	// ServiceCorsAllowOrigins is the list of allowed CORS origins
	ServiceCorsAllowOrigins K = `service.cors_allowed_origins`
	// ServiceCorsAllowMethods is the list of allowed CORS methods
	ServiceCorsAllowMethods K = `service.cors_allowed_methods`
	// ServiceCorsMaxAge is the CORS preflight cache duration in seconds
	ServiceCorsMaxAge K = `service.cors_max_age`

	// LogLevel is one of debug, info, warn, error
	LogLevel K = `log.level`
	// LogFormat is json or text
	LogFormat K = `log.format`

	// TotpPeriod is the default time step in seconds
	TotpPeriod K = `totp.period`
	// TotpDigits is the default code length
	TotpDigits K = `totp.digits`
	// TotpAlgorithm is the default HMAC algorithm
	TotpAlgorithm K = `totp.algorithm`
	// TotpMaxSecretLength truncates incoming secrets to this many characters
	TotpMaxSecretLength K = `totp.max_secret_length`

	TelemetryEnabled            K = `telemetry.enabled`
	TelemetryServiceName        K = `telemetry.service_name`
	TelemetryServiceVersion     K = `telemetry.service_version`
	TelemetryOTLPEndpoint       K = `telemetry.otlp_endpoint`
	TelemetryOTLPInsecure       K = `telemetry.otlp_insecure`
	TelemetryPrometheusEnabled  K = `telemetry.prometheus_enabled`
	TelemetryPrometheusEndpoint K = `telemetry.prometheus_endpoint`
	TelemetryTracingEnabled     K = `telemetry.tracing_enabled`
	TelemetryTracingSampleRate  K = `telemetry.tracing_sample_rate`
	TelemetryMetricsEnabled     K = `telemetry.metrics_enabled`
)

// envPrefix is prepended to every environment override, e.g. TOTPAPI_SERVICE_PORT
const envPrefix = "TOTPAPI"

// Get returns the value of the key
func (k K) Get() interface{} {
	return viper.Get(string(k))
}

// GetString returns the value of the key as a string
func (k K) GetString() string {
	return viper.GetString(string(k))
}

// GetStringSlice returns the value of the key as a string slice
func (k K) GetStringSlice() []string {
	return viper.GetStringSlice(string(k))
}

// GetBool returns the value of the key as a bool
func (k K) GetBool() bool {
	return viper.GetBool(string(k))
}

// GetInt returns the value of the key as an int
func (k K) GetInt() int {
	return viper.GetInt(string(k))
}

// GetUint returns the value of the key as an uint
func (k K) GetUint() uint {
	return viper.GetUint(string(k))
}

// GetUint64 returns the value of the key as an uint64
func (k K) GetUint64() uint64 {
	return viper.GetUint64(string(k))
}

// GetFloat64 returns the value of the key as a float64
func (k K) GetFloat64() float64 {
	return viper.GetFloat64(string(k))
}

// Set sets the value of the key
func (k K) Set(value interface{}) {
	viper.Set(string(k), value)
}

// DefaultConfig sets the default configuration values
func DefaultConfig() {
	ServiceHost.setDefault("*")
	ServicePort.setDefault(8080)
	ServiceAPIPrefix.setDefault("api")
	ServiceDevMode.setDefault(false)
	ServiceCorsAllowOrigins.setDefault([]string{"*"})
	ServiceCorsAllowMethods.setDefault([]string{"GET", "POST", "OPTIONS"})
	ServiceCorsMaxAge.setDefault(0)

	LogLevel.setDefault("info")
	LogFormat.setDefault("json")

	TotpPeriod.setDefault(30)
	TotpDigits.setDefault(6)
	TotpAlgorithm.setDefault("SHA1")
	TotpMaxSecretLength.setDefault(100)

	TelemetryEnabled.setDefault(false)
	TelemetryServiceName.setDefault("totp-api")
	TelemetryServiceVersion.setDefault("0.0.1-dev")
	TelemetryOTLPEndpoint.setDefault("")
	TelemetryOTLPInsecure.setDefault(false)
	TelemetryPrometheusEnabled.setDefault(true)
	TelemetryPrometheusEndpoint.setDefault("/metrics")
	TelemetryTracingEnabled.setDefault(false)
	TelemetryTracingSampleRate.setDefault(0.1)
	TelemetryMetricsEnabled.setDefault(true)
}

func (k K) setDefault(value interface{}) {
	viper.SetDefault(string(k), value)
}

// InitConfig initializes the configuration. An empty path looks for config.yml in the
// working directory and /etc/totp-api, a missing file is not an error.
func InitConfig(path string) {
	DefaultConfig()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/totp-api")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			log.Fatalf("failed to read configuration: %s", err)
		}
	}

	// Space separated lists are allowed in environment variables
	for _, k := range []K{ServiceCorsAllowOrigins, ServiceCorsAllowMethods} {
		if v, ok := k.Get().(string); ok {
			k.Set(strings.Fields(v))
		}
	}
}

// GetServerAddress returns host:port for the HTTP server. The wildcard host binds all
// interfaces.
func GetServerAddress() string {
	host := ServiceHost.GetString()
	if host == "*" {
		host = ""
	}
	return fmt.Sprintf("%s:%s", host, ServicePort.GetString())
}
