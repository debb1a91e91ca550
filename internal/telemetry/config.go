package telemetry

// ServiceName is the service.name of every span and the Pyroscope
// application name.
const ServiceName = "shopkeep"

// Config selects the OTLP collector spans are exported to. The zero value
// leaves tracing off.
type Config struct {
	Enabled bool
	Version string

	Endpoint string // OTLP gRPC host:port
	Insecure bool

	// SampleRate >= 1 keeps every trace, <= 0 drops them all.
	SampleRate float64
}
