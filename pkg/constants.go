package pkg

// Common API path constants.
const (
	// BasePath is the root path for the API.
	BasePath = "/v1"

	// DomainsPath is the collection endpoint for domains.
	DomainsPath = BasePath + "/domains"

	// HealthCheckPath is the endpoint for health checks.
	HealthCheckPath = BasePath + "/health"
)
