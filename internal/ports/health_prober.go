package ports

// HealthReport is the outcome of polling an HTTP endpoint.
type HealthReport struct {
	URL        string
	Healthy    bool
	Attempts   int
	StatusCode int
	Title      string
}

type HealthProber interface {
	Probe(url string) (HealthReport, error)
}
