package ports

// ServiceUnit is the minimal description of a long running host service.
type ServiceUnit struct {
	Name             string
	Description      string
	WorkingDirectory string
	User             string
	Environment      map[string]string
	ExecStart        string
	RestartPolicy    string
}

type ServiceManager interface {
	WriteUnit(unit ServiceUnit) error
	RemoveUnit(name string) error
	Reload() error
	EnableAndStart(name string) error
	Stop(name string) error
	Disable(name string) error
	ResetFailed(name string) error
	// Status returns the human readable status report of the service.
	Status(name string) string
}
