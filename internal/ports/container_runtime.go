package ports

// ContainerSpec describes a detached container run.
type ContainerSpec struct {
	Name          string
	Image         string
	HostPort      int
	ContainerPort int
	Environment   map[string]string
}

type ContainerRuntime interface {
	BuildImage(tag string, contextDir string) error
	RunContainer(spec ContainerSpec) error
	// RemoveContainer force-removes a container. A missing container is not an error.
	RemoveContainer(name string) error
}
