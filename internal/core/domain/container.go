package domain

// Container represents a container summary as reported by the runtime daemon.
type Container struct {
	ID     string   `json:"id"`
	Names  []string `json:"names"`  // daemon form, e.g. "/web-1"
	Status string   `json:"status"` // empty when the daemon reported none
	State  string   `json:"state"`  // running, exited, etc.
}

// DisplayNames returns the container names without the daemon's leading character.
func (c Container) DisplayNames() []string {
	names := make([]string, 0, len(c.Names))
	for _, name := range c.Names {
		if name == "" {
			continue
		}
		names = append(names, name[1:])
	}
	return names
}

// HasStatus reports whether the daemon attached a status to the container.
func (c Container) HasStatus() bool {
	return c.Status != ""
}
