package domain

// ComponentHealth is the reachability of one backing service.
type ComponentHealth struct {
	Component string `json:"component"`
	Backend   string `json:"backend"`
	Error     string `json:"error,omitempty"`
}

// Healthy returns true if the component answered its ping.
func (h ComponentHealth) Healthy() bool {
	return h.Error == ""
}
