package messaging

import "fmt"

// MessageOverwriteError is raised when a Single delegate without
// AllowOverwrite receives a second message within the same event.
type MessageOverwriteError struct {
	Owner string
	Name  string
}

func (e *MessageOverwriteError) Error() string {
	return fmt.Sprintf("module %q: message %q would overwrite an existing single delegate slot", e.Owner, e.Name)
}
