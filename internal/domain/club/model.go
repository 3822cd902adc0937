package club

import "fmt"

// Club is the owning organisation of a roster of boxers.
type Club struct {
	ID   string
	Name string
	City string
}

func (c Club) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("club id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("club name is required")
	}

	return nil
}
