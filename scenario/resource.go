package scenario

import "fmt"

// Resource is a stock of one kind of supply.
type Resource struct {
	Name     string `yaml:"name" json:"name"`
	Quantity int    `yaml:"quantity" json:"quantity"`
	Used     int    `yaml:"used,omitempty" json:"used"`
}

// Available returns the units not in use.
func (r *Resource) Available() int { return r.Quantity - r.Used }

// Use reserves n units.
func (r *Resource) Use(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAmount, n)
	}
	if n > r.Available() {
		return fmt.Errorf("%w: %s has %d, requested %d", ErrInsufficientStock, r.Name, r.Available(), n)
	}
	r.Used += n

	return nil
}

// Release returns n units. Releasing more than is in use is an error.
func (r *Resource) Release(n int) error {
	if n <= 0 || n > r.Used {
		return fmt.Errorf("%w: cannot release %d of %d in use", ErrInvalidAmount, n, r.Used)
	}
	r.Used -= n

	return nil
}
