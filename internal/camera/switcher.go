package camera

// Switcher holds the cameras a viewer can render from and which of them
// is active. Inactive cameras stay in the tree and keep updating.
type Switcher struct {
	cameras []*Camera
	active  int
}

// NewSwitcher registers cams in order; the first one starts active.
func NewSwitcher(cams ...*Camera) *Switcher {
	return &Switcher{cameras: cams}
}

// Add registers another camera without activating it.
func (s *Switcher) Add(c *Camera) {
	s.cameras = append(s.cameras, c)
}

// Active returns the camera to render from, or nil when none is registered.
func (s *Switcher) Active() *Camera {
	if len(s.cameras) == 0 {
		return nil
	}
	return s.cameras[s.active]
}

// Use activates c, registering it first if needed.
func (s *Switcher) Use(c *Camera) {
	for i, cam := range s.cameras {
		if cam == c {
			s.active = i
			return
		}
	}
	s.cameras = append(s.cameras, c)
	s.active = len(s.cameras) - 1
}

// Next activates the following camera, wrapping around, and returns it.
func (s *Switcher) Next() *Camera {
	if len(s.cameras) == 0 {
		return nil
	}
	s.active = (s.active + 1) % len(s.cameras)
	return s.cameras[s.active]
}

// Len returns the number of registered cameras.
func (s *Switcher) Len() int { return len(s.cameras) }
