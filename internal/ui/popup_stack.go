package ui

// PopupCloser hides a popup and reports whether it was open.
type PopupCloser func(*Model) bool

type popupLayer struct {
	name  string
	close PopupCloser
}

// PopupStack orders the open popups. Keys go to the top one and Esc
// closes from the top down.
type PopupStack struct {
	layers []popupLayer
}

func NewPopupStack() *PopupStack {
	return &PopupStack{}
}

// Push opens a layer on top. Reopening a popup that is already open moves
// it to the top instead of stacking it twice.
func (s *PopupStack) Push(name string, closer PopupCloser) {
	s.remove(name)
	s.layers = append(s.layers, popupLayer{name: name, close: closer})
}

func (s *PopupStack) remove(name string) {
	for i, l := range s.layers {
		if l.name == name {
			s.layers = append(s.layers[:i], s.layers[i+1:]...)
			return
		}
	}
}

// CloseTop closes the topmost popup. It returns false when nothing was open.
func (s *PopupStack) CloseTop(m *Model) bool {
	n := len(s.layers)
	if n == 0 {
		return false
	}
	top := s.layers[n-1]
	s.layers = s.layers[:n-1]
	return top.close(m)
}

// CloseAll closes every popup, top first.
func (s *PopupStack) CloseAll(m *Model) {
	for !s.IsEmpty() {
		s.CloseTop(m)
	}
}

func (s *PopupStack) IsEmpty() bool { return len(s.layers) == 0 }

// TopName returns the name of the topmost popup, or "" when none is open.
func (s *PopupStack) TopName() string {
	if len(s.layers) == 0 {
		return ""
	}
	return s.layers[len(s.layers)-1].name
}

// Names returns the open popups, bottom first.
func (s *PopupStack) Names() []string {
	names := make([]string, len(s.layers))
	for i, l := range s.layers {
		names[i] = l.name
	}
	return names
}
