package session

import "fmt"

// View is the section the visitor is looking at.
type View int

const (
	GeneratorView View = iota
	SavedView
)

func (v View) String() string {
	switch v {
	case GeneratorView:
		return "generator"
	case SavedView:
		return "saved"
	default:
		return fmt.Sprintf("View(%d)", int(v))
	}
}

func ParseView(s string) (View, error) {
	switch s {
	case "generator":
		return GeneratorView, nil
	case "saved":
		return SavedView, nil
	}
	return 0, fmt.Errorf("unknown view %q", s)
}
