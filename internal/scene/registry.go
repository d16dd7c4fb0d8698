package scene

import (
	"fmt"
	"sort"
)

var constructors = map[string]func() Scene{
	"buffer": func() Scene { return NewBuffer() },
}

// New creates the scene registered under name with default options.
func New(name string) (Scene, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return ctor(), nil
}

// Names lists the registered scenes in sorted order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
