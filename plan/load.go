package plan

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/blobspace/errors"
)

// Decode reads a YAML plan definition. Unknown fields are rejected.
func Decode(r io.Reader) (*Def, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Def
	if err := dec.Decode(&p); err != nil {
		return nil, errors.ParseFailed("plan", err)
	}
	for i, n := range p.Nets {
		if n.Name == "" {
			return nil, errors.New(errors.PhaseParse, errors.KindInvalidInput).
				Detail("net %d has no name", i).Build()
		}
	}
	return &p, nil
}

// LoadFile reads a YAML plan definition from path.
func LoadFile(path string) (*Def, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Load("open plan "+path, err)
	}
	defer f.Close()
	return Decode(f)
}
