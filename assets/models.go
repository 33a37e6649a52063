package assets

import (
	"fmt"
	"path/filepath"
)

const ModelRegistry = "models"

// ModelDef is the on-disk description of a model:
//
//	{"Name": "players/0", "Url": "players/0/model.json", "Scale": 1, "Glyph": "1"}
type ModelDef struct {
	Name string

	// Mesh location, relative to the directory of the def file.
	Url string

	Scale float32

	// Single character used by text front ends.
	Glyph string
}

func (d *ModelDef) Normalize() {
	if d.Scale == 0 {
		d.Scale = 1
	}
	if d.Glyph == "" && d.Name != "" {
		d.Glyph = d.Name[:1]
	}
	d.Url = filepath.ToSlash(d.Url)
}

// Model is one instance of a ModelDef in a scene.
type Model struct {
	Defname string
	*ModelDef

	Instance int
}

func (m *Model) String() string {
	return fmt.Sprintf("%s#%d", m.Defname, m.Instance)
}

// DefaultModels are the definitions used when no models directory is
// configured.
func DefaultModels() []*ModelDef {
	defs := []*ModelDef{
		{Name: "deed", Url: "deed/model.json", Glyph: "$"},
		{Name: "house", Url: "house/model.json", Glyph: "h"},
		{Name: "hotel", Url: "hotel/model.json", Glyph: "H"},
	}
	for i := 0; i < 4; i++ {
		name := fmt.Sprintf("players/%d", i)
		defs = append(defs, &ModelDef{Name: name, Url: name + "/model.json", Glyph: fmt.Sprint(i + 1)})
	}
	for _, d := range defs {
		d.Normalize()
	}
	return defs
}

// RegisterModels creates the model registry and fills it from dir, or with
// DefaultModels when dir is empty.
func RegisterModels(dir string) (map[string]*ModelDef, error) {
	defs := map[string]*ModelDef{}
	RemoveRegistry(ModelRegistry)
	if err := RegisterRegistry(ModelRegistry, defs); err != nil {
		return nil, err
	}
	if dir == "" {
		for _, d := range DefaultModels() {
			if err := RegisterObject(ModelRegistry, d); err != nil {
				return nil, err
			}
		}
		return defs, nil
	}
	if _, err := RegisterAllObjectsInDir(ModelRegistry, dir, ".json"); err != nil {
		return nil, err
	}
	return defs, nil
}
