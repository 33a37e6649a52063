package assets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/MobRulesGames/boardscene/logging"
)

// A registry is a map[string]*T where T has a string field Name. Values are
// shared definitions; an instance type embeds *T next to a Defname field and
// is filled in with GetObject:
//
//	type Model struct {
//	  Defname string
//	  *ModelDef
//	}
//
// Types stored in a registry may implement Normalizer to fix up defaults
// after they are loaded from disk.

var ErrRegistry = errors.New("registry error")

type Normalizer interface {
	Normalize()
}

var registries = map[string]reflect.Value{}

func registryErr(msg string, args ...interface{}) error {
	logging.Error(msg, args...)
	return fmt.Errorf("%s %v: %w", msg, args, ErrRegistry)
}

func RemoveRegistry(name string) {
	delete(registries, name)
}

func RegisterRegistry(name string, registry interface{}) error {
	if strings.Contains(name, " ") {
		return registryErr("registry name has spaces", "name", name)
	}
	mr := reflect.ValueOf(registry)
	if mr.Kind() != reflect.Map || mr.Type().Key().Kind() != reflect.String {
		return registryErr("registry must be map[string]*struct", "type", mr.Type())
	}
	elem := mr.Type().Elem()
	if elem.Kind() != reflect.Pointer || elem.Elem().Kind() != reflect.Struct {
		return registryErr("registry values must be struct pointers", "type", elem)
	}
	if field, ok := elem.Elem().FieldByName("Name"); !ok || field.Type.Kind() != reflect.String {
		return registryErr("registry values need a string Name field", "type", elem)
	}
	if _, ok := registries[name]; ok {
		return registryErr("registry already exists", "name", name)
	}
	registries[name] = mr
	return nil
}

func lookup(name string) (reflect.Value, error) {
	reg, ok := registries[name]
	if !ok {
		return reflect.Value{}, registryErr("unknown registry", "name", name)
	}
	return reg, nil
}

// RegisterObject stores object, a pointer of the registry's value type,
// under its Name.
func RegisterObject(registryName string, object interface{}) error {
	reg, err := lookup(registryName)
	if err != nil {
		return err
	}
	val := reflect.ValueOf(object)
	if val.Type() != reg.Type().Elem() {
		return registryErr("registry type mismatch", "registry", registryName, "got", val.Type(), "want", reg.Type().Elem())
	}
	name := val.Elem().FieldByName("Name")
	if reg.MapIndex(name).IsValid() {
		return registryErr("registry name collision", "registry", registryName, "object", name.String())
	}
	reg.SetMapIndex(name, val)
	return nil
}

func HasObject(registryName, objectName string) bool {
	reg, ok := registries[registryName]
	if !ok {
		return false
	}
	return reg.MapIndex(reflect.ValueOf(objectName)).IsValid()
}

// GetObject looks up object's Defname in the registry and stores the
// definition in object's embedded field of the definition's type.
func GetObject(registryName string, object interface{}) error {
	reg, err := lookup(registryName)
	if err != nil {
		return err
	}
	val := reflect.ValueOf(object)
	if val.Kind() != reflect.Pointer {
		return registryErr("GetObject needs a pointer", "kind", val.Kind())
	}
	defname := val.Elem().FieldByName("Defname")
	if !defname.IsValid() || defname.Kind() != reflect.String {
		return registryErr("missing Defname field", "type", val.Elem().Type())
	}
	def := reg.MapIndex(defname)
	if !def.IsValid() {
		return registryErr("no object with name", "registry", registryName, "object", defname.String())
	}
	field := val.Elem().FieldByName(def.Elem().Type().Name())
	if !field.IsValid() || !field.CanSet() {
		return registryErr("missing embedded field", "type", val.Elem().Type(), "want", def.Type())
	}
	field.Set(def)
	return nil
}

// GetAllNamesInRegistry returns the registry's keys in sorted order.
func GetAllNamesInRegistry(registryName string) []string {
	reg, err := lookup(registryName)
	if err != nil {
		return nil
	}
	var names []string
	for _, key := range reg.MapKeys() {
		names = append(names, key.String())
	}
	sort.Strings(names)
	return names
}

func LoadJson(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// RegisterAllObjectsInDir loads every file under dir ending in suffix as a
// JSON object of the registry's value type and registers it. Names starting
// with '.' are skipped. Files that fail to load are logged and skipped; the
// count of registered objects is returned.
func RegisterAllObjectsInDir(registryName, dir, suffix string) (int, error) {
	reg, err := lookup(registryName)
	if err != nil {
		return 0, err
	}
	logging.Info("registering directory", "dir", dir, "registry", registryName)
	count := 0
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && path != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), suffix) {
			return nil
		}
		target := reflect.New(reg.Type().Elem().Elem()).Interface()
		if err := LoadJson(path, target); err != nil {
			logging.Error("error loading file", "path", path, "err", err)
			return nil
		}
		if n, ok := target.(Normalizer); ok {
			n.Normalize()
		}
		if err := RegisterObject(registryName, target); err != nil {
			return nil
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("walking %s: %w", dir, err)
	}
	logging.Info("completed directory", "dir", dir, "registered", count)
	return count, nil
}
