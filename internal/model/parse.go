package model

import (
	"fmt"
	"strings"

	"github.com/roach88/filterql/internal/filterir"
)

// Parse reads a definition document whose root holds a "models" object.
func Parse(root filterir.Element) (*Set, error) {
	if root.Kind() != filterir.ObjectElement {
		return nil, filterir.NewConfigError("", "definition must be an object, found %s", root.Describe())
	}

	var modelsElem filterir.Element
	root.Entries(func(key string, value filterir.Element) bool {
		if key == "models" {
			modelsElem = value
			return false
		}
		return true
	})
	if modelsElem == nil {
		return nil, filterir.NewConfigError("models", "no models defined")
	}
	if modelsElem.Kind() != filterir.ObjectElement {
		return nil, filterir.NewConfigError("models", "models must be an object, found %s", modelsElem.Describe())
	}

	set := newSet()
	var err error
	modelsElem.Entries(func(name string, value filterir.Element) bool {
		var m *Model
		m, err = parseModel(name, value, "models."+name)
		if err != nil {
			return false
		}
		set.add(m)
		return true
	})
	if err != nil {
		return nil, err
	}
	if set.Len() == 0 {
		return nil, filterir.NewConfigError("models", "no models defined")
	}

	return set, nil
}

func parseModel(name string, e filterir.Element, path string) (*Model, error) {
	if e.Kind() != filterir.ObjectElement {
		return nil, filterir.NewConfigError(path, "model must be an object, found %s", e.Describe())
	}

	m := &Model{Name: name}
	var (
		fieldsElem filterir.Element
		assocElem  filterir.Element
		err        error
	)
	e.Entries(func(key string, value filterir.Element) bool {
		switch key {
		case "schema":
			m.Schema, err = stringValue(value, path+".schema")
		case "table":
			m.Table, err = stringValue(value, path+".table")
		case "fields":
			fieldsElem = value
		case "associations":
			assocElem = value
		}
		return err == nil
	})
	if err != nil {
		return nil, err
	}

	if m.Table == "" {
		m.Table = name
	}
	if !filterir.IsIdentifier(m.Table) {
		return nil, filterir.NewConfigError(path+".table", "table %q is not a valid identifier", m.Table)
	}
	if m.Schema != "" && !filterir.IsIdentifier(m.Schema) {
		return nil, filterir.NewConfigError(path+".schema", "schema %q is not a valid identifier", m.Schema)
	}

	if fieldsElem == nil || fieldsElem.Kind() != filterir.ObjectElement {
		return nil, filterir.NewConfigError(path+".fields", "model must have fields defined")
	}
	fieldsElem.Entries(func(fieldName string, value filterir.Element) bool {
		var f Field
		f, err = parseField(fieldName, value, path+".fields."+fieldName)
		if err != nil {
			return false
		}
		m.Fields = append(m.Fields, f)
		return true
	})
	if err != nil {
		return nil, err
	}
	if len(m.Fields) == 0 {
		return nil, filterir.NewConfigError(path+".fields", "model must have fields defined")
	}

	if assocElem != nil {
		m.Associations, err = parseAssociations(assocElem, path+".associations")
		if err != nil {
			return nil, err
		}
	}

	m.buildIndex()
	return m, nil
}

func parseField(name string, e filterir.Element, path string) (Field, error) {
	if filterir.IsReserved(name) {
		return Field{}, filterir.NewConfigError(path, "field name %q is reserved", name)
	}
	if !filterir.IsIdentifier(name) {
		return Field{}, filterir.NewConfigError(path, "field name %q is not a valid identifier", name)
	}
	if e.Kind() != filterir.ObjectElement {
		return Field{}, filterir.NewConfigError(path, "field must be an object, found %s", e.Describe())
	}

	f := Field{Name: name}
	var (
		declared string
		err      error
	)
	e.Entries(func(key string, value filterir.Element) bool {
		keyPath := path + "." + key
		switch key {
		case "type":
			declared, err = stringValue(value, keyPath)
		case "sortable":
			f.Sortable, err = parseSortable(value, keyPath)
		case "hidden":
			f.Hidden, err = boolValue(value, keyPath)
		case "primary_key":
			f.PrimaryKey, err = boolValue(value, keyPath)
		case "generate":
			var g string
			g, err = stringValue(value, keyPath)
			if err == nil {
				f.Generate, err = parseGenerator(g, keyPath)
			}
		}
		return err == nil
	})
	if err != nil {
		return Field{}, err
	}

	if strings.TrimSpace(declared) == "" {
		return Field{}, filterir.NewConfigError(path+".type", "field %q has no type", name)
	}
	f.Type, f.Length, err = splitType(declared, path+".type")
	if err != nil {
		return Field{}, err
	}

	return f, nil
}

// splitType separates "VARCHAR(255)" into "VARCHAR" and "255".
func splitType(declared, path string) (string, string, error) {
	declared = strings.TrimSpace(declared)
	base, rest, found := strings.Cut(declared, "(")
	base = strings.ToUpper(strings.TrimSpace(base))
	if base == "" || strings.Contains(base, ")") {
		return "", "", filterir.NewConfigError(path, "malformed type %q", declared)
	}
	if !found {
		return base, "", nil
	}
	if !strings.HasSuffix(rest, ")") {
		return "", "", filterir.NewConfigError(path, "malformed type %q: missing closing parenthesis", declared)
	}
	return base, strings.TrimSpace(strings.TrimSuffix(rest, ")")), nil
}

func parseSortable(e filterir.Element, path string) (filterir.Direction, error) {
	v, err := filterir.DecodeScalar(e, path)
	if err != nil {
		return "", filterir.NewConfigError(path, "sortable must be a boolean or a direction")
	}
	switch val := v.(type) {
	case nil:
		return filterir.NotSortable, nil
	case bool:
		if val {
			return filterir.Asc, nil
		}
		return filterir.NotSortable, nil
	case string:
		dir, ok := filterir.ParseDirection(val)
		if !ok {
			return "", filterir.NewConfigError(path, "sortable direction must be ASC or DESC, found %q", val)
		}
		return dir, nil
	default:
		return "", filterir.NewConfigError(path, "sortable must be a boolean or a direction, found %v", val)
	}
}

func parseGenerator(s, path string) (Generator, error) {
	switch Generator(strings.ToLower(s)) {
	case GenerateNone:
		return GenerateNone, nil
	case GenerateUUID:
		return GenerateUUID, nil
	default:
		return "", filterir.NewConfigError(path, "unknown generator %q", s)
	}
}

func parseAssociations(e filterir.Element, path string) ([]Association, error) {
	if e.Kind() != filterir.ObjectElement {
		return nil, filterir.NewConfigError(path, "associations must be an object, found %s", e.Describe())
	}

	var (
		out []Association
		err error
	)
	e.Entries(func(name string, value filterir.Element) bool {
		var a Association
		a, err = parseAssociation(name, value, path+"."+name)
		if err != nil {
			return false
		}
		out = append(out, a)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func parseAssociation(name string, e filterir.Element, path string) (Association, error) {
	if e.Kind() != filterir.ObjectElement {
		return Association{}, filterir.NewConfigError(path, "association must be an object, found %s", e.Describe())
	}

	a := Association{Name: name}
	var err error
	e.Entries(func(key string, value filterir.Element) bool {
		keyPath := path + "." + key
		switch key {
		case "type":
			var t string
			t, err = stringValue(value, keyPath)
			a.Type = AssociationType(t)
		case "model":
			a.Model, err = stringValue(value, keyPath)
		case "schema":
			a.Schema, err = stringValue(value, keyPath)
		case "table":
			a.Table, err = stringValue(value, keyPath)
		case "key":
			a.Key, err = stringValue(value, keyPath)
		case "foreign_key", "foreignKey":
			a.ForeignKey, err = stringValue(value, keyPath)
		}
		return err == nil
	})
	if err != nil {
		return Association{}, err
	}

	switch a.Type {
	case HasOne, HasMany, ManyToMany:
	case "":
		return Association{}, filterir.NewConfigError(path+".type", "association %q has no type", name)
	default:
		return Association{}, filterir.NewConfigError(path+".type", "association type must be one of hasOne, hasMany, manyToMany, found %q", a.Type)
	}

	for _, req := range []struct {
		key, value string
	}{
		{"key", a.Key},
		{"schema", a.Schema},
		{"table", a.Table},
	} {
		if req.value == "" {
			return Association{}, filterir.NewConfigError(path+"."+req.key, "association %q has no %s", name, req.key)
		}
	}

	if a.ForeignKey == "" {
		a.ForeignKey = a.Key
	}
	return a, nil
}

func stringValue(e filterir.Element, path string) (string, error) {
	v, err := filterir.DecodeScalar(e, path)
	if err != nil {
		return "", filterir.NewConfigError(path, "expected a string, found %s", e.Describe())
	}
	switch val := v.(type) {
	case string:
		return val, nil
	case nil:
		return "", nil
	default:
		return "", filterir.NewConfigError(path, "expected a string, found %s", fmt.Sprint(val))
	}
}

func boolValue(e filterir.Element, path string) (bool, error) {
	v, err := filterir.DecodeScalar(e, path)
	if err != nil {
		return false, filterir.NewConfigError(path, "expected a boolean, found %s", e.Describe())
	}
	switch val := v.(type) {
	case bool:
		return val, nil
	case nil:
		return false, nil
	default:
		return false, filterir.NewConfigError(path, "expected a boolean, found %s", fmt.Sprint(val))
	}
}
