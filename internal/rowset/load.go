package rowset

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"slices"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"go.yaml.in/yaml/v3"

	"github.com/Iron-Ham/groupview/internal/errors"
)

// Dataset is a set of schema-driven records loaded from a file.
type Dataset struct {
	Accessor *RecordAccessor
	Rows     []Row
}

// List wraps the dataset in an observable List.
func (d *Dataset) List() (*List, error) {
	return NewList(d.Accessor, d.Rows...)
}

// document is the mapping form of a dataset file:
//
//	schema:
//	  Name: string
//	  Score: int
//	rows:
//	  - {Name: alpha, Score: 3}
//
// A file may also be a bare sequence of rows, in which case field types are
// inferred from the values.
type document struct {
	Schema map[string]string `mapstructure:"schema"`
	Rows   []map[string]any  `mapstructure:"rows"`
}

// LoadFile reads a YAML or JSON dataset from path. Entries in schema
// override the file's declared or inferred field types.
func LoadFile(path string, schema map[string]string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	ds, err := Load(f, schema)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return ds, nil
}

// Load reads a YAML or JSON dataset from r.
func Load(r io.Reader, schema map[string]string) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	if len(root.Content) == 0 {
		return &Dataset{Accessor: NewRecordAccessor()}, nil
	}
	node := root.Content[0]

	var raw any
	if err := node.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	var (
		doc   document
		order []string
	)
	switch node.Kind {
	case yaml.SequenceNode:
		if err := decode(map[string]any{"rows": raw}, &doc); err != nil {
			return nil, err
		}
		order = rowKeys(node)
	case yaml.MappingNode:
		if err := decode(raw, &doc); err != nil {
			return nil, err
		}
		if s := mappingValue(node, "schema"); s != nil {
			order = mappingKeys(s)
		}
		if rows := mappingValue(node, "rows"); rows != nil {
			for _, k := range rowKeys(rows) {
				if !slices.Contains(order, k) {
					order = append(order, k)
				}
			}
		}
	default:
		return nil, errors.NewValidationError("dataset must be a mapping or a sequence of rows")
	}

	fields, err := resolveFields(order, doc, schema)
	if err != nil {
		return nil, err
	}
	acc := NewRecordAccessor(fields...)

	rows := make([]Row, 0, len(doc.Rows))
	for i, values := range doc.Rows {
		rec := &Record{values: make(map[string]any, len(values))}
		for _, f := range fields {
			v, ok := values[f.Name]
			if !ok || v == nil {
				rec.values[f.Name] = nil
				continue
			}
			converted, err := Coerce(v, f.Type)
			if err != nil {
				return nil, errors.NewAccessorError(f.Name, err).WithRowIndex(i)
			}
			rec.values[f.Name] = converted
		}
		rows = append(rows, rec)
	}
	return &Dataset{Accessor: acc, Rows: rows}, nil
}

func decode(input any, out *document) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
		TagName:     "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("decode dataset: %w", err)
	}
	return nil
}

func resolveFields(order []string, doc document, overrides map[string]string) ([]Field, error) {
	fields := make([]Field, 0, len(order))
	for _, name := range order {
		typeName := overrides[name]
		if typeName == "" {
			typeName = doc.Schema[name]
		}
		if typeName == "" {
			fields = append(fields, Field{Name: name, Type: inferType(name, doc.Rows)})
			continue
		}
		t, ok := TypeForName(typeName)
		if !ok {
			return nil, errors.NewValidationError(fmt.Sprintf("unknown type for field %s", name)).
				WithField("schema." + name).
				WithValue(typeName)
		}
		fields = append(fields, Field{Name: name, Type: t})
	}
	return fields, nil
}

// inferType picks a schema type from the first non-nil value of name.
func inferType(name string, rows []map[string]any) reflect.Type {
	for _, row := range rows {
		switch row[name].(type) {
		case nil:
			continue
		case bool:
			return schemaTypes["bool"]
		case int, int64, uint64:
			return schemaTypes["int"]
		case float64:
			return schemaTypes["float"]
		case time.Time:
			return timeType
		default:
			return schemaTypes["string"]
		}
	}
	return schemaTypes["string"]
}

func mappingKeys(n *yaml.Node) []string {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	keys := make([]string, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keys = append(keys, n.Content[i].Value)
	}
	return keys
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

// rowKeys returns field names in order of first appearance across rows.
func rowKeys(seq *yaml.Node) []string {
	var keys []string
	for _, row := range seq.Content {
		for _, k := range mappingKeys(row) {
			if !slices.Contains(keys, k) {
				keys = append(keys, k)
			}
		}
	}
	return keys
}
