package rowset

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/Iron-Ham/groupview/internal/errors"
)

func fieldNames(fields []Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

func TestLoad_MappingWithSchema(t *testing.T) {
	input := `
schema:
  Name: string
  Score: int
  Ratio: float
rows:
  - {Name: alpha, Score: "3", Ratio: 0.5}
  - {Name: beta, Score: 7}
  - {Name: gamma, Team: red}
`
	ds, err := Load(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got, want := fieldNames(ds.Accessor.Fields()), []string{"Name", "Score", "Ratio", "Team"}; !reflect.DeepEqual(got, want) {
		t.Errorf("fields = %v, want %v", got, want)
	}
	if len(ds.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(ds.Rows))
	}
	if v, _ := ds.Accessor.Get(ds.Rows[0], "Score"); v != 3 {
		t.Errorf("Score coerced = %#v, want 3", v)
	}
	if v, _ := ds.Accessor.Get(ds.Rows[1], "Ratio"); v != nil {
		t.Errorf("missing Ratio = %#v, want nil", v)
	}
	if f, _ := ds.Accessor.Field("Team"); f.Type != reflect.TypeFor[string]() {
		t.Errorf("inferred Team type = %v, want string", f.Type)
	}
}

func TestLoad_SequenceInfersTypes(t *testing.T) {
	input := `[{"city": "Oslo", "pop": 709000, "capital": true, "area": 454.0}]`
	ds, err := Load(strings.NewReader(input), map[string]string{"pop": "float"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := map[string]reflect.Type{
		"city":    reflect.TypeFor[string](),
		"pop":     reflect.TypeFor[float64](),
		"capital": reflect.TypeFor[bool](),
		"area":    reflect.TypeFor[float64](),
	}
	for name, typ := range want {
		f, ok := ds.Accessor.Field(name)
		if !ok || f.Type != typ {
			t.Errorf("field %s = %v, want %v", name, f.Type, typ)
		}
	}
	if v, _ := ds.Accessor.Get(ds.Rows[0], "pop"); v != 709000.0 {
		t.Errorf("pop = %#v, want 709000.0", v)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		is    error
	}{
		{"unknown top-level key", "rows: []\ncolumns: [a]\n", nil},
		{"unknown schema type", "schema: {a: decimal}\nrows: [{a: 1}]\n", errors.ErrInvalidInput},
		{"bad value", "schema: {a: int}\nrows: [{a: many}]\n", errors.ErrAccessorFailed},
		{"scalar document", "42\n", errors.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input), nil)
			if err == nil {
				t.Fatal("Load() error = nil")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("Load() error = %v, want %v", err, tt.is)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	if err := os.WriteFile(path, []byte("- {n: 1}\n- {n: 2}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ds, err := LoadFile(path, nil)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	l, err := ds.List()
	if err != nil || l.Len() != 2 {
		t.Fatalf("List() = %v rows, %v", l.Len(), err)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Error("LoadFile(missing) error = nil")
	}
}

func TestLoad_Empty(t *testing.T) {
	ds, err := Load(strings.NewReader(""), nil)
	if err != nil {
		t.Fatalf("Load(empty) error = %v", err)
	}
	if len(ds.Rows) != 0 || len(ds.Accessor.Fields()) != 0 {
		t.Errorf("empty dataset = %+v", ds)
	}
}
