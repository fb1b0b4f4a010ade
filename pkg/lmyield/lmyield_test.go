package lmyield

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-yaml"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testdataPath(parts ...string) string {
	return filepath.Join("..", "..", "testdata", "lmyield", filepath.Join(parts...))
}

func readTestdata(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(testdataPath(name))
	if err != nil {
		t.Fatalf("read testdata: %v", err)
	}
	return string(data)
}

func loadBogus(t *testing.T) *Template {
	t.Helper()
	var vars map[string]string
	if err := yaml.Unmarshal([]byte(readTestdata(t, "bogus_vars.yaml")), &vars); err != nil {
		t.Fatalf("unmarshal vars: %v", err)
	}
	tmpl, err := Compile(readTestdata(t, "bogus.tmpl"), vars)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return tmpl
}

// named drops the instruction so results compare by name and value.
func named(ys []Yield) []Yield {
	out := make([]Yield, len(ys))
	for i, y := range ys {
		out[i] = Yield{Name: y.Name, Value: y.Value}
	}
	return out
}

func wantBogusYields(t *testing.T) []Yield {
	t.Helper()
	var want []Yield
	if err := yaml.Unmarshal([]byte(readTestdata(t, "bogus_yields.yaml")), &want); err != nil {
		t.Fatalf("unmarshal yields: %v", err)
	}
	return want
}
