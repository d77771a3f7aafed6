// Command musgen regenerates core/records_mus.gen.go, the mus serializers for
// the persisted preference records. Run it through go generate in core.
package main

import (
	"os"
	"path/filepath"
	"reflect"
	"slices"

	musgen "github.com/mus-format/musgen-go/mus"
	genops "github.com/mus-format/musgen-go/options/generate"
	structops "github.com/mus-format/musgen-go/options/struct"
	typeops "github.com/mus-format/musgen-go/options/type"
	"github.com/poiesic/winregi/core"
)

// record describes one struct to generate. Fields listed in timestamps are
// encoded as Unix microseconds.
type record struct {
	typ        reflect.Type
	timestamps []string
}

var records = []record{
	{typ: reflect.TypeFor[core.Profile](), timestamps: []string{"CreatedAt", "UpdatedAt"}},
	{typ: reflect.TypeFor[core.HistoryEntry](), timestamps: []string{"Timestamp"}},
	{typ: reflect.TypeFor[core.AppliedAction](), timestamps: []string{"Timestamp"}},
}

func main() {
	out := "records_mus.gen.go"
	// go generate runs in core; a manual run from the module root writes there too.
	if filepath.Base(mustGetwd()) != "core" {
		out = filepath.Join("core", out)
	}

	g, err := musgen.NewCodeGenerator(
		genops.WithPkgPath("github.com/poiesic/winregi/core"),
	)
	if err != nil {
		panic(err)
	}

	g.AddDefinedType(reflect.TypeFor[core.ID]())
	g.AddDefinedType(reflect.TypeFor[core.ApplyState]())

	plain := structops.WithField()
	micro := structops.WithField(typeops.WithTimeUnit(typeops.Micro))
	for _, r := range records {
		if err := g.AddStruct(r.typ, fieldOptions(r, plain, micro)...); err != nil {
			panic(err)
		}
	}

	bs, err := g.Generate()
	if err != nil {
		panic(err)
	}
	if err := os.WriteFile(out, bs, 0o644); err != nil {
		panic(err)
	}
}

// fieldOptions returns one option per struct field, in field order.
func fieldOptions[T any](r record, plain, micro T) []T {
	opts := make([]T, r.typ.NumField())
	for i := range opts {
		opts[i] = plain
		if slices.Contains(r.timestamps, r.typ.Field(i).Name) {
			opts[i] = micro
		}
	}
	return opts
}

func mustGetwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return cwd
}
