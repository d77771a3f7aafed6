package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/poiesic/winregi/core"
	"gopkg.in/yaml.v3"
)

// Document is the on-disk YAML form of a catalog.
type Document struct {
	Categories []CategoryDoc `yaml:"categories" validate:"required,min=1,dive"`
	Entries    []EntryDoc    `yaml:"entries" validate:"required,min=1,dive"`
}

// CategoryDoc is the YAML form of a core.Category.
type CategoryDoc struct {
	ID          string `yaml:"id" validate:"required"`
	Name        string `yaml:"name" validate:"required"`
	Description string `yaml:"description,omitempty"`
}

// EntryDoc is the YAML form of a core.SettingEntry.
type EntryDoc struct {
	ID          string      `yaml:"id" validate:"required"`
	Name        string      `yaml:"name" validate:"required"`
	Description string      `yaml:"description,omitempty"`
	Category    string      `yaml:"category" validate:"required"`
	Risk        string      `yaml:"risk" validate:"required,oneof=safe reversible caution"`
	Keywords    []string    `yaml:"keywords,omitempty" validate:"omitempty,dive,required"`
	Tags        []string    `yaml:"tags,omitempty" validate:"omitempty,dive,required"`
	Actions     []ActionDoc `yaml:"actions" validate:"required,min=1,dive"`
}

// ActionDoc is the YAML form of a core.Action.
type ActionDoc struct {
	ID          string        `yaml:"id" validate:"required"`
	Name        string        `yaml:"name,omitempty"`
	Description string        `yaml:"description,omitempty"`
	Kind        string        `yaml:"kind" validate:"required,oneof=registry-write powershell-command control-panel-link settings-uri"`
	Registry    []RegistryDoc `yaml:"registry,omitempty" validate:"omitempty,dive"`
	Script      string        `yaml:"script,omitempty"`
	URI         string        `yaml:"uri,omitempty"`
	Reversible  bool          `yaml:"reversible,omitempty"`
	Default     bool          `yaml:"default,omitempty"`
	Effect      string        `yaml:"effect,omitempty" validate:"omitempty,oneof=enable disable"`
}

// RegistryDoc is the YAML form of a core.RegistryValue.
type RegistryDoc struct {
	Path string `yaml:"path" validate:"required"`
	Name string `yaml:"name"`
	Type string `yaml:"type" validate:"required"`
	Data string `yaml:"data"`
}

var documentValidator = validator.New(validator.WithRequiredStructEnabled())

// Parse decodes and validates a YAML catalog document into a Snapshot.
func Parse(data []byte) (*Snapshot, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return doc.Snapshot()
}

// Snapshot validates the document and converts it to a Snapshot.
func (d *Document) Snapshot() (*Snapshot, error) {
	if err := documentValidator.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return nil, fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(fields, ", "))
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	categories := make([]*core.Category, 0, len(d.Categories))
	for _, c := range d.Categories {
		categories = append(categories, &core.Category{Id: c.ID, Name: c.Name, Description: c.Description})
	}

	entries := make([]*core.SettingEntry, 0, len(d.Entries))
	for _, e := range d.Entries {
		entry, err := e.toCore()
		if err != nil {
			return nil, fmt.Errorf("%w: entry %s: %w", ErrInvalidDocument, e.ID, err)
		}
		entries = append(entries, entry)
	}

	snapshot, err := NewSnapshot(categories, entries)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return snapshot, nil
}

func (e EntryDoc) toCore() (*core.SettingEntry, error) {
	risk, err := core.ParseRiskLevel(e.Risk)
	if err != nil {
		return nil, err
	}

	entry := &core.SettingEntry{
		Id:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		CategoryId:  e.Category,
		Keywords:    e.Keywords,
		Tags:        e.Tags,
		Risk:        risk,
		Actions:     make([]core.Action, 0, len(e.Actions)),
	}
	for _, a := range e.Actions {
		kind, err := core.ParseActionKind(a.Kind)
		if err != nil {
			return nil, err
		}
		effect, err := core.ParseActionEffect(a.Effect)
		if err != nil {
			return nil, err
		}
		action := core.Action{
			Id:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Kind:        kind,
			Script:      a.Script,
			URI:         a.URI,
			Reversible:  a.Reversible,
			Default:     a.Default,
			Effect:      effect,
		}
		for _, r := range a.Registry {
			action.Registry = append(action.Registry, core.RegistryValue{
				Path: r.Path,
				Name: r.Name,
				Type: strings.ToUpper(r.Type),
				Data: r.Data,
			})
		}
		entry.Actions = append(entry.Actions, action)
	}
	return entry, nil
}

// NewDocument converts catalog content back into its YAML form.
func NewDocument(categories []*core.Category, entries []*core.SettingEntry) *Document {
	doc := &Document{
		Categories: make([]CategoryDoc, 0, len(categories)),
		Entries:    make([]EntryDoc, 0, len(entries)),
	}
	for _, c := range categories {
		doc.Categories = append(doc.Categories, CategoryDoc{ID: c.Id, Name: c.Name, Description: c.Description})
	}
	for _, e := range entries {
		ed := EntryDoc{
			ID:          e.Id,
			Name:        e.Name,
			Description: e.Description,
			Category:    e.CategoryId,
			Risk:        e.Risk.String(),
			Keywords:    e.Keywords,
			Tags:        e.Tags,
		}
		for _, a := range e.Actions {
			ad := ActionDoc{
				ID:          a.Id,
				Name:        a.Name,
				Description: a.Description,
				Kind:        a.Kind.String(),
				Script:      a.Script,
				URI:         a.URI,
				Reversible:  a.Reversible,
				Default:     a.Default,
				Effect:      a.Effect.String(),
			}
			for _, r := range a.Registry {
				ad.Registry = append(ad.Registry, RegistryDoc{Path: r.Path, Name: r.Name, Type: r.Type, Data: r.Data})
			}
			ed.Actions = append(ed.Actions, ad)
		}
		doc.Entries = append(doc.Entries, ed)
	}
	return doc
}

// Export encodes a snapshot as a YAML catalog document.
func Export(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(s.Categories(), s.Entries())); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
