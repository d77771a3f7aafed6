package sqlite

import "github.com/poiesic/winregi/core"

type categoryRow struct {
	ID          string `gorm:"primaryKey"`
	Position    int    `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Description string
}

func (categoryRow) TableName() string { return "categories" }

type entryRow struct {
	ID          string   `gorm:"primaryKey"`
	Position    int      `gorm:"not null;index"`
	Name        string   `gorm:"not null"`
	Description string
	CategoryID  string   `gorm:"not null;index"`
	Risk        string   `gorm:"not null"`
	Keywords    []string `gorm:"serializer:json"`
	Tags        []string `gorm:"serializer:json"`
	Actions     []actionRow `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE"`
}

func (entryRow) TableName() string { return "entries" }

type actionRow struct {
	EntryID     string `gorm:"primaryKey"`
	ID          string `gorm:"primaryKey"`
	Position    int    `gorm:"not null"`
	Name        string
	Description string
	Kind        string              `gorm:"not null"`
	Registry    []core.RegistryValue `gorm:"serializer:json"`
	Script      string
	URI         string
	Reversible  bool
	IsDefault   bool
	Effect      string
}

func (actionRow) TableName() string { return "actions" }

func newEntryRow(position int, e *core.SettingEntry) entryRow {
	row := entryRow{
		ID:          e.Id,
		Position:    position,
		Name:        e.Name,
		Description: e.Description,
		CategoryID:  e.CategoryId,
		Risk:        e.Risk.String(),
		Keywords:    e.Keywords,
		Tags:        e.Tags,
		Actions:     make([]actionRow, 0, len(e.Actions)),
	}
	for i, a := range e.Actions {
		row.Actions = append(row.Actions, actionRow{
			EntryID:     e.Id,
			ID:          a.Id,
			Position:    i,
			Name:        a.Name,
			Description: a.Description,
			Kind:        a.Kind.String(),
			Registry:    a.Registry,
			Script:      a.Script,
			URI:         a.URI,
			Reversible:  a.Reversible,
			IsDefault:   a.Default,
			Effect:      a.Effect.String(),
		})
	}
	return row
}

func (r entryRow) toCore() (*core.SettingEntry, error) {
	risk, err := core.ParseRiskLevel(r.Risk)
	if err != nil {
		return nil, err
	}
	entry := &core.SettingEntry{
		Id:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CategoryId:  r.CategoryID,
		Keywords:    r.Keywords,
		Tags:        r.Tags,
		Risk:        risk,
		Actions:     make([]core.Action, 0, len(r.Actions)),
	}
	for _, a := range r.Actions {
		kind, err := core.ParseActionKind(a.Kind)
		if err != nil {
			return nil, err
		}
		effect, err := core.ParseActionEffect(a.Effect)
		if err != nil {
			return nil, err
		}
		entry.Actions = append(entry.Actions, core.Action{
			Id:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Kind:        kind,
			Registry:    a.Registry,
			Script:      a.Script,
			URI:         a.URI,
			Reversible:  a.Reversible,
			Default:     a.IsDefault,
			Effect:      effect,
		})
	}
	return entry, nil
}
