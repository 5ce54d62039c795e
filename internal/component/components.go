package component

// Stock components. Pure data; constructors exist only where a template
// must go through them (ctor-only fields).

// Position is a value component: built from its zero value and patched.
type Position struct {
	X       int32
	Y       int32
	MapID   int16
	Heading int16
}

// Health starts full: the constructor copies Max into Current.
type Health struct {
	Current int32
	Max     int32
	Regen   float64
}

func NewHealth(max int32) *Health {
	return &Health{Current: max, Max: max}
}

// Nameplate's name is fixed at construction.
type Nameplate struct {
	name    string
	Title   string
	Visible bool
}

func NewNameplate(name string) *Nameplate {
	return &Nameplate{name: name, Visible: true}
}

func (n *Nameplate) Name() string { return n.name }

// Faction is the allegiance of an entity.
type Faction uint8

const (
	FactionNeutral Faction = iota
	FactionLawful
	FactionChaotic
	FactionMonster
)

// Allegiance is a value component carrying an enum.
type Allegiance struct {
	Faction Faction
	Lawful  int32
}

// Appearance has no parameterless constructor; templates that do not name
// its constructor parameter get the zero value. Usually declared shared.
type Appearance struct {
	GfxID   int32
	Palette string
	Scale   float64
}

func NewAppearance(gfxID int32) *Appearance {
	return &Appearance{GfxID: gfxID, Scale: 1}
}

// Loot carries an opaque drop table straight from template data.
type Loot struct {
	Gold  int64
	Table map[string]any
}
