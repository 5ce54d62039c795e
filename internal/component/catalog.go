package component

import "github.com/l1jgo/entityforge/internal/types"

// Component types available to templates, by the names template files use.
var (
	PositionType   = definePosition()
	HealthType     = defineHealth()
	NameplateType  = defineNameplate()
	AllegianceType = defineAllegiance()
	AppearanceType = defineAppearance()
	LootType       = defineLoot()
)

// Register adds the stock component types to reg.
func Register(reg *types.Registry) error {
	for _, t := range []*types.Type{PositionType, HealthType, NameplateType, AllegianceType, AppearanceType, LootType} {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}

func definePosition() *types.Type {
	b := types.Define[Position]("Position", types.ByValue)
	types.NumberOf(b, "X", func(c *Position) *int32 { return &c.X })
	types.NumberOf(b, "Y", func(c *Position) *int32 { return &c.Y })
	types.NumberOf(b, "MapID", func(c *Position) *int16 { return &c.MapID })
	types.NumberOf(b, "Heading", func(c *Position) *int16 { return &c.Heading })
	return b.Build()
}

func defineHealth() *types.Type {
	b := types.Define[Health]("Health", types.ByReference).
		New(func() *Health { return &Health{} })
	types.Constructor(b, []types.Param{types.IntP("max")}, func(a types.Args) *Health {
		return NewHealth(int32(a.Int(0)))
	})
	types.NumberOf(b, "Current", func(c *Health) *int32 { return &c.Current })
	types.NumberOf(b, "Max", func(c *Health) *int32 { return &c.Max })
	types.NumberOf(b, "Regen", func(c *Health) *float64 { return &c.Regen })
	return b.Build()
}

func defineNameplate() *types.Type {
	b := types.Define[Nameplate]("Nameplate", types.ByReference)
	types.Constructor(b, []types.Param{types.P("name", types.KindString)}, func(a types.Args) *Nameplate {
		return NewNameplate(a.Text(0))
	})
	types.Text(b, "Title", func(c *Nameplate) *string { return &c.Title })
	types.Flag(b, "Visible", func(c *Nameplate) *bool { return &c.Visible })
	return b.Build()
}

func defineAllegiance() *types.Type {
	b := types.Define[Allegiance]("Allegiance", types.ByValue)
	types.EnumOf(b, "Faction", func(c *Allegiance) *Faction { return &c.Faction },
		"Neutral", "Lawful", "Chaotic", "Monster")
	types.NumberOf(b, "Lawful", func(c *Allegiance) *int32 { return &c.Lawful })
	return b.Build()
}

func defineAppearance() *types.Type {
	b := types.Define[Appearance]("Appearance", types.ByReference)
	types.Constructor(b, []types.Param{types.IntP("gfxID")}, func(a types.Args) *Appearance {
		return NewAppearance(int32(a.Int(0)))
	})
	types.NumberOf(b, "GfxID", func(c *Appearance) *int32 { return &c.GfxID })
	types.Text(b, "Palette", func(c *Appearance) *string { return &c.Palette })
	types.NumberOf(b, "Scale", func(c *Appearance) *float64 { return &c.Scale })
	return b.Build()
}

func defineLoot() *types.Type {
	b := types.Define[Loot]("Loot", types.ByReference).
		New(func() *Loot { return &Loot{Table: map[string]any{}} })
	types.NumberOf(b, "Gold", func(c *Loot) *int64 { return &c.Gold })
	types.OpaqueOf(b, "Table", func(c *Loot) *map[string]any { return &c.Table })
	return b.Build()
}
