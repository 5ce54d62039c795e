package data_test

import (
	"testing"

	"github.com/l1jgo/entityforge/internal/builder"
	"github.com/l1jgo/entityforge/internal/component"
	"github.com/l1jgo/entityforge/internal/core/ecs"
	"github.com/l1jgo/entityforge/internal/data"
	"github.com/l1jgo/entityforge/internal/factory"
	"github.com/l1jgo/entityforge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLegacy() data.LegacyFiles {
	return data.LegacyFiles{
		NpcList:   "../../data/legacy/npc_list.yaml",
		SpawnList: "../../data/legacy/spawn_list.yaml",
		DropList:  "../../data/legacy/drop_list.yaml",
	}
}

func stockRegistry(t *testing.T) *types.Registry {
	t.Helper()
	reg := types.NewRegistry()
	require.NoError(t, component.Register(reg))
	return reg
}

func TestLoadLegacy(t *testing.T) {
	store, err := data.LoadLegacy(sampleLegacy(), stockRegistry(t), data.LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"npc:45008", "npc:45015", "npc:70014", "spawn:0", "spawn:1"}, store.EntityNames())
	assert.Equal(t, []string{"gfx:1203", "gfx:851"}, store.ComponentNames(), "appearances are shared per gfx")

	orc, ok := store.ResolveEntity(data.NpcTemplateName(45008))
	require.True(t, ok)
	archer, _ := store.ResolveEntity(data.NpcTemplateName(45015))
	assert.Same(t, orc.Components[2], archer.Components[2])
	assert.Len(t, orc.Components, 6, "orc has a drop list")
	assert.Len(t, archer.Components, 5)

	spawn, _ := store.ResolveEntity(data.SpawnTemplateName(0))
	assert.Equal(t, []string{"npc:45008", "npc:45008", "npc:45008"}, spawn.Children)
}

func TestLegacySpawnBuildsGroup(t *testing.T) {
	store, err := data.LoadLegacy(sampleLegacy(), stockRegistry(t), data.LoadOptions{})
	require.NoError(t, err)
	w := ecs.NewWorld()
	b := builder.New(store, w, factory.New(store, nil), nil)

	root, ok, err := b.TryCreateByName(data.SpawnTemplateName(0))
	require.NoError(t, err)
	require.True(t, ok)

	pos, _ := ecs.Get[component.Position](w, root)
	assert.Equal(t, component.Position{X: 32810, Y: 32740, MapID: 4, Heading: 2}, pos)

	orcs := w.Children(root)
	require.Len(t, orcs, 3)
	for _, id := range orcs {
		hp, _ := ecs.Get[*component.Health](w, id)
		assert.Equal(t, int32(40), hp.Current)
		al, _ := ecs.Get[component.Allegiance](w, id)
		assert.Equal(t, component.Allegiance{Faction: component.FactionMonster, Lawful: -500}, al)
		loot, _ := ecs.Get[*component.Loot](w, id)
		assert.Equal(t, int64(20), loot.Gold)
		assert.Equal(t, map[string]any{"40010": 0.05}, loot.Table)
		plate, _ := ecs.Get[*component.Nameplate](w, id)
		assert.Equal(t, "Orc", plate.Name())
		assert.Equal(t, "$936", plate.Title)
	}

	guard, ok, err := b.TryCreateByName(data.NpcTemplateName(70014))
	require.NoError(t, err)
	require.True(t, ok)
	al, _ := ecs.Get[component.Allegiance](w, guard)
	assert.Equal(t, component.FactionLawful, al.Faction)
}

func TestLoadLegacyNeedsStockTypes(t *testing.T) {
	_, err := data.LoadLegacy(sampleLegacy(), types.NewRegistry(), data.LoadOptions{})
	assert.ErrorIs(t, err, data.ErrUnknownType)
}

func TestLoadLegacyNpcListOnly(t *testing.T) {
	store, err := data.LoadLegacy(data.LegacyFiles{NpcList: sampleLegacy().NpcList}, stockRegistry(t), data.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, store.EntityCount())
}
