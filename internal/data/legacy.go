package data

import (
	"fmt"
	"strconv"

	"github.com/l1jgo/entityforge/internal/template"
	"github.com/l1jgo/entityforge/internal/types"
	"golang.org/x/sync/errgroup"
)

// LegacyFiles names the tables exported from the legacy server by sqlconv.
// Only NpcList is required.
type LegacyFiles struct {
	NpcList   string
	SpawnList string
	DropList  string
}

// NpcRow is one row of npc_list.yaml.
type NpcRow struct {
	NpcID  int32  `yaml:"npc_id"`
	Name   string `yaml:"name"`
	NameID string `yaml:"nameid"`
	Impl   string `yaml:"impl"` // L1Monster, L1Merchant, L1Guard, etc.
	GfxID  int32  `yaml:"gfx_id"`
	HP     int32  `yaml:"hp"`
	Lawful int32  `yaml:"lawful"`
}

// SpawnRow defines where and how many NPCs to spawn.
type SpawnRow struct {
	NpcID   int32 `yaml:"npc_id"`
	MapID   int16 `yaml:"map_id"`
	X       int32 `yaml:"x"`
	Y       int32 `yaml:"y"`
	Count   int   `yaml:"count"`
	Heading int16 `yaml:"heading"`
}

// DropRow is a single possible drop from a mob.
type DropRow struct {
	ItemID int32 `yaml:"item_id"`
	Min    int   `yaml:"min"`
	Max    int   `yaml:"max"`
	Chance int   `yaml:"chance"` // out of 1,000,000 (100% = 1000000)
}

// adenaItemID is the gold item; its drop range becomes Loot.Gold.
const adenaItemID = 40308

type npcListFile struct {
	Npcs []NpcRow `yaml:"npcs"`
}

type spawnListFile struct {
	Spawns []SpawnRow `yaml:"spawns"`
}

type mobDropEntry struct {
	MobID int32     `yaml:"mob_id"`
	Items []DropRow `yaml:"items"`
}

type dropListFile struct {
	Drops []mobDropEntry `yaml:"drops"`
}

// NpcTemplateName is the entity template name of an imported NPC.
func NpcTemplateName(npcID int32) string {
	return "npc:" + strconv.Itoa(int(npcID))
}

// SpawnTemplateName is the entity template name of the i-th spawn group.
func SpawnTemplateName(i int) string {
	return "spawn:" + strconv.Itoa(i)
}

// LoadLegacy converts legacy NPC, spawn and drop tables into templates.
// Every NPC becomes an entity template named by NpcTemplateName; every spawn
// row becomes a group entity at the spawn point with Count children of that
// NPC. Appearances are shared per graphics ID. The component types Health,
// Nameplate, Appearance, Allegiance, Loot and Position must be registered.
func LoadLegacy(files LegacyFiles, reg *types.Registry, opts LoadOptions) (*template.MapStore, error) {
	dec, err := decoderFor(opts.Encoding)
	if err != nil {
		return nil, err
	}
	lt, err := legacyTypesFrom(reg)
	if err != nil {
		return nil, err
	}

	var (
		npcs   npcListFile
		spawns spawnListFile
		drops  dropListFile
		g      errgroup.Group
	)
	g.Go(func() error { return readYAML(files.NpcList, dec, &npcs) })
	if files.SpawnList != "" {
		g.Go(func() error { return readYAML(files.SpawnList, dec, &spawns) })
	}
	if files.DropList != "" {
		g.Go(func() error { return readYAML(files.DropList, dec, &drops) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dropsByMob := make(map[int32][]DropRow, len(drops.Drops))
	for _, d := range drops.Drops {
		dropsByMob[d.MobID] = append(dropsByMob[d.MobID], d.Items...)
	}

	store := template.NewMapStore()
	known := make(map[int32]bool, len(npcs.Npcs))
	for i := range npcs.Npcs {
		npc := &npcs.Npcs[i]
		known[npc.NpcID] = true
		store.AddEntity(lt.npcEntity(store, npc, dropsByMob[npc.NpcID]))
	}
	for i, sp := range spawns.Spawns {
		if !known[sp.NpcID] || sp.Count <= 0 {
			continue
		}
		store.AddEntity(lt.spawnEntity(i, sp))
	}
	return store, nil
}

type legacyTypes struct {
	health, nameplate, appearance, allegiance, loot, position *types.Type
}

func legacyTypesFrom(reg *types.Registry) (*legacyTypes, error) {
	lt := &legacyTypes{}
	for name, dst := range map[string]**types.Type{
		"Health":     &lt.health,
		"Nameplate":  &lt.nameplate,
		"Appearance": &lt.appearance,
		"Allegiance": &lt.allegiance,
		"Loot":       &lt.loot,
		"Position":   &lt.position,
	} {
		if *dst = reg.Lookup(name); *dst == nil {
			return nil, fmt.Errorf("legacy import: %w %q", ErrUnknownType, name)
		}
	}
	return lt, nil
}

func (lt *legacyTypes) npcEntity(store *template.MapStore, npc *NpcRow, drops []DropRow) *template.Entity {
	skinName := "gfx:" + strconv.Itoa(int(npc.GfxID))
	skin, ok := store.ResolveComponent(skinName)
	if !ok {
		skin = &template.Component{
			Name:     skinName,
			Type:     lt.appearance,
			Shared:   true,
			Defaults: template.D("gfxID", npc.GfxID),
		}
		store.AddComponent(skin)
	}

	e := &template.Entity{
		Name: NpcTemplateName(npc.NpcID),
		Components: []*template.Component{
			{Type: lt.health, Defaults: template.D("max", npc.HP)},
			{Type: lt.nameplate, Defaults: template.D("name", npc.Name, "Title", npc.NameID)},
			skin,
			{Type: lt.allegiance, Defaults: template.D("Faction", factionOf(npc.Impl), "Lawful", npc.Lawful)},
			{Type: lt.position},
		},
	}
	if len(drops) > 0 {
		e.Components = append(e.Components, lt.lootFrom(drops))
	}
	return e
}

func (lt *legacyTypes) lootFrom(drops []DropRow) *template.Component {
	table := make(map[string]any, len(drops))
	var gold int64
	for _, d := range drops {
		if d.ItemID == adenaItemID {
			gold = int64(d.Min+d.Max) / 2
			continue
		}
		table[strconv.Itoa(int(d.ItemID))] = float64(d.Chance) / 1e6
	}
	return &template.Component{Type: lt.loot, Defaults: template.D("Gold", gold, "Table", table)}
}

func (lt *legacyTypes) spawnEntity(i int, sp SpawnRow) *template.Entity {
	children := make([]string, sp.Count)
	for j := range children {
		children[j] = NpcTemplateName(sp.NpcID)
	}
	return &template.Entity{
		Name:     SpawnTemplateName(i),
		Children: children,
		Components: []*template.Component{{
			Type:     lt.position,
			Defaults: template.D("X", sp.X, "Y", sp.Y, "MapID", sp.MapID, "Heading", sp.Heading),
		}},
	}
}

// factionOf maps the legacy implementation class to an Allegiance faction
// member name.
func factionOf(impl string) string {
	switch impl {
	case "L1Monster", "L1Scarecrow":
		return "Monster"
	case "L1Guard", "L1Guardian":
		return "Lawful"
	}
	return "Neutral"
}
