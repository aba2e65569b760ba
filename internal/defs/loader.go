// internal/defs/loader.go
package defs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const (
	RacesFile   = "races.json"
	ArmorFile   = "armor.json"
	EnemiesFile = "enemies.json"
)

// WavesFile returns the wave table file name for a game mode.
func WavesFile(mode string) string {
	return fmt.Sprintf("waves_%s.json", mode)
}

// Library is every data table the simulation reads.
type Library struct {
	Mode    string
	Races   map[string]*Race
	Armor   ArmorTable
	Enemies map[string]*EnemyDefinition
	Waves   []WaveDefinition

	towers map[string]*TowerDefinition
}

func readJSON(path, what string, v interface{}) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s file: %w", what, err)
	}
	if err := json.Unmarshal(file, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", what, wrapInvalid(err))
	}
	return nil
}

func wrapInvalid(err error) error {
	if isInvalid(err) {
		return err
	}
	return invalid("%v", err)
}

// LoadRaces reads the races table and validates every tower in it.
func LoadRaces(path string) (map[string]*Race, error) {
	var races map[string]*Race
	if err := readJSON(path, "race definitions", &races); err != nil {
		return nil, err
	}
	for raceID, race := range races {
		if race == nil {
			return nil, invalid("race %q is null", raceID)
		}
		race.ID = raceID
		if race.Name == "" {
			race.Name = raceID
		}
		for towerID, def := range race.Towers {
			if def == nil {
				return nil, invalid("race %q tower %q is null", raceID, towerID)
			}
			def.ID = towerID
			def.Race = raceID
			if err := def.Validate(); err != nil {
				return nil, err
			}
		}
	}
	return races, nil
}

// LoadArmor reads the armor damage modifier table.
func LoadArmor(path string) (ArmorTable, error) {
	var armor ArmorTable
	if err := readJSON(path, "armor definitions", &armor); err != nil {
		return nil, err
	}
	return armor, nil
}

// LoadEnemies reads the enemy table.
func LoadEnemies(path string) (map[string]*EnemyDefinition, error) {
	var enemies map[string]*EnemyDefinition
	if err := readJSON(path, "enemy definitions", &enemies); err != nil {
		return nil, err
	}
	for id, def := range enemies {
		if def == nil {
			return nil, invalid("enemy %q is null", id)
		}
		def.ID = id
		if err := def.Validate(); err != nil {
			return nil, err
		}
	}
	return enemies, nil
}

// LoadWaves reads an ordered wave file.
func LoadWaves(path string) ([]WaveDefinition, error) {
	var waves []WaveDefinition
	if err := readJSON(path, "wave definitions", &waves); err != nil {
		return nil, err
	}
	return waves, nil
}

// LoadLibrary loads every table under dir for the given mode and cross-checks them.
func LoadLibrary(dir, mode string) (*Library, error) {
	races, err := LoadRaces(filepath.Join(dir, RacesFile))
	if err != nil {
		return nil, err
	}
	armor, err := LoadArmor(filepath.Join(dir, ArmorFile))
	if err != nil {
		return nil, err
	}
	enemies, err := LoadEnemies(filepath.Join(dir, EnemiesFile))
	if err != nil {
		return nil, err
	}
	waves, err := LoadWaves(filepath.Join(dir, WavesFile(mode)))
	if err != nil {
		return nil, err
	}
	lib := &Library{Mode: mode, Races: races, Armor: armor, Enemies: enemies, Waves: waves}
	if err := lib.Validate(); err != nil {
		return nil, err
	}
	return lib, nil
}

// Validate cross-checks references between tables and builds the tower index.
func (l *Library) Validate() error {
	l.towers = make(map[string]*TowerDefinition)
	for _, raceID := range l.RaceIDs() {
		race := l.Races[raceID]
		for _, towerID := range race.TowerIDs() {
			if _, dup := l.towers[towerID]; dup {
				return invalid("tower id %q defined by more than one race", towerID)
			}
			l.towers[towerID] = race.Towers[towerID]
		}
	}
	for id, e := range l.Enemies {
		if e.ArmorType != "" {
			if _, ok := l.Armor[e.ArmorType]; !ok {
				return invalid("enemy %q: unknown armor type %q", id, e.ArmorType)
			}
		}
	}
	for i := range l.Waves {
		if err := l.Waves[i].validate(i, l.Enemies); err != nil {
			return err
		}
	}
	return nil
}

// Tower looks up a tower definition by id across all races.
func (l *Library) Tower(id string) (*TowerDefinition, bool) {
	def, ok := l.towers[id]
	return def, ok
}

// RaceIDs returns race ids in stable order.
func (l *Library) RaceIDs() []string {
	ids := make([]string, 0, len(l.Races))
	for id := range l.Races {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Enemy looks up an enemy definition.
func (l *Library) Enemy(id string) (*EnemyDefinition, bool) {
	def, ok := l.Enemies[id]
	return def, ok
}
