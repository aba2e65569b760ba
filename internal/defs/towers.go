// internal/defs/towers.go
package defs

import (
	"encoding/json"
	"sort"
)

// StatBlock overrides the damage range against one target type.
type StatBlock struct {
	DamageMin float64 `json:"damage_min"`
	DamageMax float64 `json:"damage_max"`
}

// TowerDefinition holds the static stats of a tower type.
type TowerDefinition struct {
	ID                  string     `json:"-"`
	Race                string     `json:"-"`
	Name                string     `json:"name"`
	GridWidth           int        `json:"grid_width"`
	GridHeight          int        `json:"grid_height"`
	Cost                int        `json:"cost"`
	DamageMin           float64    `json:"damage_min"`
	DamageMax           float64    `json:"damage_max"`
	AttackInterval      float64    `json:"attack_interval"`
	Range               float64    `json:"range"`
	RangeMin            float64    `json:"range_min"`
	AttackType          AttackType `json:"attack_type"`
	DamageType          DamageType `json:"damage_type"`
	Targets             StringList `json:"targets"`
	SplashRadius        float64    `json:"splash_radius"`
	CriticalChance      float64    `json:"critical_chance"`
	CriticalMultiplier  float64    `json:"critical_multiplier"`
	Bounce              int        `json:"bounce"`
	BounceRange         float64    `json:"bounce_range"`
	BounceDamageFalloff float64    `json:"bounce_damage_falloff"`
	PierceAdjacent      int        `json:"pierce_adjacent"`
	BeamMaxTargets      int        `json:"beam_max_targets"`
	TargetArmorType     StringList `json:"target_armor_type"`
	Traversable         bool       `json:"traversable"`
	Limit               int        `json:"limit"`
	ProjectileSpeed     float64    `json:"projectile_speed"`
	ProjectileAssetID   string     `json:"projectile_asset_id"`
	StatsGround         *StatBlock `json:"stats_ground"`
	StatsAir            *StatBlock `json:"stats_air"`
	TargetPriority      TargetMode `json:"target_priority"`

	Special Special      `json:"-"`
	Hit     HitModifiers `json:"-"`
}

var requiredTowerKeys = []string{
	"name", "grid_width", "grid_height", "cost", "damage_min", "damage_max",
	"attack_interval", "range", "attack_type", "damage_type", "targets",
}

// UnmarshalJSON checks required keys and decodes the special descriptor.
func (t *TowerDefinition) UnmarshalJSON(b []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(b, &keys); err != nil {
		return err
	}
	for _, k := range requiredTowerKeys {
		if _, ok := keys[k]; !ok {
			return invalid("tower: missing required field %q", k)
		}
	}

	type plain TowerDefinition
	aux := struct {
		*plain
		TargetSelection TargetMode      `json:"target_selection"`
		Special         json.RawMessage `json:"special"`
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return invalid("tower %q: %v", t.Name, err)
	}
	if t.TargetPriority == "" {
		t.TargetPriority = aux.TargetSelection
	}

	sp, mods, err := parseSpecial(aux.Special)
	if err != nil {
		return err
	}
	t.Special = sp
	t.Hit = mods
	return nil
}

// Validate applies defaults and checks value ranges.
func (t *TowerDefinition) Validate() error {
	if t.GridWidth < 1 || t.GridHeight < 1 {
		return invalid("tower %q: footprint must be at least 1x1", t.ID)
	}
	if t.Cost < 0 {
		return invalid("tower %q: negative cost", t.ID)
	}
	if t.DamageMax < t.DamageMin {
		return invalid("tower %q: damage_max below damage_min", t.ID)
	}
	if t.AttackInterval <= 0 {
		return invalid("tower %q: attack_interval must be positive", t.ID)
	}
	if !t.AttackType.valid() {
		return invalid("tower %q: unknown attack_type %q", t.ID, t.AttackType)
	}
	if len(t.Targets) == 0 {
		return invalid("tower %q: targets is empty", t.ID)
	}
	for _, tt := range t.Targets {
		if !TargetType(tt).valid() {
			return invalid("tower %q: unknown target type %q", t.ID, tt)
		}
	}
	if t.TargetPriority == "" {
		t.TargetPriority = TargetClosest
	}
	if !t.TargetPriority.valid() {
		return invalid("tower %q: unknown target priority %q", t.ID, t.TargetPriority)
	}
	if t.CriticalMultiplier == 0 {
		t.CriticalMultiplier = 1
	}
	if t.BounceDamageFalloff == 0 {
		t.BounceDamageFalloff = 1
	}
	if t.BeamMaxTargets < 1 {
		t.BeamMaxTargets = 1
	}
	return nil
}

// CanTarget reports whether the tower may attack the given enemy type.
func (t *TowerDefinition) CanTarget(tt TargetType) bool {
	return t.Targets.Contains(string(tt))
}

// DamageRange returns the roll bounds against a target type.
func (t *TowerDefinition) DamageRange(tt TargetType) (float64, float64) {
	switch {
	case tt == TargetGround && t.StatsGround != nil:
		return t.StatsGround.DamageMin, t.StatsGround.DamageMax
	case tt == TargetAir && t.StatsAir != nil:
		return t.StatsAir.DamageMin, t.StatsAir.DamageMax
	}
	return t.DamageMin, t.DamageMax
}

// Race is one selectable tower set.
type Race struct {
	ID          string                      `json:"-"`
	Name        string                      `json:"name"`
	Towers      map[string]*TowerDefinition `json:"towers"`
	DamageTypes map[string]string           `json:"damage_types"`
}

// TowerIDs returns the race's tower ids in stable order.
func (r *Race) TowerIDs() []string {
	ids := make([]string, 0, len(r.Towers))
	for id := range r.Towers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
