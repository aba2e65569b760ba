// internal/defs/special.go
package defs

import (
	"encoding/json"
)

// Effect is the tag of a tower special.
type Effect string

const (
	EffectSalvo                Effect = "salvo_attack"
	EffectShotgun              Effect = "shotgun"
	EffectQuillspray           Effect = "quillspray"
	EffectGattling             Effect = "gattling_spin_up"
	EffectBerserk              Effect = "berserk_trigger"
	EffectRampage              Effect = "rampage_damage_stack"
	EffectBombardment          Effect = "random_bombardment"
	EffectBribe                Effect = "bribe_kill"
	EffectChainZap             Effect = "chain_zap"
	EffectApplyMark            Effect = "apply_mark"
	EffectGoldGeneration       Effect = "gold_generation"
	EffectRandomGold           Effect = "random_gold_generation"
	EffectTowerBuffAura        Effect = "tower_buff_aura"
	EffectDotAmplification     Effect = "dot_amplification_aura"
	EffectCritPulseAura        Effect = "crit_damage_pulse_aura"
	EffectAdjacencyBuff        Effect = "adjacency_buff"
	EffectDamageAura           Effect = "damage_aura"
	EffectSlowAura             Effect = "slow_aura"
	EffectRadianceAura         Effect = "radiance_aura"
	EffectStormAura            Effect = "storm_aura"
	EffectVortexAura           Effect = "vortex_damage_aura"
	EffectArmorReductionAura   Effect = "enemy_armor_reduction_aura"
	EffectDamagePulseAura      Effect = "damage_pulse_aura"
	EffectSlowPulseAura        Effect = "slow_pulse_aura"
	EffectStunPulseAura        Effect = "stun_pulse_aura"
	EffectBonechillPulseAura   Effect = "bonechill_pulse_aura"
	EffectDotPulseAura         Effect = "dot_pulse_aura"
	EffectLaserPainter         Effect = "laser_painter"
	EffectGrenade              Effect = "grenade"
	EffectCluster              Effect = "cluster"
	EffectHarpoon              Effect = "harpoon"
	EffectPassThroughExploder  Effect = "pass_through_exploder"
	EffectOrbit                Effect = "orbit"
	EffectGroundEffect         Effect = "ground_effect"
	EffectWalkover             Effect = "walkover"
	EffectSelfDestruct         Effect = "self_destruct"
	EffectDotOnHit             Effect = "dot_on_hit"
	effectNone                 Effect = ""
)

// Special is one variant of the tower special tagged union.
type Special interface {
	Effect() Effect
}

// Salvo fires Count shots in total per trigger, Interval seconds apart.
type Salvo struct {
	Count    int     `json:"salvo_count"`
	Interval float64 `json:"salvo_interval"`
}

// Shotgun fires Pellets straight projectiles across SpreadDeg degrees.
type Shotgun struct {
	Pellets          int     `json:"pellets"`
	SpreadDeg        float64 `json:"spread_angle"`
	Range            float64 `json:"pellet_range"`
	Speed            float64 `json:"pellet_speed"`
	DamageMultiplier float64 `json:"pellet_damage_multiplier"`
}

// Quillspray fires Quills straight projectiles evenly around the full circle.
type Quillspray struct {
	Quills           int     `json:"quills"`
	Range            float64 `json:"quill_range"`
	Speed            float64 `json:"quill_speed"`
	DamageMultiplier float64 `json:"quill_damage_multiplier"`
}

type Gattling struct {
	MaxLevel        int     `json:"max_level"`
	TimePerLevel    float64 `json:"time_per_level"`
	SpeedMultiplier float64 `json:"speed_multiplier_per_level"`
	DecayTime       float64 `json:"decay_time"`
}

type Berserk struct {
	Chance           float64 `json:"chance"`
	Duration         float64 `json:"duration"`
	DamageMultiplier float64 `json:"damage_multiplier"`
}

type Rampage struct {
	DamagePerStack float64 `json:"damage_per_stack"`
	MaxStacks      int     `json:"max_stacks"`
	DecayDuration  float64 `json:"decay_duration"`
}

// Bombardment strikes a random point within Radius of the tower every Interval.
type Bombardment struct {
	Interval     float64 `json:"interval"`
	Radius       float64 `json:"radius"`
	StrikeRadius float64 `json:"strike_radius"`
	Damage       float64 `json:"damage"`
}

type Bribe struct {
	Interval float64    `json:"interval"`
	Chance   float64    `json:"chance"`
	Cost     int        `json:"cost"`
	Excluded StringList `json:"excluded_enemies"`
}

type ChainZap struct {
	ChainRadius    float64 `json:"chain_radius"`
	DamagePerTower float64 `json:"damage_per_tower"`
}

type ApplyMark struct {
	Status   string  `json:"mark_status"`
	Duration float64 `json:"mark_duration"`
}

type GoldGeneration struct {
	Interval float64 `json:"interval"`
	Amount   int     `json:"amount"`
}

type RandomGold struct {
	Interval float64 `json:"interval"`
	Min      int     `json:"min_amount"`
	Max      int     `json:"max_amount"`
}

// TowerBuffAura is a continuous buff applied to other towers within Radius.
type TowerBuffAura struct {
	Radius              float64 `json:"radius"`
	AttackSpeedBonus    float64 `json:"attack_speed_bonus"`
	DamageBonus         float64 `json:"damage_bonus"`
	CritChanceBonus     float64 `json:"crit_chance_bonus"`
	CritMultiplierBonus float64 `json:"crit_multiplier_bonus"`
	SplashRadiusBonus   float64 `json:"splash_radius_bonus"`
	AirDamageMultiplier float64 `json:"air_damage_multiplier"`
}

type DotAmplificationAura struct {
	Radius     float64 `json:"radius"`
	Multiplier float64 `json:"multiplier"`
}

// CritPulseAura grants a timed crit buff to towers in range on every pulse.
type CritPulseAura struct {
	Radius              float64 `json:"radius"`
	Interval            float64 `json:"interval"`
	CritChanceBonus     float64 `json:"crit_chance_bonus"`
	CritMultiplierBonus float64 `json:"crit_multiplier_bonus"`
	Duration            float64 `json:"duration"`
}

// AdjacencyBuff applies to towers sharing a footprint edge.
type AdjacencyBuff struct {
	DamageBonus float64 `json:"damage_bonus"`
	SpeedBonus  float64 `json:"speed_bonus"`
}

// ContinuousAura covers damage, slow, radiance and storm auras.
type ContinuousAura struct {
	Kind           Effect  `json:"-"`
	Radius         float64 `json:"radius"`
	DotDamage      float64 `json:"dot_damage"`
	DotInterval    float64 `json:"dot_interval"`
	SlowMultiplier float64 `json:"slow_multiplier"`
	StunChance     float64 `json:"stun_chance"`
	StunDuration   float64 `json:"stun_duration"`
}

type VortexAura struct {
	Radius            float64 `json:"radius"`
	MinDamageAtEdge   float64 `json:"min_damage_at_edge"`
	MaxDamageAtCenter float64 `json:"max_damage_at_center"`
	TickInterval      float64 `json:"tick_interval"`
	SlowMultiplier    float64 `json:"slow_multiplier"`
}

type ArmorReductionAura struct {
	Radius float64 `json:"radius"`
	Amount float64 `json:"armor_reduction"`
}

// PulseAura covers every *_pulse_aura that hits enemies.
type PulseAura struct {
	Kind           Effect  `json:"-"`
	Radius         float64 `json:"radius"`
	Interval       float64 `json:"interval"`
	Damage         float64 `json:"damage"`
	SlowMultiplier float64 `json:"slow_multiplier"`
	Duration       float64 `json:"duration"`
	StunChance     float64 `json:"stun_chance"`
	DotDamage      float64 `json:"dot_damage"`
	DotInterval    float64 `json:"dot_interval"`
	DotDuration    float64 `json:"dot_duration"`
}

type LaserPainter struct {
	ChargeDuration   float64 `json:"charge_duration"`
	DamageMultiplier float64 `json:"damage_multiplier"`
}

type Grenade struct {
	Gravity         float64 `json:"gravity"`
	DetonationTime  float64 `json:"detonation_time"`
	TowerBounces    int     `json:"tower_bounces"`
	BounceSpeedLoss float64 `json:"bounce_speed_loss"`
	ExplosionRadius float64 `json:"explosion_radius"`
}

type Cluster struct {
	DetonationTime         float64 `json:"detonation_time"`
	Pellets                int     `json:"pellets"`
	SpreadDeg              float64 `json:"spread_angle"`
	PelletDamageMultiplier float64 `json:"pellet_damage_multiplier"`
	PelletDetonationTime   float64 `json:"pellet_detonation_time"`
	ExplosionRadius        float64 `json:"explosion_radius"`
}

type Harpoon struct {
	PullDuration        float64 `json:"pull_duration"`
	ShearMultiplier     float64 `json:"shear_multiplier"`
	PullDamagePerSecond float64 `json:"pull_damage_per_second"`
	StunDuration        float64 `json:"stun_duration"`
}

type PassThroughExploder struct {
	Interval                  float64 `json:"interval"`
	TravelDistance            float64 `json:"travel_distance"`
	Speed                     float64 `json:"speed"`
	ExplosionRadius           float64 `json:"explosion_radius"`
	ExplosionDamageMultiplier float64 `json:"explosion_damage_multiplier"`
	PassCooldown              float64 `json:"pass_cooldown"`
}

type Orbit struct {
	Count            int     `json:"count"`
	OrbitRadius      float64 `json:"orbit_radius"`
	AngularSpeed     float64 `json:"angular_speed"`
	HitCooldown      float64 `json:"hit_cooldown"`
	DamageMultiplier float64 `json:"damage_multiplier"`
}

// ZoneSpec describes a ground-effect zone left behind on impact.
type ZoneSpec struct {
	Radius         float64 `json:"radius"`
	Duration       float64 `json:"duration"`
	TickInterval   float64 `json:"tick_interval"`
	DamagePerTick  float64 `json:"damage_per_tick"`
	SlowMultiplier float64 `json:"slow_multiplier"`
}

type GroundEffect struct {
	Zone ZoneSpec
}

type Walkover struct {
	Damage       float64 `json:"damage"`
	StunDuration float64 `json:"stun_duration"`
	Cooldown     float64 `json:"cooldown"`
}

type SelfDestruct struct {
	TriggerRadius   float64 `json:"trigger_radius"`
	ExplosionRadius float64 `json:"explosion_radius"`
	Damage          float64 `json:"damage"`
}

// DotOnHit has no behaviour of its own; its DoT lives in HitModifiers.
type DotOnHit struct{}

func (*Salvo) Effect() Effect                { return EffectSalvo }
func (*Shotgun) Effect() Effect              { return EffectShotgun }
func (*Quillspray) Effect() Effect           { return EffectQuillspray }
func (*Gattling) Effect() Effect             { return EffectGattling }
func (*Berserk) Effect() Effect              { return EffectBerserk }
func (*Rampage) Effect() Effect              { return EffectRampage }
func (*Bombardment) Effect() Effect          { return EffectBombardment }
func (*Bribe) Effect() Effect                { return EffectBribe }
func (*ChainZap) Effect() Effect             { return EffectChainZap }
func (*ApplyMark) Effect() Effect            { return EffectApplyMark }
func (*GoldGeneration) Effect() Effect       { return EffectGoldGeneration }
func (*RandomGold) Effect() Effect           { return EffectRandomGold }
func (*TowerBuffAura) Effect() Effect        { return EffectTowerBuffAura }
func (*DotAmplificationAura) Effect() Effect { return EffectDotAmplification }
func (*CritPulseAura) Effect() Effect        { return EffectCritPulseAura }
func (*AdjacencyBuff) Effect() Effect        { return EffectAdjacencyBuff }
func (a *ContinuousAura) Effect() Effect     { return a.Kind }
func (*VortexAura) Effect() Effect           { return EffectVortexAura }
func (*ArmorReductionAura) Effect() Effect   { return EffectArmorReductionAura }
func (a *PulseAura) Effect() Effect          { return a.Kind }
func (*LaserPainter) Effect() Effect         { return EffectLaserPainter }
func (*Grenade) Effect() Effect              { return EffectGrenade }
func (*Cluster) Effect() Effect              { return EffectCluster }
func (*Harpoon) Effect() Effect              { return EffectHarpoon }
func (*PassThroughExploder) Effect() Effect  { return EffectPassThroughExploder }
func (*Orbit) Effect() Effect                { return EffectOrbit }
func (*GroundEffect) Effect() Effect         { return EffectGroundEffect }
func (*Walkover) Effect() Effect             { return EffectWalkover }
func (*SelfDestruct) Effect() Effect         { return EffectSelfDestruct }
func (*DotOnHit) Effect() Effect             { return EffectDotOnHit }

// HitModifiers are the on-hit keys any special object may carry next to its tag.
type HitModifiers struct {
	DotName       string     `json:"dot_name"`
	DotDamage     float64    `json:"dot_damage"`
	DotInterval   float64    `json:"dot_interval"`
	DotDuration   float64    `json:"dot_duration"`
	DotDamageType DamageType `json:"dot_damage_type"`

	ArmorReductionOnHit float64 `json:"armor_reduction_on_hit"`
	BashChance          float64 `json:"bash_chance"`
	BashDuration        float64 `json:"bash_duration"`
	MaxHPReduction      float64 `json:"max_hp_reduction"`
	IgnoreArmorOnHit    float64 `json:"ignore_armor_on_hit"`
	IgnoreArmorChance   float64 `json:"ignore_armor_chance"`
	IgnoreArmorAmount   float64 `json:"ignore_armor_amount"`

	BlastZoneRadius            float64 `json:"blast_zone_radius"`
	CritSplashRadiusMultiplier float64 `json:"crit_splash_radius_multiplier"`
	DistanceDamageBonus        float64 `json:"distance_damage_bonus"`

	MarkStatus        string  `json:"-"`
	MarkDuration      float64 `json:"-"`
	ShatterStatus     string  `json:"shatter_status"`
	ShatterMultiplier float64 `json:"shatter_multiplier"`

	BountyGold     int `json:"bounty_gold"`
	GoldCostPerHit int `json:"gold_cost_per_hit"`

	Linger float64   `json:"linger"`
	Zone   *ZoneSpec `json:"ground_zone"`
}

// HasDot reports whether a DoT should be applied on hit.
func (m *HitModifiers) HasDot() bool {
	return m != nil && m.DotDamage > 0 && m.DotInterval > 0 && m.DotDuration > 0
}

type specialTag struct {
	Effect Effect `json:"effect"`
}

// parseSpecial decodes the tagged special object. A missing or null object
// yields a nil Special and zero modifiers.
func parseSpecial(raw json.RawMessage) (Special, HitModifiers, error) {
	var mods HitModifiers
	if len(raw) == 0 || string(raw) == "null" {
		return nil, mods, nil
	}
	var tag specialTag
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, mods, invalid("special: %v", err)
	}
	if err := json.Unmarshal(raw, &mods); err != nil {
		return nil, mods, invalid("special %q modifiers: %v", tag.Effect, err)
	}

	var sp Special
	switch tag.Effect {
	case effectNone:
		return nil, mods, nil
	case EffectSalvo:
		sp = &Salvo{}
	case EffectShotgun:
		sp = &Shotgun{}
	case EffectQuillspray:
		sp = &Quillspray{}
	case EffectGattling:
		sp = &Gattling{}
	case EffectBerserk:
		sp = &Berserk{}
	case EffectRampage:
		sp = &Rampage{}
	case EffectBombardment:
		sp = &Bombardment{}
	case EffectBribe:
		sp = &Bribe{}
	case EffectChainZap:
		sp = &ChainZap{}
	case EffectApplyMark:
		sp = &ApplyMark{}
	case EffectGoldGeneration:
		sp = &GoldGeneration{}
	case EffectRandomGold:
		sp = &RandomGold{}
	case EffectTowerBuffAura:
		sp = &TowerBuffAura{}
	case EffectDotAmplification:
		sp = &DotAmplificationAura{}
	case EffectCritPulseAura:
		sp = &CritPulseAura{}
	case EffectAdjacencyBuff:
		sp = &AdjacencyBuff{}
	case EffectDamageAura, EffectSlowAura, EffectRadianceAura, EffectStormAura:
		sp = &ContinuousAura{Kind: tag.Effect}
	case EffectVortexAura:
		sp = &VortexAura{}
	case EffectArmorReductionAura:
		sp = &ArmorReductionAura{}
	case EffectDamagePulseAura, EffectSlowPulseAura, EffectStunPulseAura, EffectBonechillPulseAura, EffectDotPulseAura:
		sp = &PulseAura{Kind: tag.Effect}
	case EffectLaserPainter:
		sp = &LaserPainter{}
	case EffectGrenade:
		sp = &Grenade{}
	case EffectCluster:
		sp = &Cluster{}
	case EffectHarpoon:
		sp = &Harpoon{}
	case EffectPassThroughExploder:
		sp = &PassThroughExploder{}
	case EffectOrbit:
		sp = &Orbit{}
	case EffectGroundEffect:
		ge := &GroundEffect{}
		if err := json.Unmarshal(raw, &ge.Zone); err != nil {
			return nil, mods, invalid("special %q: %v", tag.Effect, err)
		}
		sp = ge
	case EffectWalkover:
		sp = &Walkover{}
	case EffectSelfDestruct:
		sp = &SelfDestruct{}
	case EffectDotOnHit:
		sp = &DotOnHit{}
	default:
		return nil, mods, invalid("unknown special effect %q", tag.Effect)
	}

	if _, isZone := sp.(*GroundEffect); !isZone {
		if err := json.Unmarshal(raw, sp); err != nil {
			return nil, mods, invalid("special %q: %v", tag.Effect, err)
		}
	}
	if m, ok := sp.(*ApplyMark); ok {
		mods.MarkStatus = m.Status
		mods.MarkDuration = m.Duration
	}
	if err := validateSpecial(sp, &mods); err != nil {
		return nil, mods, err
	}
	return sp, mods, nil
}

func validateSpecial(sp Special, mods *HitModifiers) error {
	positive := func(name string, v float64) error {
		if v <= 0 {
			return invalid("special %q: %s must be positive", sp.Effect(), name)
		}
		return nil
	}
	switch s := sp.(type) {
	case *Salvo:
		if s.Count < 1 {
			return invalid("special %q: salvo_count must be at least 1", sp.Effect())
		}
		return positive("salvo_interval", s.Interval)
	case *Shotgun:
		if s.Pellets < 1 {
			return invalid("special %q: pellets must be at least 1", sp.Effect())
		}
	case *Quillspray:
		if s.Quills < 1 {
			return invalid("special %q: quills must be at least 1", sp.Effect())
		}
	case *Gattling:
		if s.MaxLevel < 1 {
			return invalid("special %q: max_level must be at least 1", sp.Effect())
		}
		if err := positive("time_per_level", s.TimePerLevel); err != nil {
			return err
		}
		return positive("speed_multiplier_per_level", s.SpeedMultiplier)
	case *Rampage:
		return positive("decay_duration", s.DecayDuration)
	case *Bombardment:
		return positive("interval", s.Interval)
	case *Bribe:
		return positive("interval", s.Interval)
	case *ChainZap:
		return positive("chain_radius", s.ChainRadius)
	case *ApplyMark:
		if s.Status == "" {
			return invalid("special %q: mark_status is required", sp.Effect())
		}
		return positive("mark_duration", s.Duration)
	case *GoldGeneration:
		return positive("interval", s.Interval)
	case *RandomGold:
		if s.Max < s.Min {
			return invalid("special %q: max_amount below min_amount", sp.Effect())
		}
		return positive("interval", s.Interval)
	case *CritPulseAura:
		return positive("interval", s.Interval)
	case *ContinuousAura:
		if s.DotDamage > 0 {
			return positive("dot_interval", s.DotInterval)
		}
	case *VortexAura:
		return positive("tick_interval", s.TickInterval)
	case *PulseAura:
		return positive("interval", s.Interval)
	case *LaserPainter:
		return positive("charge_duration", s.ChargeDuration)
	case *Cluster:
		if s.Pellets < 1 {
			return invalid("special %q: pellets must be at least 1", sp.Effect())
		}
	case *Harpoon:
		return positive("pull_duration", s.PullDuration)
	case *PassThroughExploder:
		if err := positive("travel_distance", s.TravelDistance); err != nil {
			return err
		}
		return positive("interval", s.Interval)
	case *Orbit:
		if s.Count < 1 {
			return invalid("special %q: count must be at least 1", sp.Effect())
		}
	case *GroundEffect:
		if err := positive("duration", s.Zone.Duration); err != nil {
			return err
		}
		return positive("tick_interval", s.Zone.TickInterval)
	case *DotOnHit:
		if !mods.HasDot() {
			return invalid("special %q: dot_damage, dot_interval and dot_duration are required", sp.Effect())
		}
	}
	return nil
}
