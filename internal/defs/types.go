// internal/defs/types.go
package defs

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrDataInvalid marks malformed or incomplete data tables.
var ErrDataInvalid = errors.New("data invalid")

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrDataInvalid, fmt.Sprintf(format, args...))
}

func isInvalid(err error) bool {
	return errors.Is(err, ErrDataInvalid)
}

// DamageType is a key into the armor damage modifier table, e.g. "normal".
type DamageType string

// TargetType distinguishes walking and flying enemies.
type TargetType string

const (
	TargetGround TargetType = "ground"
	TargetAir    TargetType = "air"
)

func (t TargetType) valid() bool {
	return t == TargetGround || t == TargetAir
}

// AttackType defines how a tower delivers its damage.
type AttackType string

const (
	AttackProjectile AttackType = "projectile"
	AttackBeam       AttackType = "beam"
	AttackInstant    AttackType = "instant"
	AttackAura       AttackType = "aura"
	AttackHybrid     AttackType = "hybrid"
	AttackWhip       AttackType = "whip"
	AttackBroadside  AttackType = "broadside"
)

func (a AttackType) valid() bool {
	switch a {
	case AttackProjectile, AttackBeam, AttackInstant, AttackAura, AttackHybrid, AttackWhip, AttackBroadside:
		return true
	}
	return false
}

// TargetMode selects among valid enemies in range.
type TargetMode string

const (
	TargetClosest       TargetMode = "closest"
	TargetHighestHealth TargetMode = "highest_health"
	TargetLowestHealth  TargetMode = "lowest_health"
	TargetFurthest      TargetMode = "furthest"
	TargetRandom        TargetMode = "random"
)

func (m TargetMode) valid() bool {
	switch m {
	case TargetClosest, TargetHighestHealth, TargetLowestHealth, TargetFurthest, TargetRandom:
		return true
	}
	return false
}

// StringList accepts either a single JSON string or an array of strings.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		if single == "" {
			*l = nil
		} else {
			*l = StringList{single}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("expected string or array of strings: %w", err)
	}
	*l = many
	return nil
}

// Contains reports whether s is in the list.
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}
