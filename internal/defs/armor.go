// internal/defs/armor.go
package defs

// ArmorType holds per damage type multipliers.
type ArmorType struct {
	DamageModifiers map[DamageType]float64 `json:"damage_modifiers"`
}

// ArmorTable is keyed by armor name.
type ArmorTable map[string]ArmorType

// Modifier returns the damage multiplier of dmg against armor, 1.0 when unlisted.
func (a ArmorTable) Modifier(armor string, dmg DamageType) float64 {
	at, ok := a[armor]
	if !ok {
		return 1.0
	}
	if m, ok := at.DamageModifiers[dmg]; ok {
		return m
	}
	return 1.0
}
