// internal/defs/enemies.go
package defs

// EnemyDefinition holds the static stats of an enemy type.
type EnemyDefinition struct {
	ID         string     `json:"-"`
	Health     float64    `json:"health"`
	Speed      float64    `json:"speed"`
	Value      int        `json:"value"`
	ArmorType  string     `json:"armor_type"`
	ArmorValue float64    `json:"armor_value"`
	Type       TargetType `json:"type"`
	Boss       bool       `json:"boss"`
}

func (e *EnemyDefinition) Validate() error {
	if e.Health < 1 {
		return invalid("enemy %q: health must be at least 1", e.ID)
	}
	if e.Speed < 0 {
		return invalid("enemy %q: negative speed", e.ID)
	}
	if e.Value < 0 {
		return invalid("enemy %q: negative value", e.ID)
	}
	if e.Type == "" {
		e.Type = TargetGround
	}
	if !e.Type.valid() {
		return invalid("enemy %q: unknown type %q", e.ID, e.Type)
	}
	return nil
}
