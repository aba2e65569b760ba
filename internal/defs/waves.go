// internal/defs/waves.go
package defs

// WaveGroup spawns Count enemies of one type.
type WaveGroup struct {
	EnemyType     string  `json:"type"`
	Count         int     `json:"count"`
	SpawnInterval float64 `json:"spawn_interval"`
	InitialDelay  float64 `json:"initial_delay"`
}

// WaveDefinition is one entry of a mode's wave file.
type WaveDefinition struct {
	DelayBeforeWave float64     `json:"delay_before_wave"`
	CompletionBonus int         `json:"wave_completion_bonus"`
	Groups          []WaveGroup `json:"enemies"`
}

// TotalEnemies is the number of enemies the wave spawns.
func (w *WaveDefinition) TotalEnemies() int {
	n := 0
	for _, g := range w.Groups {
		n += g.Count
	}
	return n
}

func (w *WaveDefinition) validate(index int, enemies map[string]*EnemyDefinition) error {
	if w.DelayBeforeWave < 0 {
		return invalid("wave %d: negative delay_before_wave", index+1)
	}
	if w.CompletionBonus < 0 {
		return invalid("wave %d: negative wave_completion_bonus", index+1)
	}
	for i, g := range w.Groups {
		if _, ok := enemies[g.EnemyType]; !ok {
			return invalid("wave %d group %d: unknown enemy %q", index+1, i, g.EnemyType)
		}
		if g.Count < 0 || g.SpawnInterval < 0 || g.InitialDelay < 0 {
			return invalid("wave %d group %d: negative count or timing", index+1, i)
		}
	}
	return nil
}
