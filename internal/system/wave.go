// internal/system/wave.go
package system

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/camerensmith/supermaultd/internal/component"
	"github.com/camerensmith/supermaultd/internal/config"
	"github.com/camerensmith/supermaultd/internal/defs"
	"github.com/camerensmith/supermaultd/internal/entity"
	"github.com/camerensmith/supermaultd/internal/event"
)

// WaveSystem is the wave scheduler: Idle, Waiting, Spawning, Intermission,
// then Waiting for the next wave until AllDone.
type WaveSystem struct {
	ecs             *entity.ECS
	lib             *defs.Library
	movement        *MovementSystem
	eventDispatcher *event.Dispatcher
	logger          zerolog.Logger

	// OnUnlock is called once when the wave index reaches the unlock wave.
	OnUnlock func()
	unlocked bool
}

func NewWaveSystem(ecs *entity.ECS, lib *defs.Library, movement *MovementSystem, eventDispatcher *event.Dispatcher, logger zerolog.Logger) *WaveSystem {
	return &WaveSystem{
		ecs:             ecs,
		lib:             lib,
		movement:        movement,
		eventDispatcher: eventDispatcher,
		logger:          logger,
	}
}

// StartWave starts the schedule. It is honoured only once, from Idle.
func (s *WaveSystem) StartWave() bool {
	w := s.ecs.Wave
	if w.State != component.WaveIdle || w.Started || len(s.lib.Waves) == 0 {
		return false
	}
	w.Started = true
	s.wait(0)
	return true
}

func (s *WaveSystem) wait(index int) {
	w := s.ecs.Wave
	w.CurrentIndex = index
	w.State = component.WaveWaiting
	w.Timer = s.lib.Waves[index].DelayBeforeWave
	if index >= config.UnlockWaveIndex && !s.unlocked {
		s.unlocked = true
		s.logger.Info().Int("wave", index).Msg("unlock wave reached")
		if s.OnUnlock != nil {
			s.OnUnlock()
		}
	}
}

// Update advances the scheduler and every active wave by dt.
func (s *WaveSystem) Update(deltaTime float64) Result {
	var res Result
	w := s.ecs.Wave

	// A wave that begins mid-tick has only run for the overshoot of the delay.
	started, carry := -1, 0.0
	if w.State == component.WaveWaiting {
		w.Timer -= deltaTime
		if w.Timer <= 0 {
			started, carry = w.CurrentIndex, math.Min(-w.Timer, deltaTime)
			s.begin(w.CurrentIndex)
		}
	}
	elapsed := func(a *component.ActiveWave) float64 {
		if a.Index == started {
			return carry
		}
		return deltaTime
	}

	if cur := w.Current(); cur != nil && !cur.TimedOut &&
		(w.State == component.WaveSpawning || w.State == component.WaveIntermission) {
		cur.TimeLimit -= elapsed(cur)
		if cur.TimeLimit <= 0 {
			cur.TimeLimit = 0
			cur.TimedOut = true
			s.logger.Info().Int("wave", cur.Index).Msg("wave time limit expired")
			if cur.Index+1 < len(s.lib.Waves) {
				s.wait(cur.Index + 1)
			}
		}
	}

	for _, a := range append([]*component.ActiveWave(nil), w.Active...) {
		s.spawnGroups(a, elapsed(a))
		if a.Index == w.CurrentIndex && w.State == component.WaveSpawning && a.SpawningDone() {
			w.State = component.WaveIntermission
		}
		if a.SpawningDone() && a.Alive == 0 && !a.Completed {
			res.Merge(s.complete(a))
		}
	}
	return res
}

func (s *WaveSystem) begin(index int) {
	w := s.ecs.Wave
	def := s.lib.Waves[index]
	a := &component.ActiveWave{Index: index, TimeLimit: config.WaveTimeLimit}
	for _, g := range def.Groups {
		a.Groups = append(a.Groups, &component.SpawnGroup{
			EnemyType:    g.EnemyType,
			Remaining:    g.Count,
			InitialDelay: g.InitialDelay,
			Interval:     g.SpawnInterval,
			Timer:        g.InitialDelay,
		})
	}
	w.Active = append(w.Active, a)
	w.State = component.WaveSpawning
	s.eventDispatcher.Emit(event.WaveStarted, event.WaveEvent{Index: index})
	s.logger.Info().Int("wave", index).Int("enemies", def.TotalEnemies()).Msg("wave started")
}

func (s *WaveSystem) spawnGroups(a *component.ActiveWave, deltaTime float64) {
	for _, g := range a.Groups {
		if g.Remaining <= 0 {
			continue
		}
		g.Timer -= deltaTime
		if g.Timer > 0 {
			continue
		}
		if !g.Started {
			g.Started = true
		}
		s.spawn(a, g)
		if g.Interval > 0 {
			g.Timer += g.Interval
			for g.Timer <= 0 && g.Remaining > 0 {
				s.spawn(a, g)
				g.Timer += g.Interval
			}
		} else {
			g.Timer = 0
		}
	}
}

func (s *WaveSystem) spawn(a *component.ActiveWave, g *component.SpawnGroup) {
	g.Remaining--
	def, ok := s.lib.Enemy(g.EnemyType)
	if !ok {
		s.logger.Error().Str("enemy", g.EnemyType).Msg("unknown enemy type in wave")
		return
	}
	id, ok := s.movement.Spawn(def, a.Index)
	if !ok {
		return
	}
	a.Alive++
	a.Spawned++
	e, _ := s.ecs.Enemies.Get(id)
	s.eventDispatcher.Emit(event.EnemySpawned, event.EnemyEvent{ID: id, DefID: def.ID, X: e.X, Y: e.Y})
}

// OnEnemyRemoved records a death or leak against the enemy's wave. A wave
// whose spawning is done and whose last enemy just left completes here, so
// the next delay starts at this moment.
func (s *WaveSystem) OnEnemyRemoved(waveIndex int) Result {
	for _, a := range s.ecs.Wave.Active {
		if a.Index != waveIndex {
			continue
		}
		a.Alive--
		a.Removed++
		if a.SpawningDone() && a.Alive == 0 && !a.Completed {
			return s.complete(a)
		}
		return Result{}
	}
	return Result{}
}

func (s *WaveSystem) complete(a *component.ActiveWave) Result {
	var res Result
	w := s.ecs.Wave
	a.Completed = true
	bonus := s.lib.Waves[a.Index].CompletionBonus
	current := a.Index == w.CurrentIndex && !a.TimedOut
	if current {
		a.TimeBonus = TimeBonus(a.TimeLimit)
	}
	res.addGold(bonus, "wave_completion_bonus")
	res.addGold(a.TimeBonus, "wave_time_bonus")

	kept := w.Active[:0]
	for _, o := range w.Active {
		if o != a {
			kept = append(kept, o)
		}
	}
	w.Active = kept

	s.eventDispatcher.Emit(event.WaveCompleted, event.WaveEvent{Index: a.Index, Bonus: bonus, TimeBonus: a.TimeBonus})
	s.logger.Info().Int("wave", a.Index).Int("bonus", bonus).Int("time_bonus", a.TimeBonus).Msg("wave completed")

	if a.Index == w.CurrentIndex {
		if a.Index+1 < len(s.lib.Waves) {
			s.wait(a.Index + 1)
		} else {
			w.State = component.WaveAllDone
		}
	}
	return res
}

// TimeBonus converts the seconds left on a wave's timer into bonus gold.
func TimeBonus(remaining float64) int {
	b := int(math.Floor(remaining))
	if b < 0 {
		return 0
	}
	if b > config.MaxTimeBonus {
		return config.MaxTimeBonus
	}
	return b
}

// QueueEntry previews enemies still to spawn.
type QueueEntry struct {
	EnemyType string
	Remaining int
}

// Queue lists the unspawned enemies of active waves, or the next wave's
// groups while waiting for it.
func (s *WaveSystem) Queue() []QueueEntry {
	w := s.ecs.Wave
	var out []QueueEntry
	for _, a := range w.Active {
		for _, g := range a.Groups {
			if g.Remaining > 0 {
				out = append(out, QueueEntry{EnemyType: g.EnemyType, Remaining: g.Remaining})
			}
		}
	}
	if (w.State == component.WaveWaiting || w.State == component.WaveIdle) && w.CurrentIndex < len(s.lib.Waves) && w.Current() == nil {
		for _, g := range s.lib.Waves[w.CurrentIndex].Groups {
			out = append(out, QueueEntry{EnemyType: g.EnemyType, Remaining: g.Count})
		}
	}
	return out
}

// TimeRemaining is the time limit left on the current wave.
func (s *WaveSystem) TimeRemaining() float64 {
	if cur := s.ecs.Wave.Current(); cur != nil {
		return cur.TimeLimit
	}
	return 0
}
