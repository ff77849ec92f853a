package solvers

import (
	"github.com/go-argmin/argmin/argerr"
	"github.com/go-argmin/argmin/kv"
	"github.com/go-argmin/argmin/mathx"
	"github.com/go-argmin/argmin/problem"
	"github.com/go-argmin/argmin/state"
)

// PSOVector is the capability a particle's position/velocity type must
// satisfy: difference (to steer toward a best position) and a fused
// scaled-add (to apply weighted velocity and coefficient terms without
// an intermediate allocation per term).
type PSOVector[F mathx.Float, Self any] interface {
	mathx.Suber[Self, Self]
	mathx.ScaledAdder[F, Self, Self]
}

// ParticleSwarm is the canonical PSO update: each particle's velocity is
// a weighted blend of its own inertia, a pull toward its personal best,
// and a pull toward the swarm's global best, with both pulls scaled by
// independent random draws each iteration. The caller owns rng (per the
// engine's RNG-ownership rule: stochastic solvers accept a
// caller-supplied, caller-seeded source so runs are reproducible) and
// supplies the initial swarm via the executor's Configure closure,
// calling PopulationState.SetPopulation directly.
type ParticleSwarm[Prob any, P PSOVector[F, P], F mathx.Float] struct {
	rng       mathx.Rand
	inertia   F
	cognitive F
	social    F
}

// NewParticleSwarm returns a ParticleSwarm with the given coefficients,
// drawing its random terms from rng. Typical values are inertia 0.729,
// cognitive 1.49445, social 1.49445 (the Clerc-Kennedy constriction
// constants), but callers may tune them.
func NewParticleSwarm[Prob any, P PSOVector[F, P], F mathx.Float](rng mathx.Rand, inertia, cognitive, social F) *ParticleSwarm[Prob, P, F] {
	return &ParticleSwarm[Prob, P, F]{rng: rng, inertia: inertia, cognitive: cognitive, social: social}
}

func (s *ParticleSwarm[Prob, P, F]) Name() string { return "particle_swarm" }

func (s *ParticleSwarm[Prob, P, F]) Init(w *problem.Wrapper[Prob], st *state.PopulationState[P, F]) (*state.PopulationState[P, F], *kv.KV, error) {
	pop := st.Population()
	if len(pop) == 0 {
		return st, nil, argerr.New(argerr.CodeNotInitialized, "particle swarm requires a non-empty initial population").WithField("population")
	}

	evaluated := make([]state.Particle[P, F], len(pop))
	for i, p := range pop {
		cost, err := problem.Cost[Prob, P, F](w, p.Position)
		if err != nil {
			return st, nil, err
		}
		evaluated[i] = p
		evaluated[i].Cost = cost
		evaluated[i].BestPosition = p.Position
		evaluated[i].BestCost = cost
	}
	st.SetPopulation(evaluated)

	snapshot := kv.New().Set("population_size", kv.Uint(uint64(len(evaluated))))
	return st, snapshot, nil
}

func (s *ParticleSwarm[Prob, P, F]) NextIter(w *problem.Wrapper[Prob], st *state.PopulationState[P, F]) (*state.PopulationState[P, F], *kv.KV, error) {
	pop := st.Population()
	globalBest, ok := st.BestParam()
	if !ok {
		return st, nil, argerr.New(argerr.CodeNotInitialized, "particle swarm state has no global best; Init must run first")
	}

	next := make([]state.Particle[P, F], len(pop))
	for i, p := range pop {
		r1 := F(s.rng.Float64())
		r2 := F(s.rng.Float64())

		// velocity = inertia*v + cognitive*r1*(personalBest-x) + social*r2*(globalBest-x)
		scaledVel, err := p.Velocity.ScaledAdd(s.inertia-F(1), p.Velocity)
		if err != nil {
			return st, nil, err
		}
		toPersonal, err := p.BestPosition.Sub(p.Position)
		if err != nil {
			return st, nil, err
		}
		toGlobal, err := globalBest.Sub(p.Position)
		if err != nil {
			return st, nil, err
		}
		withCognitive, err := scaledVel.ScaledAdd(s.cognitive*r1, toPersonal)
		if err != nil {
			return st, nil, err
		}
		newVel, err := withCognitive.ScaledAdd(s.social*r2, toGlobal)
		if err != nil {
			return st, nil, err
		}

		newPos, err := p.Position.ScaledAdd(F(1), newVel)
		if err != nil {
			return st, nil, err
		}
		cost, err := problem.Cost[Prob, P, F](w, newPos)
		if err != nil {
			return st, nil, err
		}

		particle := state.Particle[P, F]{
			Position:     newPos,
			Cost:         cost,
			BestPosition: p.BestPosition,
			BestCost:     p.BestCost,
			Velocity:     newVel,
		}
		if cost < p.BestCost {
			particle.BestPosition = newPos
			particle.BestCost = cost
		}
		next[i] = particle
	}

	st.Update(next)

	snapshot := kv.New().Set("best_cost", kv.Float(float64(st.BestCost())))
	return st, snapshot, nil
}

func (s *ParticleSwarm[Prob, P, F]) Terminate(st *state.PopulationState[P, F]) state.TerminationStatus {
	return state.NotTerminated()
}
