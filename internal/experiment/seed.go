package experiment

import "github.com/mitchelldurbincs/GoldfishSimulator/internal/trial"

// Stream salts keep the derived seed families apart
const (
	pointStream    uint64 = 0x5ce7a10
	strategyStream uint64 = 0x57a7e6
)

// mix is the splitmix64 finalizer over base+idx
func mix(base, idx uint64) uint64 {
	x := base + idx + 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// TrialSeed derives the game seed of trial i from the experiment seed
func TrialSeed(base int64, i int) int64 {
	return int64(mix(uint64(base), uint64(i)))
}

// PointSeed derives the experiment seed of scenario grid point idx
func PointSeed(base int64, idx int) int64 {
	return int64(mix(uint64(base)^pointStream, uint64(idx)))
}

// StrategySeed derives the strategy stream from a trial's game seed
func StrategySeed(gameSeed int64) int64 {
	return int64(mix(uint64(gameSeed), strategyStream))
}

// TrialSeeds returns both random streams of trial i
func TrialSeeds(base int64, i int) trial.Seeds {
	game := TrialSeed(base, i)
	return trial.Seeds{Game: game, Strategy: StrategySeed(game)}
}
