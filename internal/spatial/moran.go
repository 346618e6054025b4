package spatial

import (
	"math"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/spatial-analytics/internal/domain"
	apperrors "github.com/spatial-analytics/internal/pkg/errors"
)

// MoranOptions - параметры перестановочного теста значимости
type MoranOptions struct {
	// Permutations - число случайных перестановок (0 = 999)
	Permutations int
	// Workers - число горутин (0 = NumCPU)
	Workers int
	// Seed - зерно генератора; 0 означает недетерминированное зерно
	Seed int64
}

const defaultPermutations = 999

// MoranI вычисляет глобальный индекс Морана переменной y против весов w:
// I = (N/S0) * sum_ij w_ij*z_i*z_j / sum_i z_i^2, z = y - mean(y).
// Для переменной без дисперсии индекс по определению равен нулю.
func MoranI(y []float64, w *domain.SpatialWeights) (float64, error) {
	if len(y) != w.N {
		return 0, apperrors.Newf(apperrors.CodeAnalysisError,
			"Variable length %d does not match weight structure size %d", len(y), w.N)
	}
	z := centered(y)
	den := floats.Dot(z, z)
	if den == 0 {
		return 0, nil
	}
	return moranFromCentered(z, den, w), nil
}

// MoranTest вычисляет индекс Морана и его перестановочную значимость.
// p-значение - доля перестановок со статистикой не менее экстремальной,
// чем наблюдаемая (свернутая к меньшему хвосту), z-оценка стандартизует
// наблюдаемый индекс относительно перестановочного распределения.
// Перестановки независимы и считаются параллельно.
func MoranTest(y []float64, w *domain.SpatialWeights, opts MoranOptions) (*domain.MoranResult, error) {
	observed, err := MoranI(y, w)
	if err != nil {
		return nil, err
	}

	z := centered(y)
	den := floats.Dot(z, z)
	if den == 0 {
		// константная переменная: коррелировать нечего
		return &domain.MoranResult{MoranI: 0, PValue: 1, ZScore: 0, GroupSize: len(y)}, nil
	}

	perms := opts.Permutations
	if perms <= 0 {
		perms = defaultPermutations
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > perms {
		workers = perms
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sim := make([]float64, perms)

	var wg sync.WaitGroup
	for worker := 0; worker < workers; worker++ {
		start := worker * perms / workers
		end := (worker + 1) * perms / workers

		wg.Add(1)
		go func(worker, start, end int) {
			defer wg.Done()

			rng := rand.New(rand.NewSource(seed + int64(worker)))
			shuffled := make([]float64, len(z))
			copy(shuffled, z)

			for p := start; p < end; p++ {
				rng.Shuffle(len(shuffled), func(i, j int) {
					shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
				})
				sim[p] = moranFromCentered(shuffled, den, w)
			}
		}(worker, start, end)
	}
	wg.Wait()

	larger := 0
	for _, s := range sim {
		if s >= observed {
			larger++
		}
	}
	if perms-larger < larger {
		larger = perms - larger
	}
	pValue := float64(larger+1) / float64(perms+1)

	mean := stat.Mean(sim, nil)
	sd := popStdDev(sim, mean)
	zScore := 0.0
	if sd > 0 {
		zScore = (observed - mean) / sd
	}

	return &domain.MoranResult{
		MoranI:    observed,
		PValue:    pValue,
		ZScore:    zScore,
		GroupSize: len(y),
	}, nil
}

func moranFromCentered(z []float64, den float64, w *domain.SpatialWeights) float64 {
	var num float64
	for i, nbrs := range w.Neighbors {
		for k, j := range nbrs {
			num += w.Weights[i][k] * z[i] * z[j]
		}
	}
	return float64(w.N) / w.S0() * num / den
}

func centered(y []float64) []float64 {
	mean := stat.Mean(y, nil)
	z := make([]float64, len(y))
	for i, v := range y {
		z[i] = v - mean
	}
	return z
}

// popStdDev - стандартное отклонение по генеральной совокупности;
// перестановочное распределение полное, поправка Бесселя не нужна
func popStdDev(xs []float64, mean float64) float64 {
	var sum float64
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}
