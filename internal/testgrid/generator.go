package testgrid

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
	"strconv"

	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/laptime"
	"github.com/David-MyRaceDay/grid-builder-sub000/pkg/logger"
)

// Synthetic lap shape (seconds). Base times step by class and by driver so
// every entrant's laps land on distinct milliseconds.
const (
	baseLapSeconds   = 81.0
	classGapSeconds  = 3.5
	driverGapSeconds = 0.111
	lapSpreadSeconds = 0.037
	lapJitterSeconds = 0.02

	practiceFastDelta = -0.25
	practiceSlowDelta = 0.5

	trackLengthKm  = 4.3
	secondsPerHour = 3600

	randomFloatDivisor = 1000000
)

// pointsTable awards championship points by finishing position.
var pointsTable = []int{25, 18, 15, 12, 10, 8, 6, 4, 2, 1}

var firstNames = []string{
	"Alice", "Bruno", "Chen", "Dana", "Egon", "Fatima", "Goro", "Hanna",
	"Ivan", "Jade", "Kofi", "Lena", "Marco", "Nadia", "Oscar", "Priya",
}

var lastNames = []string{
	"Harper", "Keller", "Wei", "Ortiz", "Sandberg", "Noor", "Tanaka", "Berg",
	"Petrov", "Okafor", "Mensah", "Fischer", "Rossi", "Haddad", "Lind", "Kaur",
}

// classPool names the synthetic classes, fastest first.
var classPool = []string{"GT3", "GT4", "TCR", "GT2", "Cup", "AM"}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// entrant is one synthetic driver with heat and practice laps.
type entrant struct {
	name     string
	number   string
	class    string
	heat     []float64
	practice []float64
}

// field is the full synthetic entry list.
type field struct {
	entrants []entrant
	classes  []string
}

// generateField builds the synthetic entry list. Every entrant appears in
// both sessions so consolidation pools laps across files; even-indexed
// entrants run faster practice laps than heat laps, so either session can
// own a driver's overall best.
func generateField(ctx context.Context, config *Config, stats *Stats) (*field, error) {
	switch {
	case config.Drivers < 1 || config.Drivers > MaxDrivers:
		return nil, fmt.Errorf("drivers must be between 1 and %d", MaxDrivers)
	case config.Classes < 1 || config.Classes > MaxClasses:
		return nil, fmt.Errorf("classes must be between 1 and %d", MaxClasses)
	case config.Laps < MinLaps:
		return nil, fmt.Errorf("laps must be at least %d", MinLaps)
	}

	logger.Get().Info(ctx, "generating synthetic field",
		logger.Int("drivers", config.Drivers),
		logger.Int("classes", config.Classes),
		logger.Int("laps", config.Laps))

	f := &field{classes: append([]string(nil), classPool[:config.Classes]...)}
	for i := 0; i < config.Drivers; i++ {
		e := entrant{
			name:   firstNames[i%len(firstNames)] + " " + lastNames[(i/len(firstNames))%len(lastNames)],
			number: strconv.Itoa(i + 2),
			class:  f.classes[i%config.Classes],
		}
		base := baseLapSeconds + classGapSeconds*float64(i%config.Classes) + driverGapSeconds*float64(i)

		first := base + getRandomFloat()*lapJitterSeconds
		e.heat = []float64{first, first + lapSpreadSeconds + getRandomFloat()*lapJitterSeconds}

		practiceBase := base + practiceSlowDelta
		if i%2 == 0 {
			practiceBase = base + practiceFastDelta
		}
		for l := 0; l < config.Laps; l++ {
			lap := practiceBase + lapSpreadSeconds*float64(l) + getRandomFloat()*lapJitterSeconds
			e.practice = append(e.practice, lap)
		}
		f.entrants = append(f.entrants, e)
	}

	stats.DriversGenerated = len(f.entrants)
	logger.Get().Info(ctx, "generated field", logger.Int("drivers", len(f.entrants)))
	return f, nil
}

// heatCSV renders the tabular session: one header row, one row per entrant,
// ordered and pointed by heat best time.
func (f *field) heatCSV() []byte {
	order := make([]int, len(f.entrants))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return f.entrants[order[a]].heat[0] < f.entrants[order[b]].heat[0]
	})

	var buf bytes.Buffer
	buf.WriteString("Position,No.,Name,Class,Best Tm,2nd Best,PIC,Points\n")
	classCounts := make(map[string]int, len(f.classes))
	for pos, idx := range order {
		e := &f.entrants[idx]
		classCounts[e.class]++
		points := 0
		if pos < len(pointsTable) {
			points = pointsTable[pos]
		}
		fmt.Fprintf(&buf, "%d,%s,%s,%s,%s,%s,%d,%d\n",
			pos+1, e.number, e.name, e.class,
			laptime.Format(e.heat[0]), laptime.Format(e.heat[1]),
			classCounts[e.class], points)
	}
	return buf.Bytes()
}

// practiceLog renders the lap-by-driver session: a "Number - Name - Class"
// header per entrant followed by numbered lap rows with trap speeds.
func (f *field) practiceLog() []byte {
	var buf bytes.Buffer
	for i := range f.entrants {
		e := &f.entrants[i]
		if i > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, "%s - %s - %s\n", e.number, e.name, e.class)
		for l, seconds := range e.practice {
			speed := trackLengthKm * secondsPerHour / seconds
			fmt.Fprintf(&buf, "%d %s %.1f\n", l+1, laptime.Format(seconds), speed)
		}
	}
	return buf.Bytes()
}

// waveSplit spreads the classes across two waves, front-loading the first
// and leaving a slot gap behind it. A single class keeps one wave.
func waveSplit(classes []string) []WaveConfig {
	if len(classes) <= 1 {
		return []WaveConfig{{
			WaveNumber: 1,
			StartType:  "flying",
			Classes:    append([]string(nil), classes...),
			SortBy:     "bestTime",
		}}
	}
	half := (len(classes) + 1) / 2
	return []WaveConfig{
		{
			WaveNumber:     1,
			StartType:      "flying",
			Classes:        append([]string(nil), classes[:half]...),
			SortBy:         "bestTime",
			EmptyPositions: waveGapSlots,
		},
		{
			WaveNumber: 2,
			StartType:  "flying",
			Classes:    append([]string(nil), classes[half:]...),
			SortBy:     "bestTime",
		},
	}
}
