package testgrid

import "time"

// Config holds configuration for the grid exercise
type Config struct {
	BaseURL   string        // Base URL of the service
	Drivers   int           // Number of synthetic drivers to generate
	Classes   int           // Number of classes to spread drivers across
	Laps      int           // Practice laps per driver in the lap log
	Timeout   time.Duration // HTTP request timeout
	OutputDir string        // Directory for saved fixtures
	LogFile   string        // Log file for test output
	KeepFiles bool          // Save generated fixtures to disk
	Verbose   bool          // Enable verbose logging
}

// FileInfo mirrors the upload acknowledgement.
type FileInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Rows int    `json:"rows"`
}

// TimedValue mirrors one normalized lap time.
type TimedValue struct {
	Seconds float64 `json:"seconds"`
	Display string  `json:"display"`
	Source  string  `json:"source"`
}

// DriverRecord mirrors one consolidated roster record.
type DriverRecord struct {
	Name                  string      `json:"name"`
	Number                string      `json:"number"`
	Class                 string      `json:"class"`
	Contributions         int         `json:"contributions"`
	BestOverallTime       *TimedValue `json:"best_overall_time"`
	SecondBestOverallTime *TimedValue `json:"second_best_overall_time"`
}

// WaveConfig mirrors one wave's configuration.
type WaveConfig struct {
	WaveNumber     int      `json:"wave_number"`
	StartType      string   `json:"start_type"`
	Classes        []string `json:"classes"`
	SortBy         string   `json:"sort_by"`
	EmptyPositions int      `json:"empty_positions,omitempty"`
}

// GridEntry mirrors one slotted grid entry.
type GridEntry struct {
	Slot       int         `json:"slot"`
	Number     string      `json:"number"`
	Driver     string      `json:"driver"`
	Class      string      `json:"class"`
	BestTime   *TimedValue `json:"best_time"`
	SecondBest *TimedValue `json:"second_best"`
}

// GridWave mirrors one realized wave.
type GridWave struct {
	Config   WaveConfig  `json:"config"`
	Entries  []GridEntry `json:"entries"`
	Modified bool        `json:"modified"`
}

// Grid mirrors the realized starting grid.
type Grid struct {
	Waves []GridWave `json:"waves"`
}

// ExportRow mirrors one flattened export line.
type ExportRow struct {
	Slot       int    `json:"slot"`
	Wave       int    `json:"wave"`
	Number     string `json:"number"`
	Driver     string `json:"driver"`
	Class      string `json:"class"`
	BestTime   string `json:"best_time"`
	SecondBest string `json:"second_best"`
}

// EntryTarget addresses one grid entry by one-based wave and zero-based index.
type EntryTarget struct {
	Wave  int `json:"wave"`
	Index int `json:"index"`
}

// ClassMoveRequest shifts a class block one step within its wave.
type ClassMoveRequest struct {
	Wave      int    `json:"wave"`
	Class     string `json:"class"`
	Direction string `json:"direction"`
}

// MutationResponse mirrors the mutation acknowledgement.
type MutationResponse struct {
	Applied bool `json:"applied"`
}

// StatusResponse mirrors simple status acknowledgements.
type StatusResponse struct {
	Status string `json:"status"`
}

// Stats holds exercise statistics
type Stats struct {
	DriversGenerated int
	FilesUploaded    int
	RowsAccepted     int
	ChecksRun        int
	ChecksPassed     int
	ChecksFailed     int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
