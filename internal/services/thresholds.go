package services

// Calibration constants for the detectors, consensus engine, predictions,
// and insight analyzers. Values are defaults, not medical limits; keeping
// them in one place makes recalibration a one-line change.
const (
	// Basal body temperature shift detection.
	BBTShiftFahrenheit      = 0.2
	BBTTrailingWindowDays   = 3
	BBTMinSustainedReadings = 2
	BBTMinReadings          = 4

	// Cervical mucus peak detection.
	MucusTransitionWindowDays = 4

	// Ovulation consensus.
	ClusterToleranceDays  = 2
	ConfirmationThreshold = 0.6
	CorroborationBonus    = 0.15

	// Cycle plausibility and defaults.
	MinPlausibleCycleLength = 21
	MaxPlausibleCycleLength = 35
	DefaultLutealPhaseDays  = 14

	// Fertile window span: five days before ovulation plus ovulation day.
	FertileWindowDays = 5

	// Default phase bands, 1-based cycle days.
	MenstrualPhaseLastDay       = 5
	FollicularPhaseLastDay      = 13
	OvulationWindowPhaseLastDay = 16

	// Cycle-length spread breakpoints, in days of standard deviation.
	RegularCycleStdevDays  = 2.0
	VariableCycleStdevDays = 4.0
	ErraticCycleStdevDays  = 7.0

	// Insight analyzer cutoffs.
	SymptomFrequencyCutoff = 0.20
	DominantMoodCutoff     = 0.40
	PreMenstrualScanDays   = 7

	// Insight engine batching.
	MinLogsForInsights  = 30
	InsightBatchSize    = 10
	InsightWindowMonths = 6
)
