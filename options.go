package vivainsights

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/microsoft/vivainsights-go/internal/logger"
	"github.com/microsoft/vivainsights-go/internal/settings"
)

// config carries the shared knobs of the analysis functions. Each function
// reads only the fields it documents.
type config struct {
	mode     Mode
	minGroup int
	stats    bool
	percent  bool
	width    int

	idColumn   string
	dateColumn string
	metrics    []string
	title      string
	subtitle   string

	firstWeeks int
	lastWeeks  int
	flip       bool
	stdDev     float64
	maxTenure  float64
	hireColumn string

	hrvar        string
	weightColumn string
	exclusion    float64
	communities  bool
	resolution   float64
}

// Option adjusts a single analysis call.
type Option func(*config)

// sharedSettings loads the environment configuration once per process.
var sharedSettings = sync.OnceValue(func() *settings.Settings {
	s, err := settings.Load()
	if err != nil {
		logger.Warn("falling back to default settings", "error", err)
		return &settings.Settings{MinGroup: 5, ExportDir: "."}
	}
	if s.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	return s
})

func newConfig(opts []Option) config {
	cfg := config{
		mode:       ModePlot,
		minGroup:   sharedSettings().MinGroup,
		width:      72,
		idColumn:   "PersonId",
		firstWeeks: 6,
		lastWeeks:  6,
		maxTenure:  40,
		hireColumn: "HireDate",
		hrvar:      "Organization",
		exclusion:  0.1,
		resolution: 1,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithMode selects chart or table presentation for the Output.
func WithMode(m Mode) Option {
	return func(cfg *config) { cfg.mode = m }
}

// WithMinGroup overrides the minimum group size below which groups are
// suppressed. Values under one are ignored.
func WithMinGroup(n int) Option {
	return func(cfg *config) {
		if n >= 1 {
			cfg.minGroup = n
		}
	}
}

// WithStats adds standard deviation, median, minimum and maximum columns to
// summaries, computed over the person-level means of each group.
func WithStats() Option {
	return func(cfg *config) { cfg.stats = true }
}

// WithPercent annotates bar chart values as percentages.
func WithPercent() Option {
	return func(cfg *config) { cfg.percent = true }
}

// WithIDColumn overrides the entity identifier column, e.g. "MeetingId" for
// meeting queries. Defaults to "PersonId".
func WithIDColumn(name string) Option {
	return func(cfg *config) { cfg.idColumn = name }
}

// WithDateColumn overrides the date column used for time grouping and date
// windows. By default the column is auto-detected (Date, MetricDate or
// StartDate, in that order).
func WithDateColumn(name string) Option {
	return func(cfg *config) { cfg.dateColumn = name }
}

// WithMetrics restricts KeyMetricsScan to the given metric columns.
func WithMetrics(names ...string) Option {
	return func(cfg *config) { cfg.metrics = names }
}

// WithTitle overrides the chart title.
func WithTitle(title string) Option {
	return func(cfg *config) { cfg.title = title }
}

// WithSubtitle overrides the chart subtitle.
func WithSubtitle(subtitle string) Option {
	return func(cfg *config) { cfg.subtitle = subtitle }
}

// WithWindow sets how many of the first and last distinct weeks
// IdentifyChurn compares. Both default to six.
func WithWindow(first, last int) Option {
	return func(cfg *config) {
		if first >= 1 {
			cfg.firstWeeks = first
		}
		if last >= 1 {
			cfg.lastWeeks = last
		}
	}
}

// WithFlip switches IdentifyChurn from finding leavers to finding new
// joiners.
func WithFlip() Option {
	return func(cfg *config) { cfg.flip = true }
}

// WithStdDev sets the z-score threshold, in standard deviations below the
// mean, used by the screening functions.
func WithStdDev(sd float64) Option {
	return func(cfg *config) {
		if sd > 0 {
			cfg.stdDev = sd
		}
	}
}

// WithMaxTenure sets the tenure ceiling in years used by IdentifyTenure.
func WithMaxTenure(years float64) Option {
	return func(cfg *config) {
		if years > 0 {
			cfg.maxTenure = years
		}
	}
}

// WithHireDateColumn overrides the hire date column used by IdentifyTenure.
// Defaults to "HireDate".
func WithHireDateColumn(name string) Option {
	return func(cfg *config) { cfg.hireColumn = name }
}

// WithHRVar selects the organizational attribute attached to network
// vertices. Defaults to "Organization".
func WithHRVar(name string) Option {
	return func(cfg *config) { cfg.hrvar = name }
}

// WithWeightColumn selects the edge weight column for NetworkP2P. Without
// it every edge weighs one.
func WithWeightColumn(name string) Option {
	return func(cfg *config) { cfg.weightColumn = name }
}

// WithCommunities enables Louvain community detection on the collaboration
// graph. A resolution of one recovers standard modularity; lower values
// merge communities, higher values split them.
func WithCommunities(resolution float64) Option {
	return func(cfg *config) {
		cfg.communities = true
		if resolution > 0 {
			cfg.resolution = resolution
		}
	}
}

// WithExclusionThreshold sets the collaboration proportion below which
// NetworkG2G blanks cells in the plot. Defaults to 0.1. The table keeps
// every cell.
func WithExclusionThreshold(t float64) Option {
	return func(cfg *config) {
		if t >= 0 {
			cfg.exclusion = t
		}
	}
}

// WithWidth sets the character width of terminal charts.
func WithWidth(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.width = n
		}
	}
}
