package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/portindex/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// =============================================================================
// File Output
// =============================================================================

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Build Summary
// =============================================================================

// printBuildSummary prints the outcome of a pipeline run.
func printBuildSummary(res *pipeline.Result) {
	fmt.Println(StyleTitle.Render("Catalog built") + " " + StyleDim.Render(res.RunID))

	printKeyValue("registry", fmt.Sprintf("%d records, %d on GitHub", res.Registry.Records, res.Registry.GitHub))
	if res.Registry.Skipped > 0 {
		printWarning("%d registry records could not be decoded", res.Registry.Skipped)
	}
	printKeyValue("packages", StyleNumber.Render(fmt.Sprint(len(res.Packages))))
	printKeyValue("overrides", fmt.Sprintf("%d additions, %d packages changed", res.Additions, res.Overridden))
	if n := len(res.OverrideErrors); n > 0 {
		printWarning("%d override files rejected", n)
	}
	if res.Stats != nil {
		printKeyValue("stats", summaryLine(res.Stats.Repos, res.Stats.Failed, res.Stats.Enriched))
	}
	if res.Tags != nil {
		printKeyValue("tags", summaryLine(res.Tags.Repos, res.Tags.Failed, res.Tags.Enriched)+
			StyleDim.Render(fmt.Sprintf(" · %d skipped", res.Tags.Skipped)))
	}
	printKeyValue("duration", phaseDurations(res.Durations))

	if len(res.Artifacts) > 0 {
		names := make([]string, 0, len(res.Artifacts))
		for name := range res.Artifacts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			printFile(res.Artifacts[name])
		}
	}
}

func summaryLine(repos, failed, enriched int) string {
	parts := []string{
		fmt.Sprintf("%d repos", repos),
		fmt.Sprintf("%d packages", enriched),
	}
	line := strings.Join(parts, StyleDim.Render(" · "))
	if failed > 0 {
		line += StyleDim.Render(" · ") + StyleWarning.Render(fmt.Sprintf("%d failed", failed))
	}
	return line
}

// phaseDurations renders per-phase timings in execution order.
func phaseDurations(d map[string]time.Duration) string {
	var total time.Duration
	var parts []string
	for _, phase := range []string{
		pipeline.PhaseFetch, pipeline.PhaseNormalize, pipeline.PhaseOverrides,
		pipeline.PhaseStats, pipeline.PhaseTags, pipeline.PhasePersist,
	} {
		v, ok := d[phase]
		if !ok {
			continue
		}
		total += v
		parts = append(parts, fmt.Sprintf("%s %s", phase, v.Round(time.Millisecond)))
	}
	return total.Round(time.Millisecond).String() + StyleDim.Render(" ("+strings.Join(parts, ", ")+")")
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}
