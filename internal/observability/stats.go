package observability

import (
	"sync"
	"sync/atomic"
)

type StatsSnapshot struct {
	ImportsTotal      uint64            `json:"imports_total"`
	DraftsExtracted   uint64            `json:"drafts_extracted"`
	ParseMisses       uint64            `json:"parse_misses"`
	AICalls           uint64            `json:"ai_calls"`
	ErrorsTotal       uint64            `json:"errors_total"`
	AnalyzeSecondsAvg float64           `json:"analyze_seconds_avg"`
	ImportsByChannel  map[string]uint64 `json:"imports_by_channel,omitempty"`
	ErrorsByType      map[string]uint64 `json:"errors_by_type,omitempty"`
	ErrorsByComponent map[string]uint64 `json:"errors_by_component,omitempty"`
}

var (
	importsTotal    uint64
	draftsExtracted uint64
	parseMisses     uint64
	aiCalls         uint64
	errorsTotal     uint64

	analyzeCount uint64
	analyzeNanos uint64

	statsMu           sync.Mutex
	importsByChannel  = map[string]uint64{}
	errorsByType      = map[string]uint64{}
	errorsByComponent = map[string]uint64{}
)

func IncImport(channel string) {
	if channel == "" {
		channel = "unknown"
	}
	atomic.AddUint64(&importsTotal, 1)
	statsMu.Lock()
	importsByChannel[channel]++
	statsMu.Unlock()
}

func IncDraftsExtracted(n int) {
	if n <= 0 {
		return
	}
	atomic.AddUint64(&draftsExtracted, uint64(n))
}

// IncParseMiss counts imports where no draft could be detected.
func IncParseMiss() {
	atomic.AddUint64(&parseMisses, 1)
}

func IncAICall() {
	atomic.AddUint64(&aiCalls, 1)
}

func ObserveAnalyzeDuration(seconds float64) {
	if seconds <= 0 {
		return
	}
	atomic.AddUint64(&analyzeCount, 1)
	atomic.AddUint64(&analyzeNanos, uint64(seconds*1e9))
}

func IncError(errType, component string) {
	if errType == "" {
		errType = "unknown"
	}
	if component == "" {
		component = "unknown"
	}
	atomic.AddUint64(&errorsTotal, 1)
	statsMu.Lock()
	errorsByType[errType]++
	errorsByComponent[component]++
	statsMu.Unlock()
}

func Snapshot() StatsSnapshot {
	statsMu.Lock()
	channelCopy := copyMap(importsByChannel)
	errorsTypeCopy := copyMap(errorsByType)
	errorsComponentCopy := copyMap(errorsByComponent)
	statsMu.Unlock()

	count := atomic.LoadUint64(&analyzeCount)
	avg := 0.0
	if count > 0 {
		avg = float64(atomic.LoadUint64(&analyzeNanos)) / float64(count) / 1e9
	}

	return StatsSnapshot{
		ImportsTotal:      atomic.LoadUint64(&importsTotal),
		DraftsExtracted:   atomic.LoadUint64(&draftsExtracted),
		ParseMisses:       atomic.LoadUint64(&parseMisses),
		AICalls:           atomic.LoadUint64(&aiCalls),
		ErrorsTotal:       atomic.LoadUint64(&errorsTotal),
		AnalyzeSecondsAvg: avg,
		ImportsByChannel:  channelCopy,
		ErrorsByType:      errorsTypeCopy,
		ErrorsByComponent: errorsComponentCopy,
	}
}

func copyMap(src map[string]uint64) map[string]uint64 {
	if len(src) == 0 {
		return map[string]uint64{}
	}
	out := make(map[string]uint64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
