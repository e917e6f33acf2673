package metrics

import (
	"testing"
	"time"
)

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("bootstrap", time.Millisecond)
	r.ObserveBuildDuration(time.Second)
	r.IncStageResult("bootstrap", ResultSuccess)
	r.IncBuildOutcome("success")
	r.AddPagesRendered(1)
	r.SetEventsSourced(1)

	var _ Recorder = (*PrometheusRecorder)(nil)
}
