package adaptive

import (
	"context"

	"github.com/kbukum/scribe/audio"
)

// Analysis is what Transcribe would do with a file, computed without
// calling the provider or writing anything.
type Analysis struct {
	Audio        *audio.Descriptor `json:"audio"`
	Conditioning audio.Decision    `json:"conditioning"`
	Provider     string            `json:"provider"`
	// Temperature is the first temperature Transcribe would use.
	Temperature float64 `json:"predicted_temperature"`
	// Rejection is set when Transcribe would refuse the file on duration.
	Rejection string `json:"rejection,omitempty"`
}

// Analyze characterizes the file at path and reports the conditioning
// decision and starting temperature. Only an unreadable file is an error.
func (d *Driver) Analyze(ctx context.Context, path string) (*Analysis, error) {
	desc, err := d.characterizer.Analyze(ctx, path)
	if err != nil {
		return nil, err
	}
	a := &Analysis{
		Audio:        desc,
		Conditioning: d.conditioner.Decide(desc),
		Provider:     d.Provider(),
		Temperature:  d.cfg.Temperatures[0],
	}
	if !d.cfg.UseProductionService {
		a.Temperature = SimpleTemperature(desc.DurationSeconds)
	}
	if err := audio.CheckDuration(desc, d.audioCfg.MinDuration, d.audioCfg.MaxDuration); err != nil {
		a.Rejection = err.Error()
	}
	return a, nil
}
