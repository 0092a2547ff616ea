package device

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Rumbler drives the vibration motors of the primary controller.
type Rumbler interface {
	Rumble(intensity uint16) error
}

// RumbleProfile is a named vibration preset.
type RumbleProfile struct {
	Name      string
	Intensity uint16
	Duration  time.Duration
}

// Rumble runs timed vibrations on a Rumbler.
type Rumble struct {
	r        Rumbler
	log      logrus.FieldLogger
	profiles map[string]RumbleProfile
	left     time.Duration
	scale    func() float64
}

// NewRumble creates a rumble driver. r may be nil, in which case rumbling
// is a no-op. scale returns a multiplier in [0, 1] applied to intensities;
// nil means full strength.
func NewRumble(r Rumbler, profiles []RumbleProfile, scale func() float64, log logrus.FieldLogger) *Rumble {
	ps := make(map[string]RumbleProfile, len(profiles))
	for _, p := range profiles {
		ps[p.Name] = p
	}
	return &Rumble{r: r, log: log, profiles: ps, scale: scale}
}

// Start vibrates at intensity for d.
func (r *Rumble) Start(intensity uint16, d time.Duration) {
	if r.r == nil {
		return
	}
	if r.scale != nil {
		intensity = uint16(float64(intensity) * min(max(r.scale(), 0), 1))
	}
	if err := r.r.Rumble(intensity); err != nil {
		r.log.WithError(err).Error("rumble failed")
		return
	}
	r.left = d
}

// Play starts a named profile. Unknown names are logged and ignored.
func (r *Rumble) Play(name string) {
	p, ok := r.profiles[name]
	if !ok {
		r.log.WithField("profile", name).Warn("unknown rumble profile")
		return
	}
	r.Start(p.Intensity, p.Duration)
}

// Stop ends any running vibration.
func (r *Rumble) Stop() {
	r.left = 0
	if r.r != nil {
		_ = r.r.Rumble(0)
	}
}

// Active reports whether a vibration is running.
func (r *Rumble) Active() bool {
	return r.left > 0
}

// Update advances the vibration timer by dt and stops it when elapsed.
func (r *Rumble) Update(dt time.Duration) {
	if r.left <= 0 {
		return
	}
	r.left -= dt
	if r.left <= 0 {
		r.Stop()
	}
}

// DefaultRumbleProfiles returns the presets used when none are configured.
func DefaultRumbleProfiles() []RumbleProfile {
	return []RumbleProfile{
		{Name: "select", Intensity: 12000, Duration: 80 * time.Millisecond},
		{Name: "confirm", Intensity: 24000, Duration: 150 * time.Millisecond},
		{Name: "error", Intensity: 40000, Duration: 300 * time.Millisecond},
	}
}

// LogRumbler records vibrations in the log, for platforms without a
// vibration backend.
type LogRumbler struct {
	Log logrus.FieldLogger
}

func (l LogRumbler) Rumble(intensity uint16) error {
	l.Log.WithField("intensity", intensity).Debug("rumble")
	return nil
}
