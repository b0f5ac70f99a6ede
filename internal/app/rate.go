package app

import (
	"time"

	"github.com/ayusman/airkeys/internal/capture"
)

// rateController switches the camera between the active and idle frame
// rates. Motion only affects the rate; tracking runs on every frame so a
// still hand keeps dwelling.
type rateController struct {
	cam        capture.Camera
	enabled    bool
	active     bool
	lastMotion time.Time
	dirty      bool
}

func newRateController(cam capture.Camera, enabled bool) *rateController {
	return &rateController{cam: cam, enabled: enabled, active: true}
}

// observe records one motion sample taken at now and reports the new mode
// when it changed.
func (r *rateController) observe(moving bool, now time.Time) (string, bool) {
	if !r.enabled {
		return "", false
	}
	if r.lastMotion.IsZero() {
		r.lastMotion = now
	}

	if moving {
		r.lastMotion = now
		if !r.active {
			r.active = true
			r.cam.SetFPS(ActiveFPS)
			r.dirty = true
			return "active", true
		}
		return "", false
	}

	if r.active && now.Sub(r.lastMotion) > IdleTimeout {
		r.active = false
		r.cam.SetFPS(IdleFPS)
		r.dirty = true
		return "idle", true
	}
	return "", false
}

// changed reports, once, that the camera rate was switched.
func (r *rateController) changed() bool {
	d := r.dirty
	r.dirty = false
	return d
}
