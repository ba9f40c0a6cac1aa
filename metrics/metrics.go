// Package metrics holds the prometheus collectors for training events.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "drivetrainer"

var (
	Registrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Registration attempts by result.",
		},
		[]string{"result"}, // ok|duplicate|invalid|error
	)

	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		},
		[]string{"result"}, // ok|denied|invalid|error
	)

	RacesRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "races_recorded_total",
			Help:      "Races stored, by pass/fail.",
		},
		[]string{"passed"},
	)

	RaceErrorsRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "race_errors_recorded_total",
			Help:      "Race error events stored.",
		},
	)

	registerOnce sync.Once
)

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(Registrations, Logins, RacesRecorded, RaceErrorsRecorded)
	})
}
