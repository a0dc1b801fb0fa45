package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"visittrack/api/metrics"
	"visittrack/api/models"
	"visittrack/api/store"
)

// VisitPatcher updates the newest visit of a session.
type VisitPatcher interface {
	UpdateLatestForSession(ctx context.Context, sessionID string, patch models.VisitPatch) (int64, error)
}

type TrackHandlers struct {
	Visits  VisitPatcher
	Metrics *metrics.Metrics
}

func NewTrackHandlers(visits VisitPatcher, m *metrics.Metrics) *TrackHandlers {
	return &TrackHandlers{Visits: visits, Metrics: m}
}

func roundedInt(f *float64) *int {
	if f == nil {
		return nil
	}
	n := int(math.Round(*f))
	return &n
}

// BuildVisitPatch turns a beacon body into a patch. Absent fields stay nil.
func BuildVisitPatch(req models.TrackRequest) (models.VisitPatch, error) {
	patch := models.VisitPatch{
		Duration:  roundedInt(req.Duration),
		MaxScroll: roundedInt(req.MaxScroll),
		ChatUsed:  req.ChatUsed,
	}
	if req.SectionsViewed != nil {
		raw, err := json.Marshal(req.SectionsViewed)
		if err != nil {
			return patch, err
		}
		s := string(raw)
		patch.SectionsViewed = &s
	}
	return patch, nil
}

// Beacon applies client engagement metrics to the session's latest visit.
// It always answers 204: the page has usually been unloaded by then.
func (h *TrackHandlers) Beacon(c *gin.Context) {
	defer c.Status(http.StatusNoContent)

	var req models.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Debug("Beacon: unreadable body")
		h.Metrics.BeaconUpdates.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return
	}
	if req.SessionID == "" {
		h.Metrics.BeaconUpdates.WithLabelValues(metrics.OutcomeSkipped).Inc()
		return
	}

	patch, err := BuildVisitPatch(req)
	if err != nil {
		logrus.WithError(err).Warn("Beacon: could not serialize sections viewed")
		h.Metrics.BeaconUpdates.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return
	}
	if patch.Empty() {
		h.Metrics.BeaconUpdates.WithLabelValues(metrics.OutcomeSkipped).Inc()
		return
	}

	_, err = h.Visits.UpdateLatestForSession(c.Request.Context(), req.SessionID, patch)
	switch {
	case errors.Is(err, store.ErrNoVisit):
		logrus.WithField("session_id", req.SessionID).Debug("Beacon: no visit for session")
		h.Metrics.BeaconUpdates.WithLabelValues(metrics.OutcomeNoMatch).Inc()
	case err != nil:
		logrus.WithError(err).WithField("session_id", req.SessionID).Error("Track update error")
		h.Metrics.BeaconUpdates.WithLabelValues(metrics.OutcomeError).Inc()
	default:
		h.Metrics.BeaconUpdates.WithLabelValues(metrics.OutcomeOK).Inc()
	}
}
