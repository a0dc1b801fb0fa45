package models

import "time"

type DeviceType string

const (
	DeviceMobile  DeviceType = "mobile"
	DeviceTablet  DeviceType = "tablet"
	DeviceDesktop DeviceType = "desktop"
)

// Visit is one tracked page request. JSON names follow the column names.
type Visit struct {
	ID             int64      `json:"id"`
	Timestamp      time.Time  `json:"timestamp"`
	UTMSource      string     `json:"utm_source"`
	IP             string     `json:"ip"`
	UserAgent      string     `json:"user_agent"`
	Referrer       string     `json:"referrer"`
	PagePath       string     `json:"page_path"`
	Duration       int        `json:"duration"`
	DeviceType     DeviceType `json:"device_type"`
	SessionID      string     `json:"session_id"`
	MaxScroll      int        `json:"max_scroll"`
	SectionsViewed *string    `json:"sections_viewed"`
	ChatUsed       int        `json:"chat_used"`
}

// VisitPatch carries client-reported engagement metrics. Nil fields leave the
// stored value untouched.
type VisitPatch struct {
	Duration       *int
	MaxScroll      *int
	SectionsViewed *string
	ChatUsed       *bool
}

// Empty reports whether applying the patch would change nothing.
func (p VisitPatch) Empty() bool {
	return p.Duration == nil && p.MaxScroll == nil && p.SectionsViewed == nil && p.ChatUsed == nil
}

// Apply copies the set fields of p onto v.
func (p VisitPatch) Apply(v *Visit) {
	if p.Duration != nil {
		v.Duration = *p.Duration
	}
	if p.MaxScroll != nil {
		v.MaxScroll = *p.MaxScroll
	}
	if p.SectionsViewed != nil {
		s := *p.SectionsViewed
		v.SectionsViewed = &s
	}
	if p.ChatUsed != nil {
		v.ChatUsed = 0
		if *p.ChatUsed {
			v.ChatUsed = 1
		}
	}
}

// TrackRequest is the beacon body sent by the landing page.
type TrackRequest struct {
	SessionID      string   `json:"sessionId"`
	Duration       *float64 `json:"duration"`
	MaxScroll      *float64 `json:"maxScroll"`
	SectionsViewed any      `json:"sectionsViewed"`
	ChatUsed       *bool    `json:"chatUsed"`
}

type SourceCount struct {
	UTMSource string `json:"utm_source"`
	Count     int64  `json:"count"`
}

type Stats struct {
	TotalViews     int64         `json:"totalViews"`
	UniqueVisitors int64         `json:"uniqueVisitors"`
	AvgDuration    int64         `json:"avgDuration"`
	LastVisit      *time.Time    `json:"lastVisit,omitempty"`
	BySource       []SourceCount `json:"bySource"`
}
